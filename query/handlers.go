package query

import (
	"context"

	"github.com/goliatone/go-meetup/core"
)

type ProfileReader interface {
	FetchProfile(ctx context.Context, done core.Completion[core.User], opts ...core.CallOption) *core.Handle
}

type GroupSearcher interface {
	SearchGroups(
		ctx context.Context,
		search core.GroupSearch,
		done core.Completion[[]core.Group],
		opts ...core.CallOption,
	) *core.Handle
}

type EventLister interface {
	ListEvents(
		ctx context.Context,
		groupURLName string,
		done core.Completion[[]core.Event],
		opts ...core.CallOption,
	) *core.Handle
}

type RSVPLister interface {
	ListRSVPs(
		ctx context.Context,
		eventID string,
		groupURLName string,
		done core.Completion[[]core.RSVP],
		opts ...core.CallOption,
	) *core.Handle
}

// FetchProfileQuery blocks on the profile call until it delivers or ctx
// ends.
type FetchProfileQuery struct {
	reader ProfileReader
}

func NewFetchProfileQuery(reader ProfileReader) *FetchProfileQuery {
	return &FetchProfileQuery{reader: reader}
}

func (q *FetchProfileQuery) Query(ctx context.Context, msg FetchProfileMessage) (core.User, error) {
	if q == nil || q.reader == nil {
		return core.User{}, queryDependencyError("query: profile reader is required")
	}
	if err := msg.Validate(); err != nil {
		return core.User{}, err
	}
	return core.Await(ctx, func(done core.Completion[core.User]) *core.Handle {
		return q.reader.FetchProfile(ctx, done, callOptions(msg.Timeout)...)
	})
}

type SearchGroupsQuery struct {
	searcher GroupSearcher
}

func NewSearchGroupsQuery(searcher GroupSearcher) *SearchGroupsQuery {
	return &SearchGroupsQuery{searcher: searcher}
}

func (q *SearchGroupsQuery) Query(ctx context.Context, msg SearchGroupsMessage) ([]core.Group, error) {
	if q == nil || q.searcher == nil {
		return nil, queryDependencyError("query: group searcher is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return core.Await(ctx, func(done core.Completion[[]core.Group]) *core.Handle {
		return q.searcher.SearchGroups(ctx, msg.search(), done, callOptions(msg.Timeout)...)
	})
}

type ListEventsQuery struct {
	lister EventLister
}

func NewListEventsQuery(lister EventLister) *ListEventsQuery {
	return &ListEventsQuery{lister: lister}
}

func (q *ListEventsQuery) Query(ctx context.Context, msg ListEventsMessage) ([]core.Event, error) {
	if q == nil || q.lister == nil {
		return nil, queryDependencyError("query: event lister is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return core.Await(ctx, func(done core.Completion[[]core.Event]) *core.Handle {
		return q.lister.ListEvents(ctx, msg.GroupURLName, done, callOptions(msg.Timeout)...)
	})
}

type ListRSVPsQuery struct {
	lister RSVPLister
}

func NewListRSVPsQuery(lister RSVPLister) *ListRSVPsQuery {
	return &ListRSVPsQuery{lister: lister}
}

func (q *ListRSVPsQuery) Query(ctx context.Context, msg ListRSVPsMessage) ([]core.RSVP, error) {
	if q == nil || q.lister == nil {
		return nil, queryDependencyError("query: rsvp lister is required")
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return core.Await(ctx, func(done core.Completion[[]core.RSVP]) *core.Handle {
		return q.lister.ListRSVPs(ctx, msg.EventID, msg.GroupURLName, done, callOptions(msg.Timeout)...)
	})
}
