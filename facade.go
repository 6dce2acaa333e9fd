package meetup

import (
	"context"
	"fmt"

	commanddispatcher "github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-meetup/adapters/gocommand"
	meetupcommand "github.com/goliatone/go-meetup/command"
	"github.com/goliatone/go-meetup/core"
	meetupquery "github.com/goliatone/go-meetup/query"
)

// MeetupReader is the asynchronous surface the queriers block on.
type MeetupReader interface {
	meetupquery.ProfileReader
	meetupquery.GroupSearcher
	meetupquery.EventLister
	meetupquery.RSVPLister
}

type Queries struct {
	FetchProfile *meetupquery.FetchProfileQuery
	SearchGroups *meetupquery.SearchGroupsQuery
	ListEvents   *meetupquery.ListEventsQuery
	ListRSVPs    *meetupquery.ListRSVPsQuery
}

type Facade struct {
	reader  MeetupReader
	queries Queries
}

func NewFacade(reader MeetupReader) (*Facade, error) {
	if reader == nil {
		return nil, fmt.Errorf("meetup: reader is required")
	}
	return &Facade{
		reader: reader,
		queries: Queries{
			FetchProfile: meetupquery.NewFetchProfileQuery(reader),
			SearchGroups: meetupquery.NewSearchGroupsQuery(reader),
			ListEvents:   meetupquery.NewListEventsQuery(reader),
			ListRSVPs:    meetupquery.NewListRSVPsQuery(reader),
		},
	}, nil
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Reader() MeetupReader {
	if f == nil {
		return nil
	}
	return f.reader
}

func (f *Facade) FetchProfile(ctx context.Context) (User, error) {
	return f.Queries().FetchProfile.Query(ctx, meetupquery.FetchProfileMessage{})
}

func (f *Facade) SearchGroups(ctx context.Context, search GroupSearch) ([]Group, error) {
	return f.Queries().SearchGroups.Query(ctx, meetupquery.SearchGroupsMessage{
		ZipCode: search.ZipCode,
		Text:    search.Text,
	})
}

func (f *Facade) ListEvents(ctx context.Context, groupURLName string) ([]Event, error) {
	return f.Queries().ListEvents.Query(ctx, meetupquery.ListEventsMessage{GroupURLName: groupURLName})
}

func (f *Facade) ListRSVPs(ctx context.Context, eventID string, groupURLName string) ([]RSVP, error) {
	return f.Queries().ListRSVPs.Query(ctx, meetupquery.ListRSVPsMessage{
		EventID:      eventID,
		GroupURLName: groupURLName,
	})
}

// Register subscribes the four queriers on the go-command dispatcher and
// records them in adapter. On failure the subscriptions made so far are
// removed.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) ([]commanddispatcher.Subscription, error) {
	if f == nil {
		return nil, fmt.Errorf("meetup: facade is nil")
	}
	if adapter == nil {
		adapter = gocommand.NewRegistryAdapter(nil)
	}
	queries := f.Queries()
	subscriptions := make([]commanddispatcher.Subscription, 0, 4)
	register := func(subscription commanddispatcher.Subscription, err error) error {
		if err != nil {
			for _, existing := range subscriptions {
				existing.Unsubscribe()
			}
			subscriptions = nil
			return err
		}
		subscriptions = append(subscriptions, subscription)
		return nil
	}

	if err := register(gocommand.RegisterAndSubscribeQuery[meetupquery.FetchProfileMessage, core.User](adapter, queries.FetchProfile)); err != nil {
		return nil, err
	}
	if err := register(gocommand.RegisterAndSubscribeQuery[meetupquery.SearchGroupsMessage, []core.Group](adapter, queries.SearchGroups)); err != nil {
		return nil, err
	}
	if err := register(gocommand.RegisterAndSubscribeQuery[meetupquery.ListEventsMessage, []core.Event](adapter, queries.ListEvents)); err != nil {
		return nil, err
	}
	if err := register(gocommand.RegisterAndSubscribeQuery[meetupquery.ListRSVPsMessage, []core.RSVP](adapter, queries.ListRSVPs)); err != nil {
		return nil, err
	}
	return subscriptions, nil
}

// RegisterTokenCommands subscribes the token save and revoke commanders on
// the go-command dispatcher and records them in adapter.
func RegisterTokenCommands(adapter *gocommand.RegistryAdapter, tokens meetupcommand.TokenWriter) ([]commanddispatcher.Subscription, error) {
	if tokens == nil {
		return nil, fmt.Errorf("meetup: token writer is required")
	}
	if adapter == nil {
		adapter = gocommand.NewRegistryAdapter(nil)
	}
	save, err := gocommand.RegisterAndSubscribe[meetupcommand.SaveTokenMessage](adapter, meetupcommand.NewSaveTokenCommand(tokens))
	if err != nil {
		return nil, err
	}
	revoke, err := gocommand.RegisterAndSubscribe[meetupcommand.RevokeTokenMessage](adapter, meetupcommand.NewRevokeTokenCommand(tokens))
	if err != nil {
		save.Unsubscribe()
		return nil, err
	}
	return []commanddispatcher.Subscription{save, revoke}, nil
}
