package query

import (
	"strings"
	"time"

	"github.com/goliatone/go-meetup/core"
)

const (
	TypeFetchProfile = "meetup.query.profile.fetch"
	TypeSearchGroups = "meetup.query.groups.search"
	TypeListEvents   = "meetup.query.events.list"
	TypeListRSVPs    = "meetup.query.rsvps.list"
)

// FetchProfileMessage asks for the authenticated member. Timeout overrides
// the client request timeout when positive.
type FetchProfileMessage struct {
	Timeout time.Duration
}

func (FetchProfileMessage) Type() string { return TypeFetchProfile }

func (m FetchProfileMessage) Validate() error {
	return validateTimeout(m.Timeout)
}

// SearchGroupsMessage searches groups. Both filters are optional.
type SearchGroupsMessage struct {
	ZipCode *string
	Text    *string
	Timeout time.Duration
}

func (SearchGroupsMessage) Type() string { return TypeSearchGroups }

func (m SearchGroupsMessage) Validate() error {
	return validateTimeout(m.Timeout)
}

func (m SearchGroupsMessage) search() core.GroupSearch {
	return core.GroupSearch{ZipCode: m.ZipCode, Text: m.Text}
}

type ListEventsMessage struct {
	GroupURLName string
	Timeout      time.Duration
}

func (ListEventsMessage) Type() string { return TypeListEvents }

func (m ListEventsMessage) Validate() error {
	if strings.TrimSpace(m.GroupURLName) == "" {
		return queryValidationError("group_urlname", "group urlname is required")
	}
	return validateTimeout(m.Timeout)
}

type ListRSVPsMessage struct {
	EventID      string
	GroupURLName string
	Timeout      time.Duration
}

func (ListRSVPsMessage) Type() string { return TypeListRSVPs }

func (m ListRSVPsMessage) Validate() error {
	if strings.TrimSpace(m.GroupURLName) == "" {
		return queryValidationError("group_urlname", "group urlname is required")
	}
	if strings.TrimSpace(m.EventID) == "" {
		return queryValidationError("event_id", "event id is required")
	}
	return validateTimeout(m.Timeout)
}

func validateTimeout(timeout time.Duration) error {
	if timeout < 0 {
		return queryValidationError("timeout", "timeout must be >= 0")
	}
	return nil
}

func callOptions(timeout time.Duration) []core.CallOption {
	if timeout <= 0 {
		return nil
	}
	return []core.CallOption{core.WithTimeout(timeout)}
}
