package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-meetup/core"
)

var (
	_ gocmd.Querier[FetchProfileMessage, core.User]    = (*FetchProfileQuery)(nil)
	_ gocmd.Querier[SearchGroupsMessage, []core.Group] = (*SearchGroupsQuery)(nil)
	_ gocmd.Querier[ListEventsMessage, []core.Event]   = (*ListEventsQuery)(nil)
	_ gocmd.Querier[ListRSVPsMessage, []core.RSVP]     = (*ListRSVPsQuery)(nil)

	_ ProfileReader = (*core.Client)(nil)
	_ GroupSearcher = (*core.Client)(nil)
	_ EventLister   = (*core.Client)(nil)
	_ RSVPLister    = (*core.Client)(nil)
)
