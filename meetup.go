// Package meetup is a typed client for the Meetup REST API.
//
// Each operation reads the access token, dispatches one request and delivers
// exactly one typed result to its completion callback unless the returned
// handle is cancelled first.
package meetup

import (
	"github.com/goliatone/go-meetup/core"
	"github.com/goliatone/go-meetup/transport"
)

type Config = core.Config

type Option = core.Option

type Client = core.Client

type Handle = core.Handle

type CallOption = core.CallOption

type CredentialProvider = core.CredentialProvider

type GroupSearch = core.GroupSearch

type (
	User  = core.User
	Group = core.Group
	Event = core.Event
	RSVP  = core.RSVP
)

var (
	WithLogger             = core.WithLogger
	WithLoggerProvider     = core.WithLoggerProvider
	WithMetricsRecorder    = core.WithMetricsRecorder
	WithTracer             = core.WithTracer
	WithConfigProvider     = core.WithConfigProvider
	WithOptionsResolver    = core.WithOptionsResolver
	WithCredentialProvider = core.WithCredentialProvider
	WithTransport          = core.WithTransport
	WithTimeout            = core.WithTimeout
)

var (
	IsAuthMissing = core.IsAuthMissing
	IsNetwork     = core.IsNetwork
	IsDecoding    = core.IsDecoding
	IsTimeout     = core.IsTimeout
)

func DefaultConfig() Config {
	return core.DefaultConfig()
}

// NewClient builds a client that talks to the API over HTTP unless
// WithTransport supplies another transport.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	defaults := []Option{core.WithTransport(transport.NewDefaultTransport())}
	return core.NewClient(cfg, append(defaults, opts...)...)
}
