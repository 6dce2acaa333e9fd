package core

import (
	"context"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// CredentialProvider yields the access token used for bearer signing. It is
// read on every call; an empty token or ErrCredentialMissing means absent.
type CredentialProvider interface {
	AccessToken(ctx context.Context) (string, error)
}

type TransportRequest struct {
	Method               string
	URL                  string
	Headers              map[string]string
	Body                 []byte
	Metadata             map[string]any
	Timeout              time.Duration
	MaxResponseBodyBytes int64
}

type TransportResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// TransportCallback receives the raw outcome of one request.
type TransportCallback func(res TransportResponse, err error)

// Transport issues requests asynchronously. Execute must return without
// waiting for the exchange and must invoke done exactly once. The returned
// function cancels the in-flight work on a best-effort basis.
type Transport interface {
	Execute(ctx context.Context, req TransportRequest, done TransportCallback) (cancel func())
}

// TransportAdapter is the synchronous counterpart used by transport
// implementations that run one request per goroutine.
type TransportAdapter interface {
	Kind() string
	Do(ctx context.Context, req TransportRequest) (TransportResponse, error)
}

// Completion is the caller-supplied callback of a facade operation. It is
// invoked at most once per call.
type Completion[T any] func(value T, err error)

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
