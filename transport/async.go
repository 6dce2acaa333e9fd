package transport

import (
	"context"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-meetup/core"
)

// AsyncTransport runs each request of a synchronous adapter on its own
// goroutine. Requests share nothing but the adapter.
type AsyncTransport struct {
	adapter core.TransportAdapter
}

func NewAsyncTransport(adapter core.TransportAdapter) *AsyncTransport {
	if adapter == nil {
		adapter = NewRESTAdapter(nil)
	}
	return &AsyncTransport{adapter: adapter}
}

// NewDefaultTransport is the REST transport over a plain http.Client.
func NewDefaultTransport() *AsyncTransport {
	return NewAsyncTransport(NewRESTAdapter(nil))
}

func (t *AsyncTransport) Adapter() core.TransportAdapter {
	if t == nil {
		return nil
	}
	return t.adapter
}

// Execute returns immediately. done runs exactly once on the worker
// goroutine, also when the returned cancel function was called.
func (t *AsyncTransport) Execute(
	ctx context.Context,
	req core.TransportRequest,
	done core.TransportCallback,
) func() {
	if done == nil {
		done = func(core.TransportResponse, error) {}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if t == nil || t.adapter == nil {
		go done(core.TransportResponse{}, transportError(
			"transport: async transport requires an adapter",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		))
		return func() {}
	}

	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		done(t.adapter.Do(runCtx, req))
	}()
	return cancel
}

var _ core.Transport = (*AsyncTransport)(nil)
