// Package devkit holds test doubles for code built on the meetup client.
package devkit

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goliatone/go-meetup/core"
)

// Reply is one scripted transport outcome.
type Reply struct {
	Response core.TransportResponse
	Err      error
}

// JSON is a 200 reply carrying body.
func JSON(body string) Reply {
	return Reply{Response: core.TransportResponse{StatusCode: http.StatusOK, Body: []byte(body)}}
}

// Fault is a reply that fails before any body arrives.
func Fault(err error) Reply {
	return Reply{Err: err}
}

// Exchange records one request seen by the fake and whether it was
// cancelled.
type Exchange struct {
	Request   core.TransportRequest
	Cancelled bool
}

type pendingCall struct {
	done  core.TransportCallback
	reply Reply
	index int
}

// FakeTransport answers requests from a script instead of the network.
//
// In immediate mode every Execute delivers on a new goroutine. In held mode
// replies wait until Release, which lets tests cancel a call while it is in
// flight.
type FakeTransport struct {
	mu        sync.Mutex
	routes    map[string]Reply
	fallback  *Reply
	held      bool
	exchanges []Exchange
	pending   []pendingCall
	wg        sync.WaitGroup
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{routes: map[string]Reply{}}
}

// Hold switches the fake to held mode.
func (f *FakeTransport) Hold() *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held = true
	return f
}

// On scripts the reply for every request whose URL path equals path.
func (f *FakeTransport) On(path string, reply Reply) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[strings.TrimSpace(path)] = reply
	return f
}

// Otherwise scripts the reply used when no route matches.
func (f *FakeTransport) Otherwise(reply Reply) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = &reply
	return f
}

func (f *FakeTransport) Execute(
	_ context.Context,
	req core.TransportRequest,
	done core.TransportCallback,
) func() {
	if done == nil {
		done = func(core.TransportResponse, error) {}
	}
	f.mu.Lock()
	index := len(f.exchanges)
	f.exchanges = append(f.exchanges, Exchange{Request: cloneRequest(req)})
	call := pendingCall{done: done, reply: f.replyFor(req.URL), index: index}
	if f.held {
		f.pending = append(f.pending, call)
	} else {
		f.wg.Add(1)
		go f.deliver(call)
	}
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			f.exchanges[index].Cancelled = true
			f.mu.Unlock()
		})
	}
}

// Release delivers every held reply, cancelled or not, and waits for the
// callbacks to return.
func (f *FakeTransport) Release() {
	f.mu.Lock()
	pending := f.pending
	f.pending = nil
	for range pending {
		f.wg.Add(1)
	}
	f.mu.Unlock()

	for _, call := range pending {
		go f.deliver(call)
	}
	f.Wait()
}

// Wait blocks until every delivery started so far has returned.
func (f *FakeTransport) Wait() {
	f.wg.Wait()
}

func (f *FakeTransport) Exchanges() []Exchange {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Exchange, len(f.exchanges))
	copy(out, f.exchanges)
	return out
}

func (f *FakeTransport) Requests() []core.TransportRequest {
	exchanges := f.Exchanges()
	out := make([]core.TransportRequest, 0, len(exchanges))
	for _, exchange := range exchanges {
		out = append(out, exchange.Request)
	}
	return out
}

func (f *FakeTransport) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *FakeTransport) deliver(call pendingCall) {
	defer f.wg.Done()
	call.done(call.reply.Response, call.reply.Err)
}

func (f *FakeTransport) replyFor(rawURL string) Reply {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		path = parsed.Path
	}
	if reply, ok := f.routes[path]; ok {
		return reply
	}
	if f.fallback != nil {
		return *f.fallback
	}
	return Reply{Response: core.TransportResponse{StatusCode: http.StatusNotFound}, Err: errNoRoute(path)}
}

type errNoRoute string

func (e errNoRoute) Error() string {
	return "devkit: no scripted reply for " + string(e)
}

func cloneRequest(req core.TransportRequest) core.TransportRequest {
	out := req
	if req.Headers != nil {
		out.Headers = make(map[string]string, len(req.Headers))
		for key, value := range req.Headers {
			out.Headers[key] = value
		}
	}
	if req.Metadata != nil {
		out.Metadata = make(map[string]any, len(req.Metadata))
		for key, value := range req.Metadata {
			out.Metadata[key] = value
		}
	}
	if req.Body != nil {
		out.Body = append([]byte(nil), req.Body...)
	}
	return out
}

var _ core.Transport = (*FakeTransport)(nil)
