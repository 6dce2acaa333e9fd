package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturedCounter struct {
	name  string
	value int64
	tags  map[string]string
}

type capturedHistogram struct {
	name  string
	value float64
	tags  map[string]string
}

type captureMetricsRecorder struct {
	mu         sync.Mutex
	counters   []capturedCounter
	histograms []capturedHistogram
}

func (m *captureMetricsRecorder) IncCounter(_ context.Context, name string, value int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = append(m.counters, capturedCounter{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) ObserveHistogram(_ context.Context, name string, value float64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms = append(m.histograms, capturedHistogram{name: name, value: value, tags: cloneTags(tags)})
}

func (m *captureMetricsRecorder) counterSnapshot() []capturedCounter {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]capturedCounter, len(m.counters))
	copy(out, m.counters)
	return out
}

type capturedLog struct {
	level  string
	msg    string
	fields map[string]any
}

type captureLogger struct {
	mu       *sync.Mutex
	records  *[]capturedLog
	defaults map[string]any
}

func newCaptureLogger() *captureLogger {
	records := []capturedLog{}
	return &captureLogger{mu: &sync.Mutex{}, records: &records, defaults: map[string]any{}}
}

func (l *captureLogger) WithFields(fields map[string]any) Logger {
	merged := cloneFields(l.defaults)
	for key, value := range fields {
		merged[key] = value
	}
	return &captureLogger{mu: l.mu, records: l.records, defaults: merged}
}

func (l *captureLogger) Trace(msg string, args ...any) { l.record("trace", msg, args...) }
func (l *captureLogger) Debug(msg string, args ...any) { l.record("debug", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.record("info", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.record("error", msg, args...) }
func (l *captureLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args...) }

func (l *captureLogger) WithContext(context.Context) Logger {
	return &captureLogger{mu: l.mu, records: l.records, defaults: cloneFields(l.defaults)}
}

func (l *captureLogger) record(level string, msg string, args ...any) {
	fields := cloneFields(l.defaults)
	for index := 0; index+1 < len(args); index += 2 {
		key, ok := args[index].(string)
		if !ok {
			continue
		}
		fields[key] = args[index+1]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.records = append(*l.records, capturedLog{level: level, msg: msg, fields: fields})
}

func (l *captureLogger) snapshot() []capturedLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := *l.records
	out := make([]capturedLog, len(items))
	copy(out, items)
	return out
}

type stubReply struct {
	res TransportResponse
	err error
}

// stubTransport answers from reply. With hold set, callbacks wait for
// release instead of running on their own goroutine.
type stubTransport struct {
	mu       sync.Mutex
	reply    func(req TransportRequest) stubReply
	hold     bool
	requests []TransportRequest
	pending  []func()
	cancels  int
	wg       sync.WaitGroup
}

func newStubTransport(reply func(req TransportRequest) stubReply) *stubTransport {
	return &stubTransport{reply: reply}
}

func replyJSON(body string) func(TransportRequest) stubReply {
	return func(TransportRequest) stubReply {
		return stubReply{res: TransportResponse{StatusCode: 200, Body: []byte(body)}}
	}
}

func (s *stubTransport) Execute(_ context.Context, req TransportRequest, done TransportCallback) func() {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	out := stubReply{}
	if s.reply != nil {
		out = s.reply(req)
	}
	deliver := func() { done(out.res, out.err) }
	if s.hold {
		s.pending = append(s.pending, deliver)
	} else {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			deliver()
		}()
	}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.cancels++
		s.mu.Unlock()
	}
}

func (s *stubTransport) release() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, deliver := range pending {
		deliver()
	}
}

func (s *stubTransport) requestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *stubTransport) lastRequest() TransportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return TransportRequest{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *stubTransport) cancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancels
}

func newTestClient(t *testing.T, transport Transport, opts ...Option) *Client {
	t.Helper()
	base := []Option{
		WithTransport(transport),
		WithCredentialProvider(StaticCredential("token-1")),
	}
	client, err := NewClient(Config{}, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

type outcome[T any] struct {
	value T
	err   error
}

// collect returns a completion that forwards into a buffered channel, plus a
// wait helper that fails the test on timeout.
func collect[T any](t *testing.T) (Completion[T], func() outcome[T], chan outcome[T]) {
	t.Helper()
	ch := make(chan outcome[T], 4)
	done := func(value T, err error) {
		ch <- outcome[T]{value: value, err: err}
	}
	wait := func() outcome[T] {
		t.Helper()
		select {
		case got := <-ch:
			return got
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery")
			return outcome[T]{}
		}
	}
	return done, wait, ch
}
