package otel

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type recordedPoint struct {
	name  string
	value float64
	attrs attribute.Set
}

type recordingMeter struct {
	noop.Meter

	mu       sync.Mutex
	created  map[string]int
	points   []recordedPoint
	failWith error
}

func newRecordingMeter() *recordingMeter {
	return &recordingMeter{created: map[string]int{}}
}

func (m *recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.created[name]++
	return &recordingCounter{meter: m, name: name}, nil
}

func (m *recordingMeter) Float64Histogram(name string, _ ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.created[name]++
	return &recordingHistogram{meter: m, name: name}, nil
}

func (m *recordingMeter) record(name string, value float64, attrs attribute.Set) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.points = append(m.points, recordedPoint{name: name, value: value, attrs: attrs})
}

type recordingCounter struct {
	noop.Int64Counter
	meter *recordingMeter
	name  string
}

func (c *recordingCounter) Add(_ context.Context, value int64, opts ...metric.AddOption) {
	cfg := metric.NewAddConfig(opts)
	c.meter.record(c.name, float64(value), cfg.Attributes())
}

type recordingHistogram struct {
	noop.Float64Histogram
	meter *recordingMeter
	name  string
}

func (h *recordingHistogram) Record(_ context.Context, value float64, opts ...metric.RecordOption) {
	cfg := metric.NewRecordConfig(opts)
	h.meter.record(h.name, value, cfg.Attributes())
}

func TestMetricsRecorder_CachesInstrumentsAndForwardsTags(t *testing.T) {
	meter := newRecordingMeter()
	recorder, err := NewMetricsRecorder(meter)
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}

	ctx := context.Background()
	tags := map[string]string{"operation": "profile", "status": "ok"}
	recorder.IncCounter(ctx, "meetup.profile.total", 1, tags)
	recorder.IncCounter(ctx, "meetup.profile.total", 1, tags)
	recorder.ObserveHistogram(ctx, "meetup.profile.duration_ms", 12.5, tags)

	if meter.created["meetup.profile.total"] != 1 {
		t.Fatalf("expected counter to be created once, got %d", meter.created["meetup.profile.total"])
	}
	if len(meter.points) != 3 {
		t.Fatalf("expected 3 recorded points, got %d", len(meter.points))
	}
	last := meter.points[2]
	if last.name != "meetup.profile.duration_ms" || last.value != 12.5 {
		t.Fatalf("unexpected histogram point %#v", last)
	}
	if value, ok := last.attrs.Value(attribute.Key("operation")); !ok || value.AsString() != "profile" {
		t.Fatalf("expected operation attribute, got %v", last.attrs)
	}
}

func TestMetricsRecorder_ReportsInstrumentErrors(t *testing.T) {
	meter := newRecordingMeter()
	meter.failWith = errors.New("meter closed")

	var reported []error
	recorder, err := NewMetricsRecorder(meter, WithErrorHandler(func(err error) {
		reported = append(reported, err)
	}))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	recorder.IncCounter(context.Background(), "meetup.events.total", 1, nil)
	recorder.ObserveHistogram(context.Background(), "meetup.events.duration_ms", 1, nil)

	if len(reported) != 2 {
		t.Fatalf("expected two reported errors, got %d", len(reported))
	}
	if !errors.Is(reported[0], meter.failWith) {
		t.Fatalf("expected wrapped meter error, got %v", reported[0])
	}
}

func TestNewMetricsRecorder_RequiresMeter(t *testing.T) {
	if _, err := NewMetricsRecorder(nil); err == nil {
		t.Fatalf("expected error for nil meter")
	}
	recorder, err := NewMetricsRecorder(noop.NewMeterProvider().Meter("meetup"))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	recorder.IncCounter(context.Background(), "meetup.groups.total", 1, map[string]string{"": "dropped"})
}
