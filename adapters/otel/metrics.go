// Package otel records meetup client metrics through an OpenTelemetry meter.
package otel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-meetup/core"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder implements core.MetricsRecorder. Instruments are created on
// first use and cached by name.
type MetricsRecorder struct {
	meter metric.Meter
	onErr func(error)

	mu         sync.Mutex
	counters   map[string]metric.Int64Counter
	histograms map[string]metric.Float64Histogram
}

type Option func(*MetricsRecorder)

// WithErrorHandler receives instrument creation failures, which are otherwise
// dropped.
func WithErrorHandler(fn func(error)) Option {
	return func(r *MetricsRecorder) {
		if fn != nil {
			r.onErr = fn
		}
	}
}

func NewMetricsRecorder(meter metric.Meter, opts ...Option) (*MetricsRecorder, error) {
	if meter == nil {
		return nil, fmt.Errorf("otel: meter is required")
	}
	recorder := &MetricsRecorder{
		meter:      meter,
		onErr:      func(error) {},
		counters:   map[string]metric.Int64Counter{},
		histograms: map[string]metric.Float64Histogram{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(recorder)
		}
	}
	return recorder, nil
}

func (r *MetricsRecorder) IncCounter(ctx context.Context, name string, value int64, tags map[string]string) {
	if r == nil {
		return
	}
	counter, err := r.counter(name)
	if err != nil {
		r.onErr(err)
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attributes(tags)...))
}

func (r *MetricsRecorder) ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string) {
	if r == nil {
		return
	}
	histogram, err := r.histogram(name)
	if err != nil {
		r.onErr(err)
		return
	}
	histogram.Record(ctx, value, metric.WithAttributes(attributes(tags)...))
}

func (r *MetricsRecorder) counter(name string) (metric.Int64Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if counter, ok := r.counters[name]; ok {
		return counter, nil
	}
	counter, err := r.meter.Int64Counter(name)
	if err != nil {
		return nil, fmt.Errorf("otel: create counter %s: %w", name, err)
	}
	r.counters[name] = counter
	return counter, nil
}

func (r *MetricsRecorder) histogram(name string) (metric.Float64Histogram, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if histogram, ok := r.histograms[name]; ok {
		return histogram, nil
	}
	histogram, err := r.meter.Float64Histogram(name, metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("otel: create histogram %s: %w", name, err)
	}
	r.histograms[name] = histogram
	return histogram, nil
}

func attributes(tags map[string]string) []attribute.KeyValue {
	if len(tags) == 0 {
		return nil
	}
	keys := make([]string, 0, len(tags))
	for key := range tags {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]attribute.KeyValue, 0, len(keys))
	for _, key := range keys {
		out = append(out, attribute.String(key, tags[key]))
	}
	return out
}

var _ core.MetricsRecorder = (*MetricsRecorder)(nil)
