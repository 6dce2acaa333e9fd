package core

import "time"

type callOptions struct {
	timeout time.Duration
}

// CallOption adjusts a single facade call.
type CallOption func(*callOptions)

// WithTimeout overrides the configured request timeout for one call.
// Non-positive values are ignored.
func WithTimeout(timeout time.Duration) CallOption {
	return func(o *callOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func resolveCallOptions(cfg Config, opts []CallOption) callOptions {
	resolved := callOptions{timeout: cfg.RequestTimeout}
	if resolved.timeout <= 0 {
		resolved.timeout = DefaultRequestTimeout
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&resolved)
	}
	return resolved
}
