package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL              = "https://api.meetup.com"
	DefaultRequestTimeout       = 30 * time.Second
	DefaultMaxResponseBodyBytes = int64(10 << 20) // 10 MiB
)

// SearchParamsPolicy controls how absent group search inputs are encoded.
type SearchParamsPolicy string

const (
	// SearchParamsKeepEmpty emits zip= and text= even when no value was given.
	SearchParamsKeepEmpty SearchParamsPolicy = "keep_empty"
	// SearchParamsOmitEmpty drops absent search inputs from the query.
	SearchParamsOmitEmpty SearchParamsPolicy = "omit_empty"
)

type Config struct {
	ServiceName          string             `koanf:"service_name" mapstructure:"service_name"`
	BaseURL              string             `koanf:"base_url" mapstructure:"base_url"`
	RequestTimeout       time.Duration      `koanf:"request_timeout" mapstructure:"request_timeout"`
	MaxResponseBodyBytes int64              `koanf:"max_response_body_bytes" mapstructure:"max_response_body_bytes"`
	SearchParams         SearchParamsPolicy `koanf:"search_params" mapstructure:"search_params"`
	UserAgent            string             `koanf:"user_agent" mapstructure:"user_agent"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:          "meetup",
		BaseURL:              DefaultBaseURL,
		RequestTimeout:       DefaultRequestTimeout,
		MaxResponseBodyBytes: DefaultMaxResponseBodyBytes,
		SearchParams:         SearchParamsKeepEmpty,
		UserAgent:            "go-meetup",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("core: base_url is required")
	}
	parsed, err := url.Parse(strings.TrimSpace(c.BaseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("core: base_url %q is invalid", c.BaseURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("core: request_timeout must be >= 0")
	}
	if c.MaxResponseBodyBytes < 0 {
		return fmt.Errorf("core: max_response_body_bytes must be >= 0")
	}
	switch c.SearchParams {
	case SearchParamsKeepEmpty, SearchParamsOmitEmpty:
	default:
		return fmt.Errorf("core: search_params %q is invalid", c.SearchParams)
	}
	return nil
}
