package core

import (
	"context"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	OperationFetchProfile = "fetch_profile"
	OperationSearchGroups = "search_groups"
	OperationListEvents   = "list_events"
	OperationListRSVPs    = "list_rsvps"
)

// Client is the Meetup data-access facade. Each operation returns its
// cancellation handle before the result is delivered to done.
type Client struct {
	config          Config
	logger          Logger
	loggerProvider  LoggerProvider
	metricsRecorder MetricsRecorder
	tracer          trace.Tracer
	credentials     CredentialProvider
	transport       Transport
	now             func() time.Time
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	builder := defaultClientBuilder(cfg)
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("meetup", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)

	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.tracer == nil {
		builder.tracer = defaultClientBuilder(cfg).tracer
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}
	if builder.now == nil {
		builder.now = func() time.Time { return time.Now().UTC() }
	}
	if builder.transport == nil {
		return nil, newInternalError("core: transport is required")
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, err
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		config:          finalConfig,
		logger:          logger,
		loggerProvider:  provider,
		metricsRecorder: builder.metricsRecorder,
		tracer:          builder.tracer,
		credentials:     builder.credentials,
		transport:       builder.transport,
		now:             builder.now,
	}, nil
}

func (c *Client) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.config
}

// FetchProfile loads the authenticated member.
func (c *Client) FetchProfile(ctx context.Context, done Completion[User], opts ...CallOption) *Handle {
	return dispatch(c, ctx, OperationFetchProfile, ProfileEndpoint(), done, opts)
}

// SearchGroups finds groups by zip code and free text. Both inputs are
// optional.
func (c *Client) SearchGroups(ctx context.Context, search GroupSearch, done Completion[[]Group], opts ...CallOption) *Handle {
	policy := SearchParamsKeepEmpty
	if c != nil && c.config.SearchParams != "" {
		policy = c.config.SearchParams
	}
	return dispatch(c, ctx, OperationSearchGroups, GroupSearchEndpoint(search, policy), done, opts)
}

// ListEvents lists the upcoming events of a group.
func (c *Client) ListEvents(ctx context.Context, groupURLName string, done Completion[[]Event], opts ...CallOption) *Handle {
	return dispatch(c, ctx, OperationListEvents, EventsEndpoint(groupURLName), done, opts)
}

// ListRSVPs lists the RSVPs of one event of a group.
func (c *Client) ListRSVPs(
	ctx context.Context,
	eventID string,
	groupURLName string,
	done Completion[[]RSVP],
	opts ...CallOption,
) *Handle {
	return dispatch(c, ctx, OperationListRSVPs, RSVPsEndpoint(eventID, groupURLName), done, opts)
}

// dispatch runs the shared pipeline: credential check, request build,
// transport, decode and single delivery.
func dispatch[T Decodable](
	c *Client,
	ctx context.Context,
	operation string,
	endpoint Endpoint,
	done Completion[T],
	opts []CallOption,
) *Handle {
	if done == nil {
		done = func(T, error) {}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if c == nil || c.transport == nil {
		var zero T
		done(zero, newInternalError("core: client is not configured"))
		return nil
	}

	startedAt := c.now()
	token, err := readCredential(ctx, c.credentials)
	if err != nil {
		authErr := newAuthMissingError(operation, err)
		c.observeOperation(ctx, startedAt, operation, "", "auth_missing", authErr, map[string]any{
			"endpoint": string(endpoint.Kind),
		})
		var zero T
		done(zero, authErr)
		return nil
	}

	call := resolveCallOptions(c.config, opts)
	handle := newHandle(operation)
	req := c.buildRequest(endpoint, token, call)
	handle.advance(CallStateIdle, CallStateBuilt)

	spanCtx, span := c.tracer.Start(ctx, "meetup."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("meetup.operation", operation),
			attribute.String("meetup.call_id", handle.ID()),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", endpoint.Path),
		),
	)
	fields := map[string]any{
		"endpoint": string(endpoint.Kind),
		"path":     endpoint.Path,
	}
	handle.onCancel = func() {
		span.SetAttributes(attribute.Bool("meetup.cancelled", true))
		span.End()
		c.observeOperation(ctx, startedAt, operation, handle.ID(), "cancelled", nil, fields)
	}
	handle.advance(CallStateBuilt, CallStateDispatched)

	cancelNet := c.transport.Execute(spanCtx, req, func(res TransportResponse, fault error) {
		var (
			value  T
			outErr error
		)
		if fault != nil {
			outErr = newNetworkError(operation, fault)
		} else if decoded, decodeErr := Decode[T](res.Body); decodeErr != nil {
			outErr = newDecodingError(operation, decodeDescription(decodeErr))
		} else {
			value = decoded
		}

		if !handle.claimDelivery() {
			return
		}
		status := "success"
		if outErr != nil {
			status = "failure"
			span.RecordError(outErr)
			span.SetStatus(codes.Error, outErr.Error())
		}
		if res.StatusCode > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", res.StatusCode))
		}
		span.End()
		c.observeOperation(ctx, startedAt, operation, handle.ID(), status, outErr, fields)
		done(value, outErr)
	})
	handle.attach(cancelNet)
	return handle
}

func (c *Client) buildRequest(endpoint Endpoint, token string, call callOptions) TransportRequest {
	headers := make(map[string]string, len(endpoint.Headers)+2)
	for key, value := range endpoint.Headers {
		headers[key] = value
	}
	if agent := strings.TrimSpace(c.config.UserAgent); agent != "" {
		headers["User-Agent"] = agent
	}
	headers["Authorization"] = "Bearer " + token

	return TransportRequest{
		Method:               http.MethodGet,
		URL:                  endpoint.URL(c.config.BaseURL),
		Headers:              headers,
		Timeout:              call.timeout,
		MaxResponseBodyBytes: c.config.MaxResponseBodyBytes,
		Metadata: map[string]any{
			"endpoint": string(endpoint.Kind),
		},
	}
}

func decodeDescription(err error) string {
	if fault, ok := err.(*DecodeFault); ok {
		return fault.Description
	}
	return "response body does not match the expected shape"
}
