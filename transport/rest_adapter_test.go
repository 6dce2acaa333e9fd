package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-meetup/core"
)

func TestRESTAdapter_SendsHeadersAndReturnsBody(t *testing.T) {
	var gotAuth, gotAccept, gotAgent, gotQuery, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	res, err := adapter.Do(context.Background(), core.TransportRequest{
		URL: server.URL + "/find/groups?sign=true&photo-host=public&zip=&text=",
		Headers: map[string]string{
			"Authorization": "Bearer token-1",
			"User-Agent":    "go-meetup-test",
		},
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if string(res.Body) != `{"id":1}` {
		t.Fatalf("unexpected body %q", string(res.Body))
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("expected GET default method, got %q", gotMethod)
	}
	if gotAuth != "Bearer token-1" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected default accept header, got %q", gotAccept)
	}
	if gotAgent != "go-meetup-test" {
		t.Fatalf("expected user agent, got %q", gotAgent)
	}
	if gotQuery != "sign=true&photo-host=public&zip=&text=" {
		t.Fatalf("expected query to be forwarded untouched, got %q", gotQuery)
	}
	if res.Headers["Content-Type"] != "application/json" {
		t.Fatalf("expected flattened response headers, got %#v", res.Headers)
	}
}

func TestRESTAdapter_ClassifiesNonSuccessStatus(t *testing.T) {
	cases := []struct {
		status   int
		category goerrors.Category
		textCode string
	}{
		{status: http.StatusBadRequest, category: goerrors.CategoryBadInput, textCode: core.TransportErrorBadInput},
		{status: http.StatusUnauthorized, category: goerrors.CategoryAuth, textCode: core.TransportErrorUnauthorized},
		{status: http.StatusForbidden, category: goerrors.CategoryAuthz, textCode: core.TransportErrorForbidden},
		{status: http.StatusNotFound, category: goerrors.CategoryNotFound, textCode: core.TransportErrorNotFound},
		{status: http.StatusTooManyRequests, category: goerrors.CategoryRateLimit, textCode: core.TransportErrorRateLimited},
		{status: http.StatusInternalServerError, category: goerrors.CategoryExternal, textCode: core.TransportErrorExternalFailure},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"errors":[{"code":"x"}]}`))
			}))
			defer server.Close()

			_, err := NewRESTAdapter(server.Client()).Do(context.Background(), core.TransportRequest{URL: server.URL + "/2/member/self"})
			if err == nil {
				t.Fatalf("expected status error")
			}
			var rich *goerrors.Error
			if !goerrors.As(err, &rich) {
				t.Fatalf("expected go-errors envelope, got %T", err)
			}
			if rich.Category != tc.category {
				t.Fatalf("expected category %q, got %q", tc.category, rich.Category)
			}
			if rich.TextCode != tc.textCode {
				t.Fatalf("expected text code %q, got %q", tc.textCode, rich.TextCode)
			}
			if rich.Code != tc.status {
				t.Fatalf("expected code %d, got %d", tc.status, rich.Code)
			}
			if rich.Metadata["status_code"] != tc.status {
				t.Fatalf("expected status metadata, got %#v", rich.Metadata)
			}
			if body, _ := rich.Metadata["body"].(string); !strings.Contains(body, "errors") {
				t.Fatalf("expected body snippet in metadata, got %q", body)
			}
		})
	}
}

func TestRESTAdapter_ResponseLimitReturnsRichError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	adapter.MaxResponseBodyBytes = 4

	_, err := adapter.Do(context.Background(), core.TransportRequest{Method: http.MethodGet, URL: server.URL})
	if err == nil {
		t.Fatalf("expected response body limit error")
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.Category != goerrors.CategoryExternal {
		t.Fatalf("expected external category, got %q", rich.Category)
	}
	if rich.TextCode != core.TransportErrorExternalFailure {
		t.Fatalf("expected %q text code, got %q", core.TransportErrorExternalFailure, rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected %d code, got %d", http.StatusBadGateway, rich.Code)
	}
}

func TestRESTAdapter_RequestLimitOverridesAdapterLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("12345"))
	}))
	defer server.Close()

	adapter := NewRESTAdapter(server.Client())
	adapter.MaxResponseBodyBytes = 2

	res, err := adapter.Do(context.Background(), core.TransportRequest{URL: server.URL, MaxResponseBodyBytes: 16})
	if err != nil {
		t.Fatalf("expected request limit to win, got %v", err)
	}
	if string(res.Body) != "12345" {
		t.Fatalf("unexpected body %q", string(res.Body))
	}
}

func TestRESTAdapter_TimeoutIsFlagged(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := NewRESTAdapter(server.Client()).Do(context.Background(), core.TransportRequest{
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
	})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.TransportErrorTimeout {
		t.Fatalf("expected timeout text code, got %q", rich.TextCode)
	}
	if rich.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504 code, got %d", rich.Code)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded in chain")
	}
}

func TestRESTAdapter_CallerDeadlineIsInterruption(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewRESTAdapter(server.Client()).Do(ctx, core.TransportRequest{
		URL:     server.URL,
		Timeout: 5 * time.Second,
	})
	if err == nil {
		t.Fatalf("expected interrupted error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.TransportErrorInterrupted {
		t.Fatalf("expected interrupted text code, got %q", rich.TextCode)
	}
	if rich.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 code, got %d", rich.Code)
	}
	if rich.Metadata["cancelled"] != true {
		t.Fatalf("expected cancelled metadata, got %#v", rich.Metadata)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected caller deadline to stay reachable")
	}
}

func TestRESTAdapter_ConnectivityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	target := server.URL
	server.Close()

	_, err := NewRESTAdapter(nil).Do(context.Background(), core.TransportRequest{URL: target})
	if err == nil {
		t.Fatalf("expected connectivity error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.TransportErrorExternalFailure {
		t.Fatalf("expected external failure text code, got %q", rich.TextCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("connectivity failure must not look like a timeout")
	}
}

func TestRESTAdapter_RejectsRelativeURL(t *testing.T) {
	_, err := NewRESTAdapter(nil).Do(context.Background(), core.TransportRequest{URL: "/2/member/self"})
	if err == nil {
		t.Fatalf("expected bad input error")
	}
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != core.TransportErrorBadInput {
		t.Fatalf("expected bad input envelope, got %v", err)
	}
}

func TestRESTAdapter_NilReturnsRichError(t *testing.T) {
	var adapter *RESTAdapter
	_, err := adapter.Do(context.Background(), core.TransportRequest{})
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		t.Fatalf("expected go-errors envelope, got %T", err)
	}
	if rich.TextCode != core.ErrorInternal {
		t.Fatalf("expected %q text code, got %q", core.ErrorInternal, rich.TextCode)
	}
}
