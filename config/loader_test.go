package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-meetup/core"
)

const sampleYAML = `
base_url: https://api.example.test
request_timeout: 5s
search_params: omit_empty
user_agent: meetup-cli/2
token_store:
  driver: sqlite3
  dsn: file:tokens.db
  account: alice
`

func TestParse_ReadsClientAndTokenStoreSections(t *testing.T) {
	file, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if file.TokenStore.Driver != "sqlite3" || file.TokenStore.Account != "alice" {
		t.Fatalf("unexpected token store section %#v", file.TokenStore)
	}

	raw, err := file.Raw()
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	if raw["request_timeout"] != 5*time.Second {
		t.Fatalf("expected parsed duration, got %#v", raw["request_timeout"])
	}
	if _, ok := raw["service_name"]; ok {
		t.Fatalf("expected unset keys to be omitted, got %#v", raw)
	}
	if raw["search_params"] != "omit_empty" {
		t.Fatalf("unexpected search params %#v", raw["search_params"])
	}
}

func TestParse_RejectsUnknownKeysAndBadDurations(t *testing.T) {
	if _, err := Parse([]byte("base_ur1: https://typo.test\n")); err == nil {
		t.Fatalf("expected unknown key error")
	}
	_, err := Parse([]byte("request_timeout: soon\n"))
	if err == nil || !strings.Contains(err.Error(), "request_timeout") {
		t.Fatalf("expected request_timeout error, got %v", err)
	}
	if _, err := Parse([]byte("request_timeout: -1s\n")); err == nil {
		t.Fatalf("expected negative timeout error")
	}
	file, err := Parse(nil)
	if err != nil {
		t.Fatalf("parse empty: %v", err)
	}
	if file != (File{}) {
		t.Fatalf("expected zero file, got %#v", file)
	}
}

func TestYAMLFileLoader_OptionalMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	loader := &YAMLFileLoader{Path: missing, Optional: true}
	raw, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load optional: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected no values, got %#v", raw)
	}

	if _, err := NewYAMLFileLoader(missing).LoadRaw(context.Background()); err == nil {
		t.Fatalf("expected error for required missing file")
	}
}

func TestYAMLFileLoader_FeedsCoreConfigProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetup.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	provider := core.NewCfgxConfigProvider(NewYAMLFileLoader(path))
	cfg, err := provider.Load(context.Background(), core.DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "https://api.example.test" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Fatalf("unexpected request timeout %s", cfg.RequestTimeout)
	}
	if cfg.SearchParams != core.SearchParamsOmitEmpty {
		t.Fatalf("unexpected search params %q", cfg.SearchParams)
	}
	if cfg.ServiceName != "meetup" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
}
