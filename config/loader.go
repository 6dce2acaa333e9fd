// Package config reads meetup client settings from YAML files.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-meetup/core"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout. Durations are Go duration strings such as
// "30s".
type File struct {
	ServiceName          string     `yaml:"service_name"`
	BaseURL              string     `yaml:"base_url"`
	RequestTimeout       string     `yaml:"request_timeout"`
	MaxResponseBodyBytes int64      `yaml:"max_response_body_bytes"`
	SearchParams         string     `yaml:"search_params"`
	UserAgent            string     `yaml:"user_agent"`
	TokenStore           TokenStore `yaml:"token_store"`
}

// TokenStore locates the database holding persisted access tokens.
type TokenStore struct {
	Driver  string `yaml:"driver"`
	DSN     string `yaml:"dsn"`
	Account string `yaml:"account"`
}

// Parse decodes one YAML document, rejecting unknown keys.
func Parse(data []byte) (File, error) {
	var file File
	if len(bytes.TrimSpace(data)) == 0 {
		return file, nil
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return File{}, fmt.Errorf("config: parse yaml: %w", err)
	}
	if _, err := file.requestTimeout(); err != nil {
		return File{}, err
	}
	return file, nil
}

// ReadFile parses the file at path.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Raw returns the client keys that were set, in the shape
// core.CfgxConfigProvider expects.
func (f File) Raw() (map[string]any, error) {
	raw := map[string]any{}
	if value := strings.TrimSpace(f.ServiceName); value != "" {
		raw["service_name"] = value
	}
	if value := strings.TrimSpace(f.BaseURL); value != "" {
		raw["base_url"] = value
	}
	timeout, err := f.requestTimeout()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		raw["request_timeout"] = timeout
	}
	if f.MaxResponseBodyBytes > 0 {
		raw["max_response_body_bytes"] = f.MaxResponseBodyBytes
	}
	if value := strings.TrimSpace(f.SearchParams); value != "" {
		raw["search_params"] = value
	}
	if value := strings.TrimSpace(f.UserAgent); value != "" {
		raw["user_agent"] = value
	}
	return raw, nil
}

func (f File) requestTimeout() (time.Duration, error) {
	value := strings.TrimSpace(f.RequestTimeout)
	if value == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: request_timeout %q: %w", value, err)
	}
	if timeout < 0 {
		return 0, fmt.Errorf("config: request_timeout must be >= 0")
	}
	return timeout, nil
}

// YAMLFileLoader implements core.RawConfigLoader over a YAML file. With
// Optional set a missing file yields no values.
type YAMLFileLoader struct {
	Path     string
	Optional bool
}

func NewYAMLFileLoader(path string) *YAMLFileLoader {
	return &YAMLFileLoader{Path: path}
}

func (l *YAMLFileLoader) LoadRaw(context.Context) (map[string]any, error) {
	file, err := l.Load()
	if err != nil {
		return nil, err
	}
	return file.Raw()
}

// Load reads the whole file, including sections the client ignores.
func (l *YAMLFileLoader) Load() (File, error) {
	if l == nil || strings.TrimSpace(l.Path) == "" {
		return File{}, nil
	}
	file, err := ReadFile(l.Path)
	if err != nil {
		if l.Optional && errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, err
	}
	return file, nil
}

var _ core.RawConfigLoader = (*YAMLFileLoader)(nil)
