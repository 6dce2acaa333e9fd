package core

import (
	"context"
	"os"
	"strings"
)

// StaticCredential always yields the same token.
type StaticCredential string

func (c StaticCredential) AccessToken(context.Context) (string, error) {
	token := strings.TrimSpace(string(c))
	if token == "" {
		return "", ErrCredentialMissing
	}
	return token, nil
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc func(ctx context.Context) (string, error)

func (f CredentialFunc) AccessToken(ctx context.Context) (string, error) {
	if f == nil {
		return "", ErrCredentialMissing
	}
	return f(ctx)
}

// EnvCredential reads the named environment variable on every call.
type EnvCredential string

func (c EnvCredential) AccessToken(context.Context) (string, error) {
	name := strings.TrimSpace(string(c))
	if name == "" {
		return "", ErrCredentialMissing
	}
	token := strings.TrimSpace(os.Getenv(name))
	if token == "" {
		return "", ErrCredentialMissing
	}
	return token, nil
}

func readCredential(ctx context.Context, provider CredentialProvider) (string, error) {
	if provider == nil {
		return "", ErrCredentialMissing
	}
	token, err := provider.AccessToken(ctx)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrCredentialMissing
	}
	return token, nil
}
