package transport

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-meetup/core"
)

func transportError(
	message string,
	category goerrors.Category,
	code int,
	metadata map[string]any,
) error {
	err := goerrors.New(message, category).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportWrapError(
	source error,
	category goerrors.Category,
	message string,
	code int,
	metadata map[string]any,
) error {
	if source == nil {
		return transportError(message, category, code, metadata)
	}
	err := goerrors.Wrap(source, category, message).
		WithCode(code).
		WithTextCode(transportTextCode(category))
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportTimeoutError(source error, timeout string, metadata map[string]any) error {
	err := goerrors.New("transport: request timed out after "+timeout, goerrors.CategoryExternal).
		WithCode(http.StatusGatewayTimeout).
		WithTextCode(core.TransportErrorTimeout).
		WithMetadata(metadata)
	err.Source = source
	return err
}

func transportInterruptedError(source error, metadata map[string]any) error {
	err := goerrors.Wrap(source, goerrors.CategoryExternal, "transport: request interrupted").
		WithCode(http.StatusBadGateway).
		WithTextCode(core.TransportErrorInterrupted)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}

func transportTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return core.TransportErrorBadInput
	case goerrors.CategoryAuth:
		return core.TransportErrorUnauthorized
	case goerrors.CategoryAuthz:
		return core.TransportErrorForbidden
	case goerrors.CategoryNotFound:
		return core.TransportErrorNotFound
	case goerrors.CategoryRateLimit:
		return core.TransportErrorRateLimited
	case goerrors.CategoryExternal:
		return core.TransportErrorExternalFailure
	default:
		return core.ErrorInternal
	}
}

// statusCategory maps a non-2xx upstream status onto an error category.
func statusCategory(status int) goerrors.Category {
	switch {
	case status == http.StatusBadRequest:
		return goerrors.CategoryBadInput
	case status == http.StatusUnauthorized:
		return goerrors.CategoryAuth
	case status == http.StatusForbidden:
		return goerrors.CategoryAuthz
	case status == http.StatusNotFound:
		return goerrors.CategoryNotFound
	case status == http.StatusTooManyRequests:
		return goerrors.CategoryRateLimit
	default:
		return goerrors.CategoryExternal
	}
}
