package core

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ErrorAuthMissing     = "MEETUP_AUTH_MISSING"
	ErrorNetworkFailure  = "MEETUP_NETWORK_FAILURE"
	ErrorDecodingFailure = "MEETUP_DECODING_FAILURE"
	ErrorBadInput        = "MEETUP_BAD_INPUT"
	ErrorInternal        = "MEETUP_INTERNAL_ERROR"
	ErrorCallAbandoned   = "MEETUP_CALL_ABANDONED"

	TransportErrorBadInput        = "MEETUP_TRANSPORT_BAD_INPUT"
	TransportErrorUnauthorized    = "MEETUP_TRANSPORT_UNAUTHORIZED"
	TransportErrorForbidden       = "MEETUP_TRANSPORT_FORBIDDEN"
	TransportErrorNotFound        = "MEETUP_TRANSPORT_NOT_FOUND"
	TransportErrorRateLimited     = "MEETUP_TRANSPORT_RATE_LIMITED"
	TransportErrorTimeout         = "MEETUP_TRANSPORT_TIMEOUT"
	TransportErrorInterrupted     = "MEETUP_TRANSPORT_INTERRUPTED"
	TransportErrorExternalFailure = "MEETUP_TRANSPORT_EXTERNAL_FAILURE"
)

var ErrCredentialMissing = errors.New("core: access credential is missing")

// ErrorKind is the flat classification every facade error falls into.
type ErrorKind string

const (
	ErrorKindUnknown     ErrorKind = ""
	ErrorKindAuthMissing ErrorKind = "auth_missing"
	ErrorKindNetwork     ErrorKind = "network"
	ErrorKindDecoding    ErrorKind = "decoding"
)

func newAuthMissingError(operation string, cause error) *goerrors.Error {
	err := goerrors.New("meetup: access credential is required", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(ErrorAuthMissing).
		WithMetadata(map[string]any{"operation": operation})
	err.Source = ErrCredentialMissing
	if cause != nil && !errors.Is(cause, ErrCredentialMissing) {
		err.Source = errors.Join(ErrCredentialMissing, cause)
	}
	return err
}

// newNetworkError keeps the transport fault as the error source so callers
// can still reach it with errors.Is and errors.As.
func newNetworkError(operation string, fault error) *goerrors.Error {
	code := http.StatusBadGateway
	var rich *goerrors.Error
	if goerrors.As(fault, &rich) && rich.Code > 0 {
		code = rich.Code
	}
	metadata := map[string]any{"operation": operation}
	if isTimeoutFault(fault) {
		metadata["timeout"] = true
		code = http.StatusGatewayTimeout
	}
	err := goerrors.New("meetup: "+operation+" request failed", goerrors.CategoryExternal).
		WithCode(code).
		WithTextCode(ErrorNetworkFailure).
		WithMetadata(metadata)
	err.Source = fault
	return err
}

func newDecodingError(operation string, description string) *goerrors.Error {
	description = strings.TrimSpace(description)
	return goerrors.New("meetup: unexpected "+operation+" response: "+description, goerrors.CategoryOperation).
		WithCode(http.StatusBadGateway).
		WithTextCode(ErrorDecodingFailure).
		WithMetadata(map[string]any{
			"operation":   operation,
			"description": description,
		})
}

func newInternalError(message string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryInternal).
		WithCode(http.StatusInternalServerError).
		WithTextCode(ErrorInternal)
}

// KindOf reports the taxonomy kind of the outermost meetup error in err.
func KindOf(err error) ErrorKind {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return ErrorKindUnknown
	}
	switch rich.TextCode {
	case ErrorAuthMissing:
		return ErrorKindAuthMissing
	case ErrorNetworkFailure:
		return ErrorKindNetwork
	case ErrorDecodingFailure:
		return ErrorKindDecoding
	default:
		return ErrorKindUnknown
	}
}

func IsAuthMissing(err error) bool { return KindOf(err) == ErrorKindAuthMissing }

func IsNetwork(err error) bool { return KindOf(err) == ErrorKindNetwork }

func IsDecoding(err error) bool { return KindOf(err) == ErrorKindDecoding }

// IsTimeout reports whether err is a network error caused by the request
// deadline.
func IsTimeout(err error) bool {
	return IsNetwork(err) && isTimeoutFault(err)
}

// DecodeDescription returns the description carried by a decoding error.
func DecodeDescription(err error) string {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) || rich.TextCode != ErrorDecodingFailure {
		return ""
	}
	description, _ := rich.Metadata["description"].(string)
	return description
}

// StatusCode returns the upstream HTTP status recorded by the transport, or
// zero when the request never produced a response.
func StatusCode(err error) int {
	for current := err; current != nil; current = errors.Unwrap(current) {
		rich, ok := current.(*goerrors.Error)
		if !ok {
			continue
		}
		if status, ok := rich.Metadata["status_code"].(int); ok && status > 0 {
			return status
		}
	}
	return 0
}

// isTimeoutFault reports a request that outlived its own timeout. A caller
// context that ended first, deadline or not, is an interruption.
func isTimeoutFault(err error) bool {
	if err == nil {
		return false
	}
	for current := err; current != nil; current = errors.Unwrap(current) {
		rich, ok := current.(*goerrors.Error)
		if !ok {
			continue
		}
		switch rich.TextCode {
		case TransportErrorTimeout:
			return true
		case TransportErrorInterrupted:
			return false
		}
	}
	return errors.Is(err, context.DeadlineExceeded)
}
