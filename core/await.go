package core

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type awaitResult[T any] struct {
	value T
	err   error
}

// Await blocks until the dispatched call delivers or ctx ends. When ctx ends
// first the call is cancelled and the context error is returned.
func Await[T any](ctx context.Context, start func(Completion[T]) *Handle) (T, error) {
	var zero T
	if start == nil {
		return zero, newInternalError("core: await requires a dispatch function")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results := make(chan awaitResult[T], 1)
	handle := start(func(value T, err error) {
		results <- awaitResult[T]{value: value, err: err}
	})

	select {
	case result := <-results:
		return result.value, result.err
	case <-ctx.Done():
		handle.Cancel()
		// A result delivered while cancelling still wins.
		select {
		case result := <-results:
			return result.value, result.err
		default:
		}
		return zero, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "meetup call abandoned").
			WithTextCode(ErrorCallAbandoned)
	}
}
