package contextx

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoValue = errors.New("no value in context")

// contextKey is keyed by the stored type, so every value type gets its own
// slot without declaring a key per file.
type contextKey[T any] struct{}

func withValue[T any](ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, contextKey[T]{}, value)
}

func valueFrom[T any](ctx context.Context, name string) (T, error) {
	value, ok := ctx.Value(contextKey[T]{}).(T)
	if !ok {
		var zero T

		return zero, fmt.Errorf("%s: %w", name, ErrNoValue)
	}

	return value, nil
}
