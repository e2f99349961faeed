// Package recovery provides panic recovery for calls into user-provided
// stores and catalogs, so a faulty implementation fails one request instead
// of the whole server.
package recovery

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrPanic is wrapped by the errors returned for recovered panics.
var ErrPanic = errors.New("panic")

// RecoverToValue wraps a function that returns a value and error.
// If the function panics, returns zero value and an error wrapping ErrPanic.
//
// Example:
//
//	res, err := recovery.RecoverToValue(logger, "Result", func() (*listing.Result, error) {
//	    return svc.Result(ctx, st, entity, params)
//	})
func RecoverToValue[T any](logger *slog.Logger, operation string, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic recovered",
				"operation", operation,
				"panic", r,
				"stack", string(debug.Stack()),
			)

			var zero T
			result = zero
			err = fmt.Errorf("%s: %w: %v", operation, ErrPanic, r)
		}
	}()

	return fn()
}
