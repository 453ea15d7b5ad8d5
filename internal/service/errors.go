package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/mealbook/internal/assistant"
	"github.com/mmynk/mealbook/internal/auth"
	"github.com/mmynk/mealbook/internal/extractor"
	"github.com/mmynk/mealbook/internal/imaging"
	"github.com/mmynk/mealbook/internal/models"
	"github.com/mmynk/mealbook/internal/storage"
)

// toConnectError maps domain errors onto Connect codes. Handlers log the
// original error before calling it.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case errors.Is(err, imaging.ErrDecode), errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, extractor.ErrExtraction), errors.Is(err, assistant.ErrCompletion):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// invalidArgument reports a request that failed validation.
func invalidArgument(format string, args ...any) *connect.Error {
	return connect.NewError(connect.CodeInvalidArgument,
		fmt.Errorf("%w: %s", models.ErrValidation, fmt.Sprintf(format, args...)))
}
