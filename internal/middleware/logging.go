package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC with
// its procedure, access level, result code and duration. Client mistakes log
// at WARN, server-side failures at ERROR.
// Register it after RequireAccess so the access level is in the context.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"access", string(GetAccessLevel(ctx)),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				slog.Info("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			message := err.Error()
			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				message = connectErr.Message()
			}
			attrs = append(attrs, "code", code.String(), "error", message)
			slog.Log(ctx, levelForCode(code), "RPC error", attrs...)
			return resp, err
		}
	}
}

func levelForCode(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodePermissionDenied, connect.CodeUnauthenticated, connect.CodeFailedPrecondition,
		connect.CodeCanceled, connect.CodeOutOfRange:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
