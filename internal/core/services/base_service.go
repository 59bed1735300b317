package services

import (
	"context"
	"log/slog"

	"github.com/ememohq/ememo_backend/internal/apperrors"
	"github.com/ememohq/ememo_backend/internal/core/domain"
	"github.com/ememohq/ememo_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// RequirePermission checks the actor's role against the permission matrix.
func (s *BaseService) RequirePermission(ctx context.Context, actor *domain.User, p domain.Permission) error {
	if actor == nil {
		return apperrors.ErrUnauthorized
	}
	if !domain.HasPermission(actor.Role, p) {
		s.LogDebug(ctx, "Permission denied",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("permission", string(p)))
		return apperrors.ErrForbidden
	}
	return nil
}
