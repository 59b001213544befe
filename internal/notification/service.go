package notification

import (
	"context"
	"log/slog"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
)

type RepositoryAPI interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	MarkEmailSent(ctx context.Context, id int64) error
	ListEmailPending(ctx context.Context, limit int) ([]*Notification, error)
	Delete(ctx context.Context, id, userID int64) (int64, error)
}

// Service is the recipient-facing read side. It is independent of lifecycle state.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) ListForUser(ctx context.Context, userID int64, unreadOnly bool, limit, offset int) ([]*Notification, error) {
	items, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		s.logger.Error("failed to list notifications", "error", err, "user_id", userID)
		return nil, apperrors.NewInternalError("failed to list notifications", err)
	}
	return items, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to count notifications", err)
	}
	return n, nil
}

// MarkRead only touches rows owned by userID, anything else looks like a missing row.
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	affected, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to mark notification read", err)
	}
	if affected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to mark notifications read", err)
	}
	return affected, nil
}

func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	affected, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return apperrors.NewInternalError("failed to delete notification", err)
	}
	if affected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	s.logger.Info("notification deleted", "notification_id", id, "user_id", userID)
	return nil
}
