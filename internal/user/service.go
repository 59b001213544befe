package user

import (
	"context"
	"errors"
	"log/slog"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
)

type RepositoryAPI interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	UpdateProfile(ctx context.Context, id int64, fields map[string]interface{}) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	SetCalendarToken(ctx context.Context, id int64, token *string) error
	List(ctx context.Context, role string, limit, offset int) ([]*User, error)
}

type Service struct {
	repo       RepositoryAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, bcryptCost int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, bcryptCost: bcryptCost, logger: logger}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Email:        dto.Email,
		Name:         dto.Name,
		PasswordHash: hash,
		Role:         dto.Role,
		Status:       StatusActive,
		Phone:        dto.Phone,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicateEmail) {
			s.logger.Error("failed to register user", "error", err, "email", dto.Email)
		}
		return nil, asAppError(err, "failed to register user")
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, asAppError(err, "failed to load user")
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	fields := map[string]interface{}{}
	if dto.Name != nil {
		fields["name"] = *dto.Name
	}
	if dto.Phone != nil {
		fields["phone"] = *dto.Phone
	}
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		fields["password_hash"] = hash
	}

	if len(fields) > 0 {
		if err := s.repo.UpdateProfile(ctx, id, fields); err != nil {
			return nil, asAppError(err, "failed to update profile")
		}
	}
	return s.GetByID(ctx, id)
}

// SetStatus opens or closes an account. Closed accounts cannot log in.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*User, error) {
	if appErr := (SetStatusDTO{Status: status}).Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, asAppError(err, "failed to update user status")
	}
	s.logger.Info("user status changed", "user_id", id, "status", status)
	return s.GetByID(ctx, id)
}

// ConnectCalendar stores the calendar credential used when booking interviews.
// An empty token disconnects the calendar.
func (s *Service) ConnectCalendar(ctx context.Context, id int64, token string) (*User, error) {
	if appErr := (ConnectCalendarDTO{Token: token}).Validate(); appErr != nil {
		return nil, appErr
	}
	var stored *string
	if token != "" {
		stored = &token
	}
	if err := s.repo.SetCalendarToken(ctx, id, stored); err != nil {
		return nil, asAppError(err, "failed to store calendar credential")
	}
	s.logger.Info("calendar credential updated", "user_id", id, "connected", stored != nil)
	return s.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, role string, limit, offset int) ([]*User, error) {
	items, err := s.repo.List(ctx, role, limit, offset)
	if err != nil {
		return nil, asAppError(err, "failed to list users")
	}
	return items, nil
}

func asAppError(err error, msg string) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.NewInternalError(msg, err)
}
