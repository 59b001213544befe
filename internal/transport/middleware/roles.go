package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/frahmantamala/applicant-tracking/internal"
	"github.com/frahmantamala/applicant-tracking/internal/auth"
)

// RequireRoles lets the request through when the authenticated user has one of roles.
// It must run after the auth middleware.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				writeAppError(w, apperrors.NewUnauthorizedError("missing authorization token", apperrors.ErrCodeInvalidToken))
				return
			}

			if !user.HasRole(roles...) {
				slog.Warn("access denied: role not allowed",
					"user_id", user.ID,
					"role", user.Role,
					"required_roles", roles)
				writeAppError(w, apperrors.ErrUnauthorizedAccess)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	_ = json.NewEncoder(w).Encode(apperrors.Response{Error: appErr})
}
