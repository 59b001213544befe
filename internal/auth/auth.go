package auth

import (
	"context"
	"time"

	userDatamodel "github.com/frahmantamala/applicant-tracking/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleCandidate = userDatamodel.RoleCandidate
	RoleHR        = userDatamodel.RoleHR
	RoleAdmin     = userDatamodel.RoleAdmin
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

// User is the authenticated actor carried on the request context.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

// Credentials is what login needs from the user store.
type Credentials struct {
	UserID       int64
	Email        string
	Role         string
	Status       string
	PasswordHash string
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(u *User) (string, error)
	GenerateRefreshToken(u *User) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	AccessTTL() time.Duration
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
