package internal

import (
	"context"
	"time"
)

// DefaultTimeout bounds a request when no explicit timeout is configured.
const DefaultTimeout = 5 * time.Second

// WithTimeout bounds ctx by duration, falling back to DefaultTimeout for zero or negative values.
// A parent deadline that is already sooner wins.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = DefaultTimeout
	}
	return context.WithTimeout(ctx, duration)
}
