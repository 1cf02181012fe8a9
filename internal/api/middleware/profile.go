package middleware

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
)

// ProfileGetter looks up a user's profile.
type ProfileGetter interface {
	Get(ctx context.Context, uid string) (*domain.UserProfile, error)
}

// RequireProfile blocks first-time users until they register a display
// name. Must run after Auth.
func RequireProfile(profiles ProfileGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uid, _ := c.Get(UIDKey).(string)
			if uid == "" {
				return domain.ErrUnauthenticated
			}

			p, err := profiles.Get(c.Request().Context(), uid)
			if err != nil {
				if errors.Is(err, domain.ErrProfileNotFound) {
					return domain.ErrProfileRequired
				}
				return err
			}

			c.Set(ProfileKey, p)
			return next(c)
		}
	}
}
