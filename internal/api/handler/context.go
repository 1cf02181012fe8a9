package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/api/middleware"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their
// presence proves the middleware ran.
func ctxClaims(c echo.Context) (ports.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsKey).(ports.Claims)
	if !ok || claims.UID == "" {
		return ports.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}

// ctxProfile extracts the profile injected by RequireProfile.
func ctxProfile(c echo.Context) (*domain.UserProfile, error) {
	p, ok := c.Get(middleware.ProfileKey).(*domain.UserProfile)
	if !ok || p == nil {
		return nil, domain.ErrProfileRequired
	}
	return p, nil
}

// bindAndValidate binds the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
