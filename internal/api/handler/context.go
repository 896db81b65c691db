package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/koptay/client-portal/internal/core/domain"
	"github.com/koptay/client-portal/internal/core/ports"
)

// ctxActor extracts the identity injected by the Auth middleware and performs
// a fast-fail check before any service call: a zero user ID or an unknown role
// means the middleware did not run for this route.
func ctxActor(c echo.Context) (ports.Actor, error) {
	userID, _ := c.Get("user_id").(int64)
	role, _ := c.Get("role").(string)
	fullName, _ := c.Get("full_name").(string)

	actor := ports.Actor{
		UserID:    userID,
		Role:      domain.Role(role),
		FullName:  fullName,
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	if actor.UserID == 0 || !actor.Role.Valid() {
		return ports.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// ctxToken returns the raw bearer token the request presented.
func ctxToken(c echo.Context) string {
	token, _ := c.Get("token").(string)
	return token
}
