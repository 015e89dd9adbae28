package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdesk/employee-directory/internal/api/middleware"
)

// ctxAccountID returns the account id injected by the Auth middleware. An
// empty id means the route was mounted without Auth, so the request is
// rejected before any service call.
func ctxAccountID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.ContextKeyAccountID).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
