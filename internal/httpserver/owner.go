package httpserver

import (
	"log/slog"
	"net/http"

	authmw "github.com/Skotchmaster/shopfront/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
)

func caller(c echo.Context) (userID string, admin bool) {
	userID, _ = c.Get(authmw.CtxUserID).(string)
	role, _ := c.Get(authmw.CtxRole).(string)
	return userID, role == authmw.RoleAdmin
}

// authorize lets callers act on their own userId only. Admins may act on any.
func authorize(c echo.Context, l *slog.Logger, event, userID string) error {
	me, admin := caller(c)
	if me == "" {
		l.Warn(event, "status", http.StatusUnauthorized, "reason", "no user claim")
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}
	if admin || me == userID {
		return nil
	}
	l.Warn(event, "status", http.StatusForbidden, "reason", "user mismatch", "caller", me, "target", userID)
	return echo.NewHTTPError(http.StatusForbidden, "You are not allowed to access this resource")
}
