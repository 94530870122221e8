package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/Skotchmaster/shopfront/pkg/tokens"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RefreshFunc rotates a refresh token and returns a fresh pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (*tokens.Pair, error)

type AutoRefreshMiddleware struct {
	JWTSecret    []byte
	Refresh      RefreshFunc
	SecureCookie bool
}

func NewAutoRefreshMiddleware(secret []byte, refresh RefreshFunc, secureCookie bool) *AutoRefreshMiddleware {
	return &AutoRefreshMiddleware{
		JWTSecret:    secret,
		Refresh:      refresh,
		SecureCookie: secureCookie,
	}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AutoRefreshMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AutoRefreshMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func (m *AutoRefreshMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie(tokens.AccessCookie)
		if err != nil || accessCookie.Value == "" {
			return m.refreshAndContinue(c, next, validator)
		}

		claims, err := tokens.AccessClaimsFromToken(accessCookie.Value, m.JWTSecret)
		if err == nil && claims != nil && claims.Subject != "" {
			if validator != nil {
				if vErr := validator(claims); vErr != nil {
					return vErr
				}
			}
			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			m.clearAuthCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		return m.refreshAndContinue(c, next, validator)
	}
}

func (m *AutoRefreshMiddleware) refreshAndContinue(c echo.Context, next echo.HandlerFunc, validator ValidatorFunc) error {
	l := logging.FromContext(c.Request().Context()).With("middleware", "auth.refresh")

	refreshCookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || refreshCookie.Value == "" || m.Refresh == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}

	pair, err := m.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		l.Warn("refresh_failed", "status", 401, "error", err)
		m.clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}

	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, pair.AccessToken, "/", pair.AccessExp, m.SecureCookie))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, pair.RefreshToken, "/", pair.RefreshExp, m.SecureCookie))

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
	if err != nil || claims == nil {
		m.clearAuthCookies(c)
		return echo.NewHTTPError(http.StatusUnauthorized, "new access token invalid")
	}

	if validator != nil {
		if vErr := validator(claims); vErr != nil {
			return vErr
		}
	}

	setUserContext(c, claims)
	return next(c)
}

func (m *AutoRefreshMiddleware) clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", m.SecureCookie))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", m.SecureCookie))
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxRole, claims.Role)
}
