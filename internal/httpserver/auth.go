package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/Skotchmaster/shopfront/pkg/tokens"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) setCookies(c echo.Context, p *tokens.Pair) {
	c.SetCookie(tokens.CreateCookie(tokens.AccessCookie, p.AccessToken, "/", p.AccessExp, h.SecureCookie))
	c.SetCookie(tokens.CreateCookie(tokens.RefreshCookie, p.RefreshToken, "/", p.RefreshExp, h.SecureCookie))
}

func (h *AuthHTTP) clearCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie(tokens.AccessCookie, "/", h.SecureCookie))
	c.SetCookie(tokens.DeleteCookie(tokens.RefreshCookie, "/", h.SecureCookie))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "register_error", err)
	}

	user, err := h.Svc.Register(ctx, service.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_successful", "user_id", user.ID)
	return ok(c, http.StatusCreated, "Registration successful", transport.NewUserResponse(user))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	h.setCookies(c, &res.Pair)
	l.Info("login_successful", "user_id", res.User.ID)
	return ok(c, http.StatusOK, "Logged in successfully", transport.NewUserResponse(res.User))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	cookie, err := c.Cookie(tokens.RefreshCookie)
	if err != nil || cookie.Value == "" {
		l.Warn("refresh_error", "status", http.StatusUnauthorized, "reason", "refresh cookie missing")
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}

	pair, err := h.Svc.Refresh(ctx, cookie.Value)
	if err != nil {
		h.clearCookies(c)
		return fail(l, "refresh_error", err)
	}

	h.setCookies(c, pair)
	return ok(c, http.StatusOK, "Tokens refreshed", nil)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if cookie, err := c.Cookie(tokens.RefreshCookie); err == nil {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			h.clearCookies(c)
			return fail(l, "logout_error", err)
		}
	}

	h.clearCookies(c)
	l.Info("logout_successful")
	return ok(c, http.StatusOK, "Logged out successfully!", nil)
}

func (h *AuthHTTP) CheckAuth(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.check")

	userID, _ := caller(c)
	user, err := h.Svc.CurrentUser(ctx, userID)
	if err != nil {
		return fail(l, "check_auth_error", err)
	}
	return ok(c, http.StatusOK, "Authenticated user!", transport.NewUserResponse(user))
}
