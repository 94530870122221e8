package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_to_cart_error", err)
	}
	if err := authorize(c, l, "add_to_cart_error", req.UserID); err != nil {
		return err
	}

	cart, err := h.Svc.Add(ctx, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}
	return ok(c, http.StatusOK, "", cart)
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID := c.Param("userId")
	if err := authorize(c, l, "get_cart_error", userID); err != nil {
		return err
	}

	cart, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return ok(c, http.StatusOK, "", cart)
}

func (h *CartHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	var req transport.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_cart_error", err)
	}
	if err := authorize(c, l, "update_cart_error", req.UserID); err != nil {
		return err
	}

	cart, err := h.Svc.Update(ctx, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "update_cart_error", err)
	}
	return ok(c, http.StatusOK, "", cart)
}

func (h *CartHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	userID := c.Param("userId")
	if err := authorize(c, l, "remove_cart_item_error", userID); err != nil {
		return err
	}

	cart, err := h.Svc.Remove(ctx, userID, c.Param("productId"))
	if err != nil {
		return fail(l, "remove_cart_item_error", err)
	}
	return ok(c, http.StatusOK, "", cart)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID := c.Param("userId")
	if err := authorize(c, l, "clear_cart_error", userID); err != nil {
		return err
	}

	msg, err := h.Svc.Clear(ctx, userID)
	if err != nil {
		return fail(l, "clear_cart_error", err)
	}
	l.Info("cart_cleared", "user_id", userID)
	return ok(c, http.StatusOK, msg, nil)
}
