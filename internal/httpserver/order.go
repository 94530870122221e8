package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "create_order_error", err)
	}
	if req.UserID != "" {
		if err := authorize(c, l, "create_order_error", req.UserID); err != nil {
			return err
		}
	}

	order, err := h.Svc.Create(ctx, req.Input())
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("order_created", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.CreateOrderResponse{Success: true, OrderID: order.ID.String()})
}

func (h *OrderHTTP) Capture(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.capture")

	var req transport.CaptureRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "capture_order_error", err)
	}

	existing, err := h.Svc.Details(ctx, req.OrderID)
	if err != nil {
		return fail(l, "capture_order_error", err)
	}
	if err := authorize(c, l, "capture_order_error", existing.UserID); err != nil {
		return err
	}

	order, err := h.Svc.Capture(ctx, service.CaptureInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		PayerID:   req.PayerID,
	})
	if err != nil {
		return fail(l, "capture_order_error", err)
	}

	l.Info("order_captured", "order_id", order.ID)
	return ok(c, http.StatusOK, "Order confirmed", order)
}

func (h *OrderHTTP) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID := c.Param("userId")
	if err := authorize(c, l, "list_orders_error", userID); err != nil {
		return err
	}

	orders, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return ok(c, http.StatusOK, "", orders)
}

func (h *OrderHTTP) Details(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.details")

	order, err := h.Svc.Details(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "order_details_error", err)
	}
	if err := authorize(c, l, "order_details_error", order.UserID); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "", order)
}

type AdminOrderHTTP struct {
	Svc *service.OrderService
}

func (h *AdminOrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order.list")

	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "admin_list_orders_error", err)
	}
	return ok(c, http.StatusOK, "", orders)
}

func (h *AdminOrderHTTP) Details(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order.details")

	order, err := h.Svc.Details(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "admin_order_details_error", err)
	}
	return ok(c, http.StatusOK, "", order)
}

func (h *AdminOrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.order.update_status")

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_order_status_error", err)
	}

	if _, err := h.Svc.UpdateStatus(ctx, c.Param("id"), req.OrderStatus); err != nil {
		return fail(l, "update_order_status_error", err)
	}

	l.Info("order_status_updated", "order_id", c.Param("id"), "status", req.OrderStatus)
	return ok(c, http.StatusOK, "Order status is updated successfully!", nil)
}
