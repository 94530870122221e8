package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type AddressHTTP struct {
	Svc *service.AddressService
}

func (h *AddressHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.add")

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_address_error", err)
	}
	if req.UserID != "" {
		if err := authorize(c, l, "add_address_error", req.UserID); err != nil {
			return err
		}
	}

	a, err := h.Svc.Add(ctx, req.Input())
	if err != nil {
		return fail(l, "add_address_error", err)
	}
	return ok(c, http.StatusCreated, "", a)
}

func (h *AddressHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	userID := c.Param("userId")
	if err := authorize(c, l, "list_addresses_error", userID); err != nil {
		return err
	}

	addresses, err := h.Svc.List(ctx, userID)
	if err != nil {
		return fail(l, "list_addresses_error", err)
	}
	return ok(c, http.StatusOK, "", addresses)
}

func (h *AddressHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	userID := c.Param("userId")
	if err := authorize(c, l, "update_address_error", userID); err != nil {
		return err
	}

	var req transport.AddressPatchRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "update_address_error", err)
	}

	a, err := h.Svc.Update(ctx, userID, c.Param("addressId"), req.Patch())
	if err != nil {
		return fail(l, "update_address_error", err)
	}
	return ok(c, http.StatusOK, "", a)
}

func (h *AddressHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	userID := c.Param("userId")
	if err := authorize(c, l, "delete_address_error", userID); err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, userID, c.Param("addressId")); err != nil {
		return fail(l, "delete_address_error", err)
	}
	return ok(c, http.StatusOK, "Address deleted successfully", nil)
}
