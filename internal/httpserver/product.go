package httpserver

import (
	"net/http"
	"strconv"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type ProductHTTP struct {
	Svc *service.CatalogService
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	res, err := h.Svc.List(ctx, service.ListQuery{
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		SortBy:   c.QueryParam("sortBy"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return fail(l, "list_products_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"data":       res.Products,
		"pagination": res.Pagination,
	})
}

func (h *ProductHTTP) Details(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.details")

	p, err := h.Svc.Details(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "product_details_error", err)
	}
	return ok(c, http.StatusOK, "", p)
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	products, err := h.Svc.Search(ctx, c.Param("keyword"))
	if err != nil {
		return fail(l, "search_products_error", err)
	}
	return ok(c, http.StatusOK, "", products)
}

type AdminProductHTTP struct {
	Svc *service.CatalogService
}

func (h *AdminProductHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.add")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_product_error", err)
	}

	p, err := h.Svc.Create(ctx, req.Input())
	if err != nil {
		return fail(l, "add_product_error", err)
	}
	l.Info("product_added", "product_id", p.ID)
	return ok(c, http.StatusCreated, "", p)
}

func (h *AdminProductHTTP) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.edit")

	var req transport.ProductPatchRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "edit_product_error", err)
	}

	p, err := h.Svc.Edit(ctx, c.Param("id"), req.Patch())
	if err != nil {
		return fail(l, "edit_product_error", err)
	}
	return ok(c, http.StatusOK, "", p)
}

func (h *AdminProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.delete")

	if err := h.Svc.Delete(ctx, c.Param("id")); err != nil {
		return fail(l, "delete_product_error", err)
	}
	l.Info("product_deleted", "product_id", c.Param("id"))
	return ok(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *AdminProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.product.list")

	products, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "admin_list_products_error", err)
	}
	return ok(c, http.StatusOK, "", products)
}
