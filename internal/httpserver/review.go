package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.add")

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_review_error", err)
	}
	if err := authorize(c, l, "add_review_error", req.UserID); err != nil {
		return err
	}

	review, err := h.Svc.Add(ctx, req.Input())
	if err != nil {
		return fail(l, "add_review_error", err)
	}
	l.Info("review_added", "product_id", review.ProductID)
	return ok(c, http.StatusCreated, "", review)
}

func (h *ReviewHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	reviews, err := h.Svc.List(ctx, c.Param("productId"))
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return ok(c, http.StatusOK, "", reviews)
}
