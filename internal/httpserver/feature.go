package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/shopfront/internal/service"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/labstack/echo/v4"
)

type FeatureHTTP struct {
	Svc *service.FeatureService
}

func (h *FeatureHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feature.add")

	var req transport.FeatureRequest
	if err := c.Bind(&req); err != nil {
		return badBody(l, "add_feature_error", err)
	}

	f, err := h.Svc.Add(ctx, req.Image)
	if err != nil {
		return fail(l, "add_feature_error", err)
	}
	return ok(c, http.StatusCreated, "", f)
}

func (h *FeatureHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feature.list")

	features, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_features_error", err)
	}
	return ok(c, http.StatusOK, "", features)
}
