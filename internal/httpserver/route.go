package httpserver

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/pkg/db"
	authmw "github.com/Skotchmaster/shopfront/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB      *gorm.DB
	AuthMW  *authmw.AutoRefreshMiddleware
	Metrics *metrics.Shop

	Auth          *AuthHTTP
	Orders        *OrderHTTP
	AdminOrders   *AdminOrderHTTP
	Cart          *CartHTTP
	Products      *ProductHTTP
	AdminProducts *AdminProductHTTP
	Reviews       *ReviewHTTP
	Addresses     *AddressHTTP
	Features      *FeatureHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := db.Ping(c.Request().Context(), d.DB, 2*time.Second); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	authGroup := e.Group("/api/auth")
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	authGroup.POST("/refresh", d.Auth.Refresh)
	authGroup.POST("/logout", d.Auth.Logout)
	authGroup.GET("/check-auth", d.Auth.CheckAuth, d.AuthMW.RequireAuth)

	shop := e.Group("/api/shop")
	shop.GET("/products/get", d.Products.List)
	shop.GET("/products/get/:id", d.Products.Details)
	shop.GET("/search/:keyword", d.Products.Search)
	shop.GET("/review/:productId", d.Reviews.List)

	private := shop.Group("", d.AuthMW.RequireAuth)
	private.POST("/order/create", d.Orders.Create)
	private.POST("/order/capture", d.Orders.Capture)
	private.GET("/order/list/:userId", d.Orders.ListByUser)
	private.GET("/order/details/:id", d.Orders.Details)

	private.POST("/cart/add", d.Cart.Add)
	private.GET("/cart/get/:userId", d.Cart.Get)
	private.PUT("/cart/update-cart", d.Cart.Update)
	private.DELETE("/cart/clear/:userId", d.Cart.Clear)
	private.DELETE("/cart/:userId/:productId", d.Cart.Remove)

	private.POST("/address/add", d.Addresses.Add)
	private.GET("/address/get/:userId", d.Addresses.List)
	private.PUT("/address/update/:userId/:addressId", d.Addresses.Update)
	private.DELETE("/address/delete/:userId/:addressId", d.Addresses.Delete)

	private.POST("/review/add", d.Reviews.Add)

	admin := e.Group("/api/admin", d.AuthMW.RequireAdmin)
	admin.GET("/orders/get", d.AdminOrders.List)
	admin.GET("/orders/details/:id", d.AdminOrders.Details)
	admin.PUT("/orders/update/:id", d.AdminOrders.UpdateStatus)
	admin.POST("/products/add", d.AdminProducts.Add)
	admin.PUT("/products/edit/:id", d.AdminProducts.Edit)
	admin.DELETE("/products/delete/:id", d.AdminProducts.Delete)
	admin.GET("/products/get", d.AdminProducts.List)

	feature := e.Group("/api/common/feature")
	feature.GET("/get", d.Features.List)
	feature.POST("/add", d.Features.Add, d.AuthMW.RequireAdmin)
}
