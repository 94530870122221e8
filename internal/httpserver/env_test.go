package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/dbtest"
	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/service"
	authmw "github.com/Skotchmaster/shopfront/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	E      *echo.Echo
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Events *events.Recorder

	Deps *Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb := dbtest.Open(t)
	r := repo.New(gdb)
	rec := &events.Recorder{}

	authSvc := &service.AuthService{
		Repo:          r,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        rec,
	}
	orders := &service.OrderService{Repo: r, Events: rec}
	catalog := &service.CatalogService{Repo: r, Events: rec}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler

	deps := &Deps{
		DB:            gdb,
		AuthMW:        authmw.NewAutoRefreshMiddleware(authSvc.JWTSecret, authSvc.Refresh, false),
		Auth:          &AuthHTTP{Svc: authSvc},
		Orders:        &OrderHTTP{Svc: orders},
		AdminOrders:   &AdminOrderHTTP{Svc: orders},
		Cart:          &CartHTTP{Svc: &service.CartService{Repo: r}},
		Products:      &ProductHTTP{Svc: catalog},
		AdminProducts: &AdminProductHTTP{Svc: catalog},
		Reviews:       &ReviewHTTP{Svc: &service.ReviewService{Repo: r, Events: rec}},
		Addresses:     &AddressHTTP{Svc: &service.AddressService{Repo: r}},
		Features:      &FeatureHTTP{Svc: &service.FeatureService{Repo: r}},
	}
	Register(e, deps)

	return &testEnv{E: e, DB: gdb, Repo: r, Events: rec, Deps: deps}
}

func (env *testEnv) doJSONRequest(method, target string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, env.E.NewContext(req, rec)
}

func asUser(c echo.Context, userID string) echo.Context {
	c.Set(authmw.CtxUserID, userID)
	c.Set(authmw.CtxRole, authmw.RoleUser)
	return c
}

func asAdmin(c echo.Context) echo.Context {
	c.Set(authmw.CtxUserID, "admin-1")
	c.Set(authmw.CtxRole, authmw.RoleAdmin)
	return c
}

func withParams(c echo.Context, kv ...string) echo.Context {
	var names, values []string
	for i := 0; i+1 < len(kv); i += 2 {
		names = append(names, kv[i])
		values = append(values, kv[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c
}

func (env *testEnv) product(t *testing.T, title string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Title: title, Price: decimal.NewFromInt(25), TotalStock: stock}
	require.NoError(t, env.Repo.CreateProduct(context.Background(), p))
	return p
}

func (env *testEnv) stock(t *testing.T, p *models.Product) int {
	t.Helper()
	got, err := env.Repo.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	return got.TotalStock
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he), "expected *echo.HTTPError, got %v", err)
	return he.Code
}

func httpMessage(t *testing.T, err error) any {
	t.Helper()
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	return he.Message
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	OrderID string          `json:"orderId"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var out envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
