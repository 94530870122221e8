package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/transport"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) serve(method, target string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T, email, password string) (transport.UserResponse, []*http.Cookie) {
	t.Helper()
	rec := env.serve(http.MethodPost, "/api/auth/login", map[string]any{"email": email, "password": password}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var user transport.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &user))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	return user, cookies
}

func TestRoutes_Health(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.serve(http.MethodGet, "/health/live", nil, nil).Code)
	assert.Equal(t, http.StatusOK, env.serve(http.MethodGet, "/health/ready", nil, nil).Code)
}

func TestRoutes_UnknownPathUsesEnvelope(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(http.MethodGet, "/api/nowhere", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	out := decode(t, rec)
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Message)
}

func TestRoutes_ProtectedWithoutCookies(t *testing.T) {
	env := newTestEnv(t)

	rec := env.serve(http.MethodGet, "/api/shop/order/list/u1", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode(t, rec).Success)
}

func TestRoutes_CheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	require.NoError(t, env.Deps.Auth.Svc.EnsureAdmin(ctx, "admin@shop.test", "admin-pass"))
	_, adminCookies := env.login(t, "admin@shop.test", "admin-pass")

	rec := env.serve(http.MethodPost, "/api/admin/products/add", map[string]any{
		"title": "Lamp", "price": 25, "totalStock": 3,
	}, adminCookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var product models.Product
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &product))

	rec = env.serve(http.MethodPost, "/api/auth/register", map[string]any{
		"userName": "alice", "email": "Alice@Shop.test", "password": "secret-pass",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.serve(http.MethodPost, "/api/auth/register", map[string]any{
		"userName": "alice2", "email": "alice@shop.test", "password": "secret-pass",
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	user, cookies := env.login(t, "alice@shop.test", "secret-pass")

	rec = env.serve(http.MethodGet, "/api/auth/check-auth", nil, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(http.MethodPost, "/api/shop/cart/add", map[string]any{
		"userId": user.ID, "productId": product.ID.String(), "quantity": 2,
	}, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var cart struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &cart))

	rec = env.serve(http.MethodPost, "/api/shop/order/create", map[string]any{
		"userId": user.ID,
		"cartId": cart.ID,
		"cartItems": []map[string]any{
			{"productId": product.ID.String(), "title": "Lamp", "price": 25, "quantity": 2},
		},
		"addressInfo":   map[string]any{"address": "1 Main St"},
		"paymentMethod": "paypal",
		"totalAmount":   50,
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	orderID := decode(t, rec).OrderID

	rec = env.serve(http.MethodPost, "/api/shop/order/capture", map[string]any{
		"orderId": orderID, "paymentId": "PAY-9", "payerId": "PAYER-9",
	}, cookies)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := env.Repo.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalStock)

	rec = env.serve(http.MethodGet, "/api/shop/cart/get/"+user.ID, nil, cookies)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.serve(http.MethodPost, "/api/shop/review/add", map[string]any{
		"productId": product.ID.String(), "userId": user.ID, "userName": "alice",
		"reviewMessage": "bright", "reviewValue": 5,
	}, cookies)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.serve(http.MethodGet, "/api/admin/orders/get", nil, cookies)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.serve(http.MethodGet, "/api/admin/orders/get", nil, adminCookies)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.serve(http.MethodPost, "/api/auth/logout", nil, cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, ck := range rec.Result().Cookies() {
		assert.Empty(t, ck.Value, ck.Name)
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	env := newTestEnv(t)
	env.E.GET("/boom", func(c echo.Context) error { return errors.New("pq: connection refused") })

	rec := env.serve(http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	out := decode(t, rec)
	assert.False(t, out.Success)
	assert.Equal(t, "Some error occurred", out.Message)
	assert.NotContains(t, rec.Body.String(), "pq:")
}
