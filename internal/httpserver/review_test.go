package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reviewBody(userID string, p *models.Product, value float64) map[string]any {
	return map[string]any{
		"productId":     p.ID.String(),
		"userId":        userID,
		"userName":      "alice",
		"reviewMessage": "solid lamp",
		"reviewValue":   value,
	}
}

func (env *testEnv) buy(t *testing.T, userID string, p *models.Product) {
	t.Helper()
	orderID := env.createOrder(t, userID, p, 1)
	_, c := env.doJSONRequest(http.MethodPost, "/api/shop/order/capture", map[string]any{
		"orderId": orderID, "paymentId": "PAY", "payerId": "PAYER",
	})
	require.NoError(t, env.Deps.Orders.Capture(asUser(c, userID)))
}

func TestReviewAdd_WithoutPurchase(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Lamp", 5)

	_, c := env.doJSONRequest(http.MethodPost, "/api/shop/review/add", reviewBody("u1", p, 4))
	err := env.Deps.Reviews.Add(asUser(c, "u1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
	assert.Equal(t, "You need to purchase product to review it.", httpMessage(t, err))
}

func TestReviewAdd_BuyerThenDuplicate(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Lamp", 5)
	env.buy(t, "u1", p)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/shop/review/add", reviewBody("u1", p, 4))
	require.NoError(t, env.Deps.Reviews.Add(asUser(c, "u1")))
	require.Equal(t, http.StatusCreated, rec.Code)

	var review models.Review
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &review))
	assert.Equal(t, "u1", review.UserID)
	assert.InDelta(t, 4.0, review.ReviewValue, 1e-9)

	_, c = env.doJSONRequest(http.MethodPost, "/api/shop/review/add", reviewBody("u1", p, 2))
	err := env.Deps.Reviews.Add(asUser(c, "u1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, httpCode(t, err))

	got, err := env.Repo.GetProduct(t.Context(), p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got.AverageReview, 1e-9)
}

func TestReviewAdd_Validation(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Lamp", 5)

	body := reviewBody("u1", p, 4)
	body["reviewMessage"] = ""
	_, c := env.doJSONRequest(http.MethodPost, "/api/shop/review/add", body)
	err := env.Deps.Reviews.Add(asUser(c, "u1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	_, c = env.doJSONRequest(http.MethodPost, "/api/shop/review/add", reviewBody("u1", p, 0))
	err = env.Deps.Reviews.Add(asUser(c, "u1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))
}

func TestReviewAdd_ForSomeoneElse(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Lamp", 5)

	_, c := env.doJSONRequest(http.MethodPost, "/api/shop/review/add", reviewBody("u2", p, 4))
	err := env.Deps.Reviews.Add(asUser(c, "u1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))
}

func TestReviewList(t *testing.T) {
	env := newTestEnv(t)
	p := env.product(t, "Lamp", 5)
	env.buy(t, "u1", p)

	_, c := env.doJSONRequest(http.MethodPost, "/api/shop/review/add", reviewBody("u1", p, 5))
	require.NoError(t, env.Deps.Reviews.Add(asUser(c, "u1")))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/shop/review/"+p.ID.String(), nil)
	require.NoError(t, env.Deps.Reviews.List(withParams(c, "productId", p.ID.String())))
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &reviews))
	assert.Len(t, reviews, 1)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/shop/review/nope", nil)
	require.NoError(t, env.Deps.Reviews.List(withParams(c, "productId", "nope")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decode(t, rec).Data))
}
