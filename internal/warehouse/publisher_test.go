package warehouse

import (
	"encoding/json"
	"testing"

	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShipmentFromOrder(t *testing.T) {
	t.Parallel()

	o := &models.Order{
		ID:          uuid.New(),
		UserID:      "u1",
		AddressInfo: models.AddressInfo{City: "Pune", Pincode: "411001"},
		Items: []models.OrderItem{
			{ProductID: "p1", Title: "Shirt", Quantity: 2, Price: decimal.NewFromInt(10)},
			{ProductID: "p2", Title: "Hat", Quantity: 1, Price: decimal.NewFromInt(5)},
		},
	}

	s := ShipmentFromOrder(o)
	assert.Equal(t, o.ID.String(), s.OrderID)
	assert.Equal(t, "Pune", s.Address.City)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, Line{ProductID: "p1", Title: "Shirt", Quantity: 2}, s.Lines[0])

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"orderId"`)
}
