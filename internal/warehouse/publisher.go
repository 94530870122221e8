package warehouse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Skotchmaster/shopfront/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

type Line struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

// Shipment is the message the warehouse consumes for a captured order.
type Shipment struct {
	OrderID   string             `json:"orderId"`
	UserID    string             `json:"userId"`
	Address   models.AddressInfo `json:"addressInfo"`
	Lines     []Line             `json:"lines"`
	CreatedAt time.Time          `json:"createdAt"`
}

func ShipmentFromOrder(o *models.Order) Shipment {
	lines := make([]Line, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, Line{ProductID: it.ProductID, Title: it.Title, Quantity: it.Quantity})
	}
	return Shipment{
		OrderID:   o.ID.String(),
		UserID:    o.UserID,
		Address:   o.AddressInfo,
		Lines:     lines,
		CreatedAt: time.Now().UTC(),
	}
}

type Publisher struct {
	pool      *ChannelPool
	queueName string
}

func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{pool: pool, queueName: queueName}
}

func (p *Publisher) NotifyCaptured(ctx context.Context, o *models.Order) error {
	body, err := json.Marshal(ShipmentFromOrder(o))
	if err != nil {
		return fmt.Errorf("marshal shipment: %w", err)
	}

	ch, err := p.pool.Get()
	if err != nil {
		return err
	}
	defer p.pool.Put(ch)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    o.ID.String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish shipment %s: %w", o.ID, err)
	}
	return nil
}

type Nop struct{}

func (Nop) NotifyCaptured(context.Context, *models.Order) error { return nil }
