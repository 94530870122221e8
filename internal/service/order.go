package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/shopfront/internal/events"
	"github.com/Skotchmaster/shopfront/internal/metrics"
	"github.com/Skotchmaster/shopfront/internal/models"
	"github.com/Skotchmaster/shopfront/internal/repo"
	"github.com/Skotchmaster/shopfront/internal/telemetry"
	"github.com/Skotchmaster/shopfront/pkg/logging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type OrderService struct {
	Repo      *repo.GormRepo
	Events    EventPublisher
	Warehouse WarehouseNotifier
	Metrics   *metrics.Shop
}

type OrderItemInput struct {
	ProductID string
	Title     string
	Image     string
	Price     decimal.Decimal
	Quantity  int
}

type CreateOrderInput struct {
	UserID        string
	CartID        string
	Items         []OrderItemInput
	AddressInfo   models.AddressInfo
	PaymentMethod string
	TotalAmount   decimal.Decimal
}

type CaptureInput struct {
	OrderID   string
	PaymentID string
	PayerID   string
}

func validateOrder(in CreateOrderInput) error {
	if strings.TrimSpace(in.UserID) == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: cartItems must be a non-empty list", ErrValidation)
	}
	if !in.TotalAmount.IsPositive() {
		return fmt.Errorf("%w: totalAmount must be a positive number", ErrValidation)
	}
	if !validMoney(in.TotalAmount) {
		return fmt.Errorf("%w: totalAmount must have at most 2 decimals and fit 12 digits", ErrValidation)
	}
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return fmt.Errorf("%w: cartItems[%d] is missing productId", ErrValidation, i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("%w: cartItems[%d] quantity must be at least 1", ErrValidation, i)
		}
		if it.Price.IsNegative() || !validMoney(it.Price) {
			return fmt.Errorf("%w: cartItems[%d] price must be a non-negative amount with at most 2 decimals", ErrValidation, i)
		}
	}
	return nil
}

// Create stores a pending order that snapshots the submitted basket. Stock is
// only taken at capture time.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (order *models.Order, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.create", attribute.String("user.id", in.UserID))
	defer func() { telemetry.End(span, err) }()

	l := logging.FromContext(ctx).With("svc", "order.create", "user_id", in.UserID)

	if err := validateOrder(in); err != nil {
		l.Warn("create_order_rejected", "reason", Message(err))
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		pid := strings.TrimSpace(it.ProductID)
		if parsed, perr := uuid.Parse(pid); perr == nil {
			pid = parsed.String()
		}
		items = append(items, models.OrderItem{
			ProductID: pid,
			Title:     it.Title,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order = &models.Order{
		UserID:        in.UserID,
		CartID:        in.CartID,
		Items:         items,
		AddressInfo:   in.AddressInfo,
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		PaymentMethod: in.PaymentMethod,
		TotalAmount:   in.TotalAmount,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("create_order_failed", "error", err)
		return nil, err
	}

	s.Metrics.OrderCreated()
	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), "order_created", map[string]any{
		"orderId":     order.ID.String(),
		"userId":      order.UserID,
		"totalAmount": order.TotalAmount.String(),
		"items":       len(order.Items),
	})
	l.Info("order_created", "order_id", order.ID)
	return order, nil
}

// Capture confirms payment for an order. Stock decrements, cart removal and the
// order update commit together or not at all.
func (s *OrderService) Capture(ctx context.Context, in CaptureInput) (order *models.Order, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.capture", attribute.String("order.id", in.OrderID))
	defer func() { telemetry.End(span, err) }()

	l := logging.FromContext(ctx).With("svc", "order.capture", "order_id", in.OrderID)

	id, perr := uuid.Parse(in.OrderID)
	if perr != nil {
		s.Metrics.Capture("not_found", 0)
		return nil, fmt.Errorf("%w: Order can not be found", ErrNotFound)
	}

	units := 0
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: Order can not be found", ErrNotFound)
			}
			return err
		}
		if o.PaymentStatus == models.PaymentStatusPaid {
			return fmt.Errorf("%w: Order already captured", ErrConflict)
		}
		if !CanTransition(o.OrderStatus, models.OrderStatusConfirmed) {
			return fmt.Errorf("%w: Order in status %s can not be captured", ErrConflict, o.OrderStatus)
		}

		for _, it := range o.Items {
			if err := takeStock(ctx, tx, it); err != nil {
				return err
			}
			units += it.Quantity
		}

		if cartID, cerr := uuid.Parse(o.CartID); cerr == nil {
			deleted, err := tx.DeleteCart(ctx, cartID, o.UserID)
			if err != nil {
				return err
			}
			if deleted {
				o.CartID = ""
			}
		}

		o.PaymentStatus = models.PaymentStatusPaid
		o.OrderStatus = models.OrderStatusConfirmed
		o.PaymentID = in.PaymentID
		o.PayerID = in.PayerID
		o.UpdatedAt = time.Now().UTC()
		if err := tx.SaveCapture(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		s.Metrics.Capture(captureOutcome(err), 0)
		l.Warn("capture_failed", "reason", Message(err), "error", err)
		return nil, err
	}

	s.Metrics.Capture("success", units)
	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), "order_captured", map[string]any{
		"orderId":   order.ID.String(),
		"userId":    order.UserID,
		"paymentId": order.PaymentID,
		"units":     units,
	})
	if s.Warehouse != nil {
		if werr := s.Warehouse.NotifyCaptured(ctx, order); werr != nil {
			l.Warn("warehouse_notify_failed", "error", werr)
		}
	}
	l.Info("order_captured", "units", units)
	return order, nil
}

func takeStock(ctx context.Context, tx *repo.GormRepo, it models.OrderItem) error {
	pid, err := uuid.Parse(it.ProductID)
	if err != nil {
		return fmt.Errorf("%w: Product not found for id %s", ErrNotFound, it.ProductID)
	}
	ok, err := tx.DecrementStock(ctx, pid, it.Quantity)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	p, err := tx.GetProduct(ctx, pid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: Product not found for id %s", ErrNotFound, it.ProductID)
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: Not enough stock for this product %s", ErrInsufficientStock, p.Title)
}

func captureOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	}
	return "error"
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: No orders found!", ErrNotFound)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("%w: No orders found!", ErrNotFound)
	}
	return orders, nil
}

func (s *OrderService) Details(ctx context.Context, id string) (*models.Order, error) {
	oid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: Order not found!", ErrNotFound)
	}
	order, err := s.Repo.GetOrder(ctx, oid)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: Order not found!", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus is the admin override. Cancelling a paid order puts its units
// back on the shelf in the same transaction.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (order *models.Order, err error) {
	ctx, span := telemetry.StartSpan(ctx, "order.update_status",
		attribute.String("order.id", id), attribute.String("order.status", status))
	defer func() { telemetry.End(span, err) }()

	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", id)

	to := models.OrderStatus(strings.TrimSpace(status))
	if to == "" {
		return nil, fmt.Errorf("%w: orderStatus is required!", ErrValidation)
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}
	oid, perr := uuid.Parse(id)
	if perr != nil {
		return nil, fmt.Errorf("%w: Order not found!", ErrNotFound)
	}

	restocked := 0
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.GetOrderForUpdate(ctx, oid)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: Order not found!", ErrNotFound)
		}
		if err != nil {
			return err
		}
		if o.OrderStatus == to || !CanTransition(o.OrderStatus, to) {
			return fmt.Errorf("%w: invalid order status transition", ErrConflict)
		}
		// Only capture confirms an order; until then the override may only cancel it.
		if o.PaymentStatus != models.PaymentStatusPaid && to != models.OrderStatusCancelled {
			return fmt.Errorf("%w: Order is not paid yet", ErrConflict)
		}

		if to == models.OrderStatusCancelled && o.PaymentStatus == models.PaymentStatusPaid {
			for _, it := range o.Items {
				pid, perr := uuid.Parse(it.ProductID)
				if perr != nil {
					continue
				}
				ok, err := tx.IncrementStock(ctx, pid, it.Quantity)
				if err != nil {
					return err
				}
				if ok {
					restocked += it.Quantity
				}
			}
		}

		o.OrderStatus = to
		o.UpdatedAt = time.Now().UTC()
		if err := tx.UpdateOrderStatus(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		l.Warn("update_status_failed", "to", to, "reason", Message(err), "error", err)
		return nil, err
	}

	s.Metrics.StatusChanged(string(to))
	publish(ctx, s.Events, events.TopicOrders, order.ID.String(), "order_status_changed", map[string]any{
		"orderId":     order.ID.String(),
		"orderStatus": string(to),
		"restocked":   restocked,
	})
	l.Info("order_status_updated", "to", to, "restocked", restocked)
	return order, nil
}
