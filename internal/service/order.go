package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

const topicOrderEvents = "order_events"

// Coords is an optional delivery point captured during checkout.
type Coords struct {
	Latitude  float64
	Longitude float64
}

type OrderService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

// CreateOrder converts the user's cart into an order. The total is always
// computed server-side from the cart; a client-supplied total is never
// accepted. An empty cart is rejected before anything is written.
func (s *OrderService) CreateOrder(ctx context.Context, userID int64, paymentMethod, address, phone string, coords *Coords, notes string) (*models.Order, error) {
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("unknown payment method %q: %w", paymentMethod, ErrValidation)
	}
	if address == "" {
		return nil, fmt.Errorf("delivery address required: %w", ErrValidation)
	}
	if phone == "" {
		return nil, fmt.Errorf("phone required: %w", ErrValidation)
	}

	order := &models.Order{
		UserID:          userID,
		DeliveryAddress: address,
		Phone:           phone,
		PaymentMethod:   paymentMethod,
		Notes:           notes,
	}
	if coords != nil {
		order.Latitude = &coords.Latitude
		order.Longitude = &coords.Longitude
	}

	if err := s.Repo.CreateOrderFromCart(ctx, order); err != nil {
		if errors.Is(err, repo.ErrEmptyCart) {
			return nil, fmt.Errorf("checkout rejected: %w", ErrEmptyCart)
		}
		return nil, err
	}

	s.publish(ctx, order.UserID, map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalAmount,
	})

	return order, nil
}

// UpdateStatus moves an order along the pipeline. Backward moves are
// rejected; cancellation is allowed from any non-terminal state.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	if !models.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, ErrValidation)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.OrderStatus, status) {
		return nil, fmt.Errorf("transition %s -> %s not allowed: %w", order.OrderStatus, status, ErrConflict)
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, order.OrderStatus, status); err != nil {
		if errors.Is(err, repo.ErrStaleStatus) {
			return nil, fmt.Errorf("order %d moved concurrently: %w", orderID, ErrConflict)
		}
		return nil, err
	}
	order.OrderStatus = status

	s.publish(ctx, order.UserID, map[string]any{
		"type":     "order_status_changed",
		"order_id": order.ID,
		"user_id":  order.UserID,
		"status":   status,
	})

	return order, nil
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	return s.Repo.ListUserOrders(ctx, userID, limit)
}

func (s *OrderService) ListActiveOrders(ctx context.Context, limit int) ([]models.Order, error) {
	return s.Repo.ListActiveOrders(ctx, limit)
}

func (s *OrderService) publish(ctx context.Context, userID int64, event map[string]any) {
	if s.Events == nil {
		return
	}
	// Event delivery is best-effort; the order itself is already durable.
	_ = s.Events.PublishEvent(ctx, topicOrderEvents, strconv.FormatInt(userID, 10), event)
}
