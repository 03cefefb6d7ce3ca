package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

// AddItem puts qty units of a product into the user's cart. Adding a
// product already in the cart increments its quantity.
func (s *CartService) AddItem(ctx context.Context, userID int64, productID uint, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if !product.IsAvailable {
		return fmt.Errorf("product %d is not available: %w", productID, ErrValidation)
	}

	item := models.CartItem{UserID: userID, ProductID: productID, Quantity: qty}
	return s.Repo.AddToCart(ctx, &item)
}

// GetCart returns the cart lines in insertion order. An empty cart is a
// valid empty slice, not an error.
func (s *CartService) GetCart(ctx context.Context, userID int64) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

// ClearCart is idempotent: clearing an empty cart succeeds silently.
func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	return s.Repo.ClearCart(ctx, userID)
}

// Total sums current price times quantity over the lines. This is the
// live-cart total; the order keeps its own frozen copy.
func (s *CartService) Total(items []models.CartItem) int64 {
	var total int64
	for _, it := range items {
		total += it.Product.Price * int64(it.Quantity)
	}
	return total
}
