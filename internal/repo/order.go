package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

// CreateOrderFromCart converts the user's cart into an order inside one
// transaction: order row, one order item per cart line with the current
// product price frozen, then the cart wiped. Either every effect commits
// or none do. The total is always recomputed here from the cart lines.
func (r *GormRepo) CreateOrderFromCart(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").
			Where("user_id = ?", order.UserID).
			Order("id ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var total int64
		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			total += it.Product.Price * int64(it.Quantity)
			lines = append(lines, models.OrderItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Product.Price,
			})
		}

		order.TotalAmount = total
		order.OrderStatus = models.OrderStatusNew
		order.PaymentStatus = models.PaymentStatusPending

		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		order.Items = lines

		return tx.Where("user_id = ?", order.UserID).Delete(&models.CartItem{}).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves the order from a known prior status. The guard
// in the WHERE clause serializes concurrent updates: a writer whose read
// went stale matches no row and gets ErrStaleStatus.
func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uint, from, to string) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND order_status = ?", id, from).
		Update("order_status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, id uint, status string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("payment_status", status).Error
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID int64, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListActiveOrders returns orders still moving through the pipeline,
// newest first, for the admin view.
func (r *GormRepo) ListActiveOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Where("order_status IN ?", []string{
			models.OrderStatusNew, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
