package repo

import (
	"context"
	"time"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

// Stats is the aggregate snapshot shown to admins.
type Stats struct {
	TotalUsers     int64 `json:"total_users"`
	NewUsersWeek   int64 `json:"new_users_week"`
	TotalOrders    int64 `json:"total_orders"`
	OrdersWeek     int64 `json:"orders_week"`
	TotalRevenue   int64 `json:"total_revenue"`
	ActiveProducts int64 `json:"active_products"`
}

func (r *GormRepo) GetStats(ctx context.Context) (*Stats, error) {
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	var s Stats

	db := r.DB.WithContext(ctx)
	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("created_at >= ?", weekAgo).Count(&s.NewUsersWeek).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Count(&s.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ?", weekAgo).Count(&s.OrdersWeek).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&s.TotalRevenue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Where("is_available = ?", true).Count(&s.ActiveProducts).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// PopularProducts ranks available products by how many order lines they
// appear in. It backs the rule-based recommendation fallback.
func (r *GormRepo) PopularProducts(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Select("products.*, COUNT(order_items.id) AS order_count").
		Joins("LEFT JOIN order_items ON order_items.product_id = products.id").
		Where("products.is_available = ?", true).
		Group("products.id").
		Order("order_count DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// UserSegments buckets the user base by order volume: no orders yet,
// a few, or five and more.
type UserSegments struct {
	New    int64 `gorm:"column:new_users" json:"new"`
	Active int64 `gorm:"column:active_users" json:"active"`
	VIP    int64 `gorm:"column:vip_users" json:"vip"`
}

func (r *GormRepo) GetUserSegments(ctx context.Context) (*UserSegments, error) {
	var s UserSegments
	err := r.DB.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN order_count = 0 THEN 1 ELSE 0 END), 0) AS new_users,
			COALESCE(SUM(CASE WHEN order_count BETWEEN 1 AND 4 THEN 1 ELSE 0 END), 0) AS active_users,
			COALESCE(SUM(CASE WHEN order_count >= 5 THEN 1 ELSE 0 END), 0) AS vip_users
		FROM (
			SELECT users.telegram_id, COUNT(orders.id) AS order_count
			FROM users
			LEFT JOIN orders ON orders.user_id = users.telegram_id
			GROUP BY users.telegram_id
		) buckets`).Scan(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) StoreRecommendations(ctx context.Context, recs []models.AIRecommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&recs).Error
}
