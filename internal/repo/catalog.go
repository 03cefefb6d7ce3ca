package repo

import (
	"context"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name_uz ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormRepo) GetProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("category_id = ? AND is_available = ?", categoryID, true).
		Order("name_uz ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProductsLike is the fallback product search when Elasticsearch is
// down or not configured.
func (r *GormRepo) SearchProductsLike(ctx context.Context, q string, limit int) ([]models.Product, error) {
	pattern := "%" + q + "%"
	var products []models.Product
	err := r.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Where("LOWER(name_uz) LIKE LOWER(?) OR LOWER(name_ru) LIKE LOWER(?)", pattern, pattern).
		Order("name_uz ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
