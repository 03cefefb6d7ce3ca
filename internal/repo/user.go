package repo

import (
	"context"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("referral_code = ?", code).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, user *models.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

// UpdateUserProfile overwrites only the fields that are non-empty.
func (r *GormRepo) UpdateUserProfile(ctx context.Context, telegramID int64, phone, address string) error {
	updates := map[string]any{}
	if phone != "" {
		updates["phone"] = phone
	}
	if address != "" {
		updates["address"] = address
	}
	if len(updates) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Updates(updates).Error
}

func (r *GormRepo) SetUserLanguage(ctx context.Context, telegramID int64, locale string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("language_code", locale).Error
}

// ListCustomerIDs returns telegram ids of all active customers, for
// promotional broadcasts.
func (r *GormRepo) ListCustomerIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_active = ?", "customer", true).
		Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UserOrderStats returns the order count and completed-payment total for
// the profile view.
func (r *GormRepo) UserOrderStats(ctx context.Context, telegramID int64) (int64, int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", telegramID).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}

	var spent int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ? AND payment_status = ?", telegramID, models.PaymentStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&spent).Error
	if err != nil {
		return 0, 0, err
	}
	return count, spent, nil
}
