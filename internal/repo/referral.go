package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

func (r *GormRepo) CreateReferral(ctx context.Context, referrerID, referredID int64) error {
	edge := models.Referral{ReferrerID: referrerID, ReferredID: referredID}
	return r.DB.WithContext(ctx).Create(&edge).Error
}

func (r *GormRepo) CountReferrals(ctx context.Context, referrerID int64) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Referral{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	return count, err
}

// AwardReferralBonus checks the threshold and credits the bonus inside one
// transaction. The bonus_awarded flag on the referrer's edges is the
// idempotency marker: once any edge carries it, re-evaluation is a no-op.
// Returns whether the bonus was credited by this call.
func (r *GormRepo) AwardReferralBonus(ctx context.Context, referrerID int64, threshold int, amount int64) (bool, error) {
	awarded := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.Referral{}).
			Joins("JOIN users ON users.telegram_id = referrals.referred_id").
			Where("referrals.referrer_id = ? AND users.is_active = ?", referrerID, true).
			Count(&active).Error; err != nil {
			return err
		}
		if active < int64(threshold) {
			return nil
		}

		var already int64
		if err := tx.Model(&models.Referral{}).
			Where("referrer_id = ? AND bonus_awarded = ?", referrerID, true).
			Count(&already).Error; err != nil {
			return err
		}
		if already > 0 {
			return nil
		}

		if err := tx.Model(&models.User{}).
			Where("telegram_id = ?", referrerID).
			Update("bonus_balance", gorm.Expr("bonus_balance + ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Referral{}).
			Where("referrer_id = ?", referrerID).
			Update("bonus_awarded", true).Error; err != nil {
			return err
		}

		awarded = true
		return nil
	})
	return awarded, err
}
