package service

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/repo"
)

const topicReferralEvents = "referral_events"

// ReferralService tracks referrer->referred edges and awards the one-time
// bonus once enough referred users are active. Threshold and amount are
// injected so tests can vary them.
type ReferralService struct {
	Repo        *repo.GormRepo
	Events      EventPublisher
	Threshold   int
	BonusAmount int64
}

// Register links a new user to the owner of the supplied referral code and
// re-evaluates the bonus. Unknown codes are silently ignored so a bad code
// never blocks registration. Returns the referrer id (0 when no edge was
// created) and whether the bonus fired.
func (s *ReferralService) Register(ctx context.Context, referrerCode string, referredID int64) (int64, bool, error) {
	if referrerCode == "" {
		return 0, false, nil
	}

	referrer, err := s.Repo.GetUserByReferralCode(ctx, referrerCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if referrer.TelegramID == referredID {
		// Self-referral earns nothing.
		return 0, false, nil
	}

	if err := s.Repo.CreateReferral(ctx, referrer.TelegramID, referredID); err != nil {
		return 0, false, err
	}

	awarded, err := s.EvaluateBonus(ctx, referrer.TelegramID)
	if err != nil {
		return referrer.TelegramID, false, err
	}
	return referrer.TelegramID, awarded, nil
}

// EvaluateBonus awards the configured bonus when the referrer has reached
// the threshold of active referred users. The award fires at most once per
// referrer no matter how often this is called.
func (s *ReferralService) EvaluateBonus(ctx context.Context, referrerID int64) (bool, error) {
	awarded, err := s.Repo.AwardReferralBonus(ctx, referrerID, s.Threshold, s.BonusAmount)
	if err != nil {
		return false, err
	}

	if awarded && s.Events != nil {
		_ = s.Events.PublishEvent(ctx, topicReferralEvents, strconv.FormatInt(referrerID, 10), map[string]any{
			"type":        "referral_bonus_awarded",
			"referrer_id": referrerID,
			"amount":      s.BonusAmount,
		})
	}
	return awarded, nil
}

// Count returns how many users the referrer has invited, for the referral
// info view.
func (s *ReferralService) Count(ctx context.Context, referrerID int64) (int64, error) {
	return s.Repo.CountReferrals(ctx, referrerID)
}
