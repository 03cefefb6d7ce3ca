package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

var nonDigits = regexp.MustCompile(`\D`)

type UserService struct {
	Repo *repo.GormRepo
}

// GetUser returns nil without error when the user has never registered.
func (s *UserService) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, telegramID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return user, err
}

type RegisterInput struct {
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Locale     string
	Phone      string
	Address    string
	ReferredBy string
}

// Register creates the user with a fresh referral code. The referral edge
// itself is the ReferralService's job; here the code is only recorded.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Phone != "" && !ValidatePhone(in.Phone) {
		return nil, fmt.Errorf("bad phone %q: %w", in.Phone, ErrValidation)
	}
	locale := in.Locale
	if locale != models.LocaleUz && locale != models.LocaleRu {
		locale = models.LocaleUz
	}

	user := &models.User{
		TelegramID:   in.TelegramID,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        FormatPhone(in.Phone),
		Address:      in.Address,
		LanguageCode: locale,
		Role:         "customer",
		ReferralCode: NewReferralCode(),
		ReferredBy:   in.ReferredBy,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdatePhone(ctx context.Context, telegramID int64, phone string) error {
	if !ValidatePhone(phone) {
		return fmt.Errorf("bad phone %q: %w", phone, ErrValidation)
	}
	return s.Repo.UpdateUserProfile(ctx, telegramID, FormatPhone(phone), "")
}

func (s *UserService) UpdateAddress(ctx context.Context, telegramID int64, address string) error {
	if strings.TrimSpace(address) == "" {
		return fmt.Errorf("empty address: %w", ErrValidation)
	}
	return s.Repo.UpdateUserProfile(ctx, telegramID, "", address)
}

func (s *UserService) SetLanguage(ctx context.Context, telegramID int64, locale string) error {
	if locale != models.LocaleUz && locale != models.LocaleRu {
		return fmt.Errorf("unsupported locale %q: %w", locale, ErrValidation)
	}
	return s.Repo.SetUserLanguage(ctx, telegramID, locale)
}

// NewReferralCode derives a short shareable code from a UUID.
func NewReferralCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// ValidatePhone accepts Uzbek numbers: 998XXXXXXXXX with or without the
// plus and country code.
func ValidatePhone(phone string) bool {
	digits := nonDigits.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "998"):
		return true
	case len(digits) == 9:
		return true
	}
	return false
}

// FormatPhone normalizes a valid phone to +998XXXXXXXXX. Anything it does
// not recognize passes through untouched.
func FormatPhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 9:
		return "+998" + digits
	case len(digits) == 12 && strings.HasPrefix(digits, "998"):
		return "+" + digits
	}
	return phone
}
