package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+998901234567", "998901234567", "901234567", "+998 90 123 45 67"}
	for _, p := range valid {
		require.True(t, ValidatePhone(p), p)
	}

	invalid := []string{"", "12345", "+79161234567", "90123456", "9012345678"}
	for _, p := range invalid {
		require.False(t, ValidatePhone(p), p)
	}
}

func TestFormatPhone(t *testing.T) {
	require.Equal(t, "+998901234567", FormatPhone("901234567"))
	require.Equal(t, "+998901234567", FormatPhone("998 90 123 45 67"))
	require.Equal(t, "+998901234567", FormatPhone("+998901234567"))
	require.Equal(t, "garbage", FormatPhone("garbage"))
}

func TestRegisterDefaults(t *testing.T) {
	r := newTestRepo(t)
	users := &UserService{Repo: r}
	ctx := context.Background()

	u, err := users.Register(ctx, RegisterInput{
		TelegramID: 42,
		FirstName:  "Aziz",
		Locale:     "fr",
		Phone:      "901234567",
	})
	require.NoError(t, err)
	require.Equal(t, models.LocaleUz, u.LanguageCode)
	require.Equal(t, "+998901234567", u.Phone)
	require.Len(t, u.ReferralCode, 8)
	require.True(t, u.IsActive)

	got, err := users.GetUser(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, u.ReferralCode, got.ReferralCode)
}

func TestGetUserUnregistered(t *testing.T) {
	r := newTestRepo(t)
	users := &UserService{Repo: r}

	u, err := users.GetUser(context.Background(), 777)
	require.NoError(t, err)
	require.Nil(t, u)
}

func TestUpdatePhoneRejectsInvalid(t *testing.T) {
	r := newTestRepo(t)
	users := &UserService{Repo: r}
	ctx := context.Background()

	seedUser(t, r, 42, "CODE0042")

	require.ErrorIs(t, users.UpdatePhone(ctx, 42, "12345"), ErrValidation)
	require.NoError(t, users.UpdatePhone(ctx, 42, "90 123 45 78"))

	u, err := users.GetUser(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, "+998901234578", u.Phone)
}

func TestSetLanguage(t *testing.T) {
	r := newTestRepo(t)
	users := &UserService{Repo: r}
	ctx := context.Background()

	seedUser(t, r, 42, "CODE0042")

	require.ErrorIs(t, users.SetLanguage(ctx, 42, "en"), ErrValidation)
	require.NoError(t, users.SetLanguage(ctx, 42, models.LocaleRu))

	u, err := users.GetUser(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, models.LocaleRu, u.LanguageCode)
}
