package ai

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/repo"
)

func newTestEngine(t *testing.T, apiKey string) *Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	return NewEngine(repo.New(db), "http://127.0.0.1:1", apiKey)
}

func TestExtractJSON(t *testing.T) {
	require.Equal(t, `[{"a":1}]`, extractJSON("Here you go:\n```json\n[{\"a\":1}]\n```"))
	require.Equal(t, `[1,2]`, extractJSON(`[1,2]`))
	require.Equal(t, "no array here", extractJSON("no array here"))
}

func TestSuggestProductsFallback(t *testing.T) {
	e := newTestEngine(t, "")
	ctx := context.Background()

	products := []models.Product{
		{NameUz: "Osh", NameRu: "Плов", Price: 25000, IsAvailable: true},
		{NameUz: "Somsa", NameRu: "Самса", Price: 8000, IsAvailable: true},
	}
	require.NoError(t, e.Repo.DB.Create(&products).Error)

	suggestions := e.SuggestProducts(ctx, 42, 5)
	require.Len(t, suggestions, 2)
	require.Equal(t, "popular", suggestions[0].Reason)

	// The fallback path still records what was recommended.
	var recs []models.AIRecommendation
	require.NoError(t, e.Repo.DB.Find(&recs).Error)
	require.Len(t, recs, 2)
	require.Equal(t, "fallback", recs[0].RecommendationType)
	require.Equal(t, int64(42), recs[0].UserID)
}

func TestSalesInsightsWithoutAI(t *testing.T) {
	e := newTestEngine(t, "")

	out := e.SalesInsights(context.Background())
	require.Contains(t, out, "без AI")
	require.Contains(t, out, "Заказов")
}

func TestSegmentUsersWithoutAI(t *testing.T) {
	e := newTestEngine(t, "")
	ctx := context.Background()

	users := []models.User{
		{TelegramID: 1, FirstName: "a", LanguageCode: models.LocaleUz, ReferralCode: "SEG00001", IsActive: true},
		{TelegramID: 2, FirstName: "b", LanguageCode: models.LocaleUz, ReferralCode: "SEG00002", IsActive: true},
		{TelegramID: 3, FirstName: "c", LanguageCode: models.LocaleUz, ReferralCode: "SEG00003", IsActive: true},
	}
	require.NoError(t, e.Repo.DB.Create(&users).Error)

	order := func(userID int64) models.Order {
		return models.Order{
			UserID:          userID,
			DeliveryAddress: "a",
			Phone:           "p",
			PaymentMethod:   models.PaymentCash,
			OrderStatus:     models.OrderStatusNew,
			PaymentStatus:   models.PaymentStatusPending,
			TotalAmount:     1000,
		}
	}
	o := order(2)
	require.NoError(t, e.Repo.DB.Create(&o).Error)
	for i := 0; i < 5; i++ {
		o := order(3)
		require.NoError(t, e.Repo.DB.Create(&o).Error)
	}

	out := e.SegmentUsers(ctx)
	require.Contains(t, out, "Новые (без заказов): 1")
	require.Contains(t, out, "Активные (1-4 заказа): 1")
	require.Contains(t, out, "VIP (5+ заказов): 1")
}

func TestPromoCampaignWithoutAI(t *testing.T) {
	e := newTestEngine(t, "")
	ctx := context.Background()

	out := e.PromoCampaign(ctx)
	require.Contains(t, out, "Недостаточно данных")

	p := models.Product{NameUz: "Osh", NameRu: "Плов", Price: 25000, IsAvailable: true}
	require.NoError(t, e.Repo.DB.Create(&p).Error)

	out = e.PromoCampaign(ctx)
	require.Contains(t, out, "Скидка 10%")
	require.Contains(t, out, "Плов")
}

func TestEnabled(t *testing.T) {
	require.False(t, newTestEngine(t, "").Enabled())
	require.True(t, newTestEngine(t, "sk-test").Enabled())
}
