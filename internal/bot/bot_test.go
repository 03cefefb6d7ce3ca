package bot

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/ai"
	"github.com/arzonmarket/arzon-bot/internal/config"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/notify"
	"github.com/arzonmarket/arzon-bot/internal/repo"
	"github.com/arzonmarket/arzon-bot/internal/search"
	"github.com/arzonmarket/arzon-bot/internal/service"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
)

type fakeSender struct {
	sent []telegram.SendMessage
}

func (f *fakeSender) SendMessage(_ context.Context, msg telegram.SendMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) EditMessageText(context.Context, telegram.EditMessageText) error { return nil }
func (f *fakeSender) AnswerCallback(context.Context, string, string) error            { return nil }

func (f *fakeSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1].Text
}

type testBot struct {
	*Bot
	sender *fakeSender
	repo   *repo.GormRepo
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	r := repo.New(db)
	sender := &fakeSender{}
	events := service.NopPublisher{}

	cfg := config.Config{AdminIDs: []int64{900}, ReferralBonus: 5000}

	b := &Bot{
		Cfg:      cfg,
		Sender:   sender,
		Sessions: session.NewStore(time.Minute),
		Repo:     r,
		Users:    &service.UserService{Repo: r},
		Cart:     &service.CartService{Repo: r},
		Orders:   &service.OrderService{Repo: r, Events: events},
		Referrals: &service.ReferralService{
			Repo: r, Events: events, Threshold: 5, BonusAmount: 5000,
		},
		Search: &search.Service{Repo: r},
		AI:     ai.NewEngine(r, "", ""),
		Notify: &notify.Notifier{Sender: sender, AdminIDs: cfg.AdminIDs},
	}

	return &testBot{Bot: b, sender: sender, repo: r}
}

func message(userID int64, text string) telegram.Update {
	return telegram.Update{Message: &telegram.Message{
		From: &telegram.User{ID: userID, FirstName: "Aziz", Username: "aziz"},
		Chat: telegram.Chat{ID: userID},
		Text: text,
	}}
}

func callback(userID int64, data string) telegram.Update {
	return telegram.Update{CallbackQuery: &telegram.CallbackQuery{
		ID:   "cb",
		From: telegram.User{ID: userID, FirstName: "Aziz"},
		Data: data,
	}}
}

func registerUser(t *testing.T, tb *testBot, userID int64) *models.User {
	t.Helper()
	ctx := context.Background()

	tb.HandleUpdate(ctx, message(userID, "/start"))
	tb.HandleUpdate(ctx, callback(userID, "lang_uz"))
	tb.HandleUpdate(ctx, telegram.Update{Message: &telegram.Message{
		From:    &telegram.User{ID: userID, FirstName: "Aziz"},
		Chat:    telegram.Chat{ID: userID},
		Contact: &telegram.Contact{PhoneNumber: "998901234567", UserID: userID},
	}})
	tb.HandleUpdate(ctx, message(userID, "Chilonzor 5"))

	user, err := tb.Users.GetUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func seedProduct(t *testing.T, r *repo.GormRepo, price int64) models.Product {
	t.Helper()
	p := models.Product{NameUz: "Osh", NameRu: "Плов", Price: price, IsAvailable: true}
	require.NoError(t, r.DB.Create(&p).Error)
	return p
}

func TestRegistrationFlow(t *testing.T) {
	tb := newTestBot(t)

	user := registerUser(t, tb, 1)
	require.Equal(t, "+998901234567", user.Phone)
	require.Equal(t, "Chilonzor 5", user.Address)
	require.Equal(t, models.LocaleUz, user.LanguageCode)
	require.Len(t, user.ReferralCode, 8)

	// The confirmation carries the referral code and the main menu.
	require.Contains(t, tb.sender.lastText(t), user.ReferralCode)
}

func TestRegistrationIgnoresTypedPhone(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	tb.HandleUpdate(ctx, message(1, "/start"))
	tb.HandleUpdate(ctx, callback(1, "lang_ru"))

	// Typed text instead of the contact button re-prompts and stays put.
	tb.HandleUpdate(ctx, message(1, "998901234567"))

	user, err := tb.Users.GetUser(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, user)
	require.Equal(t, session.StateAwaitingContact, tb.Sessions.Get(1).State)
}

func TestReferralDeepLink(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	referrer := registerUser(t, tb, 1)

	tb.HandleUpdate(ctx, message(2, "/start "+referrer.ReferralCode))
	tb.HandleUpdate(ctx, callback(2, "lang_uz"))
	tb.HandleUpdate(ctx, telegram.Update{Message: &telegram.Message{
		From:    &telegram.User{ID: 2},
		Chat:    telegram.Chat{ID: 2},
		Contact: &telegram.Contact{PhoneNumber: "901112233", UserID: 2},
	}})
	tb.HandleUpdate(ctx, message(2, "Yunusobod 12"))

	count, err := tb.Referrals.Count(ctx, referrer.TelegramID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestCheckoutFlow(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	user := registerUser(t, tb, 1)
	p := seedProduct(t, tb.repo, 25000)

	tb.HandleUpdate(ctx, callback(1, fmt.Sprintf("add_to_cart_%d", p.ID)))
	tb.HandleUpdate(ctx, callback(1, fmt.Sprintf("add_to_cart_%d", p.ID)))

	// A stored address skips the location step.
	tb.HandleUpdate(ctx, callback(1, "checkout"))
	require.Equal(t, session.StateAwaitingPayment, tb.Sessions.Get(1).State)

	tb.HandleUpdate(ctx, callback(1, "payment_cash"))

	orders, err := tb.Orders.ListUserOrders(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, int64(50000), orders[0].TotalAmount)
	require.Equal(t, models.PaymentCash, orders[0].PaymentMethod)
	require.Equal(t, user.Address, orders[0].DeliveryAddress)

	// The cart is gone and the session is idle again.
	items, err := tb.Cart.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, items)
	require.Equal(t, session.StateIdle, tb.Sessions.Get(1).State)

	// A stale payment keyboard cannot create a second order.
	tb.HandleUpdate(ctx, callback(1, "payment_cash"))
	orders, err = tb.Orders.ListUserOrders(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	// The admin got the new-order alert.
	var adminAlerted bool
	for _, msg := range tb.sender.sent {
		if msg.ChatID == 900 {
			adminAlerted = true
		}
	}
	require.True(t, adminAlerted)
}

func TestCheckoutCollectsLocationWithoutAddress(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	registerUser(t, tb, 1)
	require.NoError(t, tb.repo.DB.Model(&models.User{}).Where("telegram_id = ?", 1).Update("address", "").Error)
	p := seedProduct(t, tb.repo, 25000)

	tb.HandleUpdate(ctx, callback(1, fmt.Sprintf("add_to_cart_%d", p.ID)))

	tb.HandleUpdate(ctx, callback(1, "checkout"))
	require.Equal(t, session.StateAwaitingLocation, tb.Sessions.Get(1).State)

	// Plain text is not a location; the step does not advance.
	tb.HandleUpdate(ctx, message(1, "Chilonzor"))
	require.Equal(t, session.StateAwaitingLocation, tb.Sessions.Get(1).State)

	tb.HandleUpdate(ctx, telegram.Update{Message: &telegram.Message{
		From:     &telegram.User{ID: 1},
		Chat:     telegram.Chat{ID: 1},
		Location: &telegram.Location{Latitude: 41.31, Longitude: 69.24},
	}})
	require.Equal(t, session.StateAwaitingPayment, tb.Sessions.Get(1).State)

	tb.HandleUpdate(ctx, callback(1, "payment_click"))

	orders, err := tb.Orders.ListUserOrders(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.NotNil(t, orders[0].Latitude)
	require.Contains(t, orders[0].DeliveryAddress, "geo:")
}

func TestCheckoutEmptyCart(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	registerUser(t, tb, 1)

	tb.HandleUpdate(ctx, callback(1, "checkout"))
	require.Equal(t, session.StateIdle, tb.Sessions.Get(1).State)

	orders, err := tb.Orders.ListUserOrders(ctx, 1, 10)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestStartCommandMatchesExactly(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	// A command that merely begins with /start is not the start command.
	before := len(tb.sender.sent)
	tb.HandleUpdate(ctx, message(1, "/startxyz"))
	require.Len(t, tb.sender.sent, before)
	require.Equal(t, session.StateIdle, tb.Sessions.Get(1).State)

	// The deep-link form still works.
	tb.HandleUpdate(ctx, message(1, "/start ABCD1234"))
	require.Equal(t, session.StateAwaitingLanguage, tb.Sessions.Get(1).State)
}

func TestUnregisteredUserIgnored(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	before := len(tb.sender.sent)
	tb.HandleUpdate(ctx, message(55, "hello"))
	require.Len(t, tb.sender.sent, before)
}

func TestAdminPanelHiddenFromCustomers(t *testing.T) {
	tb := newTestBot(t)
	ctx := context.Background()

	registerUser(t, tb, 1)
	before := len(tb.sender.sent)

	tb.HandleUpdate(ctx, message(1, "/admin"))
	require.Len(t, tb.sender.sent, before)

	tb.HandleUpdate(ctx, message(900, "/admin"))
	require.Greater(t, len(tb.sender.sent), before)
}
