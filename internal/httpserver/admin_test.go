package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arzonmarket/arzon-bot/internal/ai"
	"github.com/arzonmarket/arzon-bot/internal/bot"
	"github.com/arzonmarket/arzon-bot/internal/hash"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/notify"
	"github.com/arzonmarket/arzon-bot/internal/repo"
	"github.com/arzonmarket/arzon-bot/internal/service"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
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

type testEnv struct {
	E      *echo.Echo
	Repo   *repo.GormRepo
	Sender *fakeSender
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	r := repo.New(db)
	sender := &fakeSender{}

	pwHash, err := hash.HashPassword("secret")
	require.NoError(t, err)

	userSvc := &service.UserService{Repo: r}
	orderSvc := &service.OrderService{Repo: r, Events: service.NopPublisher{}}
	notifier := &notify.Notifier{Sender: sender, AdminIDs: []int64{900}}

	tgBot := &bot.Bot{
		Sender:    sender,
		Sessions:  session.NewStore(0),
		Repo:      r,
		Users:     userSvc,
		Cart:      &service.CartService{Repo: r},
		Orders:    orderSvc,
		Referrals: &service.ReferralService{Repo: r, Events: service.NopPublisher{}, Threshold: 5, BonusAmount: 5000},
		Notify:    notifier,
	}

	e := echo.New()
	Register(e, &Deps{
		Webhook: &WebhookHTTP{Bot: tgBot, BotToken: "bot-token"},
		Auth: &AuthHTTP{
			JWTSecret:    []byte("test-secret"),
			Login:        "admin",
			PasswordHash: pwHash,
		},
		Admin: &AdminHTTP{
			Repo:   r,
			Orders: orderSvc,
			Users:  userSvc,
			Notify: notifier,
			AI:     ai.NewEngine(r, "", ""),
		},
	})

	return &testEnv{E: e, Repo: r, Sender: sender}
}

func (env *testEnv) do(method, path, body string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func loginAdmin(t *testing.T, env *testEnv) string {
	t.Helper()

	rec := env.do(http.MethodPost, "/api/admin/login", `{"login":"admin","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func seedOrder(t *testing.T, r *repo.GormRepo, userID int64) *models.Order {
	t.Helper()

	u := models.User{TelegramID: userID, LanguageCode: models.LocaleRu, Role: "customer", ReferralCode: fmt.Sprintf("U%07d", userID), IsActive: true}
	require.NoError(t, r.DB.Create(&u).Error)

	p := models.Product{NameUz: "Osh", NameRu: "Плов", Price: 25000, IsAvailable: true}
	require.NoError(t, r.DB.Create(&p).Error)
	require.NoError(t, r.AddToCart(context.Background(), &models.CartItem{UserID: userID, ProductID: p.ID, Quantity: 1}))

	order := &models.Order{UserID: userID, DeliveryAddress: "addr", Phone: "+998901234567", PaymentMethod: models.PaymentCash}
	require.NoError(t, r.CreateOrderFromCart(context.Background(), order))
	return order
}

func TestLoginRejectsBadPassword(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/admin/login", `{"login":"admin","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAPIRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/admin/stats", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodGet, "/api/admin/stats", "", "not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	token := loginAdmin(t, env)
	seedOrder(t, env.Repo, 1)

	rec := env.do(http.MethodGet, "/api/admin/stats", "", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats repo.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, int64(1), stats.TotalUsers)
	require.Equal(t, int64(1), stats.TotalOrders)
}

func TestUpdateOrderStatusNotifiesCustomer(t *testing.T) {
	env := newTestEnv(t)
	token := loginAdmin(t, env)
	order := seedOrder(t, env.Repo, 42)

	path := fmt.Sprintf("/api/admin/orders/%d/status", order.ID)
	rec := env.do(http.MethodPatch, path, `{"status":"confirmed"}`, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, models.OrderStatusConfirmed, got.OrderStatus)

	// The customer heard about it in their locale.
	require.NotEmpty(t, env.Sender.sent)
	last := env.Sender.sent[len(env.Sender.sent)-1]
	require.Equal(t, int64(42), last.ChatID)
	require.Contains(t, last.Text, texts.Get("status_confirmed", models.LocaleRu))

	// A backward move is a conflict.
	rec = env.do(http.MethodPatch, path, `{"status":"new"}`, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(http.MethodPatch, path, `{"status":"sideways"}`, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/api/admin/orders/999/status", `{"status":"confirmed"}`, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookTokenCheck(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/webhook/wrong-token", `{"update_id":1}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(http.MethodPost, "/webhook/bot-token", `{"update_id":1}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
}
