// Package bot routes inbound chat updates through the per-user
// conversation state machine and into the domain services.
package bot

import (
	"context"
	"strings"

	"github.com/arzonmarket/arzon-bot/internal/ai"
	"github.com/arzonmarket/arzon-bot/internal/config"
	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/notify"
	"github.com/arzonmarket/arzon-bot/internal/repo"
	"github.com/arzonmarket/arzon-bot/internal/search"
	"github.com/arzonmarket/arzon-bot/internal/service"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

type Bot struct {
	Cfg      config.Config
	Sender   telegram.Sender
	Sessions *session.Store
	Repo     *repo.GormRepo

	Users     *service.UserService
	Cart      *service.CartService
	Orders    *service.OrderService
	Referrals *service.ReferralService

	Search *search.Service
	AI     *ai.Engine
	Notify *notify.Notifier
}

// HandleUpdate is the single entry point for one inbound update. Messages
// a state does not expect are ignored rather than erroring back at the
// user.
func (b *Bot) HandleUpdate(ctx context.Context, upd telegram.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	userID := msg.From.ID

	// Only the bare command or a deep link ("/start CODE") counts.
	if cmd, _, _ := strings.Cut(msg.Text, " "); cmd == "/start" {
		b.handleStart(ctx, msg)
		return
	}
	if msg.Text == "/admin" {
		b.adminPanel(ctx, userID)
		return
	}

	sess := b.Sessions.Get(userID)
	switch sess.State {
	case session.StateAwaitingContact:
		b.contactReceived(ctx, msg, sess)
		return
	case session.StateAwaitingAddress:
		b.addressReceived(ctx, msg, sess)
		return
	case session.StateAwaitingLocation:
		b.locationReceived(ctx, msg)
		return
	case session.StateAwaitingPhone:
		b.phoneUpdated(ctx, msg)
		return
	case session.StateAwaitingNewAddress:
		b.addressUpdated(ctx, msg)
		return
	case session.StateAwaitingQuery:
		b.queryReceived(ctx, msg)
		return
	case session.StateAwaitingPayment, session.StateAwaitingLanguage:
		// These states accept callbacks only; plain messages are ignored.
		return
	}

	user, err := b.Users.GetUser(ctx, userID)
	if err != nil {
		logging.FromContext(ctx).Error("get_user_failed", "user_id", userID, "error", err)
		return
	}
	if user == nil {
		// Unregistered users have to go through /start.
		return
	}

	b.handleMenu(ctx, user, msg.Text)
}

// handleMenu matches the text against the reply-keyboard labels in both
// locales, so a user who switched language mid-way is still understood.
func (b *Bot) handleMenu(ctx context.Context, user *models.User, text string) {
	switch {
	case matchesButton(text, "btn_categories"):
		b.showCategories(ctx, user)
	case matchesButton(text, "btn_cart"):
		b.showCart(ctx, user)
	case matchesButton(text, "btn_orders"):
		b.showOrders(ctx, user)
	case matchesButton(text, "btn_profile"):
		b.showProfile(ctx, user)
	case matchesButton(text, "btn_referral"):
		b.showReferral(ctx, user)
	case matchesButton(text, "btn_search"):
		b.askQuery(ctx, user)
	case matchesButton(text, "btn_language"):
		b.askLanguage(ctx, user.TelegramID)
	case matchesButton(text, "btn_main_menu"), matchesButton(text, "btn_back"):
		b.mainMenu(ctx, user.TelegramID, user.LanguageCode)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "callback")
	data := cb.Data
	userID := cb.From.ID

	// Telegram keeps showing a spinner until the callback is answered.
	if err := b.Sender.AnswerCallback(ctx, cb.ID, ""); err != nil {
		l.Warn("answer_callback_failed", "user_id", userID, "error", err)
	}

	switch {
	case strings.HasPrefix(data, "lang_"):
		b.languageSelected(ctx, cb)
	case strings.HasPrefix(data, "category_"):
		b.showCategoryProducts(ctx, cb)
	case strings.HasPrefix(data, "product_"):
		b.showProductDetail(ctx, cb)
	case strings.HasPrefix(data, "add_to_cart_"):
		b.addToCart(ctx, cb)
	case data == "checkout":
		b.startCheckout(ctx, cb)
	case strings.HasPrefix(data, "payment_"):
		b.paymentSelected(ctx, cb)
	case data == "clear_cart":
		b.clearCart(ctx, cb)
	case data == "my_orders":
		b.ordersCallback(ctx, cb)
	case data == "edit_phone":
		b.editPhone(ctx, cb)
	case data == "edit_address":
		b.editAddress(ctx, cb)
	case strings.HasPrefix(data, "admin_"):
		b.adminCallback(ctx, cb)
	}
}

// reply sends a message and logs failures; the flow never depends on the
// send having succeeded.
func (b *Bot) reply(ctx context.Context, chatID int64, text string, markup any) {
	err := b.Sender.SendMessage(ctx, telegram.SendMessage{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		logging.FromContext(ctx).Error("send_failed", "chat_id", chatID, "error", err)
	}
}

// edit rewrites an inline-keyboard message in place; failures are logged
// only.
func (b *Bot) edit(ctx context.Context, chatID, messageID int64, text string, markup any) {
	err := b.Sender.EditMessageText(ctx, telegram.EditMessageText{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: markup,
	})
	if err != nil {
		logging.FromContext(ctx).Error("edit_failed", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) mainMenu(ctx context.Context, chatID int64, locale string) {
	b.reply(ctx, chatID, texts.Get("main_menu", locale), mainMenuKeyboard(locale))
}

func matchesButton(text, key string) bool {
	return text == texts.Get(key, models.LocaleUz) || text == texts.Get(key, models.LocaleRu)
}
