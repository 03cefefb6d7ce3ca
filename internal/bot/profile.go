package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/service"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

func (b *Bot) showProfile(ctx context.Context, user *models.User) {
	l := logging.FromContext(ctx).With("handler", "profile")

	orderCount, spent, err := b.Repo.UserOrderStats(ctx, user.TelegramID)
	if err != nil {
		l.Error("order_stats_failed", "user_id", user.TelegramID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}

	text := fmt.Sprintf(
		texts.Get("profile_info", user.LanguageCode),
		user.FirstName,
		orEmpty(user.Phone, user.LanguageCode),
		orEmpty(user.Address, user.LanguageCode),
		orderCount,
		texts.FormatPrice(spent),
		texts.FormatPrice(user.BonusBalance),
		user.ReferralCode,
	)
	b.reply(ctx, user.TelegramID, text, profileKeyboard(user.LanguageCode))
}

func (b *Bot) showOrders(ctx context.Context, user *models.User) {
	l := logging.FromContext(ctx).With("handler", "orders")

	orders, err := b.Orders.ListUserOrders(ctx, user.TelegramID, 10)
	if err != nil {
		l.Error("list_orders_failed", "user_id", user.TelegramID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}
	if len(orders) == 0 {
		b.reply(ctx, user.TelegramID, texts.Get("no_orders", user.LanguageCode), nil)
		return
	}

	var sb strings.Builder
	sb.WriteString(texts.Get("my_orders_list", user.LanguageCode))
	sb.WriteString("\n\n")
	for _, o := range orders {
		fmt.Fprintf(&sb, "#%d — %s — %s\n",
			o.ID,
			texts.FormatPrice(o.TotalAmount),
			texts.Get("status_"+o.OrderStatus, user.LanguageCode),
		)
	}
	b.reply(ctx, user.TelegramID, sb.String(), nil)
}

func (b *Bot) ordersCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}
	b.showOrders(ctx, user)
}

func (b *Bot) showReferral(ctx context.Context, user *models.User) {
	l := logging.FromContext(ctx).With("handler", "referral")

	count, err := b.Referrals.Count(ctx, user.TelegramID)
	if err != nil {
		l.Error("count_referrals_failed", "user_id", user.TelegramID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}

	text := fmt.Sprintf(
		texts.Get("referral_info", user.LanguageCode),
		user.ReferralCode,
		count,
		texts.FormatPrice(user.BonusBalance),
	)
	b.reply(ctx, user.TelegramID, text, nil)
}

func (b *Bot) editPhone(ctx context.Context, cb *telegram.CallbackQuery) {
	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}
	b.Sessions.SetState(user.TelegramID, session.StateAwaitingPhone)
	b.reply(ctx, user.TelegramID, texts.Get("enter_new_phone", user.LanguageCode), nil)
}

func (b *Bot) editAddress(ctx context.Context, cb *telegram.CallbackQuery) {
	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}
	b.Sessions.SetState(user.TelegramID, session.StateAwaitingNewAddress)
	b.reply(ctx, user.TelegramID, texts.Get("enter_new_address", user.LanguageCode), nil)
}

// phoneUpdated validates and stores a new phone. An invalid number keeps
// the user in the same step.
func (b *Bot) phoneUpdated(ctx context.Context, msg *telegram.Message) {
	l := logging.FromContext(ctx).With("handler", "profile")
	userID := msg.From.ID

	user, err := b.Users.GetUser(ctx, userID)
	if err != nil || user == nil {
		b.Sessions.Clear(userID)
		return
	}

	if err := b.Users.UpdatePhone(ctx, userID, msg.Text); err != nil {
		if errors.Is(err, service.ErrValidation) {
			b.reply(ctx, userID, texts.Get("invalid_phone", user.LanguageCode), nil)
			return
		}
		l.Error("update_phone_failed", "user_id", userID, "error", err)
		b.reply(ctx, userID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}

	b.Sessions.Clear(userID)
	b.reply(ctx, userID, texts.Get("phone_updated", user.LanguageCode), mainMenuKeyboard(user.LanguageCode))
}

func (b *Bot) addressUpdated(ctx context.Context, msg *telegram.Message) {
	l := logging.FromContext(ctx).With("handler", "profile")
	userID := msg.From.ID

	user, err := b.Users.GetUser(ctx, userID)
	if err != nil || user == nil {
		b.Sessions.Clear(userID)
		return
	}

	if err := b.Users.UpdateAddress(ctx, userID, msg.Text); err != nil {
		if errors.Is(err, service.ErrValidation) {
			b.reply(ctx, userID, texts.Get("enter_new_address", user.LanguageCode), nil)
			return
		}
		l.Error("update_address_failed", "user_id", userID, "error", err)
		b.reply(ctx, userID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}

	b.Sessions.Clear(userID)
	b.reply(ctx, userID, texts.Get("address_updated", user.LanguageCode), mainMenuKeyboard(user.LanguageCode))
}

func orEmpty(s, locale string) string {
	if strings.TrimSpace(s) == "" {
		return texts.Get("not_set", locale)
	}
	return s
}
