// Package notify fans domain events out to chats: admins hear about new
// orders, customers hear about status changes and bonuses. Every send is
// best-effort with bounded retries; a failed recipient never aborts the
// rest.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

type Notifier struct {
	Sender   telegram.Sender
	AdminIDs []int64
	// Delay between broadcast sends, to stay under platform rate limits.
	Delay time.Duration
}

// send delivers one message with a couple of quick retries on transient
// failures.
func (n *Notifier) send(ctx context.Context, chatID int64, text string, markup any) error {
	backoff := retry.WithMaxRetries(2, retry.NewConstant(300*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := n.Sender.SendMessage(ctx, telegram.SendMessage{
			ChatID:      chatID,
			Text:        text,
			ReplyMarkup: markup,
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

// NotifyAdmins delivers the text to every configured admin chat.
func (n *Notifier) NotifyAdmins(ctx context.Context, text string) {
	l := logging.FromContext(ctx).With("component", "notify")
	for _, adminID := range n.AdminIDs {
		if err := n.send(ctx, adminID, text, nil); err != nil {
			l.Error("admin_notify_failed", "admin_id", adminID, "error", err)
		}
	}
}

// NotifyNewOrder tells the admins a fresh order needs confirmation.
func (n *Notifier) NotifyNewOrder(ctx context.Context, order *models.Order, customer *models.User) {
	text := fmt.Sprintf(
		"🆕 Новый заказ #%d\n\n👤 Клиент: %s (%s)\n💰 Сумма: %s сум\n📍 Адрес: %s\n💳 Оплата: %s\n\nТребует подтверждения!",
		order.ID,
		customer.FirstName,
		customer.Phone,
		texts.FormatPrice(order.TotalAmount),
		order.DeliveryAddress,
		order.PaymentMethod,
	)
	n.NotifyAdmins(ctx, text)
}

// NotifyOrderStatus tells the customer their order moved to a new status.
func (n *Notifier) NotifyOrderStatus(ctx context.Context, order *models.Order, locale string) {
	l := logging.FromContext(ctx).With("component", "notify")

	statusText := texts.Get("status_"+order.OrderStatus, locale)
	text := fmt.Sprintf(texts.Get("order_status", locale), order.ID, statusText)

	if err := n.send(ctx, order.UserID, text, nil); err != nil {
		l.Error("status_notify_failed", "user_id", order.UserID, "order_id", order.ID, "error", err)
	}
}

// NotifyReferralBonus congratulates a referrer on their credited bonus.
func (n *Notifier) NotifyReferralBonus(ctx context.Context, userID int64, locale string, amount int64) {
	l := logging.FromContext(ctx).With("component", "notify")

	text := fmt.Sprintf(texts.Get("referral_bonus", locale), texts.FormatPrice(amount))
	if err := n.send(ctx, userID, text, nil); err != nil {
		l.Error("bonus_notify_failed", "user_id", userID, "error", err)
	}
}

// Broadcast sends a promotional message to each user with a small pause
// between sends. Returns how many sends succeeded and failed; admins get
// the aggregate, never per-recipient errors.
func (n *Notifier) Broadcast(ctx context.Context, userIDs []int64, text string) (int, int) {
	l := logging.FromContext(ctx).With("component", "notify")

	success, failed := 0, 0
	for _, userID := range userIDs {
		if err := n.send(ctx, userID, text, nil); err != nil {
			l.Error("broadcast_send_failed", "user_id", userID, "error", err)
			failed++
		} else {
			success++
		}

		select {
		case <-ctx.Done():
			l.Warn("broadcast_interrupted", "sent", success, "failed", failed)
			return success, failed
		case <-time.After(n.Delay):
		}
	}

	result := fmt.Sprintf(
		"📢 Результаты рассылки\n\n✅ Успешно отправлено: %d\n❌ Ошибок: %d\n📊 Всего: %d",
		success, failed, len(userIDs),
	)
	n.NotifyAdmins(ctx, result)

	return success, failed
}
