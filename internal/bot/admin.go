package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

// adminPanel shows the in-chat admin menu. Non-admins get silence, not a
// rejection, so the command does not advertise itself.
func (b *Bot) adminPanel(ctx context.Context, userID int64) {
	if !b.Cfg.IsAdmin(userID) {
		return
	}
	b.reply(ctx, userID, "🛠 Админ панель", adminKeyboard())
}

func (b *Bot) adminCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if !b.Cfg.IsAdmin(cb.From.ID) {
		return
	}

	switch cb.Data {
	case "admin_stats":
		b.adminStats(ctx, cb)
	case "admin_orders":
		b.adminOrders(ctx, cb)
	case "admin_ai":
		b.adminAI(ctx, cb)
	case "admin_segments":
		b.adminSegments(ctx, cb)
	case "admin_promo":
		b.adminPromo(ctx, cb)
	}
}

func (b *Bot) adminStats(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "admin")

	stats, err := b.Repo.GetStats(ctx)
	if err != nil {
		l.Error("stats_failed", "error", err)
		b.editOrReply(ctx, cb, "❌ Статистика недоступна", adminKeyboard())
		return
	}

	text := fmt.Sprintf(
		"📊 Статистика\n\n👥 Пользователей: %d (за неделю: +%d)\n📋 Заказов: %d (за неделю: %d)\n💰 Выручка: %s сум\n📦 Активных товаров: %d",
		stats.TotalUsers, stats.NewUsersWeek,
		stats.TotalOrders, stats.OrdersWeek,
		texts.FormatPrice(stats.TotalRevenue),
		stats.ActiveProducts,
	)
	b.editOrReply(ctx, cb, text, adminKeyboard())
}

func (b *Bot) adminOrders(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "admin")

	orders, err := b.Orders.ListActiveOrders(ctx, 20)
	if err != nil {
		l.Error("active_orders_failed", "error", err)
		b.editOrReply(ctx, cb, "❌ Не удалось получить заказы", adminKeyboard())
		return
	}
	if len(orders) == 0 {
		b.editOrReply(ctx, cb, "📋 Активных заказов нет", adminKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Активные заказы:\n\n")
	for _, o := range orders {
		fmt.Fprintf(&sb, "#%d — %s сум — %s — %s\n",
			o.ID, texts.FormatPrice(o.TotalAmount), o.OrderStatus, o.Phone)
	}
	b.editOrReply(ctx, cb, sb.String(), adminKeyboard())
}

func (b *Bot) adminAI(ctx context.Context, cb *telegram.CallbackQuery) {
	b.editOrReply(ctx, cb, b.AI.SalesInsights(ctx), adminKeyboard())
}

func (b *Bot) adminSegments(ctx context.Context, cb *telegram.CallbackQuery) {
	b.editOrReply(ctx, cb, b.AI.SegmentUsers(ctx), adminKeyboard())
}

func (b *Bot) adminPromo(ctx context.Context, cb *telegram.CallbackQuery) {
	b.editOrReply(ctx, cb, b.AI.PromoCampaign(ctx), adminKeyboard())
}
