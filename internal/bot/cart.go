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

func (b *Bot) showCart(ctx context.Context, user *models.User) {
	l := logging.FromContext(ctx).With("handler", "cart")

	items, err := b.Cart.GetCart(ctx, user.TelegramID)
	if err != nil {
		l.Error("get_cart_failed", "user_id", user.TelegramID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}
	if len(items) == 0 {
		b.reply(ctx, user.TelegramID, texts.Get("cart_empty", user.LanguageCode), nil)
		return
	}

	b.reply(ctx, user.TelegramID, renderCart(items, user.LanguageCode, b.Cart.Total(items)), cartKeyboard(user.LanguageCode))
}

func renderCart(items []models.CartItem, locale string, total int64) string {
	var sb strings.Builder
	sb.WriteString(texts.Get("cart_header", locale))
	sb.WriteString("\n\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "• %s x%d = %s\n",
			it.Product.Name(locale),
			it.Quantity,
			texts.FormatPrice(it.Product.Price*int64(it.Quantity)),
		)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, texts.Get("cart_total", locale), texts.FormatPrice(total))
	return sb.String()
}

func (b *Bot) clearCart(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "cart")

	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}

	if err := b.Cart.ClearCart(ctx, user.TelegramID); err != nil {
		l.Error("clear_cart_failed", "user_id", user.TelegramID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}

	b.editOrReply(ctx, cb, texts.Get("cart_empty", user.LanguageCode), nil)
}

// startCheckout begins the checkout conversation. A user with a stored
// address skips straight to payment; otherwise a location is collected
// first. The cart is checked up front so the user is not walked through
// the steps for nothing; the authoritative empty-cart check still
// happens inside order creation.
func (b *Bot) startCheckout(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "checkout")

	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}

	items, err := b.Cart.GetCart(ctx, user.TelegramID)
	if err != nil {
		l.Error("get_cart_failed", "user_id", user.TelegramID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}
	if len(items) == 0 {
		b.editOrReply(ctx, cb, texts.Get("cart_empty", user.LanguageCode), nil)
		return
	}

	if strings.TrimSpace(user.Address) != "" {
		b.Sessions.SetState(user.TelegramID, session.StateAwaitingPayment)
		b.reply(ctx, user.TelegramID, texts.Get("choose_payment", user.LanguageCode), paymentKeyboard(user.LanguageCode))
		return
	}

	b.Sessions.SetState(user.TelegramID, session.StateAwaitingLocation)
	b.reply(ctx, user.TelegramID, texts.Get("ask_location", user.LanguageCode), locationKeyboard(user.LanguageCode))
}

// locationReceived accepts the delivery point and moves on to payment.
// Anything but an actual location re-prompts.
func (b *Bot) locationReceived(ctx context.Context, msg *telegram.Message) {
	userID := msg.From.ID

	user, err := b.Users.GetUser(ctx, userID)
	if err != nil || user == nil {
		b.Sessions.Clear(userID)
		return
	}

	if msg.Location == nil {
		b.reply(ctx, userID, texts.Get("ask_location", user.LanguageCode), locationKeyboard(user.LanguageCode))
		return
	}

	lat, lon := msg.Location.Latitude, msg.Location.Longitude
	b.Sessions.Update(userID, func(s *session.Session) {
		s.State = session.StateAwaitingPayment
		s.Data.Latitude = &lat
		s.Data.Longitude = &lon
	})

	b.reply(ctx, userID, texts.Get("location_received", user.LanguageCode), telegram.ReplyKeyboardRemove{RemoveKeyboard: true})
	b.reply(ctx, userID, texts.Get("choose_payment", user.LanguageCode), paymentKeyboard(user.LanguageCode))
}

// paymentSelected finishes checkout: the cart is converted to an order in
// one transaction, the customer gets a confirmation and the admins a
// heads-up. The callback only counts while the session is actually at the
// payment step, so a stale keyboard cannot create a second order.
func (b *Bot) paymentSelected(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "checkout")
	userID := cb.From.ID

	sess := b.Sessions.Get(userID)
	if sess.State != session.StateAwaitingPayment {
		return
	}

	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}

	method := strings.TrimPrefix(cb.Data, "payment_")

	var coords *service.Coords
	if sess.Data.Latitude != nil && sess.Data.Longitude != nil {
		coords = &service.Coords{Latitude: *sess.Data.Latitude, Longitude: *sess.Data.Longitude}
	}

	// Users without a stored address went through the location step; the
	// point stands in for the address text.
	address := user.Address
	if strings.TrimSpace(address) == "" && coords != nil {
		address = fmt.Sprintf("geo:%.6f,%.6f", coords.Latitude, coords.Longitude)
	}

	order, err := b.Orders.CreateOrder(ctx, userID, method, address, user.Phone, coords, "")
	if err != nil {
		b.Sessions.Clear(userID)
		if errors.Is(err, service.ErrEmptyCart) {
			b.reply(ctx, userID, texts.Get("cart_empty", user.LanguageCode), mainMenuKeyboard(user.LanguageCode))
			return
		}
		l.Error("create_order_failed", "user_id", userID, "error", err)
		b.reply(ctx, userID, texts.Get("error_generic", user.LanguageCode), mainMenuKeyboard(user.LanguageCode))
		return
	}

	b.Sessions.Clear(userID)

	text := fmt.Sprintf(texts.Get("order_created", user.LanguageCode), order.ID)
	b.reply(ctx, userID, text, mainMenuKeyboard(user.LanguageCode))

	b.Notify.NotifyNewOrder(ctx, order, user)
}
