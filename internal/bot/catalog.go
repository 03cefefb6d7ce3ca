package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

const searchLimit = 10

func (b *Bot) showCategories(ctx context.Context, user *models.User) {
	l := logging.FromContext(ctx).With("handler", "catalog")

	categories, err := b.Repo.GetCategories(ctx)
	if err != nil {
		l.Error("list_categories_failed", "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}
	if len(categories) == 0 {
		b.reply(ctx, user.TelegramID, texts.Get("not_found", user.LanguageCode), nil)
		return
	}

	b.reply(ctx, user.TelegramID, texts.Get("choose_category", user.LanguageCode), categoriesKeyboard(categories, user.LanguageCode))
}

func (b *Bot) showCategoryProducts(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "catalog")

	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}
	categoryID, ok := parseID(cb.Data, "category_")
	if !ok {
		return
	}

	products, err := b.Repo.GetProductsByCategory(ctx, categoryID)
	if err != nil {
		l.Error("list_products_failed", "category_id", categoryID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}
	if len(products) == 0 {
		b.editOrReply(ctx, cb, texts.Get("not_found", user.LanguageCode), nil)
		return
	}

	b.editOrReply(ctx, cb, texts.Get("choose_product", user.LanguageCode), productsKeyboard(products, user.LanguageCode))
}

func (b *Bot) showProductDetail(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "catalog")

	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}
	productID, ok := parseID(cb.Data, "product_")
	if !ok {
		return
	}

	product, err := b.Repo.GetProduct(ctx, productID)
	if err != nil {
		l.Error("get_product_failed", "product_id", productID, "error", err)
		b.editOrReply(ctx, cb, texts.Get("not_found", user.LanguageCode), nil)
		return
	}

	text := fmt.Sprintf(
		texts.Get("product_details", user.LanguageCode),
		product.Name(user.LanguageCode),
		texts.FormatPrice(product.Price),
		product.Description(user.LanguageCode),
	)
	b.editOrReply(ctx, cb, text, productDetailKeyboard(product.ID, user.LanguageCode))
}

func (b *Bot) addToCart(ctx context.Context, cb *telegram.CallbackQuery) {
	l := logging.FromContext(ctx).With("handler", "cart")

	user, ok := b.callbackUser(ctx, cb)
	if !ok {
		return
	}
	productID, ok := parseID(cb.Data, "add_to_cart_")
	if !ok {
		return
	}

	if err := b.Cart.AddItem(ctx, user.TelegramID, productID, 1); err != nil {
		l.Error("add_to_cart_failed", "user_id", user.TelegramID, "product_id", productID, "error", err)
		b.reply(ctx, user.TelegramID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}

	b.reply(ctx, user.TelegramID, texts.Get("product_added_to_cart", user.LanguageCode), nil)
}

func (b *Bot) askQuery(ctx context.Context, user *models.User) {
	b.Sessions.SetState(user.TelegramID, session.StateAwaitingQuery)
	b.reply(ctx, user.TelegramID, texts.Get("enter_query", user.LanguageCode), nil)
}

func (b *Bot) queryReceived(ctx context.Context, msg *telegram.Message) {
	l := logging.FromContext(ctx).With("handler", "search")
	userID := msg.From.ID

	user, err := b.Users.GetUser(ctx, userID)
	if err != nil || user == nil {
		b.Sessions.Clear(userID)
		return
	}

	b.Sessions.SetState(userID, session.StateIdle)

	query := strings.TrimSpace(msg.Text)
	if query == "" {
		b.reply(ctx, userID, texts.Get("enter_query", user.LanguageCode), nil)
		return
	}

	products, err := b.Search.Search(ctx, query, searchLimit)
	if err != nil {
		l.Error("search_failed", "query", query, "error", err)
		b.reply(ctx, userID, texts.Get("error_generic", user.LanguageCode), nil)
		return
	}
	if len(products) == 0 {
		b.reply(ctx, userID, texts.Get("nothing_found", user.LanguageCode), mainMenuKeyboard(user.LanguageCode))
		return
	}

	b.reply(ctx, userID, texts.Get("search_results", user.LanguageCode), productsKeyboard(products, user.LanguageCode))
}

// callbackUser resolves the registered user behind a callback; callbacks
// from unregistered chats are dropped.
func (b *Bot) callbackUser(ctx context.Context, cb *telegram.CallbackQuery) (*models.User, bool) {
	user, err := b.Users.GetUser(ctx, cb.From.ID)
	if err != nil {
		logging.FromContext(ctx).Error("get_user_failed", "user_id", cb.From.ID, "error", err)
		return nil, false
	}
	if user == nil {
		return nil, false
	}
	return user, true
}

// editOrReply edits the message carrying the inline keyboard when it is
// available, otherwise sends a fresh one.
func (b *Bot) editOrReply(ctx context.Context, cb *telegram.CallbackQuery, text string, markup any) {
	if cb.Message != nil {
		b.edit(ctx, cb.Message.Chat.ID, cb.Message.MessageID, text, markup)
		return
	}
	b.reply(ctx, cb.From.ID, text, markup)
}

func parseID(data, prefix string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
