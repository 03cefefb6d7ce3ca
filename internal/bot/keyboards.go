package bot

import (
	"fmt"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
	"github.com/arzonmarket/arzon-bot/internal/texts"
)

func mainMenuKeyboard(locale string) telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{
				{Text: texts.Get("btn_categories", locale)},
				{Text: texts.Get("btn_cart", locale)},
			},
			{
				{Text: texts.Get("btn_orders", locale)},
				{Text: texts.Get("btn_profile", locale)},
			},
			{
				{Text: texts.Get("btn_search", locale)},
				{Text: texts.Get("btn_referral", locale)},
			},
			{
				{Text: texts.Get("btn_language", locale)},
			},
		},
		ResizeKeyboard: true,
	}
}

func languageKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: "🇺🇿 O'zbekcha", CallbackData: "lang_uz"},
				{Text: "🇷🇺 Русский", CallbackData: "lang_ru"},
			},
		},
	}
}

func contactKeyboard(locale string) telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: texts.Get("send_contact", locale), RequestContact: true}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func locationKeyboard(locale string) telegram.ReplyKeyboardMarkup {
	return telegram.ReplyKeyboardMarkup{
		Keyboard: [][]telegram.KeyboardButton{
			{{Text: texts.Get("send_location", locale), RequestLocation: true}},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
}

func categoriesKeyboard(categories []models.Category, locale string) telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: c.Name(locale), CallbackData: fmt.Sprintf("category_%d", c.ID)},
		})
	}
	return telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func productsKeyboard(products []models.Product, locale string) telegram.InlineKeyboardMarkup {
	rows := make([][]telegram.InlineKeyboardButton, 0, len(products))
	for _, p := range products {
		label := fmt.Sprintf("%s — %s", p.Name(locale), texts.FormatPrice(p.Price))
		rows = append(rows, []telegram.InlineKeyboardButton{
			{Text: label, CallbackData: fmt.Sprintf("product_%d", p.ID)},
		})
	}
	return telegram.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func productDetailKeyboard(productID uint, locale string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: texts.Get("add_to_cart", locale), CallbackData: fmt.Sprintf("add_to_cart_%d", productID)}},
		},
	}
}

func cartKeyboard(locale string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: texts.Get("checkout", locale), CallbackData: "checkout"}},
			{{Text: texts.Get("clear_cart", locale), CallbackData: "clear_cart"}},
		},
	}
}

func paymentKeyboard(locale string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: texts.Get("payment_cash", locale), CallbackData: "payment_" + models.PaymentCash}},
			{
				{Text: texts.Get("payment_payme", locale), CallbackData: "payment_" + models.PaymentPayme},
				{Text: texts.Get("payment_click", locale), CallbackData: "payment_" + models.PaymentClick},
			},
			{{Text: texts.Get("payment_uzcard", locale), CallbackData: "payment_" + models.PaymentUzcard}},
		},
	}
}

func profileKeyboard(locale string) telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{
				{Text: texts.Get("edit_phone", locale), CallbackData: "edit_phone"},
				{Text: texts.Get("edit_address", locale), CallbackData: "edit_address"},
			},
			{{Text: texts.Get("btn_orders", locale), CallbackData: "my_orders"}},
		},
	}
}

func adminKeyboard() telegram.InlineKeyboardMarkup {
	return telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "📊 Статистика", CallbackData: "admin_stats"}},
			{{Text: "📋 Активные заказы", CallbackData: "admin_orders"}},
			{{Text: "🤖 AI Аналитика", CallbackData: "admin_ai"}},
			{{Text: "👥 Сегменты", CallbackData: "admin_segments"}},
			{{Text: "🎯 Промо-кампания", CallbackData: "admin_promo"}},
		},
	}
}
