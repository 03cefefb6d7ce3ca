// Package texts holds every user-facing string in both supported locales.
// Handlers never hardcode user-visible text.
package texts

import (
	"strconv"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

type Entry struct {
	Uz string
	Ru string
}

// Get resolves a key for the requested locale, falling back to Uzbek. An
// unknown key comes back verbatim so a missing entry is visible in chat
// instead of crashing the flow.
func Get(key, locale string) string {
	e, ok := table[key]
	if !ok {
		return key
	}
	if locale == models.LocaleRu && e.Ru != "" {
		return e.Ru
	}
	return e.Uz
}

// FormatPrice renders an amount in som with space thousand separators:
// 1234567 -> "1 234 567".
func FormatPrice(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

var table = map[string]Entry{
	// Main menu
	"welcome": {
		Uz: "🎉 Арзон ботига хуш келибсиз!\n\nИлтимос, тилни танланг:",
		Ru: "🎉 Добро пожаловать в бот Арзон!\n\nПожалуйста, выберите язык:",
	},
	"main_menu":       {Uz: "🏠 Асосий меню", Ru: "🏠 Главное меню"},
	"choose_language": {Uz: "🌐 Тилни танланг:", Ru: "🌐 Выберите язык:"},
	"choose_category": {Uz: "📂 Категорияни танланг:", Ru: "📂 Выберите категорию:"},
	"choose_product":  {Uz: "📦 Маҳсулотларни танланг:", Ru: "📦 Выберите товар:"},
	"not_found":       {Uz: "❌ Топилмади", Ru: "❌ Не найдено"},
	"error_generic":   {Uz: "❌ Хатолик юз берди. Қайта уриниб кўринг.", Ru: "❌ Произошла ошибка. Попробуйте ещё раз."},

	// Registration
	"registration_needed": {
		Uz: "📝 Рўйхатдан ўтиш керак!\n\nИлтимос, телефон рақамингизни юборинг:",
		Ru: "📝 Необходима регистрация!\n\nПожалуйста, отправьте ваш номер телефона:",
	},
	"send_contact":  {Uz: "📱 Телефон рақамни юбориш", Ru: "📱 Отправить номер телефона"},
	"enter_address": {Uz: "📍 Илтимос, манзилингизни киритинг:", Ru: "📍 Пожалуйста, введите ваш адрес:"},
	"registration_complete": {
		Uz: "✅ Рўйхатдан ўтиш муваффақиятли якунланди!\n\nСизнинг реферал кодингиз: %s",
		Ru: "✅ Регистрация успешно завершена!\n\nВаш реферальный код: %s",
	},

	// Products
	"product_added_to_cart": {Uz: "✅ Маҳсулот саватчага қўшилди!", Ru: "✅ Товар добавлен в корзину!"},
	"product_details": {
		Uz: "📦 %s\n\n💰 Нарх: %s сўм\n\n📝 Тафсилот: %s",
		Ru: "📦 %s\n\n💰 Цена: %s сум\n\n📝 Описание: %s",
	},
	"add_to_cart": {Uz: "🛒 Саватчага қўшиш", Ru: "🛒 Добавить в корзину"},
	"quantity":    {Uz: "Сони: %d", Ru: "Количество: %d"},

	// Cart
	"cart_empty":  {Uz: "🛒 Саватчангиз бўш", Ru: "🛒 Ваша корзина пуста"},
	"cart_header": {Uz: "🛒 Саватчангиз:", Ru: "🛒 Ваша корзина:"},
	"cart_total":  {Uz: "💰 Жами: %s сўм", Ru: "💰 Итого: %s сум"},
	"checkout":    {Uz: "✅ Буюртма бериш", Ru: "✅ Оформить заказ"},
	"clear_cart":  {Uz: "🗑 Саватчани тозалаш", Ru: "🗑 Очистить корзину"},

	// Orders
	"no_orders":      {Uz: "📋 Сизда ҳали буюртмалар йўқ", Ru: "📋 У вас пока нет заказов"},
	"order_created":  {Uz: "✅ Буюртма #%d муваффақиятли яратилди!", Ru: "✅ Заказ #%d успешно создан!"},
	"choose_payment": {Uz: "💳 Тўлов усулини танланг:", Ru: "💳 Выберите способ оплаты:"},
	"payment_cash":   {Uz: "💵 Нақд", Ru: "💵 Наличные"},
	"payment_payme":  {Uz: "💳 Payme", Ru: "💳 Payme"},
	"payment_click":  {Uz: "💳 Click", Ru: "💳 Click"},
	"payment_uzcard": {Uz: "💳 UzCard", Ru: "💳 UzCard"},
	"my_orders_list": {Uz: "📋 Менинг буюртмаларим:", Ru: "📋 Мои заказы:"},

	// Order status notifications
	"status_new":        {Uz: "🆕 Янги", Ru: "🆕 Новый"},
	"status_confirmed":  {Uz: "✅ Буюртмангиз тасдиқланди!", Ru: "✅ Ваш заказ подтвержден и принят в работу!"},
	"status_preparing":  {Uz: "👨‍🍳 Буюртмангиз тайёрланмоқда", Ru: "👨‍🍳 Ваш заказ готовится"},
	"status_ready":      {Uz: "📦 Буюртмангиз тайёр", Ru: "📦 Ваш заказ готов к выдаче"},
	"status_delivering": {Uz: "🚚 Буюртмангиз йўлда", Ru: "🚚 Ваш заказ в пути"},
	"status_completed":  {Uz: "✅ Буюртма етказилди! Харид учун раҳмат!", Ru: "✅ Заказ доставлен! Спасибо за покупку!"},
	"status_cancelled":  {Uz: "❌ Буюртмангиз бекор қилинди", Ru: "❌ Ваш заказ отменен"},
	"order_status":      {Uz: "📋 Буюртма #%d\n\n%s", Ru: "📋 Заказ #%d\n\n%s"},

	// Location
	"send_location":     {Uz: "📍 Локацияни юбориш", Ru: "📍 Отправить локацию"},
	"ask_location":      {Uz: "📍 Локацияни юборинг:", Ru: "📍 Отправьте локацию:"},
	"location_received": {Uz: "✅ Локация қабул қилинди!", Ru: "✅ Локация получена!"},

	// Profile
	"profile_info": {
		Uz: "👤 Профил маълумотлари\n\n👨‍💼 Исм: %s\n📱 Телефон: %s\n📍 Манзил: %s\n\n📊 Статистика:\n📋 Буюртмалар: %d\n💰 Жами харажат: %s сўм\n🎁 Бонус баланси: %s сўм\n\n🔗 Реферал код: %s",
		Ru: "👤 Информация профиля\n\n👨‍💼 Имя: %s\n📱 Телефон: %s\n📍 Адрес: %s\n\n📊 Статистика:\n📋 Заказов: %d\n💰 Потрачено: %s сум\n🎁 Бонусный баланс: %s сум\n\n🔗 Реферальный код: %s",
	},
	"edit_phone":        {Uz: "📱 Телефонни ўзгартириш", Ru: "📱 Изменить телефон"},
	"edit_address":      {Uz: "📍 Манзилни ўзгартириш", Ru: "📍 Изменить адрес"},
	"enter_new_phone":   {Uz: "📱 Янги телефон рақамини киритинг:", Ru: "📱 Введите новый номер телефона:"},
	"enter_new_address": {Uz: "📍 Янги манзилни киритинг:", Ru: "📍 Введите новый адрес:"},
	"phone_updated":     {Uz: "✅ Телефон рақами янгиланди!", Ru: "✅ Номер телефона обновлен!"},
	"address_updated":   {Uz: "✅ Манзил янгиланди!", Ru: "✅ Адрес обновлен!"},
	"invalid_phone":     {Uz: "❌ Нотўғри телефон рақами", Ru: "❌ Неверный номер телефона"},
	"not_set":           {Uz: "Белгиланмаган", Ru: "Не указано"},

	// Referral
	"referral_info": {
		Uz: "🎁 Дўстларни таклиф қилинг ва бонус олинг!\n\nСизнинг реферал кодингиз: %s\n\n👥 Таклиф қилганлар: %d\n💰 Бонус баланси: %s сўм",
		Ru: "🎁 Приглашайте друзей и получайте бонусы!\n\nВаш реферальный код: %s\n\n👥 Приглашено: %d\n💰 Бонусный баланс: %s сум",
	},
	"referral_bonus": {
		Uz: "🎉 Табриклаймиз!\n\nСиз реферал бонус олдингиз: %s сўм\n\nДўстларни таклиф қилганингиз учун раҳмат! 🎁",
		Ru: "🎉 Поздравляем!\n\nВы получили реферальный бонус: %s сум\n\nСпасибо за приглашение друзей! 🎁",
	},

	// Search
	"enter_query":    {Uz: "🔍 Қидирув сўзини киритинг:", Ru: "🔍 Введите поисковый запрос:"},
	"search_results": {Uz: "🔍 Қидирув натижалари:", Ru: "🔍 Результаты поиска:"},
	"nothing_found":  {Uz: "🔍 Ҳеч нарса топилмади", Ru: "🔍 Ничего не найдено"},

	// Buttons
	"btn_categories": {Uz: "📂 Категориялар", Ru: "📂 Категории"},
	"btn_cart":       {Uz: "🛒 Саватча", Ru: "🛒 Корзина"},
	"btn_orders":     {Uz: "📋 Буюртмалар", Ru: "📋 Заказы"},
	"btn_profile":    {Uz: "👤 Профил", Ru: "👤 Профиль"},
	"btn_referral":   {Uz: "🎁 Реферал", Ru: "🎁 Реферал"},
	"btn_language":   {Uz: "🌐 Тил", Ru: "🌐 Язык"},
	"btn_search":     {Uz: "🔍 Қидирув", Ru: "🔍 Поиск"},
	"btn_back":       {Uz: "⬅️ Орқага", Ru: "⬅️ Назад"},
	"btn_main_menu":  {Uz: "🏠 Асосий меню", Ru: "🏠 Главное меню"},
}
