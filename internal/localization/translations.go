package localization

import (
	"fmt"
	"log"
)

// Два жестко заданных локаля: en и ru. Переводы встроены в бинарник —
// внешнего каталога ресурсов у приложения нет.
// Two hardcoded locales: en and ru. Translations are compiled in — the
// application carries no external asset catalog.

const defaultLang = "en"

var translations = map[string]map[string]string{
	"en": {
		"start_welcome": "👋 Welcome! I help you sell USDT for fiat (USD, EUR, GBP).\n\nUse the buttons below or /sell to start.",
		"help":          "Commands:\n/sell — sell USDT\n/support — contact support\n/start — restart",

		"choose_fiat":       "💱 Which currency would you like to receive?",
		"choose_network":    "🌐 You chose %s. Which network will you send USDT from?",
		"ask_amount":        "💰 Enter the USDT amount you want to sell (%.0f – %.0f USDT):",
		"amount_invalid":    "❌ That doesn't look like a number. Please enter an amount like 100 or 250.5.",
		"amount_range":      "❌ The amount must be between %.0f and %.0f USDT. Please try again.",
		"choose_method":     "💳 Selling %.2f USDT ≈ %.2f %s.\n\nChoose how you want to receive the money:",
		"choose_region":     "🏦 Choose your bank region:",
		"choose_wallet":     "👛 Choose your e-wallet provider:",
		"ask_details":       "✍️ Send the payout details for %s (account, email or IBAN):",
		"sale_failed":       "❌ Could not initiate the transaction. Your data is saved — please resend the details to retry.",
		"sale_success":      "✅ Transaction created!\n\nSend *%.2f USDT* (%s) to the deposit address:\n`%s`\n\nYou will receive *%.2f %s* via %s.\nTransaction ID: `%s`\nTrack the status: %s",
		"qr_caption":        "Scan to copy the deposit address",
		"cancelled":         "🚫 Cancelled. Your session has been reset.",
		"support_prompt":    "🆘 Describe your problem in one message and I'll forward it to support.",
		"support_ack":       "✅ Your message has been forwarded to support. We'll reply here.",
		"support_unavail":   "❌ Support is temporarily unavailable. Please try again later.",
		"generic_error":     "❌ Something went wrong. Please try again or /start.",
		"btn_sell":          "💱 Sell USDT",
		"btn_support":       "🆘 Support",
		"btn_referral":      "👥 Referral program",
		"btn_cancel":        "🚫 Cancel",
		"referral_menu":     "👥 Referral program\n\nBalance: %.2f USDT\nFriends invited: %d\n\nInvite a friend — you get %.0f USDT after their first sale.",
		"btn_ref_link":      "🔗 My link",
		"btn_ref_qr":        "📷 QR code",
		"btn_ref_withdraw":  "💸 Withdraw",
		"referral_link":     "🔗 Your referral link:\n%s",
		"referral_qr_cap":   "Your referral QR code",
		"withdraw_none":     "Your referral balance is empty.",
		"withdraw_ack":      "✅ Withdrawal request sent. An operator will contact you.",
		"reward_notice":     "🎉 Your referral completed their first sale — %.2f USDT credited to your referral balance!",
		"referral_attached": "🤝 You joined via a referral link. Your friend will get a bonus after your first sale.",
	},
	"ru": {
		"start_welcome": "👋 Добро пожаловать! Помогу продать USDT за фиат (USD, EUR, GBP).\n\nИспользуйте кнопки ниже или /sell.",
		"help":          "Команды:\n/sell — продать USDT\n/support — связаться с поддержкой\n/start — перезапуск",

		"choose_fiat":       "💱 Какую валюту вы хотите получить?",
		"choose_network":    "🌐 Вы выбрали %s. Из какой сети отправите USDT?",
		"ask_amount":        "💰 Введите сумму USDT к продаже (%.0f – %.0f USDT):",
		"amount_invalid":    "❌ Это не похоже на число. Введите сумму, например 100 или 250.5.",
		"amount_range":      "❌ Сумма должна быть от %.0f до %.0f USDT. Попробуйте снова.",
		"choose_method":     "💳 Продажа %.2f USDT ≈ %.2f %s.\n\nВыберите способ получения денег:",
		"choose_region":     "🏦 Выберите регион банка:",
		"choose_wallet":     "👛 Выберите провайдера кошелька:",
		"ask_details":       "✍️ Отправьте реквизиты для %s (счет, email или IBAN):",
		"sale_failed":       "❌ Не удалось инициировать транзакцию. Данные сохранены — отправьте реквизиты еще раз для повтора.",
		"sale_success":      "✅ Транзакция создана!\n\nОтправьте *%.2f USDT* (%s) на депозитный адрес:\n`%s`\n\nВы получите *%.2f %s* через %s.\nID транзакции: `%s`\nСтатус: %s",
		"qr_caption":        "Отсканируйте, чтобы скопировать депозитный адрес",
		"cancelled":         "🚫 Отменено. Сессия сброшена.",
		"support_prompt":    "🆘 Опишите проблему одним сообщением — я перешлю его в поддержку.",
		"support_ack":       "✅ Сообщение передано в поддержку. Ответ придет сюда.",
		"support_unavail":   "❌ Поддержка временно недоступна. Попробуйте позже.",
		"generic_error":     "❌ Что-то пошло не так. Попробуйте еще раз или /start.",
		"btn_sell":          "💱 Продать USDT",
		"btn_support":       "🆘 Поддержка",
		"btn_referral":      "👥 Реферальная программа",
		"btn_cancel":        "🚫 Отмена",
		"referral_menu":     "👥 Реферальная программа\n\nБаланс: %.2f USDT\nПриглашено друзей: %d\n\nПригласите друга — вы получите %.0f USDT после его первой продажи.",
		"btn_ref_link":      "🔗 Моя ссылка",
		"btn_ref_qr":        "📷 QR-код",
		"btn_ref_withdraw":  "💸 Вывести",
		"referral_link":     "🔗 Ваша реферальная ссылка:\n%s",
		"referral_qr_cap":   "Ваш реферальный QR-код",
		"withdraw_none":     "Ваш реферальный баланс пуст.",
		"withdraw_ack":      "✅ Заявка на вывод отправлена. Оператор свяжется с вами.",
		"reward_notice":     "🎉 Ваш реферал совершил первую продажу — %.2f USDT зачислено на реферальный баланс!",
		"referral_attached": "🤝 Вы пришли по реферальной ссылке. Ваш друг получит бонус после вашей первой продажи.",
	},
}

// Get возвращает перевод ключа для указанного языка, подставляя аргументы.
// Неизвестный язык откатывается к английскому; отсутствующий ключ
// логируется и возвращается как диагностическая строка.
// Get returns the key's translation for the given language, applying args.
// An unknown language falls back to English; a missing key is logged and
// returned as a diagnostic string.
func Get(lang, key string, args ...interface{}) string {
	catalog, ok := translations[lang]
	if !ok {
		catalog = translations[defaultLang]
	}

	template, exists := catalog[key]
	if !exists {
		// Пробуем локаль по умолчанию перед тем, как сдаться.
		template, exists = translations[defaultLang][key]
		if !exists {
			log.Printf("localization.Get: отсутствует перевод %s.%s", lang, key)
			return fmt.Sprintf("Missing translation: %s.%s", lang, key)
		}
	}

	if len(args) > 0 {
		return fmt.Sprintf(template, args...)
	}
	return template
}

// SupportedLanguages возвращает список поддерживаемых локалей.
// SupportedLanguages returns the list of supported locales.
func SupportedLanguages() []string {
	languages := make([]string, 0, len(translations))
	for lang := range translations {
		languages = append(languages, lang)
	}
	return languages
}
