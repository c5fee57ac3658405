package handlers

import (
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/config"
	"Exchange/internal/localization"
	"Exchange/internal/payments"
	"Exchange/internal/referral"
	"Exchange/internal/session"
	"Exchange/internal/support"
	"Exchange/internal/telegram_api"
)

// HandlerDependencies содержит все зависимости, необходимые для обработчиков.
// Все хранилища (сессии, реферальная книга, карта ответов) инжектируются,
// чтобы диалоговая логика не зависела от их реализации.
// HandlerDependencies contains all dependencies required by the handlers.
// Every store (sessions, referral book, reply map) is injected so the
// dialogue logic does not depend on their implementation.
type HandlerDependencies struct {
	Config         *config.Config
	BotClient      telegram_api.MessageSender
	SessionManager *session.SessionManager
	Referrals      *referral.Ledger
	Relay          *support.Relay
	Payments       payments.Initiator
}

// BotHandler инкапсулирует логику обработки сообщений и коллбэков.
// BotHandler encapsulates the message and callback handling logic.
type BotHandler struct {
	Deps HandlerDependencies
}

// NewBotHandler создает новый экземпляр BotHandler.
// NewBotHandler creates a new BotHandler instance.
func NewBotHandler(deps HandlerDependencies) *BotHandler {
	if deps.Config == nil || deps.BotClient == nil || deps.SessionManager == nil ||
		deps.Referrals == nil || deps.Relay == nil || deps.Payments == nil {
		// Критическая ошибка конфигурации: без любой из зависимостей
		// приложение не сможет работать корректно.
		panic("Не все зависимости для BotHandler были предоставлены.")
	}
	return &BotHandler{Deps: deps}
}

// langOf определяет локаль пользователя по language_code Telegram.
// Поддерживаются два жестко заданных локаля; всё остальное — английский.
// langOf resolves the user's locale from Telegram's language_code.
// Two hardcoded locales are supported; anything else falls back to English.
func langOf(from *tgbotapi.User) string {
	if from != nil && strings.HasPrefix(from.LanguageCode, "ru") {
		return "ru"
	}
	return "en"
}

// isMenuLabel сообщает, совпадает ли текст с подписью одной из кнопок
// постоянной клавиатуры в любом поддерживаемом локале. Такие сообщения не
// считаются обращением в поддержку.
// isMenuLabel reports whether the text matches a persistent-keyboard button
// label in any supported locale. Such messages never count as support
// inquiries.
func isMenuLabel(text string) (string, bool) {
	for _, lang := range localization.SupportedLanguages() {
		switch text {
		case localization.Get(lang, "btn_sell"):
			return "sell", true
		case localization.Get(lang, "btn_support"):
			return "support", true
		case localization.Get(lang, "btn_referral"):
			return "referral", true
		}
	}
	return "", false
}
