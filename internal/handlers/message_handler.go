// Файл: internal/handlers/message_handler.go

package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/constants"
	"Exchange/internal/localization"
	"Exchange/internal/utils"
)

// HandleMessage обрабатывает входящие сообщения от Telegram.
// Порядок диспетчеризации: ответ администратора → команда → подпись кнопки
// постоянной клавиатуры → маркер ожидания → фолбэк в поддержку. Фолбэк
// вычисляется последним: свободный текст без маркера и без распознанной
// подписи считается обращением в поддержку.
// HandleMessage handles incoming Telegram messages.
// Dispatch order: admin reply → command → persistent-keyboard label →
// awaiting marker → support fallback. The fallback is evaluated last: free
// text with no marker and no recognized label counts as a support inquiry.
func (bh *BotHandler) HandleMessage(update tgbotapi.Update) {
	if update.Message == nil {
		return
	}

	message := update.Message
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)
	lang := langOf(message.From)

	log.Printf("HandleMessage: ChatID=%d, MessageID=%d, Text='%s'", chatID, message.MessageID, text)

	// Ответ администратора на пересланное обращение.
	// The admin's reply to a forwarded inquiry.
	if chatID == bh.Deps.Config.AdminChatID && message.ReplyToMessage != nil {
		bh.Deps.Relay.HandleAdminReply(message.ReplyToMessage.MessageID, message.ReplyToMessage.Text, text)
		return
	}

	// Реферальная запись создается лениво при первом контакте.
	// The referral record is created lazily on first contact.
	bh.Deps.Referrals.Init(chatID)

	if message.IsCommand() {
		bh.handleCommand(message, lang)
		return
	}

	if action, ok := isMenuLabel(text); ok {
		switch action {
		case "sell":
			bh.startSaleFlow(chatID, lang)
		case "support":
			bh.promptSupport(chatID, lang)
		case "referral":
			bh.SendReferralMenu(chatID, lang, 0)
		}
		return
	}

	state := bh.Deps.SessionManager.GetState(chatID)
	switch state {
	case constants.STATE_AWAIT_AMOUNT:
		bh.handleAmountInput(chatID, lang, text)
	case constants.STATE_AWAIT_PAYPAL_DETAILS,
		constants.STATE_AWAIT_BANK_DETAILS,
		constants.STATE_AWAIT_CARD_DETAILS,
		constants.STATE_AWAIT_SKRILL_DETAILS,
		constants.STATE_AWAIT_NETELLER_DETAILS:
		bh.handlePaymentDetailsInput(chatID, lang, state, text)
	case constants.STATE_AWAIT_SUPPORT_MESSAGE:
		bh.handleSupportMessage(message, lang)
	default:
		// Фолбэк: не команда, не подпись меню, ничего не ожидается —
		// трактуем как обращение в поддержку.
		if text != "" {
			bh.handleSupportMessage(message, lang)
		}
	}
}

// handleCommand обрабатывает зарегистрированные команды бота.
// handleCommand handles the bot's registered commands.
func (bh *BotHandler) handleCommand(message *tgbotapi.Message, lang string) {
	chatID := message.Chat.ID

	switch message.Command() {
	case "start":
		// /start в любой точке: сессия сбрасывается независимо от прогресса.
		// /start at any point: the session resets regardless of progress.
		bh.Deps.SessionManager.ClearState(chatID)
		bh.Deps.SessionManager.ClearTempSale(chatID)

		if payload := message.CommandArguments(); strings.HasPrefix(payload, constants.REFERRAL_START_PREFIX) {
			bh.attachReferrerFromPayload(chatID, lang, payload)
		}

		bh.SendMainMenu(chatID, lang)
	case "sell":
		bh.startSaleFlow(chatID, lang)
	case "support":
		bh.promptSupport(chatID, lang)
	case "referral":
		bh.SendReferralMenu(chatID, lang, 0)
	case "export":
		if chatID == bh.Deps.Config.AdminChatID {
			bh.SendExcelMenu(chatID, 0)
		} else {
			bh.sendMessage(chatID, localization.Get(lang, "help"))
		}
	case "help":
		bh.sendMessage(chatID, localization.Get(lang, "help"))
	default:
		bh.sendMessage(chatID, localization.Get(lang, "help"))
	}
}

// startSaleFlow начинает продажу с чистого листа.
// startSaleFlow starts a sale from a clean slate.
func (bh *BotHandler) startSaleFlow(chatID int64, lang string) {
	bh.Deps.SessionManager.ClearState(chatID)
	bh.Deps.SessionManager.ClearTempSale(chatID)
	bh.SendCurrencyMenu(chatID, lang, 0)
}

// attachReferrerFromPayload разбирает deep-link параметр "ref_<chatID>".
// attachReferrerFromPayload parses the "ref_<chatID>" deep-link payload.
func (bh *BotHandler) attachReferrerFromPayload(chatID int64, lang, payload string) {
	referrerStr := strings.TrimPrefix(payload, constants.REFERRAL_START_PREFIX)
	referrerID, err := strconv.ParseInt(referrerStr, 10, 64)
	if err != nil {
		log.Printf("attachReferrerFromPayload: некорректный payload '%s' для chatID %d", payload, chatID)
		return
	}
	if bh.Deps.Referrals.AttachReferrer(chatID, referrerID) {
		bh.sendMessage(chatID, localization.Get(lang, "referral_attached"))
	}
}

// handleAmountInput валидирует свободный ввод суммы. Отказ не меняет
// состояние: хранимые поля остаются как были, пользователю уходит подсказка.
// handleAmountInput validates the free-text amount. Rejection changes no
// state: stored fields stay as they were and the user gets a hint.
func (bh *BotHandler) handleAmountInput(chatID int64, lang, text string) {
	amount, err := utils.ValidateAmount(text)
	if err != nil {
		if errors.Is(err, utils.ErrAmountOutOfRange) {
			bh.sendErrorMessageHelper(chatID, localization.Get(lang, "amount_range", constants.MIN_USDT, constants.MAX_USDT))
		} else {
			bh.sendErrorMessageHelper(chatID, localization.Get(lang, "amount_invalid"))
		}
		return
	}

	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	saleData.AmountUSDT = amount
	bh.Deps.SessionManager.UpdateTempSale(chatID, saleData)
	// Сумма принята: дальше снова кнопочный поток, маркер ожидания снимается.
	// Amount accepted: back to the button flow, the awaiting marker clears.
	bh.Deps.SessionManager.ClearState(chatID)

	bh.SendPaymentMethodMenu(chatID, lang, saleData.CurrentMessageID)
}

// handlePaymentDetailsInput сохраняет реквизиты и запускает инициирование
// транзакции. При отказе инициатора маркер ожидания восстанавливается,
// чтобы пользователь мог повторить, просто отправив реквизиты еще раз.
// handlePaymentDetailsInput stores the details and triggers transaction
// initiation. On initiator failure the awaiting marker is restored so the
// user retries by simply resending the details.
func (bh *BotHandler) handlePaymentDetailsInput(chatID int64, lang, detailState, text string) {
	if text == "" {
		bh.sendErrorMessageHelper(chatID, localization.Get(lang, "generic_error"))
		return
	}

	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	saleData.PaymentDetails = text
	bh.Deps.SessionManager.UpdateTempSale(chatID, saleData)
	bh.Deps.SessionManager.ClearState(chatID)

	if !bh.initiateSaleTransaction(chatID, lang) {
		bh.Deps.SessionManager.SetState(chatID, detailState)
	}
}

// handleSupportMessage пересылает обращение в админ-чат и подтверждает
// пользователю. Одно сообщение — и чат возвращается в обычный режим.
// handleSupportMessage relays the inquiry to the admin chat and acknowledges
// the user. One message — and the chat returns to the idle mode.
func (bh *BotHandler) handleSupportMessage(message *tgbotapi.Message, lang string) {
	chatID := message.Chat.ID
	bh.Deps.SessionManager.ClearState(chatID)

	userName := ""
	if message.From != nil {
		userName = message.From.UserName
	}

	if err := bh.Deps.Relay.Forward(chatID, userName, message.MessageID); err != nil {
		log.Printf("handleSupportMessage: пересылка обращения chatID %d не удалась: %v", chatID, err)
		bh.sendErrorMessageHelper(chatID, localization.Get(lang, "support_unavail"))
		return
	}
	bh.sendMessage(chatID, localization.Get(lang, "support_ack"))
}
