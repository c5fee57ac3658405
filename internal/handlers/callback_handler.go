package handlers

import (
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/constants"
	"Exchange/internal/localization"
)

// HandleCallback обрабатывает входящие callback query от Telegram.
// Кнопочные события несут собственный маршрутизирующий префикс и
// сопоставляются по нему, а не по маркеру ожидания сессии: нажатие кнопки
// принимается даже при устаревшем маркере. Это намеренная снисходительность.
// HandleCallback handles incoming Telegram callback queries.
// Button events carry their own routing prefix and are matched by it rather
// than by the session's awaiting marker: a button press is accepted even
// when the marker is stale. This leniency is intentional.
func (bh *BotHandler) HandleCallback(update tgbotapi.Update) {
	query := update.CallbackQuery
	if query == nil {
		log.Println("[CALLBACK_HANDLER] Получен пустой CallbackQuery.")
		return
	}

	chatID := query.Message.Chat.ID
	originalMessageID := query.Message.MessageID
	data := query.Data
	lang := langOf(query.From)

	log.Printf("[CALLBACK_HANDLER] ChatID=%d, User=%s, MsgID=%d, Data='%s'",
		chatID, query.From.UserName, originalMessageID, data)

	bh.answerCallbackHelper(query.ID, "")
	bh.Deps.Referrals.Init(chatID)

	switch {
	case data == constants.CALLBACK_SELL_START:
		bh.startSaleFlow(chatID, lang)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_CURRENCY):
		bh.handleCurrencySelection(chatID, lang, originalMessageID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_CURRENCY))

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_NETWORK):
		bh.handleNetworkSelection(chatID, lang, originalMessageID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_NETWORK))

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_BANK_REGION):
		regionKey := strings.TrimPrefix(data, constants.CALLBACK_PREFIX_BANK_REGION)
		bh.promptDetails(chatID, lang, originalMessageID, bankMethodLabel(regionKey), constants.STATE_AWAIT_BANK_DETAILS)

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_WALLET):
		bh.handleWalletSelection(chatID, lang, originalMessageID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_WALLET))

	case strings.HasPrefix(data, constants.CALLBACK_PREFIX_METHOD):
		bh.handleMethodSelection(chatID, lang, originalMessageID, strings.TrimPrefix(data, constants.CALLBACK_PREFIX_METHOD))

	case data == constants.CALLBACK_CANCEL:
		// Отмена в любой точке: сессия сбрасывается безусловно.
		// Cancel at any point: the session resets unconditionally.
		bh.Deps.SessionManager.ClearState(chatID)
		bh.Deps.SessionManager.ClearTempSale(chatID)
		bh.sendMessage(chatID, localization.Get(lang, "cancelled"))

	case data == constants.CALLBACK_SUPPORT:
		bh.promptSupport(chatID, lang)

	case data == constants.CALLBACK_MAIN_MENU:
		bh.SendMainMenu(chatID, lang)

	case data == constants.CALLBACK_INVITE_FRIEND,
		data == constants.CALLBACK_REFERRAL_LINK,
		data == constants.CALLBACK_REFERRAL_QR,
		data == constants.CALLBACK_MY_REFERRALS,
		data == constants.CALLBACK_WITHDRAW_REFERRAL:
		bh.handleReferralCallback(chatID, lang, originalMessageID, data)

	case data == constants.CALLBACK_EXCEL_MENU,
		data == constants.CALLBACK_EXCEL_GENERATE_SALES,
		data == constants.CALLBACK_EXCEL_GENERATE_REFERRALS:
		if chatID != bh.Deps.Config.AdminChatID {
			log.Printf("[CALLBACK_HANDLER] Отказ: chatID %d запросил админский коллбэк '%s'.", chatID, data)
			return
		}
		bh.handleExcelCallback(chatID, originalMessageID, data)

	default:
		log.Printf("[CALLBACK_HANDLER] Неизвестный callback '%s' от chatID %d.", data, chatID)
	}
}

// handleCurrencySelection сохраняет фиат и продвигает поток к выбору сети.
// handleCurrencySelection stores the fiat and advances to network choice.
func (bh *BotHandler) handleCurrencySelection(chatID int64, lang string, messageID int, currency string) {
	valid := false
	for _, known := range constants.FiatCurrencies {
		if currency == known {
			valid = true
			break
		}
	}
	if !valid {
		log.Printf("handleCurrencySelection: неизвестная валюта '%s' от chatID %d.", currency, chatID)
		return
	}

	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	saleData.FiatCurrency = currency
	bh.Deps.SessionManager.UpdateTempSale(chatID, saleData)

	bh.SendNetworkMenu(chatID, lang, messageID, currency)
}

// handleNetworkSelection сохраняет сеть и запрашивает сумму.
// handleNetworkSelection stores the network and prompts for the amount.
func (bh *BotHandler) handleNetworkSelection(chatID int64, lang string, messageID int, network string) {
	if _, known := constants.PayoutNetworkCurrencies[network]; !known {
		log.Printf("handleNetworkSelection: неизвестная сеть '%s' от chatID %d.", network, chatID)
		return
	}

	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	saleData.Network = network
	bh.Deps.SessionManager.UpdateTempSale(chatID, saleData)

	bh.promptAmount(chatID, lang, messageID)
}

// handleMethodSelection обрабатывает выбор способа выплаты. Простые способы
// сразу переходят к вводу реквизитов; составные (банк, кошельки) показывают
// подменю перед состоянием запроса реквизитов.
// handleMethodSelection handles the payout method choice. Simple methods go
// straight to detail input; compound ones (bank, wallets) show a sub-menu
// before the detail-prompt state.
func (bh *BotHandler) handleMethodSelection(chatID int64, lang string, messageID int, methodKey string) {
	switch methodKey {
	case "paypal":
		bh.promptDetails(chatID, lang, messageID, constants.METHOD_PAYPAL, constants.STATE_AWAIT_PAYPAL_DETAILS)
	case "card":
		bh.promptDetails(chatID, lang, messageID, constants.METHOD_CARD, constants.STATE_AWAIT_CARD_DETAILS)
	case "bank":
		bh.SendBankRegionMenu(chatID, lang, messageID)
	case "wallet":
		bh.SendWalletProviderMenu(chatID, lang, messageID)
	default:
		log.Printf("handleMethodSelection: неизвестный способ '%s' от chatID %d.", methodKey, chatID)
	}
}

// handleWalletSelection обрабатывает подменю провайдера кошелька.
// handleWalletSelection handles the wallet-provider sub-menu.
func (bh *BotHandler) handleWalletSelection(chatID int64, lang string, messageID int, providerKey string) {
	switch providerKey {
	case "skrill":
		bh.promptDetails(chatID, lang, messageID, constants.METHOD_SKRILL, constants.STATE_AWAIT_SKRILL_DETAILS)
	case "neteller":
		bh.promptDetails(chatID, lang, messageID, constants.METHOD_NETELLER, constants.STATE_AWAIT_NETELLER_DETAILS)
	default:
		log.Printf("handleWalletSelection: неизвестный провайдер '%s' от chatID %d.", providerKey, chatID)
	}
}
