package handlers

import (
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/constants"
	"Exchange/internal/localization"
	"Exchange/internal/rates"
)

// SendMainMenu отправляет приветствие с постоянной клавиатурой основных
// действий. Вызывается из /start и из возвратов в главное меню.
// SendMainMenu sends the greeting with the persistent main-action keyboard.
// Called from /start and from returns to the main menu.
func (bh *BotHandler) SendMainMenu(chatID int64, lang string) {
	msg := tgbotapi.NewMessage(chatID, localization.Get(lang, "start_welcome"))
	msg.ReplyMarkup = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(localization.Get(lang, "btn_sell")),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(localization.Get(lang, "btn_support")),
			tgbotapi.NewKeyboardButton(localization.Get(lang, "btn_referral")),
		),
	)
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		log.Printf("SendMainMenu: ошибка отправки для chatID %d: %v", chatID, err)
	}
}

// SendCurrencyMenu предлагает выбрать фиатную валюту — первый шаг продажи.
// SendCurrencyMenu offers the fiat currency choice — the first sale step.
func (bh *BotHandler) SendCurrencyMenu(chatID int64, lang string, messageIDToEdit int) {
	var currencyRow []tgbotapi.InlineKeyboardButton
	for _, currency := range constants.FiatCurrencies {
		currencyRow = append(currencyRow, tgbotapi.NewInlineKeyboardButtonData(
			currency, constants.CALLBACK_PREFIX_CURRENCY+currency))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		currencyRow,
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)

	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, localization.Get(lang, "choose_fiat"), &keyboard); err != nil {
		log.Printf("SendCurrencyMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// SendNetworkMenu предлагает ровно два варианта сети вывода USDT.
// SendNetworkMenu offers exactly two USDT network choices.
func (bh *BotHandler) SendNetworkMenu(chatID int64, lang string, messageIDToEdit int, fiatCurrency string) {
	var networkRow []tgbotapi.InlineKeyboardButton
	for _, network := range constants.Networks {
		networkRow = append(networkRow, tgbotapi.NewInlineKeyboardButtonData(
			network, constants.CALLBACK_PREFIX_NETWORK+network))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		networkRow,
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)

	text := localization.Get(lang, "choose_network", fiatCurrency)
	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, text, &keyboard); err != nil {
		log.Printf("SendNetworkMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// promptAmount устанавливает маркер ожидания суммы и просит числовой ввод с
// указанием границ прямо в тексте.
// promptAmount sets the amount awaiting marker and asks for numeric input
// with the bounds stated in the prompt text.
func (bh *BotHandler) promptAmount(chatID int64, lang string, messageIDToEdit int) {
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_AWAIT_AMOUNT)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)
	text := localization.Get(lang, "ask_amount", constants.MIN_USDT, constants.MAX_USDT)
	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, text, &keyboard); err != nil {
		log.Printf("promptAmount: ошибка для chatID %d: %v", chatID, err)
	}
}

// SendPaymentMethodMenu показывает способы выплаты вместе с фиатным
// эквивалентом введенной суммы (прямая таблица курсов).
// SendPaymentMethodMenu shows the payout methods along with the fiat
// equivalent of the entered amount (direct rate table).
func (bh *BotHandler) SendPaymentMethodMenu(chatID int64, lang string, messageIDToEdit int) {
	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	fiatAmount := rates.Convert(saleData.AmountUSDT, saleData.FiatCurrency)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("PayPal", constants.CALLBACK_PREFIX_METHOD+"paypal"),
			tgbotapi.NewInlineKeyboardButtonData("💳 Card", constants.CALLBACK_PREFIX_METHOD+"card"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏦 Bank Transfer", constants.CALLBACK_PREFIX_METHOD+"bank"),
			tgbotapi.NewInlineKeyboardButtonData("👛 Skrill/Neteller", constants.CALLBACK_PREFIX_METHOD+"wallet"),
		),
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)

	text := localization.Get(lang, "choose_method", saleData.AmountUSDT, fiatAmount, saleData.FiatCurrency)
	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, text, &keyboard); err != nil {
		log.Printf("SendPaymentMethodMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// SendBankRegionMenu — подменю составного способа "банковский перевод".
// SendBankRegionMenu is the compound bank-transfer method's sub-menu.
func (bh *BotHandler) SendBankRegionMenu(chatID int64, lang string, messageIDToEdit int) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(constants.BankRegionDisplay["eu"], constants.CALLBACK_PREFIX_BANK_REGION+"eu"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(constants.BankRegionDisplay["uk"], constants.CALLBACK_PREFIX_BANK_REGION+"uk"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(constants.BankRegionDisplay["intl"], constants.CALLBACK_PREFIX_BANK_REGION+"intl"),
		),
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)

	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, localization.Get(lang, "choose_region"), &keyboard); err != nil {
		log.Printf("SendBankRegionMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// SendWalletProviderMenu — подменю составного способа "электронный кошелек".
// SendWalletProviderMenu is the compound e-wallet method's sub-menu.
func (bh *BotHandler) SendWalletProviderMenu(chatID int64, lang string, messageIDToEdit int) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Skrill", constants.CALLBACK_PREFIX_WALLET+"skrill"),
			tgbotapi.NewInlineKeyboardButtonData("Neteller", constants.CALLBACK_PREFIX_WALLET+"neteller"),
		),
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)

	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, localization.Get(lang, "choose_wallet"), &keyboard); err != nil {
		log.Printf("SendWalletProviderMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// promptDetails запоминает выбранный способ, устанавливает его ключ ожидания
// реквизитов и просит свободный ввод.
// promptDetails records the chosen method, sets its detail-awaiting key and
// asks for free-form input.
func (bh *BotHandler) promptDetails(chatID int64, lang string, messageIDToEdit int, methodLabel, detailState string) {
	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	saleData.PaymentMethod = methodLabel
	bh.Deps.SessionManager.UpdateTempSale(chatID, saleData)
	bh.Deps.SessionManager.SetState(chatID, detailState)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		cancelButtonRow(localization.Get(lang, "btn_cancel")),
	)
	text := localization.Get(lang, "ask_details", methodLabel)
	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, text, &keyboard); err != nil {
		log.Printf("promptDetails: ошибка для chatID %d: %v", chatID, err)
	}
}

// promptSupport переводит чат в режим одного сообщения для поддержки.
// promptSupport switches the chat into the one-message support mode.
func (bh *BotHandler) promptSupport(chatID int64, lang string) {
	bh.Deps.SessionManager.SetState(chatID, constants.STATE_AWAIT_SUPPORT_MESSAGE)
	bh.sendMessage(chatID, localization.Get(lang, "support_prompt"))
}

// methodDisplayLabel строит подпись составного банковского способа.
// methodDisplayLabel builds the compound bank method's label.
func bankMethodLabel(regionKey string) string {
	display, ok := constants.BankRegionDisplay[regionKey]
	if !ok {
		return constants.METHOD_BANK
	}
	return fmt.Sprintf("%s (%s)", constants.METHOD_BANK, display)
}
