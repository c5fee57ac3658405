package handlers

import (
	"fmt"
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/constants"
	"Exchange/internal/localization"
	"Exchange/internal/utils"
)

// SendReferralMenu показывает реферальный кабинет: баланс, число приглашенных
// и действия со ссылкой.
// SendReferralMenu shows the referral hub: balance, invite count and the
// link actions.
func (bh *BotHandler) SendReferralMenu(chatID int64, lang string, messageIDToEdit int) {
	bh.Deps.Referrals.Init(chatID)
	record, _ := bh.Deps.Referrals.Get(chatID)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(localization.Get(lang, "btn_ref_link"), constants.CALLBACK_REFERRAL_LINK),
			tgbotapi.NewInlineKeyboardButtonData(localization.Get(lang, "btn_ref_qr"), constants.CALLBACK_REFERRAL_QR),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(localization.Get(lang, "btn_ref_withdraw"), constants.CALLBACK_WITHDRAW_REFERRAL),
		),
	)

	text := localization.Get(lang, "referral_menu", record.Balance, record.ReferredCount, constants.REFERRAL_REWARD_USDT)
	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, text, &keyboard); err != nil {
		log.Printf("SendReferralMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// handleReferralCallback обрабатывает кнопки реферального кабинета.
// handleReferralCallback handles the referral hub's buttons.
func (bh *BotHandler) handleReferralCallback(chatID int64, lang string, messageID int, data string) {
	switch data {
	case constants.CALLBACK_INVITE_FRIEND, constants.CALLBACK_REFERRAL_LINK:
		link, err := utils.GenerateReferralLink(bh.Deps.Config.BotUsername, chatID)
		if err != nil {
			log.Printf("handleReferralCallback: ссылка для chatID %d не построена: %v", chatID, err)
			bh.sendErrorMessageHelper(chatID, localization.Get(lang, "generic_error"))
			return
		}
		bh.sendMessage(chatID, localization.Get(lang, "referral_link", link))

	case constants.CALLBACK_REFERRAL_QR:
		qrBytes, err := utils.GenerateReferralQRCode(bh.Deps.Config.BotUsername, chatID)
		if err != nil {
			log.Printf("handleReferralCallback: QR для chatID %d не сгенерирован: %v", chatID, err)
			bh.sendErrorMessageHelper(chatID, localization.Get(lang, "generic_error"))
			return
		}
		bh.sendPhotoHelper(chatID, "referral_qr.png", qrBytes, localization.Get(lang, "referral_qr_cap"))

	case constants.CALLBACK_MY_REFERRALS:
		bh.SendReferralMenu(chatID, lang, messageID)

	case constants.CALLBACK_WITHDRAW_REFERRAL:
		bh.handleWithdrawRequest(chatID, lang)

	default:
		log.Printf("handleReferralCallback: неизвестный callback '%s' от chatID %d.", data, chatID)
	}
}

// handleWithdrawRequest оформляет заявку на вывод реферального баланса.
// Баланс не списывается: выплата — ручной процесс оператора, бот лишь
// передает заявку в админ-чат.
// handleWithdrawRequest files the referral-balance withdrawal request.
// The balance is not debited: the payout is the operator's manual process,
// the bot only relays the request to the admin chat.
func (bh *BotHandler) handleWithdrawRequest(chatID int64, lang string) {
	record, exists := bh.Deps.Referrals.Get(chatID)
	if !exists || record.Balance <= 0 {
		bh.sendMessage(chatID, localization.Get(lang, "withdraw_none"))
		return
	}

	adminText := fmt.Sprintf("💸 Withdrawal request\nUser: %d\nReferral balance: %.2f USDT\nInvited: %d",
		chatID, record.Balance, record.ReferredCount)
	bh.sendMessage(bh.Deps.Config.AdminChatID, adminText)

	bh.sendMessage(chatID, localization.Get(lang, "withdraw_ack"))
	log.Printf("handleWithdrawRequest: заявка на вывод %.2f USDT от chatID %d передана администратору.", record.Balance, chatID)
}
