package handlers

import (
	"log"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"Exchange/internal/constants"
	"Exchange/internal/telegram_api"
)

// --- Вспомогательные функции для отправки сообщений и управления сессией ---
// --- Helper functions for sending messages and managing the session ---

// sendMessage отправляет простое текстовое сообщение.
// sendMessage sends a plain text message.
func (bh *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := bh.Deps.BotClient.Send(msg); err != nil {
		log.Printf("sendMessage: ошибка отправки для chatID %d: %v", chatID, err)
	}
}

// sendErrorMessageHelper отправляет пользователю сообщение об ошибке.
// sendErrorMessageHelper sends an error message to the user.
func (bh *BotHandler) sendErrorMessageHelper(chatID int64, text string) {
	telegram_api.SendErrorMessage(bh.Deps.BotClient, chatID, text)
}

// sendOrEditMenuHelper отправляет или редактирует сообщение-меню и обновляет
// CurrentMessageID в сессии, чтобы следующий шаг редактировал то же сообщение.
// sendOrEditMenuHelper sends or edits a menu message and updates the session's
// CurrentMessageID so the next step edits the same message in place.
func (bh *BotHandler) sendOrEditMenuHelper(
	chatID int64,
	messageIDToTryEdit int,
	text string,
	keyboard *tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	sentMsg, err := telegram_api.SendOrEditMessage(bh.Deps.BotClient, chatID, messageIDToTryEdit, text, keyboard, tgbotapi.ModeMarkdown)
	if err != nil {
		return tgbotapi.Message{}, err
	}

	if sentMsg.MessageID != 0 {
		saleData := bh.Deps.SessionManager.GetTempSale(chatID)
		saleData.CurrentMessageID = sentMsg.MessageID
		bh.Deps.SessionManager.UpdateTempSale(chatID, saleData)
	}
	return sentMsg, nil
}

// answerCallbackHelper закрывает "часики" на кнопке.
// answerCallbackHelper dismisses the button's loading state.
func (bh *BotHandler) answerCallbackHelper(queryID string, text string) {
	callbackAns := tgbotapi.NewCallback(queryID, text)
	if _, err := bh.Deps.BotClient.Request(callbackAns); err != nil {
		log.Printf("answerCallbackHelper: ошибка ответа на CallbackQuery ID %s: %v. Продолжаем.", queryID, err)
	}
}

// sendPhotoHelper отправляет PNG (например, QR-код) из памяти.
// sendPhotoHelper sends an in-memory PNG (e.g. a QR code).
func (bh *BotHandler) sendPhotoHelper(chatID int64, imageName string, imageBytes []byte, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: imageName, Bytes: imageBytes})
	photo.Caption = caption
	if _, err := bh.Deps.BotClient.Send(photo); err != nil {
		log.Printf("sendPhotoHelper: ошибка отправки фото '%s' для chatID %d: %v", imageName, chatID, err)
	}
}

// cancelButtonRow возвращает ряд с кнопкой отмены для текущего локаля.
// cancelButtonRow returns the cancel-button row for the given locale.
func cancelButtonRow(cancelLabel string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(cancelLabel, constants.CALLBACK_CANCEL),
	)
}
