package telegram_api

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
)

// SendOrEditMessage пытается отредактировать существующее сообщение или
// отправляет новое. Если редактирование не удалось из-за
// "message is not modified", возвращает фиктивный Message с ID оригинального
// сообщения и nil в качестве ошибки.
// SendOrEditMessage tries to edit an existing message or sends a new one.
// If editing failed with "message is not modified", returns a synthetic
// Message carrying the original message ID and a nil error.
func SendOrEditMessage(
	sender MessageSender,
	chatID int64,
	messageIDToTryEdit int,
	text string,
	keyboard *tgbotapi.InlineKeyboardMarkup,
	parseMode string,
) (tgbotapi.Message, error) {
	if sender == nil {
		log.Println("SendOrEditMessage: отправитель не инициализирован.")
		return tgbotapi.Message{}, fmt.Errorf("отправитель не инициализирован")
	}

	var originalMsgObject tgbotapi.Message
	if messageIDToTryEdit != 0 {
		var chatObj tgbotapi.Chat
		chatObj.ID = chatID
		originalMsgObject.Chat = chatObj
		originalMsgObject.MessageID = messageIDToTryEdit
		originalMsgObject.Text = text
		if keyboard != nil {
			originalMsgObject.ReplyMarkup = keyboard
		}

		var editMsgConfig tgbotapi.EditMessageTextConfig
		if keyboard != nil {
			editMsgConfig = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageIDToTryEdit, text, *keyboard)
		} else {
			editMsgConfig = tgbotapi.NewEditMessageText(chatID, messageIDToTryEdit, text)
		}
		if parseMode != "" {
			editMsgConfig.ParseMode = parseMode
		}

		_, err := sender.Request(editMsgConfig)
		if err == nil {
			return originalMsgObject, nil
		}

		if strings.Contains(err.Error(), "message is not modified") {
			// Контент не изменился — не фатально.
			return originalMsgObject, nil
		}
		if strings.Contains(err.Error(), "message to edit not found") {
			log.Printf("SendOrEditMessage: сообщение %d для chatID %d не найдено, будет отправлено новое.", messageIDToTryEdit, chatID)
		} else {
			log.Printf("SendOrEditMessage: НЕОЖИДАННАЯ ОШИБКА редактирования сообщения chatID=%d, MessageID=%d: %v. Будет отправлено новое.", chatID, messageIDToTryEdit, err)
		}
	}

	// Отправка нового сообщения, если редактирование не удалось или не требовалось.
	// Send a new message if editing failed or was not requested.
	newMsg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		newMsg.ReplyMarkup = keyboard
	}
	if parseMode != "" {
		newMsg.ParseMode = parseMode
	}

	actualSentMsg, err := sender.Send(newMsg)
	if err != nil {
		log.Printf("SendOrEditMessage: ОШИБКА отправки нового сообщения для chatID %d: %v", chatID, err)
		return tgbotapi.Message{}, err
	}
	return actualSentMsg, nil
}

// SendErrorMessage отправляет стандартизированное сообщение об ошибке пользователю.
// SendErrorMessage sends a standardized error message to the user.
func SendErrorMessage(sender MessageSender, chatID int64, text string) {
	if sender == nil {
		log.Println("SendErrorMessage: отправитель не инициализирован.")
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := sender.Send(msg); err != nil {
		log.Printf("SendErrorMessage: не удалось отправить сообщение об ошибке для chatID %d: %v", chatID, err)
	}
}

// DeleteMessage удаляет сообщение. Возвращает true при успехе.
// Ошибки "not found" считаются успехом — сообщения уже нет.
// DeleteMessage deletes a message. Returns true on success.
// "not found" errors count as success — the message is already gone.
func DeleteMessage(sender MessageSender, chatID int64, messageID int) bool {
	if sender == nil || messageID == 0 {
		return false
	}
	deleteConfig := tgbotapi.NewDeleteMessage(chatID, messageID)
	_, err := sender.Request(deleteConfig)
	if err != nil {
		if strings.Contains(err.Error(), "message to delete not found") {
			return true
		}
		log.Printf("DeleteMessage: ошибка удаления сообщения %d в чате %d: %v", messageID, chatID, err)
		return false
	}
	return true
}
