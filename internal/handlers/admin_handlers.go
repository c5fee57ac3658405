package handlers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/xuri/excelize/v2"

	"Exchange/internal/constants"
	"Exchange/internal/telegram_api"
)

// SendExcelMenu отправляет меню выбора типа Excel-отчета. Права доступа
// проверяются в диспетчерах перед вызовом этой функции.
// SendExcelMenu sends the Excel report type selection menu. Access rights
// are checked in the dispatchers before this function is called.
func (bh *BotHandler) SendExcelMenu(chatID int64, messageIDToEdit int) {
	log.Printf("BotHandler.SendExcelMenu для chatID %d, messageIDToEdit: %d", chatID, messageIDToEdit)

	msgText := "📑 Выберите тип Excel-отчета для генерации:"
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 Продажи", constants.CALLBACK_EXCEL_GENERATE_SALES),
			tgbotapi.NewInlineKeyboardButtonData("👥 Рефералы", constants.CALLBACK_EXCEL_GENERATE_REFERRALS),
		),
	)
	if _, err := bh.sendOrEditMenuHelper(chatID, messageIDToEdit, msgText, &keyboard); err != nil {
		log.Printf("SendExcelMenu: ошибка для chatID %d: %v", chatID, err)
	}
}

// handleExcelCallback обрабатывает кнопки админского Excel-меню.
// handleExcelCallback handles the admin Excel menu's buttons.
func (bh *BotHandler) handleExcelCallback(chatID int64, messageID int, data string) {
	switch data {
	case constants.CALLBACK_EXCEL_MENU:
		bh.SendExcelMenu(chatID, messageID)
	case constants.CALLBACK_EXCEL_GENERATE_SALES:
		bh.generateAndSendSalesExcel(chatID)
		telegram_api.DeleteMessage(bh.Deps.BotClient, chatID, messageID)
	case constants.CALLBACK_EXCEL_GENERATE_REFERRALS:
		bh.generateAndSendReferralsExcel(chatID)
		telegram_api.DeleteMessage(bh.Deps.BotClient, chatID, messageID)
	default:
		log.Printf("handleExcelCallback: неизвестный callback '%s' от chatID %d.", data, chatID)
	}
}

// SendExcelFile отправляет сгенерированный Excel-файл и удаляет временный
// файл после отправки.
// SendExcelFile sends the generated Excel file and removes the temporary
// file after sending.
func (bh *BotHandler) SendExcelFile(chatID int64, filePath string, caption string) {
	log.Printf("BotHandler.SendExcelFile: отправка файла %s для chatID %d", filePath, chatID)

	if filePath == "" {
		bh.sendErrorMessageHelper(chatID, "❌ Не удалось сгенерировать Excel-файл.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = caption
	if _, err := bh.Deps.BotClient.Send(doc); err != nil {
		log.Printf("SendExcelFile: ошибка отправки Excel-файла %s для chatID %d: %v", filePath, chatID, err)
		bh.sendErrorMessageHelper(chatID, "❌ Ошибка при отправке Excel-файла.")
	}

	// Удаляем временный файл после отправки / Delete temporary file after sending
	if errRemove := os.Remove(filePath); errRemove != nil {
		log.Printf("SendExcelFile: ошибка удаления временного Excel-файла %s: %v", filePath, errRemove)
	}
}

// generateAndSendSalesExcel генерирует и отправляет Excel-отчет по
// завершенным продажам текущего процесса.
// generateAndSendSalesExcel generates and sends the Excel report of the
// current process's completed sales.
func (bh *BotHandler) generateAndSendSalesExcel(chatID int64) {
	sales := bh.Deps.SessionManager.CompletedSales()

	f := excelize.NewFile()
	sheetName := "Продажи"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ChatID", "Валюта", "Сеть", "Сумма USDT", "Сумма фиат", "Способ", "Реквизиты", "ID транзакции", "Депозитный адрес", "Источник", "Создано"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, sale := range sales {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), sale.ChatID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), sale.FiatCurrency)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), sale.Network)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), sale.AmountUSDT)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), sale.FiatAmount)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", rowIndex), sale.PaymentMethod)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", rowIndex), sale.PaymentDetails)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", rowIndex), sale.TransactionID)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", rowIndex), sale.DepositAddress)
		f.SetCellValue(sheetName, fmt.Sprintf("J%d", rowIndex), sale.Source)
		f.SetCellValue(sheetName, fmt.Sprintf("K%d", rowIndex), sale.CreatedAt.Format("02.01.2006 15:04"))
		rowIndex++
	}

	filePath := filepath.Join(os.TempDir(), fmt.Sprintf("sales_%s.xlsx", time.Now().Format("20060102_150405")))
	if errSave := f.SaveAs(filePath); errSave != nil {
		log.Printf("generateAndSendSalesExcel: ошибка сохранения файла %s: %v", filePath, errSave)
		bh.sendErrorMessageHelper(chatID, "❌ Ошибка при создании Excel отчета по продажам.")
		return
	}

	bh.SendExcelFile(chatID, filePath, fmt.Sprintf("📋 Отчет по продажам (%d записей)", len(sales)))
}

// generateAndSendReferralsExcel генерирует и отправляет Excel-отчет по
// реферальной книге.
// generateAndSendReferralsExcel generates and sends the Excel report of the
// referral book.
func (bh *BotHandler) generateAndSendReferralsExcel(chatID int64) {
	snapshot := bh.Deps.Referrals.Snapshot()

	// Детерминированный порядок строк отчета.
	// Deterministic report row order.
	chatIDs := make([]int64, 0, len(snapshot))
	for id := range snapshot {
		chatIDs = append(chatIDs, id)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })

	f := excelize.NewFile()
	sheetName := "Рефералы"
	index, _ := f.NewSheet(sheetName)
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headers := []string{"ChatID", "Пригласивший", "Баланс USDT", "Приглашено", "Бонус выдан"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	rowIndex := 2
	for _, id := range chatIDs {
		record := snapshot[id]
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowIndex), id)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowIndex), record.ReferrerID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowIndex), record.Balance)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowIndex), record.ReferredCount)
		if record.RewardClaimed {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), "да")
		} else {
			f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowIndex), "нет")
		}
		rowIndex++
	}

	filePath := filepath.Join(os.TempDir(), fmt.Sprintf("referrals_%s.xlsx", time.Now().Format("20060102_150405")))
	if errSave := f.SaveAs(filePath); errSave != nil {
		log.Printf("generateAndSendReferralsExcel: ошибка сохранения файла %s: %v", filePath, errSave)
		bh.sendErrorMessageHelper(chatID, "❌ Ошибка при создании Excel отчета по рефералам.")
		return
	}

	bh.SendExcelFile(chatID, filePath, fmt.Sprintf("👥 Отчет по рефералам (%d записей)", len(chatIDs)))
}
