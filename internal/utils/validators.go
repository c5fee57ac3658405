package utils

import (
	"fmt"
	"strconv"
	"strings"

	"Exchange/internal/constants" // Используем Exchange как имя модуля
)

// ErrAmountNotNumeric и ErrAmountOutOfRange различают причины отказа при
// валидации суммы: вызывающий код показывает разные подсказки пользователю.
// ErrAmountNotNumeric and ErrAmountOutOfRange distinguish the rejection
// reasons of amount validation: callers show different user-facing hints.
var (
	ErrAmountNotNumeric = fmt.Errorf("сумма не является числом")
	ErrAmountOutOfRange = fmt.Errorf("сумма вне допустимого диапазона")
)

// ValidateAmount разбирает пользовательский ввод суммы USDT и проверяет его
// против [MIN_USDT, MAX_USDT]. Запятая принимается как десятичный
// разделитель. Отказ не меняет состояние сессии — вызывающий код только
// переспрашивает.
// ValidateAmount parses the user's USDT amount input and checks it against
// [MIN_USDT, MAX_USDT]. A comma is accepted as the decimal separator.
// Rejection never mutates session state — the caller just re-prompts.
func ValidateAmount(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrAmountNotNumeric
	}
	if amount < constants.MIN_USDT || amount > constants.MAX_USDT {
		return 0, ErrAmountOutOfRange
	}
	return amount, nil
}
