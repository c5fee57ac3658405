// Файл: internal/rates/rates.go
package rates

import (
	"Exchange/internal/constants"
)

// Convert переводит сумму USDT в указанную фиатную валюту по статической
// таблице курсов. USD считается делением на курс USD→USDT, EUR и GBP —
// умножением на прямые курсы USDT→фиат. Округление не применяется:
// вызывающий код форматирует результат до двух знаков.
// Неизвестная валюта дает 0 — защитное значение по умолчанию, не ошибка.
// Convert turns a USDT amount into the given fiat currency using the static
// rate table. USD divides by the USD→USDT rate, EUR and GBP multiply by
// their direct USDT→fiat rates. No rounding is applied; callers format to
// two decimals. An unknown currency yields 0 — a defensive default, not an
// error path.
func Convert(amountUSDT float64, targetCurrency string) float64 {
	switch targetCurrency {
	case constants.CURRENCY_USD:
		return amountUSDT / constants.USD_TO_USDT
	case constants.CURRENCY_EUR:
		return amountUSDT * constants.USDT_TO_EUR
	case constants.CURRENCY_GBP:
		return amountUSDT * constants.USDT_TO_GBP
	default:
		return 0
	}
}

// ConvertViaUSD переводит сумму USDT в фиат, проводя расчет через долларовую
// ногу: сначала USDT → USD, затем полученные доллары умножаются на множитель
// целевой валюты. Для USD результат совпадает с Convert; для EUR и GBP
// формулы расходятся — обе версии встречаются в исходных вариантах и
// сознательно сохранены раздельно (см. DESIGN.md).
// ConvertViaUSD converts a USDT amount into fiat through the USD leg:
// USDT → USD first, then the resulting dollars are multiplied by the target
// currency multiplier. For USD the result matches Convert; for EUR and GBP
// the formulas diverge — both versions exist in the source variants and are
// deliberately kept separate (see DESIGN.md).
func ConvertViaUSD(amountUSDT float64, targetCurrency string) float64 {
	usd := amountUSDT / constants.USD_TO_USDT
	switch targetCurrency {
	case constants.CURRENCY_USD:
		return usd
	case constants.CURRENCY_EUR:
		return usd * constants.USDT_TO_EUR
	case constants.CURRENCY_GBP:
		return usd * constants.USDT_TO_GBP
	default:
		return 0
	}
}
