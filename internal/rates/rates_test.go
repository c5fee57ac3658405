package rates

import (
	"math"
	"testing"

	"Exchange/internal/constants"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestConvertUSD(t *testing.T) {
	got := Convert(25, constants.CURRENCY_USD)
	want := 25 / constants.USD_TO_USDT // ≈ 22.94 при курсе 1.09
	if !almostEqual(got, want) {
		t.Errorf("Convert(25, USD) = %v, want %v", got, want)
	}
}

func TestConvertEURAndGBP(t *testing.T) {
	if got := Convert(100, constants.CURRENCY_EUR); !almostEqual(got, 100*constants.USDT_TO_EUR) {
		t.Errorf("Convert(100, EUR) = %v, want %v", got, 100*constants.USDT_TO_EUR)
	}
	if got := Convert(100, constants.CURRENCY_GBP); !almostEqual(got, 100*constants.USDT_TO_GBP) {
		t.Errorf("Convert(100, GBP) = %v, want %v", got, 100*constants.USDT_TO_GBP)
	}
}

func TestConvertUnknownCurrencyYieldsZero(t *testing.T) {
	if got := Convert(100, "JPY"); got != 0 {
		t.Errorf("Convert(100, JPY) = %v, want 0", got)
	}
	if got := ConvertViaUSD(100, "JPY"); got != 0 {
		t.Errorf("ConvertViaUSD(100, JPY) = %v, want 0", got)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	for _, currency := range constants.FiatCurrencies {
		first := Convert(333.33, currency)
		for i := 0; i < 10; i++ {
			if got := Convert(333.33, currency); got != first {
				t.Fatalf("Convert(333.33, %s) нестабилен: %v != %v", currency, got, first)
			}
		}
	}
}

// Обе формулы для GBP сохранены раздельно: прямая и через долларовую ногу
// должны расходиться, иначе вариант "через USD" был бы молча унифицирован.
func TestConvertViaUSDDiverges(t *testing.T) {
	direct := Convert(100, constants.CURRENCY_GBP)
	composed := ConvertViaUSD(100, constants.CURRENCY_GBP)
	if almostEqual(direct, composed) {
		t.Errorf("прямой и составной курсы GBP совпали (%v), ожидалось расхождение", direct)
	}
	if !almostEqual(composed, 100/constants.USD_TO_USDT*constants.USDT_TO_GBP) {
		t.Errorf("ConvertViaUSD(100, GBP) = %v, want %v", composed, 100/constants.USD_TO_USDT*constants.USDT_TO_GBP)
	}
	// Для USD обе формулы обязаны совпадать.
	if !almostEqual(Convert(100, constants.CURRENCY_USD), ConvertViaUSD(100, constants.CURRENCY_USD)) {
		t.Error("формулы для USD разошлись")
	}
}
