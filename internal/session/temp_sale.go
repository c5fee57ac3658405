// Файл: internal/session/temp_sale.go
package session

// TempSaleData представляет собой незавершенную продажу USDT в сессии
// пользователя. Поля заполняются строго по порядку:
// фиат → сеть → сумма → способ выплаты → реквизиты. Продажа пригодна для
// инициирования транзакции только когда заполнены все пять полей.
// TempSaleData is the in-flight USDT sale of a user's session. Fields are
// populated in strict order: fiat → network → amount → payout method →
// details. The sale is eligible for transaction initiation only once all
// five fields are set.
type TempSaleData struct {
	UserChatID     int64
	FiatCurrency   string  // USD, EUR или GBP; пустая строка = не выбрано
	Network        string  // TRC20 или ERC20
	AmountUSDT     float64 // 0 = не введено; валидный диапазон [MIN_USDT, MAX_USDT]
	PaymentMethod  string
	PaymentDetails string

	// ID последнего сообщения-меню бота, которое редактируется на месте
	// при переходах между шагами.
	// ID of the bot's last menu message, edited in place between steps.
	CurrentMessageID int
}

// NewTempSale создает новый пустой экземпляр TempSaleData для указанного chatID.
// NewTempSale creates a new empty TempSaleData instance for the given chatID.
func NewTempSale(chatID int64) TempSaleData {
	return TempSaleData{
		UserChatID: chatID,
	}
}

// IsComplete сообщает, заполнены ли все поля, необходимые для инициирования
// транзакции.
func (t TempSaleData) IsComplete() bool {
	return t.FiatCurrency != "" &&
		t.Network != "" &&
		t.AmountUSDT > 0 &&
		t.PaymentMethod != "" &&
		t.PaymentDetails != ""
}
