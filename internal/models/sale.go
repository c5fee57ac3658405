package models

import "time"

// CompletedSale — запись об успешно инициированной продаже USDT.
// Хранится только в памяти процесса: используется для Excel-отчетов
// администратора и счетчика в /health. Рестарт процесса теряет журнал.
// CompletedSale is a record of a successfully initiated USDT sale.
// Kept in process memory only: it feeds the admin Excel reports and the
// /health counter. A process restart loses the journal.
type CompletedSale struct {
	ChatID         int64     `json:"chat_id"`
	FiatCurrency   string    `json:"fiat_currency"`
	Network        string    `json:"network"`
	AmountUSDT     float64   `json:"amount_usdt"`
	FiatAmount     float64   `json:"fiat_amount"`
	PaymentMethod  string    `json:"payment_method"`
	PaymentDetails string    `json:"payment_details"`
	TransactionID  string    `json:"transaction_id"`
	DepositAddress string    `json:"deposit_address"`
	StatusURL      string    `json:"status_url"`
	Source         string    `json:"source"` // "bot" или "mini-app" / "bot" or "mini-app"
	CreatedAt      time.Time `json:"created_at"`
}
