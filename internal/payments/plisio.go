package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// API-адрес платежного процессора.
const plisioAPIEndpoint = "https://api.plisio.net/api/v1"

// SaleRequest — параметры продажи USDT, передаваемые процессору.
// SaleRequest holds the USDT sale parameters passed to the processor.
type SaleRequest struct {
	// PayoutNetworkCurrency — код валюты процессора для выбранной сети
	// (USDT_TRX для TRC20, USDT для ERC20).
	PayoutNetworkCurrency string
	Amount                float64
	RefundEmail           string
	// Memo — свободный комментарий (реквизиты выплаты пользователя).
	Memo string
	// ItemLabel — человекочитаемое название позиции в инвойсе.
	ItemLabel   string
	CallbackURL string
}

// SaleTransaction — результат успешного создания транзакции.
// SaleTransaction is the result of a successfully created transaction.
type SaleTransaction struct {
	DepositAddress  string
	ConfirmedAmount float64
	TransactionID   string
	StatusURL       string
}

// Initiator — внешний коллаборатор, выдающий депозитный адрес под продажу.
// Интерфейс позволяет подменять клиента в обработчиках и тестах.
// Initiator is the external collaborator that issues a deposit address for a
// sale. The interface keeps the client swappable in handlers and tests.
type Initiator interface {
	CreateSaleTransaction(req SaleRequest) (*SaleTransaction, error)
}

// invoiceResponse — структура ответа API процессора.
type invoiceResponse struct {
	Status string `json:"status"` // "success" или "error"
	Data   struct {
		TxnID           string `json:"txn_id"`
		WalletHash      string `json:"wallet_hash"`
		InvoiceTotalSum string `json:"invoice_total_sum"`
		InvoiceURL      string `json:"invoice_url"`
		Message         string `json:"message"` // Заполнено при status == "error"
	} `json:"data"`
}

// Client — HTTP-клиент API платежного процессора.
// Client is the HTTP client for the payment processor API.
type Client struct {
	apiKey     string
	BaseURL    string
	httpClient *http.Client
}

// NewClient создает клиента процессора с таймаутом по умолчанию.
// NewClient creates a processor client with the default timeout.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		BaseURL: plisioAPIEndpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSaleTransaction создает у процессора транзакцию продажи USDT и
// возвращает депозитный адрес, подтвержденную сумму, идентификатор и ссылку
// отслеживания статуса. Никаких повторных попыток: отказ поднимается
// вызывающей стороне и показывается пользователю как общая ошибка.
// CreateSaleTransaction creates the USDT sale transaction with the processor
// and returns the deposit address, confirmed amount, transaction identifier
// and status tracking URL. No retries: a failure bubbles up and is surfaced
// to the user as a generic error.
func (c *Client) CreateSaleTransaction(req SaleRequest) (*SaleTransaction, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("API-ключ платежного процессора не настроен")
	}

	orderNumber := uuid.New().String()
	log.Printf("Создание транзакции продажи: %.2f USDT → %s, заявка %s", req.Amount, req.PayoutNetworkCurrency, orderNumber)

	// 1. Собираем параметры запроса.
	params := url.Values{}
	params.Set("source_currency", "USDT")
	params.Set("currency", req.PayoutNetworkCurrency)
	params.Set("amount", strconv.FormatFloat(req.Amount, 'f', -1, 64))
	params.Set("email", req.RefundEmail)
	params.Set("description", req.Memo)
	params.Set("order_name", req.ItemLabel)
	params.Set("order_number", orderNumber)
	if req.CallbackURL != "" {
		params.Set("callback_url", req.CallbackURL)
	}
	params.Set("api_key", c.apiKey)

	endpoint := c.BaseURL + "/invoices/new?" + params.Encode()

	// 2. Выполняем запрос.
	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("Ошибка выполнения запроса к платежному API: %v", err)
		return nil, fmt.Errorf("ошибка выполнения запроса к платежному API: %w", err)
	}
	defer resp.Body.Close()

	// 3. Читаем и обрабатываем ответ.
	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа API: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("Платежный API вернул ошибку: статус %d, тело: %s", resp.StatusCode, string(responseBody))
		return nil, fmt.Errorf("ошибка платежного API, статус: %d", resp.StatusCode)
	}

	var invoice invoiceResponse
	if err := json.Unmarshal(responseBody, &invoice); err != nil {
		return nil, fmt.Errorf("ошибка обработки ответа API: %w", err)
	}
	if invoice.Status != "success" {
		log.Printf("Платежный API отклонил заявку %s: %s", orderNumber, invoice.Data.Message)
		return nil, fmt.Errorf("платежный API отклонил заявку: %s", invoice.Data.Message)
	}
	if invoice.Data.WalletHash == "" {
		return nil, fmt.Errorf("API не вернул депозитный адрес")
	}

	confirmedAmount := req.Amount
	if invoice.Data.InvoiceTotalSum != "" {
		if parsed, errParse := strconv.ParseFloat(invoice.Data.InvoiceTotalSum, 64); errParse == nil {
			confirmedAmount = parsed
		}
	}

	log.Printf("Транзакция продажи создана: txn_id=%s, адрес=%s", invoice.Data.TxnID, invoice.Data.WalletHash)
	return &SaleTransaction{
		DepositAddress:  invoice.Data.WalletHash,
		ConfirmedAmount: confirmedAmount,
		TransactionID:   invoice.Data.TxnID,
		StatusURL:       invoice.Data.InvoiceURL,
	}, nil
}
