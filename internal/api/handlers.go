package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"Exchange/internal/constants"
	"Exchange/internal/models"
	"Exchange/internal/payments"
	"Exchange/internal/rates"
	"Exchange/internal/utils"
)

// --- Вспомогательные функции для JSON-ответов ---
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("writeJSON: ошибка кодирования ответа: %v", err)
	}
}

// GetCapabilities отдает перечень возможностей сервиса.
// GetCapabilities lists the service's capabilities.
func (deps *ApiDependencies) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":    "usdt-exchange-bot",
		"currencies": constants.FiatCurrencies,
		"networks":   constants.Networks,
		"minAmount":  constants.MIN_USDT,
		"maxAmount":  constants.MAX_USDT,
		"endpoints": []string{
			"GET /health",
			"GET /mini-app",
			"POST /webhook/mini-app-transaction",
		},
	})
}

// GetHealth — проверка живости с числом активных диалогов.
// GetHealth is the liveness probe with the active dialogue count.
func (deps *ApiDependencies) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"users":  deps.SessionManager.ActiveSessionCount(),
	})
}

// MiniAppTransactionRequest — тело вебхука мини-аппа.
// MiniAppTransactionRequest is the mini-app webhook's body.
type MiniAppTransactionRequest struct {
	ChatID          int64              `json:"chatId"`
	TransactionData MiniAppTransaction `json:"transactionData"`
}

// MiniAppTransaction — данные продажи, собранные страницей мини-аппа.
type MiniAppTransaction struct {
	AmountUSDT     float64 `json:"amountUsdt"`
	Currency       string  `json:"currency"`
	Network        string  `json:"network"`
	PaymentMethod  string  `json:"paymentMethod"`
	PaymentDetails string  `json:"paymentDetails"`
}

// HandleMiniAppTransaction инициирует продажу, собранную мини-аппом.
// Валидация повторяет диалоговый поток бота; конвертация идет по составной
// формуле через USD. При успехе подтверждение с QR уходит и в Telegram-чат
// инициатора.
// HandleMiniAppTransaction initiates a sale assembled by the mini-app.
// Validation mirrors the bot's dialogue flow; conversion uses the composed
// via-USD formula. On success the confirmation with the QR also goes to the
// originating Telegram chat.
func (deps *ApiDependencies) HandleMiniAppTransaction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	defer r.Body.Close()

	var req MiniAppTransactionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	// chat_id из query — фолбэк для запусков вне Telegram (нет initData).
	// The chat_id query param is the fallback for launches outside Telegram.
	if req.ChatID == 0 {
		if qid := r.URL.Query().Get("chat_id"); qid != "" {
			req.ChatID, _ = strconv.ParseInt(qid, 10, 64)
		}
	}
	if user, ok := AuthenticatedUser(r); ok {
		// Валидированный initData всегда важнее клиентского поля.
		// Validated initData always outranks the client-supplied field.
		req.ChatID = user.ID
	}
	if req.ChatID == 0 {
		writeJSONError(w, http.StatusBadRequest, "chatId is required")
		return
	}

	txnData := req.TransactionData
	if err := validateMiniAppTransaction(txnData); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	fiatAmount := rates.ConvertViaUSD(txnData.AmountUSDT, txnData.Currency)

	saleReq := payments.SaleRequest{
		PayoutNetworkCurrency: constants.PayoutNetworkCurrencies[txnData.Network],
		Amount:                txnData.AmountUSDT,
		RefundEmail:           deps.Config.RefundEmail,
		Memo:                  fmt.Sprintf("%s | %s", txnData.PaymentMethod, txnData.PaymentDetails),
		ItemLabel:             fmt.Sprintf("USDT sale %.2f → %s (mini-app)", txnData.AmountUSDT, txnData.Currency),
		CallbackURL:           deps.Config.AppBaseURL + "/webhook/payment-status",
	}

	txn, err := deps.Payments.CreateSaleTransaction(saleReq)
	if err != nil {
		log.Printf("HandleMiniAppTransaction: отказ процессора для chatID %d: %v", req.ChatID, err)
		writeJSONError(w, http.StatusBadGateway, "transaction initiation failed")
		return
	}

	sale := models.CompletedSale{
		ChatID:         req.ChatID,
		FiatCurrency:   txnData.Currency,
		Network:        txnData.Network,
		AmountUSDT:     txnData.AmountUSDT,
		FiatAmount:     fiatAmount,
		PaymentMethod:  txnData.PaymentMethod,
		PaymentDetails: txnData.PaymentDetails,
		TransactionID:  txn.TransactionID,
		DepositAddress: txn.DepositAddress,
		StatusURL:      txn.StatusURL,
		Source:         "mini-app",
	}
	deps.SessionManager.RecordCompletedSale(sale)

	// Подтверждение дублируется в Telegram-чат инициатора.
	// The confirmation is mirrored into the originating Telegram chat.
	if deps.Bot != nil {
		go deps.Bot.NotifyMiniAppSale(sale, txn)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"depositAddress": txn.DepositAddress,
		"amount":         txn.ConfirmedAmount,
		"fiatAmount":     fiatAmount,
		"currency":       txnData.Currency,
		"txnId":          txn.TransactionID,
		"statusUrl":      txn.StatusURL,
	})
}

// validateMiniAppTransaction повторяет проверки диалогового потока.
// validateMiniAppTransaction repeats the dialogue flow's checks.
func validateMiniAppTransaction(txnData MiniAppTransaction) error {
	if _, err := utils.ValidateAmount(strconv.FormatFloat(txnData.AmountUSDT, 'f', -1, 64)); err != nil {
		return fmt.Errorf("amount must be between %.0f and %.0f USDT", constants.MIN_USDT, constants.MAX_USDT)
	}

	currencyKnown := false
	for _, currency := range constants.FiatCurrencies {
		if txnData.Currency == currency {
			currencyKnown = true
			break
		}
	}
	if !currencyKnown {
		return fmt.Errorf("unknown currency %q", txnData.Currency)
	}

	if _, known := constants.PayoutNetworkCurrencies[txnData.Network]; !known {
		return fmt.Errorf("unknown network %q", txnData.Network)
	}

	if strings.TrimSpace(txnData.PaymentMethod) == "" || strings.TrimSpace(txnData.PaymentDetails) == "" {
		return fmt.Errorf("paymentMethod and paymentDetails are required")
	}
	return nil
}

// HandlePaymentStatus принимает коллбэки платежного процессора. Статусы
// только журналируются: модель выплат ручная, автоматических действий нет.
// HandlePaymentStatus accepts the payment processor's callbacks. Statuses
// are only journaled: the payout model is manual, nothing happens
// automatically.
func (deps *ApiDependencies) HandlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	defer r.Body.Close()

	log.Printf("HandlePaymentStatus: получен коллбэк процессора: %s", string(body))
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
