package api

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"Exchange/internal/config"
	"Exchange/internal/payments"
	"Exchange/internal/session"
)

// stubInitiator отвечает фиксированной транзакцией или ошибкой.
// stubInitiator replies with a fixed transaction or an error.
type stubInitiator struct {
	fail     bool
	requests []payments.SaleRequest
}

func (s *stubInitiator) CreateSaleTransaction(req payments.SaleRequest) (*payments.SaleTransaction, error) {
	s.requests = append(s.requests, req)
	if s.fail {
		return nil, fmt.Errorf("шлюз недоступен")
	}
	return &payments.SaleTransaction{
		DepositAddress:  "TQmjXh2e4X7AbCdEfGh",
		ConfirmedAmount: req.Amount,
		TransactionID:   "txn-api-1",
		StatusURL:       "https://example.com/invoice/txn-api-1",
	}, nil
}

func newTestRouter(secret string, initiator *stubInitiator) (*chi.Mux, *session.SessionManager) {
	sm := session.NewSessionManager()
	deps := ApiDependencies{
		Config: &config.Config{
			AppBaseURL:  "https://exchange.example.com",
			RefundEmail: "support@example.com",
		},
		SecretKey:      secret,
		SessionManager: sm,
		Payments:       initiator,
	}
	router := chi.NewRouter()
	SetupRoutes(router, deps)
	return router, sm
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("сериализация тела запроса: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func validTransactionBody(chatID int64) map[string]interface{} {
	return map[string]interface{}{
		"chatId": chatID,
		"transactionData": map[string]interface{}{
			"amountUsdt":     150.0,
			"currency":       "GBP",
			"network":        "TRC20",
			"paymentMethod":  "PayPal",
			"paymentDetails": "user@example.com",
		},
	}
}

func TestHealthReportsActiveSessions(t *testing.T) {
	router, sm := newTestRouter("", &stubInitiator{})
	sm.SetState(1, "await_amount")
	sm.SetState(2, "await_amount")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	if resp["status"] != "ok" || resp["users"] != float64(2) {
		t.Fatalf("неожиданный ответ: %v", resp)
	}
}

func TestMiniAppTransactionRoundTrip(t *testing.T) {
	initiator := &stubInitiator{}
	router, sm := newTestRouter("", initiator)

	rec := postJSON(t, router, "/webhook/mini-app-transaction", validTransactionBody(777), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("ожидался 200, получен %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("ожидался success=true: %v", resp)
	}
	if resp["depositAddress"] != "TQmjXh2e4X7AbCdEfGh" || resp["txnId"] != "txn-api-1" {
		t.Errorf("неожиданные поля транзакции: %v", resp)
	}

	// Конвертация идет по составной формуле через USD: 150/1.09*0.79.
	wantFiat := 150.0 / 1.09 * 0.79
	if got := resp["fiatAmount"].(float64); got < wantFiat-0.0001 || got > wantFiat+0.0001 {
		t.Errorf("fiatAmount: ожидалось %v, получено %v", wantFiat, got)
	}

	if len(initiator.requests) != 1 || initiator.requests[0].PayoutNetworkCurrency != "USDT_TRX" {
		t.Fatalf("неожиданные вызовы инициатора: %+v", initiator.requests)
	}

	// Продажа попала в журнал с источником mini-app.
	sales := sm.CompletedSales()
	if len(sales) != 1 || sales[0].Source != "mini-app" || sales[0].ChatID != 777 {
		t.Fatalf("неожиданный журнал продаж: %+v", sales)
	}
}

func TestMiniAppTransactionValidation(t *testing.T) {
	initiator := &stubInitiator{}
	router, _ := newTestRouter("", initiator)

	cases := []struct {
		name   string
		mutate func(body map[string]interface{})
	}{
		{"без chatId", func(b map[string]interface{}) { b["chatId"] = 0 }},
		{"сумма вне диапазона", func(b map[string]interface{}) {
			b["transactionData"].(map[string]interface{})["amountUsdt"] = 5.0
		}},
		{"неизвестная валюта", func(b map[string]interface{}) {
			b["transactionData"].(map[string]interface{})["currency"] = "JPY"
		}},
		{"неизвестная сеть", func(b map[string]interface{}) {
			b["transactionData"].(map[string]interface{})["network"] = "BEP20"
		}},
		{"без реквизитов", func(b map[string]interface{}) {
			b["transactionData"].(map[string]interface{})["paymentDetails"] = "  "
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := validTransactionBody(777)
			tc.mutate(body)
			rec := postJSON(t, router, "/webhook/mini-app-transaction", body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("ожидался 400, получен %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	if len(initiator.requests) != 0 {
		t.Fatalf("инициатор не должен вызываться при отказе валидации: %+v", initiator.requests)
	}
}

func TestMiniAppTransactionInitiatorFailure(t *testing.T) {
	router, sm := newTestRouter("", &stubInitiator{fail: true})

	rec := postJSON(t, router, "/webhook/mini-app-transaction", validTransactionBody(777), nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("ожидался 502, получен %d", rec.Code)
	}
	if len(sm.CompletedSales()) != 0 {
		t.Fatal("неудачная продажа не должна попадать в журнал")
	}
}

// signInitData строит валидную initData-строку по схеме Telegram WebApp.
// signInitData builds a valid initData string per the Telegram WebApp scheme.
func signInitData(t *testing.T, secret string, user TelegramUserData) string {
	t.Helper()
	userJSON, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("сериализация пользователя: %v", err)
	}

	values := url.Values{}
	values.Set("user", string(userJSON))
	values.Set("auth_date", "1700000000")

	var pairs []string
	for k, v := range values {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v[0]))
	}
	sort.Strings(pairs)
	dataCheckString := strings.Join(pairs, "\n")

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(secret))
	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(dataCheckString))

	values.Set("hash", hex.EncodeToString(h.Sum(nil)))
	return values.Encode()
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-bot-token"
	initiator := &stubInitiator{}
	router, _ := newTestRouter(secret, initiator)

	// Без заголовка — отказ.
	rec := postJSON(t, router, "/webhook/mini-app-transaction", validTransactionBody(777), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("без заголовка ожидался 401, получен %d", rec.Code)
	}

	// Сломанная подпись — отказ.
	badInitData := signInitData(t, "other-secret", TelegramUserData{ID: 777})
	rec = postJSON(t, router, "/webhook/mini-app-transaction", validTransactionBody(777),
		map[string]string{"X-Telegram-Auth": badInitData})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("с неверной подписью ожидался 401, получен %d", rec.Code)
	}

	// Валидная подпись — chatID берется из initData, а не из тела.
	goodInitData := signInitData(t, secret, TelegramUserData{ID: 999, Username: "webapp_user"})
	rec = postJSON(t, router, "/webhook/mini-app-transaction", validTransactionBody(777),
		map[string]string{"X-Telegram-Auth": goodInitData})
	if rec.Code != http.StatusOK {
		t.Fatalf("с валидной подписью ожидался 200, получен %d: %s", rec.Code, rec.Body.String())
	}
	if len(initiator.requests) != 1 {
		t.Fatalf("ожидался один вызов инициатора, получено %d", len(initiator.requests))
	}
}
