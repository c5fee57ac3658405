package payments

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateSaleTransactionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/invoices/new" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("source_currency") != "USDT" {
			t.Errorf("source_currency = %q, want USDT", q.Get("source_currency"))
		}
		if q.Get("currency") != "USDT_TRX" {
			t.Errorf("currency = %q, want USDT_TRX", q.Get("currency"))
		}
		if q.Get("amount") != "100" {
			t.Errorf("amount = %q, want 100", q.Get("amount"))
		}
		if q.Get("order_number") == "" {
			t.Error("order_number пуст")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"txn_id":"abc123","wallet_hash":"TXyzDepositAddr","invoice_total_sum":"99.5","invoice_url":"https://plisio.net/invoice/abc123"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL

	txn, err := client.CreateSaleTransaction(SaleRequest{
		PayoutNetworkCurrency: "USDT_TRX",
		Amount:                100,
		RefundEmail:           "user@example.com",
		Memo:                  "paypal user@example.com",
		ItemLabel:             "USDT sale",
	})
	if err != nil {
		t.Fatalf("CreateSaleTransaction: %v", err)
	}
	if txn.DepositAddress != "TXyzDepositAddr" {
		t.Errorf("DepositAddress = %q", txn.DepositAddress)
	}
	if txn.TransactionID != "abc123" {
		t.Errorf("TransactionID = %q", txn.TransactionID)
	}
	if txn.ConfirmedAmount != 99.5 {
		t.Errorf("ConfirmedAmount = %v, want 99.5", txn.ConfirmedAmount)
	}
	if txn.StatusURL != "https://plisio.net/invoice/abc123" {
		t.Errorf("StatusURL = %q", txn.StatusURL)
	}
}

func TestCreateSaleTransactionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"error","data":{"message":"amount is too small"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL

	if _, err := client.CreateSaleTransaction(SaleRequest{PayoutNetworkCurrency: "USDT", Amount: 1}); err == nil {
		t.Fatal("ожидалась ошибка при status=error")
	}
}

func TestCreateSaleTransactionHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL

	if _, err := client.CreateSaleTransaction(SaleRequest{PayoutNetworkCurrency: "USDT", Amount: 50}); err == nil {
		t.Fatal("ожидалась ошибка при статусе 500")
	}
}

func TestCreateSaleTransactionMissingKey(t *testing.T) {
	client := NewClient("")
	if _, err := client.CreateSaleTransaction(SaleRequest{}); err == nil {
		t.Fatal("ожидалась ошибка без API-ключа")
	}
}
