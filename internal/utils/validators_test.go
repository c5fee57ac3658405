package utils

import (
	"errors"
	"testing"

	"Exchange/internal/constants"
)

func TestValidateAmountAccepted(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"100", 100},
		{"  250.5 ", 250.5},
		{"250,5", 250.5},
		{"10", constants.MIN_USDT},
		{"100000", constants.MAX_USDT},
	}
	for _, tc := range cases {
		got, err := ValidateAmount(tc.input)
		if err != nil {
			t.Errorf("ValidateAmount(%q): неожиданная ошибка %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ValidateAmount(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestValidateAmountRejected(t *testing.T) {
	cases := []struct {
		input   string
		wantErr error
	}{
		{"abc", ErrAmountNotNumeric},
		{"", ErrAmountNotNumeric},
		{"12usd", ErrAmountNotNumeric},
		{"9.99", ErrAmountOutOfRange},
		{"0", ErrAmountOutOfRange},
		{"-50", ErrAmountOutOfRange},
		{"40000000", ErrAmountOutOfRange}, // выше MAX_USDT
	}
	for _, tc := range cases {
		_, err := ValidateAmount(tc.input)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("ValidateAmount(%q): err = %v, want %v", tc.input, err, tc.wantErr)
		}
	}
}

func TestGenerateReferralLink(t *testing.T) {
	link, err := GenerateReferralLink("usdt_sell_bot", 123456)
	if err != nil {
		t.Fatalf("GenerateReferralLink: %v", err)
	}
	want := "https://t.me/usdt_sell_bot?start=ref_123456"
	if link != want {
		t.Errorf("link = %q, want %q", link, want)
	}

	if _, err := GenerateReferralLink("", 123); err == nil {
		t.Error("ожидалась ошибка без botUsername")
	}
	if _, err := GenerateReferralLink("bot", 0); err == nil {
		t.Error("ожидалась ошибка при chatID == 0")
	}
}

func TestGenerateAddressQRCode(t *testing.T) {
	qr, err := GenerateAddressQRCode("TXyzDepositAddr")
	if err != nil {
		t.Fatalf("GenerateAddressQRCode: %v", err)
	}
	if len(qr) == 0 {
		t.Error("пустой PNG")
	}
	if _, err := GenerateAddressQRCode(""); err == nil {
		t.Error("ожидалась ошибка для пустого адреса")
	}
}
