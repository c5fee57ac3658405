package handlers

import (
	"fmt"
	"log"

	"Exchange/internal/constants"
	"Exchange/internal/localization"
	"Exchange/internal/models"
	"Exchange/internal/payments"
	"Exchange/internal/rates"
	"Exchange/internal/utils"
)

// initiateSaleTransaction запускает инициирование транзакции у платежного
// процессора для полностью собранной сессии. Возвращает true при успехе.
// Успех: продажа журналируется, реферальный бонус начисляется, сессия
// очищается, пользователь получает адрес и QR. Отказ: сессия остается
// заполненной, пользователю предлагается повторить (без автоповтора).
// initiateSaleTransaction runs the payment processor's transaction initiation
// for a fully assembled session. Returns true on success.
// Success: the sale is journaled, the referral bonus is credited, the session
// is cleared, the user receives the address and QR. Failure: the session
// stays populated and the user is told to retry (no automatic retry).
func (bh *BotHandler) initiateSaleTransaction(chatID int64, lang string) bool {
	saleData := bh.Deps.SessionManager.GetTempSale(chatID)
	if !saleData.IsComplete() {
		log.Printf("initiateSaleTransaction: сессия chatID %d не полна, инициирование отклонено.", chatID)
		bh.sendErrorMessageHelper(chatID, localization.Get(lang, "generic_error"))
		return false
	}

	fiatAmount := rates.Convert(saleData.AmountUSDT, saleData.FiatCurrency)

	req := payments.SaleRequest{
		PayoutNetworkCurrency: constants.PayoutNetworkCurrencies[saleData.Network],
		Amount:                saleData.AmountUSDT,
		RefundEmail:           bh.Deps.Config.RefundEmail,
		Memo:                  fmt.Sprintf("%s | %s", saleData.PaymentMethod, saleData.PaymentDetails),
		ItemLabel:             fmt.Sprintf("USDT sale %.2f → %s", saleData.AmountUSDT, saleData.FiatCurrency),
		CallbackURL:           bh.Deps.Config.AppBaseURL + "/webhook/payment-status",
	}

	txn, err := bh.Deps.Payments.CreateSaleTransaction(req)
	if err != nil {
		log.Printf("initiateSaleTransaction: отказ процессора для chatID %d: %v", chatID, err)
		bh.sendErrorMessageHelper(chatID, localization.Get(lang, "sale_failed"))
		return false
	}

	bh.Deps.SessionManager.RecordCompletedSale(models.CompletedSale{
		ChatID:         chatID,
		FiatCurrency:   saleData.FiatCurrency,
		Network:        saleData.Network,
		AmountUSDT:     saleData.AmountUSDT,
		FiatAmount:     fiatAmount,
		PaymentMethod:  saleData.PaymentMethod,
		PaymentDetails: saleData.PaymentDetails,
		TransactionID:  txn.TransactionID,
		DepositAddress: txn.DepositAddress,
		StatusURL:      txn.StatusURL,
		Source:         "bot",
	})

	bh.rewardReferrerIfDue(chatID)

	// Успешное инициирование: сессия полностью очищается.
	// Successful initiation: the session is fully cleared.
	bh.Deps.SessionManager.ClearTempSale(chatID)
	bh.Deps.SessionManager.ClearState(chatID)

	bh.sendSaleConfirmation(chatID, lang, saleData.Network, saleData.PaymentMethod, saleData.FiatCurrency, txn, fiatAmount)
	return true
}

// rewardReferrerIfDue начисляет разовый бонус пригласившему при первой
// успешной продаже приглашенного и уведомляет его.
// rewardReferrerIfDue credits the referrer's one-time bonus on the referred
// chat's first successful sale and notifies them.
func (bh *BotHandler) rewardReferrerIfDue(chatID int64) {
	referrerID := bh.Deps.Referrals.ReferrerOf(chatID)
	if referrerID == 0 {
		return
	}
	if amount, granted := bh.Deps.Referrals.Reward(referrerID, chatID); granted {
		bh.sendMessage(referrerID, localization.Get("en", "reward_notice", amount))
	}
}

// sendSaleConfirmation отправляет подтверждение с депозитным адресом и
// QR-кодом адреса.
// sendSaleConfirmation sends the confirmation with the deposit address and
// the address QR code.
func (bh *BotHandler) sendSaleConfirmation(chatID int64, lang, network, method, fiatCurrency string, txn *payments.SaleTransaction, fiatAmount float64) {
	text := localization.Get(lang, "sale_success",
		txn.ConfirmedAmount, network, txn.DepositAddress, fiatAmount, fiatCurrency, method, txn.TransactionID, txn.StatusURL)
	if _, err := bh.sendOrEditMenuHelper(chatID, 0, text, nil); err != nil {
		log.Printf("sendSaleConfirmation: ошибка отправки подтверждения для chatID %d: %v", chatID, err)
	}

	if qrBytes, err := utils.GenerateAddressQRCode(txn.DepositAddress); err == nil {
		bh.sendPhotoHelper(chatID, "deposit_address.png", qrBytes, localization.Get(lang, "qr_caption"))
	} else {
		log.Printf("sendSaleConfirmation: QR-код для chatID %d не сгенерирован: %v", chatID, err)
	}
}

// NotifyMiniAppSale отправляет в Telegram подтверждение продажи, оформленной
// через mini-app (вебхук уже вернул JSON самому приложению).
// NotifyMiniAppSale pushes the Telegram confirmation of a sale placed via the
// mini-app (the webhook already returned JSON to the page itself).
func (bh *BotHandler) NotifyMiniAppSale(sale models.CompletedSale, txn *payments.SaleTransaction) {
	bh.Deps.Referrals.Init(sale.ChatID)
	bh.rewardReferrerIfDue(sale.ChatID)
	bh.sendSaleConfirmation(sale.ChatID, "en", sale.Network, sale.PaymentMethod, sale.FiatCurrency, txn, sale.FiatAmount)
}
