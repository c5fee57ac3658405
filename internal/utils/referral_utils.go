package utils

import (
	"fmt"
	"log"

	"github.com/skip2/go-qrcode"

	"Exchange/internal/constants"
)

// GenerateReferralLink генерирует реферальную ссылку для пользователя.
// botUsername передается снаружи, так как это конфигурационное значение.
// GenerateReferralLink generates the user's referral link.
// botUsername is passed in since it is a configuration value.
func GenerateReferralLink(botUsername string, chatID int64) (string, error) {
	if botUsername == "" {
		log.Println("GenerateReferralLink: botUsername не предоставлен.")
		return "", fmt.Errorf("имя пользователя бота не настроено")
	}
	if chatID == 0 {
		log.Printf("GenerateReferralLink: невалидный chatID: %d", chatID)
		return "", fmt.Errorf("невалидный ID пользователя для реферальной ссылки")
	}
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botUsername, constants.REFERRAL_START_PREFIX, chatID), nil
}

// GenerateReferralQRCode генерирует QR-код реферальной ссылки пользователя.
// GenerateReferralQRCode generates the QR code of the user's referral link.
func GenerateReferralQRCode(botUsername string, chatID int64) ([]byte, error) {
	link, err := GenerateReferralLink(botUsername, chatID)
	if err != nil {
		return nil, err
	}
	// qrcode.Medium - уровень коррекции ошибок, 256 - размер в пикселях.
	qrBytes, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		log.Printf("GenerateReferralQRCode: ошибка кодирования QR-кода для ссылки '%s': %v", link, err)
		return nil, err
	}
	return qrBytes, nil
}

// GenerateAddressQRCode генерирует QR-код депозитного адреса, отправляемый
// пользователю вместе с подтверждением транзакции.
// GenerateAddressQRCode generates the deposit address QR code sent to the
// user along with the transaction confirmation.
func GenerateAddressQRCode(address string) ([]byte, error) {
	if address == "" {
		return nil, fmt.Errorf("пустой депозитный адрес")
	}
	qrBytes, err := qrcode.Encode(address, qrcode.Medium, 256)
	if err != nil {
		log.Printf("GenerateAddressQRCode: ошибка кодирования QR-кода адреса '%s': %v", address, err)
		return nil, err
	}
	return qrBytes, nil
}
