// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
)

// Config хранит все конфигурационные параметры приложения.
// Config holds all application configuration parameters.
type Config struct {
	TelegramToken string
	BotUsername   string
	AppEnv        string
	AdminChatID   int64

	PlisioAPIKey string
	// AppBaseURL — внешний адрес HTTP-сервера; используется для callback_url
	// платежного процессора и ссылки на mini-app.
	AppBaseURL  string
	RefundEmail string
	Port        string
}

// LoadConfig загружает конфигурацию из переменных окружения.
// Отсутствие токена фатально для запуска (проверяется в main); остальные
// пропуски деградируют соответствующую функциональность с предупреждением.
// LoadConfig loads the configuration from environment variables.
// A missing token is fatal at startup (checked in main); other omissions
// degrade the related functionality with a warning.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_APITOKEN"),
		BotUsername:   os.Getenv("BOT_USERNAME"),
		AppEnv:        os.Getenv("ENV"),
		PlisioAPIKey:  os.Getenv("PLISIO_API_KEY"),
		AppBaseURL:    os.Getenv("APP_BASE_URL"),
		RefundEmail:   os.Getenv("REFUND_EMAIL"),
		Port:          os.Getenv("PORT"),
	}

	var err error
	cfg.AdminChatID, err = strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		log.Printf("Предупреждение: не удалось прочитать ADMIN_CHAT_ID: %v. Поддержка и Excel-отчеты не будут работать.", err)
		cfg.AdminChatID = 0
	}

	if cfg.TelegramToken == "" {
		log.Println("Критическая ошибка: TELEGRAM_APITOKEN не установлен.")
	}
	if cfg.BotUsername == "" {
		log.Println("Предупреждение: BOT_USERNAME не установлен. Реферальные ссылки не будут работать.")
	}
	if cfg.PlisioAPIKey == "" {
		log.Println("Предупреждение: PLISIO_API_KEY не установлен. Инициирование транзакций не будет работать.")
	}
	if cfg.AppBaseURL == "" {
		log.Println("Предупреждение: APP_BASE_URL не установлен. Callback-и процессора и ссылка на mini-app не будут работать.")
	}
	if cfg.RefundEmail == "" {
		cfg.RefundEmail = "support@example.com"
		log.Println("Предупреждение: REFUND_EMAIL не установлен, используется значение по умолчанию.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	log.Println("Конфигурация загружена.")
	return cfg, nil
}
