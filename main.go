package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"Exchange/internal/api"
	"Exchange/internal/config"
	"Exchange/internal/handlers"
	"Exchange/internal/payments"
	"Exchange/internal/referral"
	"Exchange/internal/session"
	"Exchange/internal/support"
	"Exchange/internal/telegram_api"
)

// replyMapSweepInterval / replyMapMaxAge ограничивают рост карты ответов
// релея поддержки.
const (
	replyMapSweepInterval = 6 * time.Hour
	replyMapMaxAge        = 72 * time.Hour
)

func main() {
	// --- Блок инициализации ---
	err := godotenv.Load()
	if err != nil {
		log.Println("Предупреждение: не удалось загрузить файл .env. Переменные окружения должны быть установлены иным способом.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось загрузить конфигурацию: %v", err)
	}
	if cfg.TelegramToken == "" {
		log.Fatalf("Критическая ошибка: TELEGRAM_APITOKEN не установлен.")
	}

	botClient, err := telegram_api.InitBot(cfg.TelegramToken, cfg.AppEnv == "dev")
	if err != nil {
		log.Fatalf("Критическая ошибка: не удалось инициализировать Telegram бота: %v", err)
	}

	sessionManager := session.NewSessionManager()
	referralLedger := referral.NewLedger()
	supportRelay := support.NewRelay(botClient, cfg.AdminChatID)
	paymentClient := payments.NewClient(cfg.PlisioAPIKey)

	handlerDeps := handlers.HandlerDependencies{
		Config:         cfg,
		BotClient:      botClient,
		SessionManager: sessionManager,
		Referrals:      referralLedger,
		Relay:          supportRelay,
		Payments:       paymentClient,
	}
	botHandler := handlers.NewBotHandler(handlerDeps)

	// --- Настройка роутера и Middleware ---
	apiRouter := chi.NewRouter()

	// ГЛОБАЛЬНЫЕ MIDDLEWARES ДОЛЖНЫ ИДТИ ПЕРЕД api.SetupRoutes
	apiRouter.Use(middleware.Logger)
	apiRouter.Use(middleware.Recoverer)
	apiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Telegram-Auth"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	apiDeps := api.ApiDependencies{
		Config:         cfg,
		SecretKey:      cfg.TelegramToken,
		Bot:            botHandler,
		SessionManager: sessionManager,
		Payments:       paymentClient,
	}
	api.SetupRoutes(apiRouter, apiDeps)

	// Обработка запроса иконки, чтобы избежать ошибки 404 в логах
	apiRouter.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Настройка файлового сервера для mini-app
	workDir, _ := os.Getwd()
	filesDir := http.Dir(filepath.Join(workDir, "webapp"))
	FileServer(apiRouter, "/mini-app", filesDir)

	// Регистрируем меню команд бота.
	// Register the bot's command menu.
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Restart / main menu"},
		tgbotapi.BotCommand{Command: "sell", Description: "Sell USDT"},
		tgbotapi.BotCommand{Command: "support", Description: "Contact support"},
		tgbotapi.BotCommand{Command: "referral", Description: "Referral program"},
		tgbotapi.BotCommand{Command: "help", Description: "Help"},
	)
	if _, err := botClient.Request(commands); err != nil {
		log.Printf("Предупреждение: не удалось зарегистрировать команды бота: %v", err)
	}

	// Периодическая чистка карты ответов релея поддержки.
	// Periodic sweep of the support relay's reply map.
	go func() {
		ticker := time.NewTicker(replyMapSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if evicted := supportRelay.EvictOlderThan(replyMapMaxAge); evicted > 0 {
				log.Printf("Чистка карты ответов поддержки: удалено %d записей.", evicted)
			}
		}
	}()

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		log.Printf("Запуск HTTP-сервера для mini-app API на порту %s", cfg.Port)
		if err := http.ListenAndServe(":"+cfg.Port, apiRouter); err != nil {
			log.Fatalf("КРИТИЧЕСКАЯ ОШИБКА: не удалось запустить HTTP-сервер: %v", err)
		}
	}()

	// Запуск самого бота
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := botClient.GetUpdatesChan(u)

	log.Println("Бот и API-сервер запущены и готовы к работе...")

	for update := range updates {
		if update.Message != nil {
			log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)
			go botHandler.HandleMessage(update)
		} else if update.CallbackQuery != nil {
			log.Printf("Callback от %s: %s", update.CallbackQuery.From.UserName, update.CallbackQuery.Data)
			go botHandler.HandleCallback(update)
		}
	}
}

// FileServer для обслуживания статичных файлов
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer не поддерживает шаблоны URL")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}
