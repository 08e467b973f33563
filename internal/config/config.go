package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	ShopPrefix      string
	JWTSecret       string
	TokenExpiration time.Duration

	// Платёжный шлюз
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	// Email (SMTP)
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	OwnerEmail string

	// SMS и WhatsApp (Twilio)
	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioPhone        string
	TwilioWhatsAppFrom string
}

// Load загружает конфигурацию из флагов командной строки и переменных окружения.
// Приоритет: переменные окружения > флаги > значения по умолчанию.
// Локальный .env подхватывается, если присутствует.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "адрес и порт запуска сервиса")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "строка подключения к PostgreSQL")
	flag.StringVar(&cfg.ShopPrefix, "p", "CQ", "префикс публичных номеров заказов")
	flag.Parse()

	if envRunAddr := os.Getenv("RUN_ADDRESS"); envRunAddr != "" {
		cfg.RunAddress = envRunAddr
	}
	if envDBURI := os.Getenv("DATABASE_URI"); envDBURI != "" {
		cfg.DatabaseURI = envDBURI
	}
	if envPrefix := os.Getenv("SHOP_PREFIX"); envPrefix != "" {
		cfg.ShopPrefix = envPrefix
	}

	// JWT секрет
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "default-secret-change-in-production"
	}

	// Время жизни токена
	cfg.TokenExpiration = 24 * time.Hour

	// Платёжный шлюз
	cfg.RazorpayKeyID = os.Getenv("RAZORPAY_KEY_ID")
	cfg.RazorpayKeySecret = os.Getenv("RAZORPAY_KEY_SECRET")
	cfg.RazorpayWebhookSecret = os.Getenv("RAZORPAY_WEBHOOK_SECRET")
	if cfg.RazorpayWebhookSecret == "" {
		cfg.RazorpayWebhookSecret = cfg.RazorpayKeySecret
	}

	// Каналы уведомлений. Пустые значения означают пропуск канала.
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = 587
	if envPort := os.Getenv("SMTP_PORT"); envPort != "" {
		if port, err := strconv.Atoi(envPort); err == nil {
			cfg.SMTPPort = port
		}
	}
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")
	cfg.OwnerEmail = os.Getenv("OWNER_EMAIL")

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioPhone = os.Getenv("TWILIO_PHONE")
	cfg.TwilioWhatsAppFrom = os.Getenv("TWILIO_WHATSAPP_FROM")

	return cfg
}
