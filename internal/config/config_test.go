package config

import (
	"flag"
	"os"
	"testing"
	"time"
)

var testEnvVars = []string{
	"RUN_ADDRESS", "DATABASE_URI", "SHOP_PREFIX", "JWT_SECRET",
	"RAZORPAY_KEY_ID", "RAZORPAY_KEY_SECRET", "RAZORPAY_WEBHOOK_SECRET",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "OWNER_EMAIL",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_PHONE", "TWILIO_WHATSAPP_FROM",
}

func TestLoad(t *testing.T) {
	// Сохраняем оригинальные значения для восстановления
	originalArgs := os.Args
	originalEnv := make(map[string]string)
	for _, key := range testEnvVars {
		originalEnv[key] = os.Getenv(key)
	}

	// Восстанавливаем после всех тестов
	defer func() {
		os.Args = originalArgs
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	}()

	tests := []struct {
		name        string
		args        []string
		envVars     map[string]string
		wantAddress string
		wantDBURI   string
		wantPrefix  string
		wantSecret  string
	}{
		{
			name:        "default values",
			args:        []string{"cmd"},
			envVars:     map[string]string{},
			wantAddress: "localhost:8080",
			wantDBURI:   "",
			wantPrefix:  "CQ",
			wantSecret:  "default-secret-change-in-production",
		},
		{
			name:        "flags only",
			args:        []string{"cmd", "-a", "localhost:9090", "-d", "postgresql://db", "-p", "PH"},
			envVars:     map[string]string{},
			wantAddress: "localhost:9090",
			wantDBURI:   "postgresql://db",
			wantPrefix:  "PH",
			wantSecret:  "default-secret-change-in-production",
		},
		{
			name: "env only",
			args: []string{"cmd"},
			envVars: map[string]string{
				"RUN_ADDRESS":  "localhost:7070",
				"DATABASE_URI": "postgresql://envdb",
				"SHOP_PREFIX":  "SS",
				"JWT_SECRET":   "env-secret",
			},
			wantAddress: "localhost:7070",
			wantDBURI:   "postgresql://envdb",
			wantPrefix:  "SS",
			wantSecret:  "env-secret",
		},
		{
			name: "env overrides flags",
			args: []string{"cmd", "-a", "localhost:9090", "-d", "postgresql://flagdb", "-p", "PH"},
			envVars: map[string]string{
				"RUN_ADDRESS":  "localhost:7070",
				"DATABASE_URI": "postgresql://envdb",
				"SHOP_PREFIX":  "SS",
			},
			wantAddress: "localhost:7070",
			wantDBURI:   "postgresql://envdb",
			wantPrefix:  "SS",
			wantSecret:  "default-secret-change-in-production",
		},
		{
			name: "partial env",
			args: []string{"cmd", "-a", "localhost:9090", "-d", "postgresql://flagdb"},
			envVars: map[string]string{
				"RUN_ADDRESS": "localhost:7070",
				"JWT_SECRET":  "custom-secret",
			},
			wantAddress: "localhost:7070",
			wantDBURI:   "postgresql://flagdb",
			wantPrefix:  "CQ",
			wantSecret:  "custom-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Очищаем env переменные
			for _, key := range testEnvVars {
				os.Unsetenv(key)
			}

			// Устанавливаем env переменные для теста
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			// Устанавливаем аргументы командной строки
			os.Args = tt.args

			// Сбрасываем флаги
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			cfg := Load()

			if cfg.RunAddress != tt.wantAddress {
				t.Errorf("RunAddress = %v, want %v", cfg.RunAddress, tt.wantAddress)
			}
			if cfg.DatabaseURI != tt.wantDBURI {
				t.Errorf("DatabaseURI = %v, want %v", cfg.DatabaseURI, tt.wantDBURI)
			}
			if cfg.ShopPrefix != tt.wantPrefix {
				t.Errorf("ShopPrefix = %v, want %v", cfg.ShopPrefix, tt.wantPrefix)
			}
			if cfg.JWTSecret != tt.wantSecret {
				t.Errorf("JWTSecret = %v, want %v", cfg.JWTSecret, tt.wantSecret)
			}
			if cfg.TokenExpiration != 24*time.Hour {
				t.Errorf("TokenExpiration = %v, want 24h", cfg.TokenExpiration)
			}
		})
	}
}

func TestLoadNotificationDefaults(t *testing.T) {
	originalEnv := make(map[string]string)
	for _, key := range testEnvVars {
		originalEnv[key] = os.Getenv(key)
		os.Unsetenv(key)
	}
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		for key, value := range originalEnv {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
		flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	}()

	tests := []struct {
		name         string
		envVars      map[string]string
		wantSMTPPort int
		wantWebhook  string
	}{
		{
			name:         "defaults",
			envVars:      map[string]string{},
			wantSMTPPort: 587,
			wantWebhook:  "",
		},
		{
			name: "smtp port from env",
			envVars: map[string]string{
				"SMTP_PORT": "2525",
			},
			wantSMTPPort: 2525,
		},
		{
			name: "invalid smtp port falls back",
			envVars: map[string]string{
				"SMTP_PORT": "not-a-port",
			},
			wantSMTPPort: 587,
		},
		{
			name: "webhook secret falls back to key secret",
			envVars: map[string]string{
				"RAZORPAY_KEY_SECRET": "key-secret",
			},
			wantSMTPPort: 587,
			wantWebhook:  "key-secret",
		},
		{
			name: "dedicated webhook secret wins",
			envVars: map[string]string{
				"RAZORPAY_KEY_SECRET":     "key-secret",
				"RAZORPAY_WEBHOOK_SECRET": "hook-secret",
			},
			wantSMTPPort: 587,
			wantWebhook:  "hook-secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range testEnvVars {
				os.Unsetenv(key)
			}
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}

			os.Args = []string{"cmd"}
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)

			cfg := Load()

			if cfg.SMTPPort != tt.wantSMTPPort {
				t.Errorf("SMTPPort = %d, want %d", cfg.SMTPPort, tt.wantSMTPPort)
			}
			if cfg.RazorpayWebhookSecret != tt.wantWebhook {
				t.Errorf("RazorpayWebhookSecret = %q, want %q", cfg.RazorpayWebhookSecret, tt.wantWebhook)
			}
		})
	}
}
