package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/agamariel/clickqueue/internal/auth"
	"github.com/agamariel/clickqueue/internal/config"
	"github.com/agamariel/clickqueue/internal/handlers"
	"github.com/agamariel/clickqueue/internal/migrations"
	"github.com/agamariel/clickqueue/internal/notifications"
	"github.com/agamariel/clickqueue/internal/payment"
	"github.com/agamariel/clickqueue/internal/services"
	"github.com/agamariel/clickqueue/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// App структура для управления приложением и его зависимостями.
type App struct {
	cfg        *config.Config
	dbPool     *pgxpool.Pool
	echo       *echo.Echo
	dispatcher *notifications.Dispatcher

	// Handlers
	orderHandler    *handlers.OrderHandler
	ownerHandler    *handlers.OwnerHandler
	paymentHandler  *handlers.PaymentHandler
	settingsHandler *handlers.SettingsHandler
	authHandler     *handlers.AuthHandler
}

// NewApp создаёт и инициализирует новое приложение.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		cfg: cfg,
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initDependencies(); err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.initServer()

	return app, nil
}

// initDatabase инициализирует подключение к базе данных и выполняет миграции.
func (app *App) initDatabase(ctx context.Context) error {
	if app.cfg.DatabaseURI == "" {
		return fmt.Errorf("DATABASE_URI is required")
	}

	// Применение миграций
	log.Println("Running database migrations...")
	sqlDB, err := sql.Open("pgx", app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to open database connection: %w", err)
	}
	defer sqlDB.Close()

	if err := migrations.Run(sqlDB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Migrations completed successfully")

	// Подключение к базе данных через pgxpool
	dbPool, err := pgxpool.New(ctx, app.cfg.DatabaseURI)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		return fmt.Errorf("unable to ping database: %w", err)
	}

	app.dbPool = dbPool
	log.Println("Successfully connected to database")

	return nil
}

// initDependencies инициализирует все зависимости приложения (storage, services, handlers).
func (app *App) initDependencies() error {
	// Storage layer
	orderStorage := storage.NewPostgresOrderStorage(app.dbPool)
	settingsStorage := storage.NewPostgresSettingsStorage(app.dbPool)
	ownerStorage := storage.NewPostgresOwnerStorage(app.dbPool)

	// Каналы уведомлений: несконфигурированный канал остаётся nil и пропускается.
	var email notifications.EmailSender
	if sender := notifications.NewSMTPEmailSender(app.cfg.SMTPHost, app.cfg.SMTPPort, app.cfg.SMTPUser, app.cfg.SMTPPass); sender != nil {
		email = sender
	} else {
		log.Println("WARNING: SMTP is not configured, email notifications disabled")
	}
	var sms, whatsapp notifications.MessageSender
	if sender := notifications.NewTwilioSMSSender(app.cfg.TwilioAccountSID, app.cfg.TwilioAuthToken, app.cfg.TwilioPhone); sender != nil {
		sms = sender
	} else {
		log.Println("WARNING: Twilio SMS is not configured, SMS notifications disabled")
	}
	if sender := notifications.NewTwilioWhatsAppSender(app.cfg.TwilioAccountSID, app.cfg.TwilioAuthToken, app.cfg.TwilioWhatsAppFrom); sender != nil {
		whatsapp = sender
	} else {
		log.Println("WARNING: Twilio WhatsApp is not configured, WhatsApp notifications disabled")
	}
	app.dispatcher = notifications.NewDispatcher(email, sms, whatsapp, app.cfg.OwnerEmail, log.Default())

	// Платёжный шлюз
	var gateway payment.GatewayClient
	if client := payment.NewRazorpayClient(app.cfg.RazorpayKeyID, app.cfg.RazorpayKeySecret); client != nil {
		gateway = client
	} else {
		log.Println("WARNING: Razorpay is not configured, online payments disabled")
	}

	// Service layer
	pricingService := services.NewPricingService(settingsStorage)
	settingsService := services.NewSettingsService(settingsStorage)
	paymentService := services.NewPaymentService(gateway, orderStorage, app.cfg.RazorpayKeySecret, app.cfg.RazorpayWebhookSecret, log.Default())
	orderService := services.NewOrderService(orderStorage, pricingService, paymentService, app.dispatcher, app.cfg.ShopPrefix)
	reportService := services.NewReportService(orderStorage)
	ownerService := services.NewOwnerService(ownerStorage, app.cfg.JWTSecret, app.cfg.TokenExpiration)

	// Handler layer
	app.orderHandler = handlers.NewOrderHandler(orderService, pricingService)
	app.ownerHandler = handlers.NewOwnerHandler(orderService, reportService)
	app.paymentHandler = handlers.NewPaymentHandler(paymentService)
	app.settingsHandler = handlers.NewSettingsHandler(settingsService)
	app.authHandler = handlers.NewAuthHandler(ownerService)

	return nil
}

// initServer инициализирует HTTP-сервер и настраивает маршруты.
func (app *App) initServer() {
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	// Публичные маршруты (не требуют аутентификации)
	e.POST("/api/orders", app.orderHandler.CreateOrder)
	e.GET("/api/orders/track/:orderId", app.orderHandler.TrackOrder)
	e.GET("/api/orders/services", app.orderHandler.GetServices)

	e.POST("/api/payment/create-order", app.paymentHandler.CreateIntent)
	e.POST("/api/payment/verify", app.paymentHandler.Verify)
	e.POST("/api/payment/webhook", app.paymentHandler.Webhook)

	e.POST("/api/auth/register", app.authHandler.Register)
	e.POST("/api/auth/login", app.authHandler.Login)

	e.GET("/api/settings/prices", app.settingsHandler.GetPrices)
	e.GET("/api/settings/shop", app.settingsHandler.GetShopInfo)

	// Защищённые маршруты владельца (требуют аутентификации)
	owner := e.Group("/api/owner")
	owner.Use(auth.OwnerOnly(app.cfg.JWTSecret))
	owner.GET("/orders", app.ownerHandler.ListOrders)
	owner.GET("/orders/export", app.ownerHandler.ExportOrders)
	owner.GET("/orders/:id", app.ownerHandler.GetOrder)
	owner.PUT("/orders/:id/status", app.ownerHandler.UpdateStatus)
	owner.GET("/dashboard", app.ownerHandler.Dashboard)

	settings := e.Group("/api/settings")
	settings.Use(auth.OwnerOnly(app.cfg.JWTSecret))
	settings.PUT("/prices", app.settingsHandler.UpdatePrices)
	settings.PUT("/shop", app.settingsHandler.UpdateShopInfo)

	app.echo = e
}

// Start запускает приложение.
func (app *App) Start(ctx context.Context) error {
	// Запуск диспетчера уведомлений
	log.Println("Starting notification dispatcher...")
	app.dispatcher.Start(ctx)

	// Запуск сервера
	log.Printf("Starting server on %s", app.cfg.RunAddress)
	if err := app.echo.Start(app.cfg.RunAddress); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}

	return nil
}

// Shutdown корректно завершает работу приложения.
func (app *App) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	if err := app.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Останавливаем диспетчер после сервера: новых заказов уже нет,
	// и дожидаемся доставки поставленных в очередь уведомлений
	if app.dispatcher != nil {
		app.dispatcher.Stop()
		app.dispatcher.Wait()
	}

	if app.dbPool != nil {
		app.dbPool.Close()
	}

	log.Println("Server gracefully stopped")
	return nil
}
