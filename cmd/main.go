package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"

	bookingFlowHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/booking_flow"
	createBookingHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/create_booking"
	createPaymentOrderHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/create_payment_order"
	getBookingHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/get_booking"
	getInvoiceHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/get_invoice"
	getQuoteHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/get_quote"
	listBookingsHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/list_bookings"
	sendOTPHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/send_otp"
	updateBookingStatusHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/update_booking_status"
	verifyOTPHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/verify_otp"
	verifyPaymentHandler "github.com/m04kA/VenueBookingService/internal/api/handlers/verify_payment"
	"github.com/m04kA/VenueBookingService/internal/api/middleware"
	"github.com/m04kA/VenueBookingService/internal/config"
	"github.com/m04kA/VenueBookingService/internal/infra/invoice"
	bookingRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/booking"
	otpStore "github.com/m04kA/VenueBookingService/internal/infra/storage/otp"
	paymentRepo "github.com/m04kA/VenueBookingService/internal/infra/storage/payment"
	catalogServiceClient "github.com/m04kA/VenueBookingService/internal/integrations/catalogservice"
	"github.com/m04kA/VenueBookingService/internal/integrations/events"
	"github.com/m04kA/VenueBookingService/internal/integrations/notification"
	"github.com/m04kA/VenueBookingService/internal/integrations/paymentgateway"
	bookingsService "github.com/m04kA/VenueBookingService/internal/service/bookings"
	otpService "github.com/m04kA/VenueBookingService/internal/service/otp"
	"github.com/m04kA/VenueBookingService/internal/service/pricing"
	bookingFlowUC "github.com/m04kA/VenueBookingService/internal/usecase/booking_flow"
	createBookingUC "github.com/m04kA/VenueBookingService/internal/usecase/create_booking"
	createPaymentOrderUC "github.com/m04kA/VenueBookingService/internal/usecase/create_payment_order"
	verifyPaymentUC "github.com/m04kA/VenueBookingService/internal/usecase/verify_payment"
	"github.com/m04kA/VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/VenueBookingService/pkg/logger"
	"github.com/m04kA/VenueBookingService/pkg/metrics"
	"github.com/m04kA/VenueBookingService/pkg/mq"
	"github.com/m04kA/VenueBookingService/pkg/txmanager"
)

// flowEvictionInterval период очистки просроченных сценариев бронирования
const flowEvictionInterval = time.Minute

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting VenueBookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Без метрик обёртка работает как обычный *sql.DB, но даёт транзакции для txmanager
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)

	// Хранилище OTP: Redis, если включен, иначе память процесса
	var codes otpService.Store
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}

		codes = otpStore.NewRedisStore(redisClient, cfg.Redis.Prefix)
		log.Info("OTP store: redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	} else {
		codes = otpStore.NewMemoryStore()
		log.Warn("OTP store: in-memory, codes are lost on restart")
	}

	// Брокер: доставка кодов и доменные события
	var (
		dispatcher      otpService.Dispatcher
		eventsPublisher events.Publisher
	)
	if cfg.RabbitMQ.Enabled {
		publisher, err := mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to rabbitmq: %v", err)
		}
		defer publisher.Close()

		dispatcher = notification.NewQueueDispatcher(publisher, time.Duration(cfg.OTP.TTLSeconds)*time.Second)
		eventsPublisher = publisher
		log.Info("RabbitMQ publisher connected (exchange=%s)", cfg.RabbitMQ.Exchange)
	} else {
		dispatcher = notification.NewLogDispatcher(log)
		log.Warn("RabbitMQ disabled: OTP codes are written to the log, events are not published")
	}
	emitter := events.NewEmitter(eventsPublisher, log)

	// Инициализируем интеграционных клиентов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	gatewayClient := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:   cfg.PaymentGateway.URL,
		KeyID:     cfg.PaymentGateway.KeyID,
		KeySecret: cfg.PaymentGateway.KeySecret,
		Timeout:   time.Duration(cfg.PaymentGateway.Timeout) * time.Second,
	}, log)
	log.Info("Integration clients initialized (CatalogService=%s timeout=%ds, PaymentGateway=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout, cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем сервисы
	calculator := pricing.NewCalculator(pricing.Config{TaxRate: cfg.Booking.TaxRate})
	quoter := pricing.NewQuoter(catalogClient, calculator, log)

	otpSvc := otpService.NewService(otpService.Config{
		Cooldown:    time.Duration(cfg.OTP.CooldownSeconds) * time.Second,
		TTL:         time.Duration(cfg.OTP.TTLSeconds) * time.Second,
		MaxAttempts: cfg.OTP.MaxAttempts,
		DevMode:     cfg.OTP.DevMode,
	}, codes, dispatcher, metricsCollector, log)

	invoiceRenderer := invoice.NewRenderer(invoice.Issuer{
		Name:    cfg.Invoice.IssuerName,
		Address: cfg.Invoice.IssuerAddress,
		TaxID:   cfg.Invoice.TaxID,
	}, cfg.PaymentGateway.Currency)
	bookingSvc := bookingsService.NewService(bookingRepository, invoiceRenderer, emitter, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		quoter,
		emitter,
		metricsCollector,
		log,
	)
	createPaymentOrderUseCase := createPaymentOrderUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		gatewayClient,
		cfg.PaymentGateway.Currency,
		log,
	)
	verifyPaymentUseCase := verifyPaymentUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		gatewayClient,
		txMgr,
		emitter,
		metricsCollector,
		log,
	)

	flowRegistry := bookingFlowUC.NewRegistry(
		bookingFlowUC.Config{DefaultAdvancePercent: cfg.Booking.DefaultAdvancePercent},
		bookingFlowUC.Dependencies{
			Quoter:   quoter,
			OTP:      otpSvc,
			Bookings: createBookingUseCase,
			Orders:   createPaymentOrderUseCase,
			Payments: verifyPaymentUseCase,
			Logger:   log,
		},
		time.Duration(cfg.Flow.SessionTTLMinutes)*time.Minute,
	)
	flowRegistry.StartEviction(flowEvictionInterval, stopCh)

	// Инициализируем handlers
	getQuote := getQuoteHandler.NewHandler(quoter, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	sendOTP := sendOTPHandler.NewHandler(otpSvc, log)
	verifyOTP := verifyOTPHandler.NewHandler(otpSvc, log)
	createPaymentOrder := createPaymentOrderHandler.NewHandler(createPaymentOrderUseCase, log)
	verifyPayment := verifyPaymentHandler.NewHandler(verifyPaymentUseCase, log)
	bookingFlow := bookingFlowHandler.NewHandler(flowRegistry, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(bookingSvc, log)

	// Настраиваем роутер
	var httpMetrics middleware.HTTPMetrics
	if cfg.Metrics.Enabled {
		httpMetrics = metricsCollector
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r := newRouter(apiRoutes{
		GetQuote:      getQuote.Handle,
		SendOTP:       sendOTP.Handle,
		VerifyOTP:     verifyOTP.Handle,
		VerifyPayment: verifyPayment.Handle,

		FlowCreate:          bookingFlow.Create,
		FlowGet:             bookingFlow.Get,
		FlowDelete:          bookingFlow.Delete,
		FlowCustomer:        bookingFlow.UpdateCustomer,
		FlowSchedule:        bookingFlow.UpdateSchedule,
		FlowCheckout:        bookingFlow.Checkout,
		FlowNext:            bookingFlow.Next,
		FlowBack:            bookingFlow.Back,
		FlowSendCode:        bookingFlow.SendCode,
		FlowEnterCode:       bookingFlow.EnterCode,
		FlowPaymentFailed:   bookingFlow.PaymentFailed,
		FlowRetryPayment:    bookingFlow.RetryPayment,
		FlowCompletePayment: bookingFlow.CompletePayment,

		CreateBooking:       createBooking.Handle,
		CreatePaymentOrder:  createPaymentOrder.Handle,
		ListBookings:        listBookings.Handle,
		GetBooking:          getBooking.Handle,
		UpdateBookingStatus: updateBookingStatus.Handle,
		GetInvoice:          getInvoice.Handle,
		GetInvoiceByNumber:  getInvoice.HandleByNumber,
	}, httpMetrics, cfg.Metrics.Path)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем фоновые задачи: статистику пула и очистку сценариев
	close(stopCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
