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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelReservationHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/cancel_reservation"
	createPaymentIntentHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/create_payment_intent"
	createReservationHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/create_reservation"
	getAvailableTimesHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/get_available_times"
	getReservationHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/get_reservation"
	getReservationsHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/get_reservations"
	listProductsHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/list_products"
	paymentWebhookHandler "github.com/m04kA/PC-ReservationService/internal/api/handlers/payment_webhook"
	"github.com/m04kA/PC-ReservationService/internal/api/middleware"
	"github.com/m04kA/PC-ReservationService/internal/config"
	"github.com/m04kA/PC-ReservationService/internal/infra/cache/slotcache"
	productRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/product"
	reservationRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/reservation"
	timeslotRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/timeslot"
	"github.com/m04kA/PC-ReservationService/internal/integrations/paymentgw"
	"github.com/m04kA/PC-ReservationService/internal/scheduler"
	reservationsService "github.com/m04kA/PC-ReservationService/internal/service/reservations"
	createReservationUC "github.com/m04kA/PC-ReservationService/internal/usecase/create_reservation"
	getAvailableTimesUC "github.com/m04kA/PC-ReservationService/internal/usecase/get_available_times"
	"github.com/m04kA/PC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/PC-ReservationService/pkg/logger"
	"github.com/m04kA/PC-ReservationService/pkg/metrics"
	"github.com/m04kA/PC-ReservationService/pkg/simpletxmanager"
	"github.com/m04kA/PC-ReservationService/pkg/txmanager"
)

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

	log.Info("Starting PC-ReservationService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

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

	// Применяем миграции
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Инициализируем клиент платежного шлюза
	gatewayClient := paymentgw.NewClient(
		cfg.PaymentGateway.URL,
		cfg.PaymentGateway.SecretKey,
		time.Duration(cfg.PaymentGateway.Timeout)*time.Second,
		log,
	)
	log.Info("Payment gateway client initialized (url=%s, timeout=%ds)",
		cfg.PaymentGateway.URL, cfg.PaymentGateway.Timeout)

	// Инициализируем кэш доступных слотов (если включен)
	var slotCache *slotcache.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		defer rdb.Close()

		slotCache = slotcache.New(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
		log.Info("Slot cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
	}

	// Типизированные ссылки на кэш: nil-указатель не должен попасть в интерфейс
	var (
		createCache  createReservationUC.SlotCache
		readCache    getAvailableTimesUC.SlotCache
		serviceCache reservationsService.SlotCache
	)
	if slotCache != nil {
		createCache = slotCache
		readCache = slotCache
		serviceCache = slotCache
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		reservationRepository *reservationRepo.Repository
		timeslotRepository    *timeslotRepo.Repository
		productRepository     *productRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		timeslotRepository = timeslotRepo.NewRepository(wrappedDB)
		productRepository = productRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		reservationRepository = reservationRepo.NewRepository(db)
		timeslotRepository = timeslotRepo.NewRepository(db)
		productRepository = productRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		timeslotRepository,
		gatewayClient,
		serviceCache,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		productRepository,
		timeslotRepository,
		createCache,
		txMgr,
		log,
	)

	getAvailableTimesUseCase := getAvailableTimesUC.NewUseCase(
		timeslotRepository,
		readCache,
		log,
	)

	// Запускаем уборку брошенных pending-резерваций
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()

	if cfg.Sweeper.Enabled {
		sweepScheduler := scheduler.New(
			reservationSvc,
			time.Duration(cfg.Sweeper.Interval)*time.Second,
			time.Duration(cfg.Sweeper.GraceMinutes)*time.Minute,
			log,
		)
		go sweepScheduler.Run(schedulerCtx)
	}

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getAvailableTimes := getAvailableTimesHandler.NewHandler(getAvailableTimesUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getReservations := getReservationsHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	listProducts := listProductsHandler.NewHandler(productRepository, log)
	createPaymentIntent := createPaymentIntentHandler.NewHandler(reservationSvc, log)
	paymentWebhook := paymentWebhookHandler.NewHandler(reservationSvc, cfg.PaymentGateway.WebhookSecret, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Каталог и доступность ---
	api.HandleFunc("/products", listProducts.Handle).Methods(http.MethodGet)
	api.HandleFunc("/slots/available", getAvailableTimes.Handle).Methods(http.MethodGet)

	// --- Резервации ---
	api.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	api.HandleFunc("/reservations", getReservations.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	api.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPost)

	// --- Платежи ---
	api.HandleFunc("/reservations/{reservationId}/payments", createPaymentIntent.Handle).Methods(http.MethodPost)
	api.HandleFunc("/payments/webhook", paymentWebhook.Handle).Methods(http.MethodPost)

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

	// Останавливаем планировщик уборки
	stopScheduler()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
