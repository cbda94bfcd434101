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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelReservationHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/cancel_reservation"
	createReservationHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/create_reservation"
	createVenueHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/create_venue"
	deleteVenueHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/delete_venue"
	getAvailableSlotsHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/get_available_slots"
	getReservationHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/get_user_reservations"
	getVenueHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/get_venue"
	getVenueReservationsHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/get_venue_reservations"
	listVenuesHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/list_venues"
	paymentReturnHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/payment_return"
	updateVenueHandler "github.com/m04kA/SMC-CourtRentalService/internal/api/handlers/update_venue"
	"github.com/m04kA/SMC-CourtRentalService/internal/api/middleware"
	"github.com/m04kA/SMC-CourtRentalService/internal/config"
	"github.com/m04kA/SMC-CourtRentalService/internal/infra/cache"
	"github.com/m04kA/SMC-CourtRentalService/internal/infra/events"
	reservationRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/reservation"
	venueRepo "github.com/m04kA/SMC-CourtRentalService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-CourtRentalService/internal/integrations/webpay"
	reservationsService "github.com/m04kA/SMC-CourtRentalService/internal/service/reservations"
	venuesService "github.com/m04kA/SMC-CourtRentalService/internal/service/venues"
	confirmPaymentUC "github.com/m04kA/SMC-CourtRentalService/internal/usecase/confirm_payment"
	createReservationUC "github.com/m04kA/SMC-CourtRentalService/internal/usecase/create_reservation"
	getAvailableSlotsUC "github.com/m04kA/SMC-CourtRentalService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-CourtRentalService/internal/worker/expiry"
	"github.com/m04kA/SMC-CourtRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtRentalService/pkg/logger"
	"github.com/m04kA/SMC-CourtRentalService/pkg/metrics"
	"github.com/m04kA/SMC-CourtRentalService/pkg/simpletxmanager"
	"github.com/m04kA/SMC-CourtRentalService/pkg/txmanager"
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

	log.Info("Starting SMC-CourtRentalService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Клиент платежного шлюза Webpay Plus
	webpayClient := webpay.NewClient(
		cfg.Webpay.BaseURL,
		cfg.Webpay.CommerceCode,
		cfg.Webpay.APIKey,
		time.Duration(cfg.Webpay.Timeout)*time.Second,
		log,
	)
	log.Info("Webpay client initialized (base_url=%s, timeout=%ds)",
		cfg.Webpay.BaseURL, cfg.Webpay.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		venueRepository       *venueRepo.Repository
		reservationRepository *reservationRepo.Repository
		txMgr                 venuesService.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, 15*time.Second, stopMetricsCh)
		log.Info("Database metrics collection started")

		venueRepository = venueRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		venueRepository = venueRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Кэш каталога кортов (опционально)
	var venueCache venuesService.VenueCache
	var venueCacheClient *cache.VenueCache

	if cfg.Redis.Enabled {
		venueCacheClient = cache.NewVenueCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.VenuesTTL)*time.Second,
		)
		defer venueCacheClient.Close()

		if err := venueCacheClient.Ping(context.Background()); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		venueCache = venueCacheClient
		log.Info("Redis cache connected (addr=%s, venues_ttl=%ds)", cfg.Redis.Addr, cfg.Redis.VenuesTTL)
	}

	// Продюсер событий бронирований (опционально)
	var (
		eventPublisher *events.Publisher

		createResEvents    createReservationUC.EventPublisher
		confirmEvents      confirmPaymentUC.EventPublisher
		reservationEvents  reservationsService.EventPublisher
		expiredSweepEvents expiry.EventPublisher
	)

	if cfg.Kafka.Enabled {
		eventPublisher = events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer eventPublisher.Close()

		createResEvents = eventPublisher
		confirmEvents = eventPublisher
		reservationEvents = eventPublisher
		expiredSweepEvents = eventPublisher
		log.Info("Kafka event publisher initialized (topic=%s)", cfg.Kafka.Topic)
	}

	// Инициализируем сервисы
	reservationSvc := reservationsService.NewService(
		reservationRepository,
		venueRepository,
		reservationEvents,
		metricsCollector,
		log,
	)
	venueSvc := venuesService.NewService(
		venueRepository,
		reservationRepository,
		txMgr,
		venueCache,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		venueRepository,
		webpayClient,
		createResEvents,
		metricsCollector,
		cfg.Booking.HoldMinutes,
		cfg.Webpay.ReturnURL,
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		reservationRepository,
		webpayClient,
		confirmEvents,
		metricsCollector,
		cfg.Webpay.SuccessRedirectURL,
		cfg.Webpay.FailureRedirectURL,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		reservationRepository,
		venueRepository,
		log,
	)

	// Фоновый сборщик просроченных pending-броней
	sweeper := expiry.NewSweeper(
		reservationRepository,
		expiredSweepEvents,
		metricsCollector,
		time.Duration(cfg.Booking.SweepIntervalSeconds)*time.Second,
		log,
	)
	go sweeper.Start(context.Background())
	log.Info("Expiry sweeper started (interval=%ds, hold=%dm)",
		cfg.Booking.SweepIntervalSeconds, cfg.Booking.HoldMinutes)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	paymentReturn := paymentReturnHandler.NewHandler(confirmPaymentUseCase, cfg.Webpay.FailureRedirectURL, log)
	createVenue := createVenueHandler.NewHandler(venueSvc, log)
	updateVenue := updateVenueHandler.NewHandler(venueSvc, log)
	deleteVenue := deleteVenueHandler.NewHandler(venueSvc, log)
	getVenue := getVenueHandler.NewHandler(venueSvc, log)
	listVenues := listVenuesHandler.NewHandler(venueSvc, log)
	getVenueReservations := getVenueReservationsHandler.NewHandler(reservationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог кортов
	api.HandleFunc("/venues", listVenues.Handle).Methods(http.MethodGet)
	api.HandleFunc("/venues/{venueId}", getVenue.Handle).Methods(http.MethodGet)

	// Слоты корта на дату
	api.HandleFunc("/venues/{venueId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Возврат плательщика из формы Webpay
	api.HandleFunc("/payments/webpay/return", paymentReturn.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/cancel", cancelReservation.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Управление кортами (только администраторы) ---
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.Auth, middleware.RequireRole(middleware.RoleAdmin))

	admin.HandleFunc("/venues", createVenue.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/venues/{venueId}", updateVenue.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/venues/{venueId}", deleteVenue.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/venues/{venueId}/reservations", getVenueReservations.Handle).Methods(http.MethodGet)
	admin.HandleFunc("/users/{userId}/venues", listVenues.HandleAdmin).Methods(http.MethodGet)

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

	// Останавливаем фоновые процессы
	sweeper.Stop()
	log.Info("Expiry sweeper stopped")

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
