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
	"github.com/redis/go-redis/v9"

	availabilityRulesHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/availability_rules"
	cancelBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_booking"
	getRefundQuoteHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_refund_quote"
	getScheduleHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/get_schedule"
	listBookingsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/list_bookings"
	scheduleBlocksHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/schedule_blocks"
	serviceOptionsHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/service_options"
	updateBookingStatusHandler "github.com/m04kA/SMC-SchedulingService/internal/api/handlers/update_booking_status"
	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/config"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/migrations"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/rule"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/storage/slotrow"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notification"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/payment"
	bookingsService "github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
	catalogService "github.com/m04kA/SMC-SchedulingService/internal/service/catalog"
	rulesService "github.com/m04kA/SMC-SchedulingService/internal/service/rules"
	schedulesService "github.com/m04kA/SMC-SchedulingService/internal/service/schedules"
	cancelBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	getRefundQuoteUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_refund_quote"
	getScheduleUC "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_schedule"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/metrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/slotlock"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
)

// domainMetrics доменные счетчики; реализуются *metrics.Metrics и metrics.Noop
type domainMetrics interface {
	BookingAttempt(outcome string)
	Cancellation(initiator string)
	Refund(tier string, cents int64)
	CorruptBookingDuration(therapist string)
	OvernightWrap(kind string)
	SlotLockWaited(backend string, elapsed time.Duration)
}

// eventPublisher публикация событий о бронированиях; Kafka или Noop
type eventPublisher interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
	BookingCancelled(ctx context.Context, booking *domain.Booking) error
	PaymentFailed(ctx context.Context, booking *domain.Booking, reason string) error
	StatusChanged(ctx context.Context, booking *domain.Booking) error
	Close() error
}

// paymentGateway платежный шлюз; Stripe или Disabled
type paymentGateway interface {
	createBookingUC.PaymentGateway
	cancelBookingUC.PaymentGateway
}

// slotLocker блокировка слота до открытия транзакции
type slotLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
	Backend() string
}

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

	log.Info("Starting SMC-SchedulingService...")
	log.Info("Configuration loaded from config.toml (timezone=%s)", cfg.Scheduling.Timezone)

	// Инициализируем метрики (если включены)
	var (
		metricsCollector *metrics.Metrics
		domainCounters   domainMetrics = metrics.Noop{}
	)
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		domainCounters = metricsCollector
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
	if cfg.Migrations.RunOnStart {
		migrator, err := migrations.NewMigrator(db, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied")
	}

	// Оборачиваем БД (с метриками или без)
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db)
	}

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	catalogRepository := catalogRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)
	slotRows := slotrow.NewRepository(wrappedDB)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Блокировка слота: в памяти процесса или в Redis для нескольких реплик
	var locker slotLocker
	switch cfg.SlotLock.Backend {
	case config.SlotLockRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancelPing()
			log.Fatal("Failed to ping redis at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		locker = slotlock.NewRedis(rdb, cfg.SlotLock.KeyPrefix, cfg.SlotLock.TTL(), log)
	default:
		locker = slotlock.NewLocal()
	}
	log.Info("Slot lock backend: %s (wait_timeout=%s)", locker.Backend(), cfg.SlotLock.WaitTimeout())

	// Инициализируем интеграции
	var payments paymentGateway = payment.Disabled{}
	if cfg.Payments.Enabled {
		payments = payment.NewClient(payment.Config{
			SecretKey: cfg.Payments.SecretKey,
			Currency:  cfg.Payments.Currency,
			Timeout:   time.Duration(cfg.Payments.Timeout) * time.Second,
			BaseURL:   cfg.Payments.BaseURL,
		}, log)
		log.Info("Payment gateway enabled (currency=%s)", cfg.Payments.Currency)
	}

	var publisher eventPublisher = notification.Noop{}
	if cfg.Notifications.Enabled {
		publisher = notification.NewKafkaPublisher(cfg.Notifications.Brokers, cfg.Notifications.WriteTimeout())
		log.Info("Booking events published to kafka (brokers=%s)", cfg.Notifications.Brokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("Failed to close event publisher: %v", err)
		}
	}()

	location := cfg.Scheduling.Location()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, txMgr, publisher, log)
	ruleSvc := rulesService.NewService(ruleRepository, catalogRepository, log)
	scheduleSvc := schedulesService.NewService(scheduleRepository, catalogRepository, log)
	catalogSvc := catalogService.NewService(catalogRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ruleRepository,
		scheduleRepository,
		catalogRepository,
		slotRows,
		locker,
		txMgr,
		payments,
		publisher,
		domainCounters,
		createBookingUC.Settings{
			Location:                location,
			TherapistDailySoftLimit: cfg.Scheduling.TherapistDailySoftLimit,
			LockWaitTimeout:         cfg.SlotLock.WaitTimeout(),
		},
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		payments,
		publisher,
		domainCounters,
		txMgr,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		ruleRepository,
		scheduleRepository,
		catalogRepository,
		txMgr,
		location,
		log,
	)

	getScheduleUseCase := getScheduleUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogRepository,
		txMgr,
		domainCounters,
		getScheduleUC.Settings{
			Location:           location,
			MaxBookingDuration: cfg.Scheduling.MaxBookingDuration(),
		},
		log,
	)

	getRefundQuoteUseCase := getRefundQuoteUC.NewUseCase(bookingRepository, log)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(getScheduleUseCase, log)
	getRefundQuote := getRefundQuoteHandler.NewHandler(getRefundQuoteUseCase, log)
	availabilityRules := availabilityRulesHandler.NewHandler(ruleSvc, log)
	scheduleBlocks := scheduleBlocksHandler.NewHandler(scheduleSvc, log)
	serviceOptions := serviceOptionsHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(log))

	// Metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// ДОСТУПНОСТЬ И БРОНИРОВАНИЕ (клиенты)
	// ============================================================

	// Доступные слоты варианта услуги на дату
	api.HandleFunc("/services/{serviceId}/options/{optionId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования с расчетом возврата
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Предварительный расчет возврата
	api.HandleFunc("/refunds/quote", getRefundQuote.Handle).Methods(http.MethodPost)

	// ============================================================
	// УПРАВЛЕНИЕ (персонал клиники)
	// ============================================================

	// --- Бронирования ---
	api.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Расписание ---
	api.HandleFunc("/therapists/{therapistId}/schedule/daily", getSchedule.HandleDaily).Methods(http.MethodGet)
	api.HandleFunc("/therapists/{therapistId}/schedule/weekly", getSchedule.HandleWeekly).Methods(http.MethodGet)
	api.HandleFunc("/schedule/overview", getSchedule.HandleOverview).Methods(http.MethodGet)

	// --- Блоки расписания (рабочие часы и отгулы) ---
	api.HandleFunc("/schedule-blocks", scheduleBlocks.Create).Methods(http.MethodPost)
	api.HandleFunc("/therapists/{therapistId}/schedule-blocks", scheduleBlocks.ListByTherapist).Methods(http.MethodGet)
	api.HandleFunc("/schedule-blocks/{blockId}", scheduleBlocks.Deactivate).Methods(http.MethodDelete)

	// --- Правила доступности ---
	api.HandleFunc("/availability-rules", availabilityRules.Create).Methods(http.MethodPost)
	api.HandleFunc("/availability-rules", availabilityRules.List).Methods(http.MethodGet)
	api.HandleFunc("/availability-rules/{ruleId}", availabilityRules.Get).Methods(http.MethodGet)
	api.HandleFunc("/availability-rules/{ruleId}", availabilityRules.Update).Methods(http.MethodPatch)
	api.HandleFunc("/availability-rules/{ruleId}", availabilityRules.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/availability-rules/{ruleId}/deactivate", availabilityRules.Deactivate).Methods(http.MethodPost)

	// --- Каталог услуг ---
	api.HandleFunc("/service-options/{optionId}", serviceOptions.Get).Methods(http.MethodGet)
	api.HandleFunc("/service-options/{optionId}/price", serviceOptions.UpdatePrice).Methods(http.MethodPatch)

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

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

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
