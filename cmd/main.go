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

	cancelAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/create_appointment"
	deleteSalonConfigHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/delete_salon_config"
	getAppointmentHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_available_slots"
	getSalonAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_appointments"
	getSalonConfigHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_config"
	getSalonHistoryHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_salon_history"
	getUserAppointmentsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/get_user_appointments"
	healthHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/health"
	listSalonConfigsHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/list_salon_configs"
	updateAppointmentStatusHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_appointment_status"
	updateSalonConfigHandler "github.com/m04kA/SMC-SalonBooking/internal/api/handlers/update_salon_config"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/config"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/cache"
	appointmentRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	configRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/config"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/migrations"
	salonServiceClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/salonservice"
	userServiceClient "github.com/m04kA/SMC-SalonBooking/internal/integrations/userservice"
	"github.com/m04kA/SMC-SalonBooking/internal/jobs/completion"
	appointmentsService "github.com/m04kA/SMC-SalonBooking/internal/service/appointments"
	configService "github.com/m04kA/SMC-SalonBooking/internal/service/config"
	createAppointmentUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/history"
	"github.com/m04kA/SMC-SalonBooking/pkg/logger"
	"github.com/m04kA/SMC-SalonBooking/pkg/metrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/txmanager"
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

	log.Info("Starting SMC-SalonBooking...")
	log.Info("Configuration loaded from config.toml")

	location := cfg.Booking.Location()
	log.Info("Booking timezone: %s", location)

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

	// Версия схемы известна только если миграции применяет сам сервис
	var schemaVersion int64
	if cfg.Database.Migrate {
		migrateCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		err := migrations.Up(migrateCtx, db)
		if err == nil {
			schemaVersion, err = migrations.Version(migrateCtx, db)
		}
		cancel()
		if err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
		log.Info("Database migrations applied (version=%d)", schemaVersion)
	}

	// С метриками запросы идут через обёртку, иначе напрямую в *sql.DB
	var executor dbmetrics.TxExecutor = db
	if cfg.Metrics.Enabled {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	appointmentRepository := appointmentRepo.NewRepository(executor)
	configRepository := configRepo.NewRepository(executor)
	txMgr := txmanager.NewTransactionManager(
		executor,
		txmanager.WithRetries(cfg.Database.SerializableRetries),
		txmanager.WithMetrics(metricsCollector),
	)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	salonClient := salonServiceClient.NewClient(
		cfg.SalonService.URL,
		time.Duration(cfg.SalonService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, SalonService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.SalonService.URL, cfg.SalonService.Timeout)

	// Каталог салонов, при включенном кэше через Redis
	var catalog cache.SalonCatalog = salonClient
	if cfg.Cache.Enabled {
		redisCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err := cache.NewRedisClient(redisCtx, cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		cancel()
		if err != nil {
			log.Warn("Redis unavailable, catalog cache disabled: %v", err)
		} else {
			defer redisClient.Close()
			catalog = cache.NewCachedCatalog(
				salonClient,
				cache.NewRedisStore(redisClient),
				time.Duration(cfg.Cache.TTLSeconds)*time.Second,
				log,
			)
			log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTLSeconds)
		}
	}

	// Журнал административных действий общий для сервисов
	actionHistory := history.NewRing[domain.ActionRecord](cfg.History.Capacity)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		catalog,
		actionHistory,
		log,
	)
	configSvc := configService.NewService(
		configRepository,
		catalog,
		txMgr,
		actionHistory,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		configRepository,
		catalog,
		userClient,
		txMgr,
		metricsCollector,
		location,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		configRepository,
		catalog,
		txMgr,
		location,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getUserAppointments := getUserAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSalonAppointments := getSalonAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSalonHistory := getSalonHistoryHandler.NewHandler(appointmentSvc, log)
	getSalonConfig := getSalonConfigHandler.NewHandler(configSvc, log)
	updateSalonConfig := updateSalonConfigHandler.NewHandler(configSvc, log)
	listSalonConfigs := listSalonConfigsHandler.NewHandler(configSvc, log)
	deleteSalonConfig := deleteSalonConfigHandler.NewHandler(configSvc, log)
	health := healthHandler.NewHandler(db, schemaVersion, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	public := api.PathPrefix("").Subrouter()
	if cfg.RateLimit.Enabled {
		limiter, err := middleware.NewRateLimiter(
			cfg.RateLimit.RequestsPerSecond,
			cfg.RateLimit.Burst,
			time.Duration(cfg.RateLimit.IdleTimeout)*time.Second,
			cfg.RateLimit.TrustedProxies,
		)
		if err != nil {
			log.Fatal("Failed to create rate limiter: %v", err)
		}
		public.Use(limiter.Middleware)
		log.Info("Rate limit for public routes: %.1f rps, burst %d",
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Получение слотов для записи
	public.HandleFunc("/salons/{salonId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Получение действующей конфигурации бронирования
	public.HandleFunc("/salons/{salonId}/config",
		getSalonConfig.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи клиентом или салоном
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса менеджером
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/appointments", getUserAppointments.Handle).Methods(http.MethodGet)

	// --- Управление салоном (для менеджеров) ---
	// Список записей салона
	protected.HandleFunc("/salons/{salonId}/appointments", getSalonAppointments.Handle).Methods(http.MethodGet)

	// Изменение конфигурации салона
	protected.HandleFunc("/salons/{salonId}/config", updateSalonConfig.Handle).Methods(http.MethodPut)

	// Удаление конфигурации уровня
	protected.HandleFunc("/salons/{salonId}/config", deleteSalonConfig.Handle).Methods(http.MethodDelete)

	// Все сохраненные конфигурации салона
	protected.HandleFunc("/salons/{salonId}/configs", listSalonConfigs.Handle).Methods(http.MethodGet)

	// Журнал действий
	protected.HandleFunc("/salons/{salonId}/history", getSalonHistory.Handle).Methods(http.MethodGet)

	// Фоновое закрытие завершившихся записей
	var completionJob *completion.Job
	if cfg.Jobs.Enabled {
		completionJob, err = completion.NewJob(appointmentRepository, cfg.Jobs.CompletionCron, location, log)
		if err != nil {
			log.Fatal("Failed to schedule completion job: %v", err)
		}
		completionJob.Start()
	}

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

	if completionJob != nil {
		completionJob.Stop()
	}

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
