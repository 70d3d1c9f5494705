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

	addFacilityHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/add_facility"
	cancelBookingHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/create_booking"
	extendBookingHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/extend_booking"
	getBookingHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/get_booking"
	getFacilityHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/get_facility"
	getStatsHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/get_stats"
	getUserBookingsHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/get_user_bookings"
	listFacilitiesHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/list_facilities"
	removeFacilityHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/remove_facility"
	setFacilityStatusHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/set_facility_status"
	sweepBookingsHandler "github.com/m04kA/LMS-FacilityService/internal/api/handlers/sweep_bookings"
	"github.com/m04kA/LMS-FacilityService/internal/api/middleware"
	"github.com/m04kA/LMS-FacilityService/internal/config"
	"github.com/m04kA/LMS-FacilityService/internal/domain"
	memFacilityRepo "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/facility"
	memLedgerRepo "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/ledger"
	memUsersRepo "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/users"
	pgFacilityRepo "github.com/m04kA/LMS-FacilityService/internal/infra/storage/facility"
	pgLedgerRepo "github.com/m04kA/LMS-FacilityService/internal/infra/storage/ledger"
	pgUsersRepo "github.com/m04kA/LMS-FacilityService/internal/infra/storage/users"
	"github.com/m04kA/LMS-FacilityService/internal/policy"
	bookingsService "github.com/m04kA/LMS-FacilityService/internal/service/bookings"
	facilitiesService "github.com/m04kA/LMS-FacilityService/internal/service/facilities"
	sweeperService "github.com/m04kA/LMS-FacilityService/internal/service/sweeper"
	extendBookingUC "github.com/m04kA/LMS-FacilityService/internal/usecase/extend_booking"
	requestBookingUC "github.com/m04kA/LMS-FacilityService/internal/usecase/request_booking"
	"github.com/m04kA/LMS-FacilityService/pkg/dbmetrics"
	"github.com/m04kA/LMS-FacilityService/pkg/keyedmutex"
	"github.com/m04kA/LMS-FacilityService/pkg/logger"
	"github.com/m04kA/LMS-FacilityService/pkg/metrics"
	"github.com/m04kA/LMS-FacilityService/pkg/simpletxmanager"
	"github.com/m04kA/LMS-FacilityService/pkg/txmanager"
)

// Сводные интерфейсы хранилищ: обе реализации (memory и postgres)
// удовлетворяют им структурно, поэтому остальная проводка не зависит
// от выбранного драйвера.

type ledgerRepository interface {
	Insert(ctx context.Context, facilityID, userID string, start, end time.Time) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ActiveForFacility(ctx context.Context, facilityID string) ([]*domain.Booking, error)
	ActiveForUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	ActiveEndingBefore(ctx context.Context, now time.Time) ([]*domain.Booking, error)
	SetStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdateEnd(ctx context.Context, id int64, end time.Time) error
	Delete(ctx context.Context, id int64) error
	ListWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

type facilityRepository interface {
	Create(ctx context.Context, f *domain.Facility) error
	GetByID(ctx context.Context, id string) (*domain.Facility, error)
	ListWithFilter(ctx context.Context, filter domain.FacilitiesFilter) ([]*domain.Facility, error)
	SetStatus(ctx context.Context, id string, status domain.FacilityStatus) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.FacilityStats, error)
}

type userRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	AppendBookingID(ctx context.Context, userID string, bookingID int64) error
	RemoveBookingID(ctx context.Context, userID string, bookingID int64) error
}

type txManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

type recorder interface {
	ObserveHTTPRequest(method, path string, status int, duration time.Duration)
	ObserveDBQuery(operation string, duration time.Duration)
	SetDBConnections(open, idle, inUse int)
	IncBookingCreated()
	IncBookingRejected(reason string)
	IncBookingCancelled()
	IncBookingExtended()
	AddSweepTransitions(n int)
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

	log.Info("Starting LMS-FacilityService...")
	log.Info("Configuration loaded from config.toml (storage driver=%s)", cfg.Storage.Driver)

	// Инициализируем метрики (если включены)
	var rec recorder = metrics.Nop{}
	if cfg.Metrics.Enabled {
		rec = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилище по выбранному драйверу
	var (
		ledgerRepo   ledgerRepository
		facilityRepo facilityRepository
		userRepo     userRepository
		txMgr        txManager
	)
	stopMetricsCh := make(chan struct{})

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		var dbRecorder dbmetrics.Recorder = dbmetrics.NopRecorder{}
		if cfg.Metrics.Enabled {
			dbRecorder = rec
		}
		wrappedDB := dbmetrics.WrapWithDefault(db, dbRecorder, cfg.Metrics.ServiceName, stopMetricsCh)

		ledgerRepo = pgLedgerRepo.NewRepository(wrappedDB)
		facilityRepo = pgFacilityRepo.NewRepository(wrappedDB)
		userRepo = pgUsersRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)

	default:
		ledgerRepo = memLedgerRepo.NewRepository()
		facilityRepo = memFacilityRepo.NewRepository()
		userRepo = memUsersRepo.NewRepository()
		txMgr = simpletxmanager.NewTransactionManager()
		log.Info("Using in-memory storage")
	}

	// Наполняем реестр и пользователей из конфигурации
	seed(cfg, facilityRepo, userRepo, log)

	// Общие компоненты оркестратора
	policyEngine := policy.NewEngine()
	locks := keyedmutex.New()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		ledgerRepo,
		facilityRepo,
		userRepo,
		locks,
		txMgr,
		rec,
		log,
	)
	facilitySvc := facilitiesService.NewService(
		facilityRepo,
		ledgerRepo,
		userRepo,
		policyEngine,
		locks,
		txMgr,
		log,
	)

	// Инициализируем use cases
	requestBookingUseCase := requestBookingUC.NewUseCase(
		ledgerRepo,
		facilityRepo,
		userRepo,
		policyEngine,
		locks,
		txMgr,
		rec,
		log,
	)
	extendBookingUseCase := extendBookingUC.NewUseCase(
		ledgerRepo,
		policyEngine,
		locks,
		txMgr,
		rec,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(requestBookingUseCase, log)
	extendBooking := extendBookingHandler.NewHandler(extendBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listFacilities := listFacilitiesHandler.NewHandler(facilitySvc, log)
	getFacility := getFacilityHandler.NewHandler(facilitySvc, log)
	addFacility := addFacilityHandler.NewHandler(facilitySvc, log)
	removeFacility := removeFacilityHandler.NewHandler(facilitySvc, log)
	setFacilityStatus := setFacilityStatusHandler.NewHandler(facilitySvc, log)
	sweepBookings := sweepBookingsHandler.NewHandler(bookingSvc, log)
	getStats := getStatsHandler.NewHandler(bookingSvc, facilitySvc, log)

	// Периодический sweep истекших броней
	var sweeper *sweeperService.Service
	if cfg.Sweep.Enabled {
		sweeper = sweeperService.New(bookingSvc, cfg.Sweep.Schedule, log)
		if err := sweeper.Start(); err != nil {
			log.Fatal("Failed to start sweeper: %v", err)
		}
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(rec))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Служебный запуск sweep вне расписания
	r.HandleFunc("/internal/sweep", sweepBookings.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог помещений
	api.HandleFunc("/facilities", listFacilities.Handle).Methods(http.MethodGet)
	api.HandleFunc("/facilities/{facilityId}", getFacility.Handle).Methods(http.MethodGet)

	// Сводная статистика
	api.HandleFunc("/stats", getStats.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Брони ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/extend", extendBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление реестром (для администраторов) ---
	protected.HandleFunc("/facilities", addFacility.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/facilities/{facilityId}", removeFacility.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/facilities/{facilityId}/status", setFacilityStatus.Handle).Methods(http.MethodPatch)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sweeper != nil {
		<-sweeper.Stop().Done()
	}
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

// seed добавляет помещения и пользователей из конфигурации.
// Повторный запуск безопасен: существующие записи не трогаем.
func seed(cfg *config.Config, facilityRepo facilityRepository, userRepo userRepository, log *logger.Logger) {
	ctx := context.Background()

	for _, u := range cfg.Users {
		if !domain.ValidRole(domain.Role(u.Role)) {
			log.Warn("seed: skipping user %s with unknown role %q", u.ID, u.Role)
			continue
		}
		err := userRepo.Create(ctx, &domain.User{
			ID:   u.ID,
			Name: u.Name,
			Role: domain.Role(u.Role),
		})
		if err != nil {
			log.Warn("seed: user %s not created: %v", u.ID, err)
		}
	}

	for _, f := range cfg.Facilities {
		status := domain.FacilityStatus(f.Status)
		if f.Status == "" {
			status = domain.FacilityAvailable
		}
		if !domain.ValidFacilityType(domain.FacilityType(f.Type)) ||
			!domain.ValidPrivilege(domain.ReservationPrivilege(f.Privilege)) ||
			!domain.ValidFacilityStatus(status) {
			log.Warn("seed: skipping facility %s with invalid attributes", f.ID)
			continue
		}
		err := facilityRepo.Create(ctx, &domain.Facility{
			ID:        f.ID,
			Name:      f.Name,
			Type:      domain.FacilityType(f.Type),
			Location:  f.Location,
			Capacity:  f.Capacity,
			Privilege: domain.ReservationPrivilege(f.Privilege),
			Status:    status,
			Notes:     f.Notes,
			Equipment: f.Equipment,
		})
		if err != nil {
			log.Warn("seed: facility %s not created: %v", f.ID, err)
		}
	}
}
