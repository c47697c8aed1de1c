package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"fuelshift/internal/domain/audit"
	"fuelshift/internal/domain/auth"
	"fuelshift/internal/domain/core"
	"fuelshift/internal/domain/payroll"
	"fuelshift/internal/domain/shift"
	"fuelshift/internal/platform/config"
	cryptoutil "fuelshift/internal/platform/crypto"
	"fuelshift/internal/platform/db"
	auditloghandler "fuelshift/internal/transport/http/handlers/auditlog"
	authhandler "fuelshift/internal/transport/http/handlers/auth"
	employeeshandler "fuelshift/internal/transport/http/handlers/employees"
	payslipshandler "fuelshift/internal/transport/http/handlers/payslips"
	shiftshandler "fuelshift/internal/transport/http/handlers/shifts"
	shifttypeshandler "fuelshift/internal/transport/http/handlers/shifttypes"
	stationshandler "fuelshift/internal/transport/http/handlers/stations"
	"fuelshift/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		log.Fatalf("encryption key invalid: %v", err)
	}

	authStore := auth.NewStore(pool)
	coreStore := core.NewStore(pool)
	shiftStore := shift.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	shiftService := shift.NewService(shiftStore, payrollStore)
	payrollService := payroll.NewService(payrollStore)
	auditService := audit.New(pool)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg.JWTSecret, cryptoSvc).RegisterRoutes(r)
		shiftshandler.NewHandler(shiftStore, shiftService, coreStore, auditService).RegisterRoutes(r)
		payslipshandler.NewHandler(payrollStore, payrollService, auditService).RegisterRoutes(r)
		employeeshandler.NewHandler(coreStore, auditService).RegisterRoutes(r)
		stationshandler.NewHandler(coreStore, auditService).RegisterRoutes(r)
		shifttypeshandler.NewHandler(coreStore).RegisterRoutes(r)
		auditloghandler.NewHandler(auditService).RegisterRoutes(r)
	})

	log.Printf("fuelshift server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
