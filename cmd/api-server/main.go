package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/medagenda/hospital-appointment-scheduling/internal/api"
	"github.com/medagenda/hospital-appointment-scheduling/internal/booking"
	"github.com/medagenda/hospital-appointment-scheduling/internal/catalog"
	"github.com/medagenda/hospital-appointment-scheduling/internal/config"
	"github.com/medagenda/hospital-appointment-scheduling/internal/db"
	redisclient "github.com/medagenda/hospital-appointment-scheduling/internal/redis"
	"github.com/medagenda/hospital-appointment-scheduling/internal/schedule"
)

const version = "0.1.0"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	log.Printf("running in env=%s http_port=%s", cfg.Env, cfg.HTTPPort)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		log.Fatalf("postgres connection error: %v", err)
	}
	defer pgPool.Close()
	log.Println("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connection error: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}()
	log.Println("connected to Redis")

	engine := schedule.NewEngine(schedule.NewPgRepository(pgPool))
	locker := redisclient.NewDoctorDayLocker(rdb, cfg.LockTTL)
	bookingSvc := booking.NewService(booking.NewPgRepository(pgPool), engine, locker, cfg)
	catalogSvc := catalog.NewService(catalog.NewPgRepository(pgPool), cfg.SpecialtyAllowlist)

	router := api.NewRouter(api.RouterConfig{
		Availability: engine,
		Booking:      bookingSvc,
		Catalog:      catalogSvc,
		PgPool:       pgPool,
		Redis:        rdb,
		Env:          cfg.Env,
		Version:      version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	case <-rootCtx.Done():
	}

	log.Println("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
