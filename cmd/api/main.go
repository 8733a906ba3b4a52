package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/schedulr/appointments-api/internal/api"
	"github.com/schedulr/appointments-api/internal/api/handler"
	"github.com/schedulr/appointments-api/internal/core/ports"
	"github.com/schedulr/appointments-api/internal/core/service"
	"github.com/schedulr/appointments-api/internal/infrastructure/config"
	"github.com/schedulr/appointments-api/internal/infrastructure/db/memory"
	mongodb "github.com/schedulr/appointments-api/internal/infrastructure/db/mongo"
	redisdb "github.com/schedulr/appointments-api/internal/infrastructure/db/redis"
	"github.com/schedulr/appointments-api/internal/infrastructure/queue"
	"github.com/schedulr/appointments-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type stores struct {
	users        ports.UserRepository
	appointments ports.AppointmentRepository
	audit        ports.AuditRepository
	checks       map[string]handler.Checker
	close        func(context.Context)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDevelopment(),
	})

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open store")
	}

	throttle, closeThrottle := openThrottle(ctx, cfg, st.checks, log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, st.audit, log)
	dispatcher.Start(workerCtx)

	authService := service.NewAuthService(st.users, throttle, service.AuthConfig{
		JWTSecret:  cfg.JWTSecret,
		TokenTTL:   cfg.JWTTTL,
		BcryptCost: cfg.BcryptCost,
	}, log)
	userService := service.NewUserService(st.users)
	appointmentService := service.NewAppointmentService(st.appointments, dispatcher, log)

	if cfg.Admin.Email != "" {
		admin, created, err := authService.EnsureAdmin(ctx, ports.RegisterInput{
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
			Name:     cfg.Admin.Name,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to ensure admin account")
		}
		log.Info().Str("user_id", admin.ID).Bool("created", created).Msg("admin account ready")
	}

	e, err := api.NewRouter(api.RouterConfig{
		Log:          log,
		Auth:         authService,
		Users:        userService,
		Appointments: appointmentService,
		Checks:       st.checks,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	stopWorkers()
	dispatcher.Wait()
	closeThrottle()
	st.close(shutdownCtx)
	log.Info().Msg("shutdown complete")
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.StoreDriver == config.StoreMemory {
		log.Warn().Msg("using in-memory store, data is lost on exit")
		return &stores{
			users:        memory.NewUserRepository(),
			appointments: memory.NewAppointmentRepository(),
			audit:        memory.NewAuditRepository(),
			checks:       map[string]handler.Checker{"store": memory.Ping},
			close:        func(context.Context) {},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}

	users := mongodb.NewUserRepository(db)
	appointments := mongodb.NewAppointmentRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, appointments); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &stores{
		users:        users,
		appointments: appointments,
		audit:        mongodb.NewAuditRepository(db),
		checks:       map[string]handler.Checker{"mongodb": mongodb.Pinger(db)},
		close: func(ctx context.Context) {
			if err := client.Disconnect(ctx); err != nil {
				log.Error().Err(err).Msg("mongo disconnect")
			}
		},
	}, nil
}

// openThrottle connects the Redis login throttle. Logins stay unthrottled when
// REDIS_ADDR is empty or Redis is unreachable at startup.
func openThrottle(ctx context.Context, cfg *config.Config, checks map[string]handler.Checker, log zerolog.Logger) (ports.LoginThrottle, func()) {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, login throttle disabled")
		return nil, func() {}
	}

	client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, login throttle disabled")
		return nil, func() {}
	}
	checks["redis"] = redisdb.Pinger(client)

	return redisdb.NewLoginThrottle(client, cfg.Login.MaxAttempts, cfg.Login.Window), func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("redis close")
		}
	}
}
