package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"booking_backend/internal/app/di"
	"booking_backend/internal/app/router"
	authadapters "booking_backend/internal/feature/auth/adapters"
	authhandler "booking_backend/internal/feature/auth/transport/handler"
	authusecase "booking_backend/internal/feature/auth/usecase"
	"booking_backend/internal/platform/cache"
	"booking_backend/internal/platform/config"
	infradb "booking_backend/internal/platform/db"
	"booking_backend/internal/platform/http/handler"
	jwtmw "booking_backend/internal/platform/jwt"
	"booking_backend/internal/platform/logger"
	"booking_backend/internal/platform/mailer"
	"booking_backend/internal/platform/otp"
	"booking_backend/internal/platform/password"
	infraredis "booking_backend/internal/platform/redis"
	"booking_backend/internal/platform/validation"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg.AppName, cfg.Env, cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db
	db, err := infradb.Open(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	// Redis is optional
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
		log.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// mail
	sender, closeMail, err := di.NewMailSender(cfg.Mail, log)
	if err != nil {
		return err
	}
	defer closeMail()
	notifier := mailer.NewVerificationSender(sender, cfg.AppName)

	// Repository
	var users authusecase.UserRepository = authadapters.NewUserGorm(db, password.NewHasher(cfg.BcryptCost))
	if rdb != nil {
		users = cache.NewCachingUserRepository(rdb, cfg.UserCacheTTL, users, "users")
	}
	verifications := di.NewVerificationRepository(cfg.VerificationStore, rdb, db)
	if sweeper, ok := verifications.(di.ExpiredSweeper); ok {
		go di.SweepExpired(ctx, sweeper, cfg.VerificationSweep)
	}

	// Token issuer
	issuer, err := jwtmw.NewIssuer(cfg.JWT)
	if err != nil {
		return err
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(users, verifications, otp.NewGenerator(), issuer, notifier,
		authusecase.WithVerificationTTL(cfg.VerificationTTL),
		authusecase.WithNotifyTimeout(cfg.Mail.SendTimeout),
	)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)

	checks := map[string]handler.Check{"db": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	r := router.NewRouter(authH, issuer, router.Options{
		CORSOrigins:    cfg.CORSOrigins,
		HTTPLogEnabled: cfg.HTTPLogEnabled,
		Logger:         log,
		ReadyChecks:    checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server exited properly")
	return nil
}
