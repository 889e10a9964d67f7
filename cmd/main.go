package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"

	"github.com/maxaizer/vacancy-service/internal/cache"
	"github.com/maxaizer/vacancy-service/internal/clients/hh"
	"github.com/maxaizer/vacancy-service/internal/config"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/events"
	"github.com/maxaizer/vacancy-service/internal/logger"
	"github.com/maxaizer/vacancy-service/internal/metrics"
	"github.com/maxaizer/vacancy-service/internal/repositories"
	"github.com/maxaizer/vacancy-service/internal/server"
	"github.com/maxaizer/vacancy-service/internal/services"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Server.MetricsPort)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	uowFactory := repositories.NewFactory(dbContext.DB)
	cacheRepo := cache.NewRepository()

	hhClient := hh.NewClient(cfg.Hh.APIURL)
	if cfg.Hh.MaxRequestsPerSecond > 0 {
		hhClient.SetRateLimit(cfg.Hh.MaxRequestsPerSecond)
	}

	jwtHelper := services.NewJWTHelper(cfg.Auth)
	authService := services.NewAuthService(uowFactory, cacheRepo, jwtHelper)
	vacancyService := services.NewVacancyService(uowFactory, hhClient)

	if err = seedDefaultUser(ctx, uowFactory, cfg.Auth); err != nil {
		log.Fatalf("can't seed default user: %v", err)
	}

	bus := EventBus.New()
	subscribeSyncEvents(bus)

	sync, err := services.NewVacancySync(uowFactory, hhClient, bus, cfg.Sync)
	if err != nil {
		log.Fatalf("can't create vacancy sync: %v", err)
	}
	sync.Start()
	defer sync.Stop()

	router := server.NewRouter(
		server.NewAuthMiddleware(authService),
		server.NewAuthHandler(authService),
		server.NewVacancyHandler(vacancyService),
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Infof("listening on %v", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down services...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	log.Info("Services stopped.")
}

func seedDefaultUser(ctx context.Context, uowFactory *repositories.Factory, cfg config.AuthConfig) error {

	if cfg.DefaultUsername == "" || cfg.DefaultPassword == "" {
		return nil
	}

	var pwd services.PasswordHelper
	return uowFactory.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}

		existing, err := users.GetByUsername(cfg.DefaultUsername)
		if existing != nil || err != nil {
			return err
		}

		hashedPassword, err := pwd.HashPassword(cfg.DefaultPassword)
		if err != nil {
			return err
		}

		_, err = users.Create(entities.User{
			Username:       cfg.DefaultUsername,
			HashedPassword: hashedPassword,
			IsActive:       true,
		})
		return err
	})
}

func subscribeSyncEvents(bus EventBus.Bus) {

	err := bus.Subscribe(events.VacancyRefreshedTopic, func(event events.VacancyRefreshed) {
		log.Debugf("vacancy %v refreshed from hh.ru id %v", event.VacancyID, event.HhID)
	})
	if err != nil {
		log.Fatalf("can't subscribe to refresh events: %v", err)
	}

	err = bus.Subscribe(events.VacancyMarkedOutdatedTopic, func(event events.VacancyMarkedOutdated) {
		log.Infof("vacancy %v (hh.ru id %v) marked as outdated", event.VacancyID, event.HhID)
	})
	if err != nil {
		log.Fatalf("can't subscribe to outdated events: %v", err)
	}
}
