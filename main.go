package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/15palle/membership/internal/config"
	"github.com/15palle/membership/internal/infra"
	"github.com/15palle/membership/internal/notifier"
	"github.com/15palle/membership/internal/repository"
)

const DefaultShutdownTimeout = 10 * time.Second
const DefaultConnectTimeout = 5 * time.Second

func main() {
	cfg, err := config.Build()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()

	pgPool, err := infra.Postgresql(ctx, cfg.PostgresCfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer pgPool.Close()

	if err := repository.MigratePostgres(ctx, pgPool); err != nil {
		logrus.Fatalf("failed to apply db schema - %v", err)
	}

	redisClient, err := infra.Redis(ctx, cfg.RedisCfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer redisClient.Close()

	var mongoClient *mongo.Client
	custRepo := repository.NewPostgresCustomerRepository(pgPool)
	if cfg.StoreDriver == config.StoreDriverMongo {
		mongoClient, err = infra.Mongodb(ctx, cfg.MongoCfg)
		if err != nil {
			logrus.Fatal(err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				logrus.Errorf("failed to disconnect from mongodb - %v", err)
			}
		}()
		custRepo = repository.NewMongoCustomerRepository(mongoClient)
	}

	if err := custRepo.SeedIfEmpty(ctx, repository.SeedCustomers()); err != nil {
		logrus.Fatalf("failed to seed customer store - %v", err)
	}

	codeNotifier, err := buildNotifier(ctx, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	app, err := infra.Router(pgPool, mongoClient, redisClient, codeNotifier, cfg)
	if err != nil {
		logrus.Fatal(err)
	}

	start(app, cfg.ServerCfg.Port)
}

func buildNotifier(ctx context.Context, cfg config.Config) (notifier.CodeNotifier, error) {
	if cfg.NotifierDriver == config.NotifierDriverSes {
		return notifier.NewSesNotifier(ctx, cfg.SesCfg)
	}
	return notifier.NewLogNotifier(), nil
}

func start(app *echo.Echo, port int) {
	shutdownCh := make(chan os.Signal, 1)
	errorCh := make(chan error, 1)
	signal.Notify(shutdownCh, os.Interrupt)

	go func() {
		errorCh <- app.Start(fmt.Sprintf(":%d", port))
	}()

	select {
	case <-shutdownCh:
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()

		logrus.Info("shutdown signal has been sent, stopping the server...")
		if err := app.Shutdown(ctx); err != nil {
			logrus.Fatalf("failed to stop server gracefully - %v", err)
		}
	case err := <-errorCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("shutting down the server, unexpected error occurred - %v", err)
		}
	}
}
