// Package app собирает сервис заказов: хранилище, сервисы, HTTP API,
// outbox worker и сервер метрик, и управляет их жизненным циклом.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/auth"
	healthcheck "github.com/vladislavdragonenkov/foodorder/internal/health"
	"github.com/vladislavdragonenkov/foodorder/internal/httpapi"
	"github.com/vladislavdragonenkov/foodorder/internal/metrics"
	"github.com/vladislavdragonenkov/foodorder/internal/service/menu"
	"github.com/vladislavdragonenkov/foodorder/internal/service/order"
	"github.com/vladislavdragonenkov/foodorder/internal/service/pricing"
	"github.com/vladislavdragonenkov/foodorder/internal/service/profile"
	"github.com/vladislavdragonenkov/foodorder/internal/service/validation"
	"github.com/vladislavdragonenkov/foodorder/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run запускает сервис и блокируется до отмены ctx или падения HTTP-сервера.
// При отмене ctx возвращает ctx.Err().
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	if cfg.TokenKey == "" {
		logger.Warn("FOODORDER_TOKEN_KEY is empty, using a random key: tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenService(cfg.TokenKey, cfg.TokenTTL)
	if err != nil {
		return err
	}

	router := buildRouter(cfg, deps, tokens, logger)

	healthHandler := healthcheck.NewHandler(version.Current().Version)
	healthHandler.RegisterChecker("storage", deps.storageChecker)
	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	broker, err := initEventBroker(cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("failed to connect event broker, events stay in outbox")
	}
	stopWorker, workerDone := startOutboxWorker(ctx, cfg, deps.outbox, broker, logger)

	lis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		shutdownOutboxWorker(stopWorker, workerDone, logger)
		closeEventBroker(broker, logger)
		shutdownHTTP(metricsSrv, logger)
		return fmt.Errorf("listen %s: %w", cfg.HTTPAddr, err)
	}

	apiSrv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.WithFields(log.Fields{
			"addr":    lis.Addr().String(),
			"storage": cfg.StorageDriver,
			"policy":  cfg.Policy(),
		}).Info("HTTP API слушает")
		errCh <- apiSrv.Serve(lis)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		runErr = ctx.Err()
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	}

	shutdownHTTP(apiSrv, logger)
	shutdownOutboxWorker(stopWorker, workerDone, logger)
	closeEventBroker(broker, logger)
	shutdownHTTP(metricsSrv, logger)
	return runErr
}

// buildRouter связывает сервисы с адаптерами хранилища и собирает gin.Engine.
func buildRouter(cfg Config, deps *runtimeDependencies, tokens httpapi.TokenVerifier, logger *log.Entry) *gin.Engine {
	validator := validation.New()
	serviceLogger := logger.WithField("layer", "service")

	orders := order.NewService(order.Dependencies{
		Store:     deps.orders,
		Pricer:    pricing.NewResolver(deps.menu),
		Timeline:  deps.timeline,
		Outbox:    deps.outbox,
		Validator: validator,
		Metrics:   metrics.NewOrderMetrics(),
		Logger:    serviceLogger,
	}, order.WithPolicy(cfg.Policy()))

	return httpapi.NewRouter(httpapi.Dependencies{
		Orders:   orders,
		Menu:     menu.NewService(deps.menu, nil, serviceLogger),
		Profiles: profile.NewService(deps.users, validator, nil, serviceLogger),
		Tokens:   tokens,
		Metrics:  metrics.NewHTTPMetrics(),
		Logger:   logger.WithField("layer", "http"),
	}, httpapi.Config{RequestTimeout: cfg.RequestTimeout})
}

// startMetricsServer запускает HTTP-обработчик /metrics и health-пробы.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: shutdownTimeout}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
