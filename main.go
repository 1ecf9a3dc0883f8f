package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ferreirogomes/propfolio/config"
	"github.com/ferreirogomes/propfolio/events"
	"github.com/ferreirogomes/propfolio/handlers"
	"github.com/ferreirogomes/propfolio/logging"
	"github.com/ferreirogomes/propfolio/services"
	"github.com/ferreirogomes/propfolio/storage"
)

const shutdownTimeout = 10 * time.Second

// closablePublisher é o publisher de eventos, que precisa ser fechado no fim.
type closablePublisher interface {
	services.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Falha ao carregar configuração: %v", err)
	}

	logger, closeLogger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Falha ao inicializar logger: %v", err)
	}
	defer closeLogger()

	if err := run(cfg, logger); err != nil {
		logger.Error("Aplicação encerrada com erro.", err, nil)
		closeLogger()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("falha fatal ao inicializar o store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("Falha ao fechar o store.", err, nil)
		}
	}()

	publisher, err := newPublisher(cfg.Events, logger)
	if err != nil {
		return fmt.Errorf("falha ao inicializar publisher de eventos: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error("Falha ao fechar o publisher de eventos.", err, nil)
		}
	}()

	propertyService := services.NewPropertyService(store, publisher)
	dashboardService := services.NewDashboardService(store)

	router := handlers.NewRouter(
		handlers.RouterConfig{Logger: logger, CORSOrigins: cfg.CORSOrigins},
		handlers.NewPropertyHandler(propertyService),
		handlers.NewDashboardHandler(dashboardService),
		handlers.NewHealthHandler(store),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Servidor backend rodando.", logging.Fields{"port": cfg.HTTPPort, "store_driver": cfg.Store.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("servidor HTTP falhou: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Sinal de desligamento recebido. Encerrando servidor...", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("falha no desligamento do servidor: %w", err)
	}
	logger.Info("Servidor encerrado.", nil)
	return nil
}

// newLogger monta o logger de stdout e, se configurado, o do Fluent Bit.
func newLogger(cfg *config.Config) (logging.Logger, func(), error) {
	stdout := logging.NewSlogLogger(logging.SlogConfig{
		Level: logging.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	if !cfg.FluentBit.Enabled {
		return stdout, func() {}, nil
	}

	fluentLogger, err := logging.NewFluentLogger(logging.FluentConfig{
		Host:      cfg.FluentBit.Host,
		Port:      cfg.FluentBit.Port,
		TagPrefix: cfg.AppName,
		Level:     logging.ParseLevel(cfg.FluentBit.Level),
	})
	if err != nil {
		return nil, nil, err
	}

	multi, err := logging.NewMultiLogger(stdout, fluentLogger)
	if err != nil {
		fluentLogger.Close()
		return nil, nil, err
	}

	var closed bool
	closeFn := func() {
		if closed {
			return
		}
		closed = true
		fluentLogger.Close()
	}
	return multi, closeFn, nil
}

// newStore escolhe o backend pelo STORE_DRIVER.
func newStore(ctx context.Context, cfg config.StoreConfig, logger logging.Logger) (services.PropertyStore, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		return storage.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDBName, logger)
	case config.DriverPostgres:
		return storage.NewDB(ctx, cfg.PostgresDSN, logger)
	case config.DriverMemory:
		logger.Warn("Usando store em memória. Os dados serão perdidos ao reiniciar.", nil)
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("driver de armazenamento desconhecido: %s", cfg.Driver)
	}
}

// newPublisher usa o RabbitMQ quando RABBITMQ_URL está definido.
func newPublisher(cfg config.EventsConfig, logger logging.Logger) (closablePublisher, error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL não definido. Eventos de imóveis desativados.", nil)
		return events.NoopPublisher{}, nil
	}
	return events.NewRabbitPublisher(cfg.RabbitMQURL, cfg.Exchange, logger)
}
