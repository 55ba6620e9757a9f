package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "LRRBrain/internal/domain/repository"
	"LRRBrain/internal/engine"
	"LRRBrain/internal/repository"
	pkgch "LRRBrain/pkg/clickhouse"
	"LRRBrain/pkg/config"
	xhttp "LRRBrain/pkg/http"
	pkgkafka "LRRBrain/pkg/kafka"
	applogger "LRRBrain/pkg/logger"
)

// App encapsulates the entire application lifecycle: the decision engine,
// the heartbeat consumer, the alert webhook server, and the infrastructure
// clients they share.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	engine   *engine.Engine
	consumer *pkgkafka.Consumer
	kh       pkgkafka.MessageHandler
	chClient *pkgch.Client
	market   domrepo.MarketData
	channel  domrepo.SignalChannel

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	eng *engine.Engine,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	market domrepo.MarketData,
	channel domrepo.SignalChannel,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		engine:   eng,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
		market:   market,
		channel:  channel,
	}
}

// SetHTTPHandler allows DI to inject the HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.chClient != nil {
		if err := a.chClient.InitSchema(ctx, repository.JournalSchema()); err != nil {
			a.log.Warn("clickhouse schema init error", applogger.Error(err))
		}
	}

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsRoute(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
	)

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	engineErr := make(chan error, 1)
	go func() {
		engineErr <- a.engine.Run(ctx)
	}()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		a.log.Info("shutdown signal received")
	case err := <-engineErr:
		if err != nil {
			a.log.Error("engine exited", applogger.Error(err))
			_ = a.shutdown(ctx, cancel)
			return err
		}
		a.log.Info("engine exited")
	}

	return a.shutdown(ctx, cancel)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context, cancel context.CancelFunc) error {
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer stop()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.channel != nil {
		if err := a.channel.Close(); err != nil {
			a.log.Warn("signal channel close error", applogger.Error(err))
		}
	}
	if a.market != nil {
		if err := a.market.Close(); err != nil {
			a.log.Warn("gateway close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
