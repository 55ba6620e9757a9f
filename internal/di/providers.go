package di

import (
	"fmt"

	"LRRBrain/internal/detector"
	domrepo "LRRBrain/internal/domain/repository"
	"LRRBrain/internal/engine"
	"LRRBrain/internal/gate"
	"LRRBrain/internal/handler/api"
	"LRRBrain/internal/position"
	internalrepo "LRRBrain/internal/repository"
	"LRRBrain/internal/risk"
	"LRRBrain/internal/service/gateway"
	"LRRBrain/pkg/cache"
	pkgch "LRRBrain/pkg/clickhouse"
	"LRRBrain/pkg/config"
	xhttp "LRRBrain/pkg/http"
	pkgkafka "LRRBrain/pkg/kafka"
	applogger "LRRBrain/pkg/logger"
	"LRRBrain/pkg/metrics"
	"LRRBrain/pkg/server"
)

// ProvideLogger creates the application logger. Production runs JSON to
// stdout; everything else gets the console writer.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client. The decisions schema
// itself is applied by the App at startup.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideCache creates the layered cache used for day-state persistence:
// in-process L1 over Redis.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	redis, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redis), nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideGateway creates the broker market-data gateway.
func ProvideGateway(cfg *config.Config, l *applogger.Logger) domrepo.MarketData {
	opts := []gateway.Option{}
	if cfg.Gateway.CallTimeout > 0 {
		opts = append(opts, gateway.WithCallTimeout(cfg.Gateway.CallTimeout))
	}
	if cfg.Gateway.ReconnectDelay > 0 {
		opts = append(opts, gateway.WithReconnectDelay(cfg.Gateway.ReconnectDelay))
	}
	return gateway.New(cfg.Gateway.URL, cfg.Engine.Symbol, l, opts...)
}

// ProvideSignalChannel creates the outbound Kafka channel.
func ProvideSignalChannel(producer *pkgkafka.Producer, cfg *config.Config) domrepo.SignalChannel {
	opts := []internalrepo.SignalChannelOption{}
	if cfg.Kafka.SignalTopic != "" {
		opts = append(opts, internalrepo.WithSignalTopic(cfg.Kafka.SignalTopic))
	}
	return internalrepo.NewKafkaSignalChannel(producer, cfg.Engine.Symbol, opts...)
}

// ProvideStateStore creates the Redis-backed day-state store.
func ProvideStateStore(c cache.Service) domrepo.StateStore {
	return internalrepo.NewRedisStateStore(c)
}

// ProvideDecisionJournal creates the ClickHouse decision journal.
func ProvideDecisionJournal(ch *pkgch.Client, l *applogger.Logger) domrepo.DecisionJournal {
	return internalrepo.NewCHDecisionJournal(ch, l)
}

// ProvideSnapshotCache creates the alert snapshot cache.
func ProvideSnapshotCache() *engine.SnapshotCache {
	return engine.NewSnapshotCache()
}

// ProvideMonitor creates the counterpart heartbeat monitor.
func ProvideMonitor(l *applogger.Logger, m domrepo.Metrics, cfg *config.Config) *engine.Monitor {
	opts := []engine.MonitorOption{}
	if cfg.Engine.HeartbeatStale > 0 {
		opts = append(opts, engine.WithStaleAfter(cfg.Engine.HeartbeatStale))
	}
	return engine.NewMonitor(l, m, opts...)
}

// ProvideNewsFilter creates the news window filter seeded from config.
func ProvideNewsFilter(cfg *config.Config) *engine.NewsFilter {
	opts := []engine.NewsOption{}
	if cfg.News.Before > 0 || cfg.News.After > 0 {
		opts = append(opts, engine.WithNewsWindow(cfg.News.Before, cfg.News.After))
	}
	f := engine.NewNewsFilter(opts...)
	events := make([]engine.NewsEvent, 0, len(cfg.News.Events))
	for _, ev := range cfg.News.Events {
		events = append(events, engine.NewsEvent{Name: ev.Name, At: ev.At})
	}
	f.SetEvents(events)
	return f
}

// ProvideResolver builds the detector set and the snapshot/local resolver.
func ProvideResolver(cache *engine.SnapshotCache, cfg *config.Config, l *applogger.Logger) *engine.Resolver {
	opts := []engine.ResolverOption{}
	if cfg.Engine.SnapshotFreshness > 0 {
		opts = append(opts, engine.WithFreshness(cfg.Engine.SnapshotFreshness))
	}
	return engine.NewResolver(
		cache,
		detector.NewLorentzianClassifier(),
		detector.NewTrendClassifier(),
		detector.NewMomentumFilter(),
		detector.NewZoneDetector(),
		detector.NewContextBuilder(),
		l,
		opts...,
	)
}

// ProvideStructureDetector creates the sweep/FVG detector.
func ProvideStructureDetector(l *applogger.Logger) *detector.StructureDetector {
	return detector.NewStructureDetector(l)
}

// ProvideSessionTable creates the session clock.
func ProvideSessionTable() *gate.SessionTable {
	return gate.NewSessionTable()
}

// ProvideKeeper creates the Gate Keeper.
func ProvideKeeper(l *applogger.Logger) *gate.Keeper {
	return gate.NewKeeper(l)
}

// ProvideTracker creates the daily risk tracker.
func ProvideTracker(l *applogger.Logger, cfg *config.Config) *risk.Tracker {
	opts := []risk.TrackerOption{}
	if cfg.Risk.MaxDailyEntries > 0 {
		opts = append(opts, risk.WithMaxEntries(cfg.Risk.MaxDailyEntries))
	}
	if cfg.Risk.MaxLossRun > 0 {
		opts = append(opts, risk.WithMaxLossRun(cfg.Risk.MaxLossRun))
	}
	if cfg.Risk.DayLossPct > 0 {
		opts = append(opts, risk.WithDayLossPct(cfg.Risk.DayLossPct))
	}
	return risk.NewTracker(l, opts...)
}

// ProvideSpreadGuard creates the adaptive spread guard.
func ProvideSpreadGuard() *risk.SpreadGuard {
	return risk.NewSpreadGuard()
}

// ProvidePositionManager creates the position phase manager.
func ProvidePositionManager(l *applogger.Logger) *position.Manager {
	return position.NewManager(l)
}

// ProvideHeartbeatHandler creates the heartbeat Kafka handler.
func ProvideHeartbeatHandler(monitor *engine.Monitor, l *applogger.Logger, cfg *config.Config) pkgkafka.MessageHandler {
	opts := []internalrepo.HeartbeatOption{}
	if cfg.Kafka.HeartbeatTopic != "" {
		opts = append(opts, internalrepo.WithHeartbeatTopic(cfg.Kafka.HeartbeatTopic))
	}
	return internalrepo.NewHeartbeatHandler(monitor, l, opts...)
}

// ProvideAlertsHandler creates the webhook HTTP handler.
func ProvideAlertsHandler(l *applogger.Logger, cache *engine.SnapshotCache, monitor *engine.Monitor) xhttp.Handler {
	return api.NewAlertsHandler(l, cache, monitor)
}

// ProvideEngine assembles the decision engine.
func ProvideEngine(
	cfg *config.Config,
	l *applogger.Logger,
	market domrepo.MarketData,
	channel domrepo.SignalChannel,
	store domrepo.StateStore,
	journal domrepo.DecisionJournal,
	m domrepo.Metrics,
	structure *detector.StructureDetector,
	resolver *engine.Resolver,
	keeper *gate.Keeper,
	sessions *gate.SessionTable,
	tracker *risk.Tracker,
	spread *risk.SpreadGuard,
	positions *position.Manager,
	monitor *engine.Monitor,
	news *engine.NewsFilter,
) *engine.Engine {
	opts := []engine.EngineOption{
		engine.WithSymbol(cfg.Engine.Symbol),
	}
	if cfg.Engine.Interval > 0 {
		opts = append(opts, engine.WithInterval(cfg.Engine.Interval))
	}
	if cfg.Engine.CallTimeout > 0 {
		opts = append(opts, engine.WithCallTimeout(cfg.Engine.CallTimeout))
	}
	if cfg.Engine.BarCount > 0 && cfg.Engine.HTFBarCount > 0 && cfg.Engine.HourlyBarCount > 0 {
		opts = append(opts, engine.WithBarCounts(cfg.Engine.BarCount, cfg.Engine.HTFBarCount, cfg.Engine.HourlyBarCount))
	}
	return engine.New(engine.Deps{
		Market:    market,
		Channel:   channel,
		Store:     store,
		Journal:   journal,
		Metrics:   m,
		Structure: structure,
		Resolver:  resolver,
		Keeper:    keeper,
		Sessions:  sessions,
		Tracker:   tracker,
		Spread:    spread,
		Positions: positions,
		Heartbeat: monitor,
		News:      news,
		Log:       l,
	}, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	eng *engine.Engine,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	market domrepo.MarketData,
	channel domrepo.SignalChannel,
	handler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, eng, consumer, kh, chClient, market, channel)
	app.SetHTTPHandler(handler)
	return app
}
