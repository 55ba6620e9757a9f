package main

import (
	"flag"
	"log"
	"os"

	"LRRBrain/internal/di"
	"LRRBrain/pkg/config"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	// Load config
	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s symbol=%s gateway=%s", cfg.Environment, cfg.Engine.Symbol, cfg.Gateway.URL)

	// Wire DI: Initialize all dependencies
	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	log.Printf("kafka: brokers=%v signal_topic=%s heartbeat_topic=%s",
		cfg.Kafka.Brokers, cfg.Kafka.SignalTopic, cfg.Kafka.HeartbeatTopic)

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
