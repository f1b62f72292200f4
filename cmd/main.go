package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"maintenance-automation-service/internal/api"
	"maintenance-automation-service/internal/assignment"
	"maintenance-automation-service/internal/automation"
	"maintenance-automation-service/internal/config"
	"maintenance-automation-service/internal/db"
	"maintenance-automation-service/internal/kafka"
	"maintenance-automation-service/internal/logging"
	"maintenance-automation-service/internal/notify"
	"maintenance-automation-service/internal/ws"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	// Dashboard event hub and critical-alert notifier
	hub := ws.NewHub(logger)
	notifier := notify.New(cfg, logger, dbConn.GetTechnicianEmail)

	// Core services
	orchestrator := automation.NewOrchestrator(dbConn, logger)
	orchestrator.Notifier = notifier
	orchestrator.Publisher = hub
	rescheduler := automation.NewRescheduler(dbConn, logger)
	selector := assignment.NewSelector(dbConn, logger)
	loads := assignment.NewCalculator(dbConn)

	// Kafka consumer for floor-system completion events
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	var consumer *kafka.Consumer
	if cfg.Kafka.Broker != "" {
		consumer = kafka.NewConsumer(cfg.Kafka.Broker, cfg.Kafka.Topic, cfg.Kafka.GroupID, rescheduler, logger)
		consumer.Start(ctx, &wg)
	} else {
		logger.Warn("KAFKA_BROKER not set, completion event consumer disabled")
	}

	// Start API server
	handler := api.NewHandler(dbConn, logger, orchestrator, rescheduler, selector, loads, hub)
	router := api.NewRouter(logger, cfg, handler)
	go func() {
		logger.Infof("Starting API server on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API server failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Info("Shutting down...")
	cancel()
	if consumer != nil {
		consumer.Close()
	}
	wg.Wait()
	logger.Info("Service stopped")
}
