package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tenlog/config"
	core "tenlog/ingestion/service/core"
	httphandler "tenlog/ingestion/service/http"
	"tenlog/internal/messaging/producer"
)

// Configuration directory holding ingestion.defaults.yml
const configDir = "./config"

func main() {
	logger := log.New(os.Stdout, "[INGEST] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting Ingestion Gateway...")

	// 1. Load ingestion gateway configuration
	appCfg, err := config.LoadConfig(configDir)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg.Ingestion == nil {
		logger.Fatalf("ingestion.defaults.yml not found in %s", configDir)
	}
	cfg := appCfg.Ingestion

	// 2. Initialize Kafka producer (the gateway's only downstream dependency;
	// no storage access happens on this path)
	logger.Println("Initializing Kafka producer...")
	kafkaProducer, err := producer.NewKafkaProducer(cfg.KafkaProducer, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize Kafka producer: %v", err)
	}
	defer kafkaProducer.Close()

	// 3. Create core Service and HTTP handler
	coreService := core.NewService(kafkaProducer, logger)
	logHandler := httphandler.NewLogHandler(coreService, logger, cfg.MaxBodyBytes)

	mux := http.NewServeMux()
	mux.HandleFunc("/ingest", logHandler.Ingest)
	mux.HandleFunc("/health", logHandler.HealthCheck)

	// Use HTTP server configuration with defaults
	readTimeout := cfg.HttpServer.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 5 * time.Second
	}

	writeTimeout := cfg.HttpServer.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 10 * time.Second
	}

	idleTimeout := cfg.HttpServer.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = 60 * time.Second
	}

	maxHeaderBytes := cfg.HttpServer.MaxHeaderBytes
	if maxHeaderBytes == 0 {
		maxHeaderBytes = 1 << 20 // 1 MB
	}

	// 4. Create HTTP server with optimized settings
	httpServer := &http.Server{
		Addr:           cfg.HttpListenAddr,
		Handler:        mux,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: maxHeaderBytes,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Printf("HTTP server listening on %s", cfg.HttpListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server startup failed: %v", err)
		}
		logger.Println("HTTP server stopped listening.")
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Printf("Received shutdown signal: %s, starting graceful shutdown of Ingestion Gateway...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	logger.Println("Shutting down HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("HTTP server shutdown failed: %v", err)
	} else {
		logger.Println("HTTP server shutdown.")
	}

	wg.Wait()
	logger.Println("Ingestion Gateway shutdown.")
}
