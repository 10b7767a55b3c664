package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tenlog/config"
	"tenlog/internal/messaging/consumer"
	"tenlog/internal/messaging/producer"
	worker "tenlog/processing"
	"tenlog/storage/store"
)

// Configuration directory holding worker.defaults.yml
const configDir = "./config"

func main() {
	logger := log.New(os.Stdout, "[WORKER] ", log.LstdFlags|log.Lshortfile)
	logger.Println("Starting Processing Worker...")

	// 1. Load Worker Config
	appCfg, err := config.LoadConfig(configDir)
	if err != nil {
		logger.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	if appCfg.Worker == nil {
		logger.Fatalf("FATAL: worker.defaults.yml not found in %s", configDir)
	}
	workerCfg := appCfg.Worker

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Initialize Dependencies
	logger.Println("Initializing database connection...")
	dbStore, err := store.NewPostgresStore(ctx, workerCfg.Database.DSN, workerCfg.Database.MaxConnections, workerCfg.Database.MinConnections, logger)
	if err != nil {
		logger.Fatalf("FATAL: Failed to initialize database store: %v", err)
	}
	defer dbStore.Close()

	if err := dbStore.EnsureSchema(ctx); err != nil {
		logger.Fatalf("FATAL: Failed to ensure database schema: %v", err)
	}

	// Parse the simulated workload parameters
	delayPerChar, err := time.ParseDuration(workerCfg.Processing.DelayPerChar)
	if err != nil {
		logger.Printf("Warning: Invalid delay_per_char '%s', using default 50ms", workerCfg.Processing.DelayPerChar)
		delayPerChar = 50 * time.Millisecond
	}
	maxTotalDelay, err := time.ParseDuration(workerCfg.Processing.MaxTotalDelay)
	if err != nil {
		logger.Printf("Warning: Invalid max_total_delay '%s', using default 55s", workerCfg.Processing.MaxTotalDelay)
		maxTotalDelay = 55 * time.Second
	}
	costFn := worker.NewSimulatorCost(delayPerChar, maxTotalDelay)

	// Optional dead-letter producer for messages that exhaust their attempts
	var dlqProducer producer.Producer
	if workerCfg.Processing.DeadLetterTopic != "" {
		dlqCfg := config.KafkaProducerConfig{
			Brokers: workerCfg.KafkaConsumer.Brokers,
			Topic:   workerCfg.Processing.DeadLetterTopic,
		}
		dlqProducer, err = producer.NewKafkaProducer(dlqCfg, logger)
		if err != nil {
			logger.Fatalf("FATAL: Failed to initialize dead-letter producer: %v", err)
		}
		defer dlqProducer.Close()
	} else {
		logger.Println("dead_letter_topic not configured, exhausted messages will be nacked for redelivery.")
	}

	// 3. Initialize Multiple Consumers
	var mqConsumers []consumer.Consumer
	if len(workerCfg.KafkaConsumer.Brokers) > 0 && workerCfg.KafkaConsumer.Brokers[0] != "mock://local" {
		logger.Printf("Initializing %d Kafka message queue consumers...", workerCfg.KafkaConsumer.Count)
		for i := 0; i < workerCfg.KafkaConsumer.Count; i++ {
			kafkaConsumer, err := consumer.NewKafkaConsumer(workerCfg.KafkaConsumer, logger)
			if err != nil {
				logger.Fatalf("FATAL: Failed to initialize Kafka consumer %d: %v", i, err)
			}
			mqConsumers = append(mqConsumers, kafkaConsumer)
		}
	} else {
		logger.Println("Initializing Mock message queue consumer...")
		mqConsumers = append(mqConsumers, consumer.NewMockConsumer(logger))
	}

	// Ensure all consumers are closed on exit
	defer func() {
		for _, c := range mqConsumers {
			c.Close()
		}
	}()

	// 4. Create and Start Multiple Workers
	var wg sync.WaitGroup

	for i, mqConsumer := range mqConsumers {
		workerInstance := worker.New(workerCfg.Processing, costFn, logger, dbStore, mqConsumer, dlqProducer)

		wg.Add(1)
		go func(workerID int, w *worker.Worker) {
			defer wg.Done()
			logger.Printf("Starting worker %d with its dedicated consumer...", workerID)
			w.Run(ctx)
			logger.Printf("Worker %d stopped.", workerID)
		}(i+1, workerInstance)
	}

	logger.Printf("Processing Worker started with %d consumers. Press Ctrl+C to stop.", len(mqConsumers))

	// 5. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Println("Received shutdown signal, initiating graceful shutdown...")
	cancel()

	// Wait for all workers to finish
	logger.Println("Waiting for all workers to finish...")
	wg.Wait()

	logger.Println("Processing Worker shut down gracefully.")
}
