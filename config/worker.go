package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// KafkaConsumerConfig defines configuration for Kafka consumer
type KafkaConsumerConfig struct {
	Brokers           []string `yaml:"brokers"`            // e.g., ["kafka1:9092", "kafka2:9092"]
	Topic             string   `yaml:"topic"`              // Topic to consume from
	GroupID           string   `yaml:"group_id"`           // Consumer group ID
	Count             int      `yaml:"count"`              // Number of consumers to create
	SessionTimeout    string   `yaml:"session_timeout"`    // Kafka session timeout
	HeartbeatInterval string   `yaml:"heartbeat_interval"` // Kafka heartbeat interval
	AutoOffsetReset   string   `yaml:"auto_offset_reset"`  // earliest/latest
}

// SetDefaults sets reasonable default values for Kafka consumer configuration
func (c *KafkaConsumerConfig) SetDefaults() {
	if c.Count <= 0 {
		c.Count = 1
		fmt.Printf("Warning: kafka_consumer.count not set or invalid, defaulting to %d\n", c.Count)
	}
	if c.SessionTimeout == "" {
		c.SessionTimeout = "30s"
		fmt.Printf("Warning: kafka_consumer.session_timeout not set, defaulting to %s\n", c.SessionTimeout)
	}
	if c.HeartbeatInterval == "" {
		c.HeartbeatInterval = "3s"
		fmt.Printf("Warning: kafka_consumer.heartbeat_interval not set, defaulting to %s\n", c.HeartbeatInterval)
	}
	if c.AutoOffsetReset == "" {
		c.AutoOffsetReset = "earliest"
		fmt.Printf("Warning: kafka_consumer.auto_offset_reset not set, defaulting to %s\n", c.AutoOffsetReset)
	}
}

// ProcessingConfig defines configuration for the processing pipeline
type ProcessingConfig struct {
	DelayPerChar        string `yaml:"delay_per_char"`        // Simulated cost per character of text
	MaxTotalDelay       string `yaml:"max_total_delay"`       // Ceiling on the simulated cost, below the execution deadline
	MaxDeliveryAttempts int    `yaml:"max_delivery_attempts"` // In-process attempts before dead-lettering
	RetryBackoff        string `yaml:"retry_backoff"`         // Delay between in-process attempts
	ConsumerRetryDelay  string `yaml:"consumer_retry_delay"`  // Delay when consumer encounters errors
	DeadLetterTopic     string `yaml:"dead_letter_topic"`     // Optional; empty disables dead-lettering
}

// SetDefaults sets reasonable default values for processing configuration
func (c *ProcessingConfig) SetDefaults() {
	if c.DelayPerChar == "" {
		c.DelayPerChar = "50ms"
		fmt.Printf("Warning: processing.delay_per_char not set, defaulting to %s\n", c.DelayPerChar)
	}
	if c.MaxTotalDelay == "" {
		c.MaxTotalDelay = "55s"
		fmt.Printf("Warning: processing.max_total_delay not set, defaulting to %s\n", c.MaxTotalDelay)
	}
	if c.MaxDeliveryAttempts <= 0 {
		c.MaxDeliveryAttempts = 3
		fmt.Printf("Warning: processing.max_delivery_attempts not set or invalid, defaulting to %d\n", c.MaxDeliveryAttempts)
	}
	if c.RetryBackoff == "" {
		c.RetryBackoff = "1s"
		fmt.Printf("Warning: processing.retry_backoff not set, defaulting to %s\n", c.RetryBackoff)
	}
	if c.ConsumerRetryDelay == "" {
		c.ConsumerRetryDelay = "5s"
		fmt.Printf("Warning: processing.consumer_retry_delay not set, defaulting to %s\n", c.ConsumerRetryDelay)
	}
}

// WorkerConfig defines all configuration for the processing worker service
type WorkerConfig struct {
	// Database Configuration
	Database DatabaseConfig `yaml:"database"`

	// Kafka Consumer Configuration
	KafkaConsumer KafkaConsumerConfig `yaml:"kafka_consumer"`

	// Processing Pipeline Configuration
	Processing ProcessingConfig `yaml:"processing"`
}

// LoadWorkerConfig loads configuration from the specified YAML file path
func LoadWorkerConfig(path string) (*WorkerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg WorkerConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	// Set default values for all configurations
	cfg.Database.SetDefaults()
	cfg.KafkaConsumer.SetDefaults()
	cfg.Processing.SetDefaults()

	// Validate database configuration
	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("database configuration error: %w", err)
	}

	return &cfg, nil
}
