package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// KafkaProducerConfig defines configuration for Kafka producer
type KafkaProducerConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`

	// Batch processing settings
	BatchSize    int           `yaml:"batch_size"`
	BatchTimeout time.Duration `yaml:"batch_timeout"`
	BatchBytes   int           `yaml:"batch_bytes"`

	// Reliability settings
	RequiredAcks string `yaml:"required_acks"`
	Async        bool   `yaml:"async"`

	// Performance settings
	WriteTimeout time.Duration `yaml:"write_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
}

// HttpServerConfig defines HTTP server configuration
type HttpServerConfig struct {
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	MaxHeaderBytes int           `yaml:"max_header_bytes"`
}

// IngestionConfig defines all configurations required for the ingestion gateway
type IngestionConfig struct {
	HttpListenAddr string `yaml:"http_listen_addr"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"` // Request body size limit

	KafkaProducer KafkaProducerConfig `yaml:"kafka_producer"`
	HttpServer    HttpServerConfig    `yaml:"http_server"`
}

// SetDefaults sets reasonable default values for the ingestion configuration
func (c *IngestionConfig) SetDefaults() {
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 10 * 1024 * 1024 // 10MB
		fmt.Printf("Warning: max_body_bytes not set, defaulting to %d\n", c.MaxBodyBytes)
	}
}

// LoadIngestionConfig loads ingestion gateway configuration from the specified YAML file path
func LoadIngestionConfig(path string) (*IngestionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingestion config file '%s': %w", path, err)
	}

	var cfg IngestionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse ingestion YAML config file: %w", err)
	}

	cfg.SetDefaults()

	// Validation
	if cfg.HttpListenAddr == "" {
		return nil, fmt.Errorf("configuration error: http_listen_addr must be configured")
	}
	if len(cfg.KafkaProducer.Brokers) == 0 || cfg.KafkaProducer.Topic == "" {
		return nil, fmt.Errorf("configuration error: kafka_producer.brokers and kafka_producer.topic are required")
	}

	return &cfg, nil
}
