package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	Worker    *WorkerConfig
	Ingestion *IngestionConfig
}

// LoadConfig loads all configuration files from a directory
func LoadConfig(configDir string) (*Config, error) {
	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config directory: %w", err)
	}

	config := &Config{}

	// Load worker config
	workerPath := filepath.Join(absDir, "worker.defaults.yml")
	if _, err := os.Stat(workerPath); err == nil {
		workerCfg, err := LoadWorkerConfig(workerPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load worker config: %w", err)
		}
		config.Worker = workerCfg
	}

	// Load ingestion gateway config
	ingestionPath := filepath.Join(absDir, "ingestion.defaults.yml")
	if _, err := os.Stat(ingestionPath); err == nil {
		ingestionCfg, err := LoadIngestionConfig(ingestionPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load ingestion config: %w", err)
		}
		config.Ingestion = ingestionCfg
	}

	return config, nil
}
