// Package config provides configuration management for the forest module.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Forest     ForestConfig     `mapstructure:"forest"`
	Adapt      AdaptConfig      `mapstructure:"adapt"`
	Checkpoint CheckpointConfig `mapstructure:"checkpoint"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
	Log        LogConfig        `mapstructure:"log"`
}

// ForestConfig holds uniform-construction and per-class level defaults.
type ForestConfig struct {
	DefaultClass string `mapstructure:"default_class"`
	MaxLevel     int    `mapstructure:"max_level"`
	UniformLevel int    `mapstructure:"uniform_level"`
}

// AdaptConfig holds defaults for the adapt engine.
type AdaptConfig struct {
	Recursive   bool `mapstructure:"recursive"`
	Parallelism int  `mapstructure:"parallelism"`
}

// CheckpointConfig holds database and object-storage backend selection for
// the checkpoint/restore extension.
type CheckpointConfig struct {
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// DatabaseConfig holds snapshot-repository connection configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres, or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds blob-store backend configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`
	Scheme    string `mapstructure:"scheme"`
	LocalPath string `mapstructure:"local_path"`
}

// TelemetryConfig holds the on/off and naming settings, which Load
// seeds with defaults. Package telemetry does not read this struct; it
// takes all of its settings from the OTEL_* environment variables.
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
}

// Load reads configuration from the specified file path, falling back to
// defaults when no file is present, then overlays environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/forest")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("FOREST")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from in-memory content (useful for
// testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("forest.default_class", "quad")
	v.SetDefault("forest.max_level", 29)
	v.SetDefault("forest.uniform_level", 3)

	v.SetDefault("adapt.recursive", false)
	v.SetDefault("adapt.parallelism", 1)

	v.SetDefault("checkpoint.database.type", "sqlite")
	v.SetDefault("checkpoint.database.max_conns", 10)
	v.SetDefault("checkpoint.storage.type", "local")
	v.SetDefault("checkpoint.storage.local_path", "./checkpoints")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "forest")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Checkpoint.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Checkpoint.Database.Type)
	}
	switch c.Checkpoint.Storage.Type {
	case "cos", "local":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Checkpoint.Storage.Type)
	}
	if c.Adapt.Parallelism < 0 {
		return fmt.Errorf("adapt parallelism must be >= 0")
	}
	return nil
}
