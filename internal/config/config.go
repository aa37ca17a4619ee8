// Package config loads server configuration from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SQLConnection pre-declares a relational connection initialized at startup.
type SQLConnection struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RedisConnection pre-declares a Redis connection initialized at startup.
type RedisConnection struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
}

// Config holds all configuration values.
type Config struct {
	// Logging
	LogFile  string
	LogLevel slog.Level

	// ConfigFile is the YAML file the connections were read from, if any.
	ConfigFile string

	// Optional connections established before serving
	SQL   *SQLConnection
	Redis *RedisConnection
}

// fileConfig mirrors the YAML layout.
type fileConfig struct {
	LogFile  string           `yaml:"log_file"`
	LogLevel string           `yaml:"log_level"`
	SQL      *SQLConnection   `yaml:"sql"`
	Redis    *RedisConnection `yaml:"redis"`
}

// Load reads configuration from environment variables and, when
// DBMCP_CONFIG points at a file, from that YAML file. Environment variables
// take precedence over the file.
func Load() (Config, error) {
	cfg := Config{
		LogFile:    getEnv("DBMCP_LOG_FILE", "/tmp/dbmcp.log"),
		LogLevel:   parseLogLevel(getEnv("DBMCP_LOG_LEVEL", "INFO")),
		ConfigFile: os.Getenv("DBMCP_CONFIG"),
	}
	if cfg.ConfigFile == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(cfg.ConfigFile)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := apply(&cfg, data); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", cfg.ConfigFile, err)
	}
	return cfg, nil
}

// apply merges YAML data into cfg without overriding values set in the
// environment.
func apply(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.LogFile != "" && os.Getenv("DBMCP_LOG_FILE") == "" {
		cfg.LogFile = fc.LogFile
	}
	if fc.LogLevel != "" && os.Getenv("DBMCP_LOG_LEVEL") == "" {
		cfg.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.SQL != nil && fc.SQL.URL != "" {
		cfg.SQL = fc.SQL
	}
	if fc.Redis != nil && fc.Redis.Host != "" {
		if fc.Redis.Port == 0 {
			fc.Redis.Port = 6379
		}
		cfg.Redis = fc.Redis
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
