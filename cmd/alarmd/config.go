package main

import (
	"os"
	"strconv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// config holds the daemon configuration, loaded from an optional YAML
// file with environment-variable overrides.
type config struct {
	DataDir              string `yaml:"data_dir"`
	Storage              string `yaml:"storage"` // "bolt" or "json"
	SoundsDir            string `yaml:"sounds_dir"`
	SnoozeMinutes        int    `yaml:"snooze_minutes"`
	CheckIntervalSeconds int    `yaml:"check_interval_seconds"`
	RingTimeoutMinutes   int    `yaml:"ring_timeout_minutes"`
	Log                  struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // "json" or "console"
	} `yaml:"log"`
}

func defaultConfig() config {
	var cfg config
	cfg.DataDir = "data"
	cfg.Storage = "bolt"
	cfg.SoundsDir = "sounds"
	cfg.SnoozeMinutes = 9
	cfg.CheckIntervalSeconds = 30
	cfg.RingTimeoutMinutes = 5
	cfg.Log.Level = "info"
	cfg.Log.Format = "console"
	return cfg
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	cfg.DataDir = getEnv("ALARMD_DATA_DIR", cfg.DataDir)
	cfg.Storage = getEnv("ALARMD_STORAGE", cfg.Storage)
	cfg.SoundsDir = getEnv("ALARMD_SOUNDS_DIR", cfg.SoundsDir)
	cfg.SnoozeMinutes = getEnvInt("ALARMD_SNOOZE_MINUTES", cfg.SnoozeMinutes)
	cfg.CheckIntervalSeconds = getEnvInt("ALARMD_CHECK_INTERVAL_SECONDS", cfg.CheckIntervalSeconds)
	cfg.RingTimeoutMinutes = getEnvInt("ALARMD_RING_TIMEOUT_MINUTES", cfg.RingTimeoutMinutes)
	cfg.Log.Level = getEnv("ALARMD_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("ALARMD_LOG_FORMAT", cfg.Log.Format)

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func newLogger(cfg config) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch cfg.Log.Level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Log.Format == "json" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return zapCfg.Build()
}
