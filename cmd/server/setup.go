package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/config"
	"github.com/VechkanovVV/webhook-repo/internal/logger"
)

// setup загружает конфигурацию и создаёт логгер.
func setup(configPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating logger failed: %w", err)
	}

	for _, w := range cfg.Warnings {
		log.Warn("config value replaced by default", zap.String("detail", w))
	}
	return cfg, log, nil
}
