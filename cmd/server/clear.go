package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VechkanovVV/webhook-repo/internal/normalizer"
	"github.com/VechkanovVV/webhook-repo/internal/service"
)

func newClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return clearEvents(cmd.Context(), *configPath)
		},
	}
}

func clearEvents(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", zap.Error(err))
		return err
	}
	defer closeStore()

	svc := service.NewEventService(repo, normalizer.New(), nil, log, cfg.Events.Limit)
	return svc.Clear(ctx)
}
