package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/VechkanovVV/webhook-repo/internal/samples"
)

func newSendSamplesCmd(configPath *string) *cobra.Command {
	var (
		url        string
		delay      time.Duration
		clearFirst bool
	)

	cmd := &cobra.Command{
		Use:   "send-samples",
		Short: "Send sample push, pull request and merge notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if clearFirst {
				if err := clearEvents(ctx, *configPath); err != nil {
					return err
				}
			}

			_, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			_, err = samples.NewSender(url, delay, log).SendAll(ctx)
			return err
		},
	}
	cmd.Flags().StringVar(&url, "url", samples.DefaultURL, "Webhook endpoint URL")
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "Pause between notifications")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Delete stored events before sending")

	return cmd
}
