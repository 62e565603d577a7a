package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/utpal74/ai-task-scheduler/config"
	"github.com/utpal74/ai-task-scheduler/logger"
	"go.uber.org/zap"
)

var summaryIdentity string

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Build today's summary and send it to the configured channels",
		Long: `Builds the daily summary from today's calendar events and broadcasts it
to Slack and email. Meant to be triggered by cron.

Examples:
  ai-task-scheduler summary
  ai-task-scheduler summary --identity 1099...`,
		RunE: runSummary,
	}
	cmd.Flags().StringVar(&summaryIdentity, "identity", "", "Google account id whose calendar is summarized")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.GetLogger(cfg.Env)
	defer log.Sync()
	ctx, cancel := context.WithTimeout(logger.WithLogger(cmd.Context(), log), 2*time.Minute)
	defer cancel()

	a, err := bootstrap(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	result := a.summaries.BuildDailySummary(ctx, summaryIdentity)
	if result.Degraded {
		log.Warn("summary degraded", zap.Error(result.Err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Summary)
	for _, d := range a.notifier.Broadcast(ctx, result.Summary) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", d.Channel, d.Status, d.Error)
	}
	return nil
}
