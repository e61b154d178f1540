package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"TechBriefing/internal/app"
	"TechBriefing/internal/usecase"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the briefing pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.log()
			application, err := app.New(cmd.Context(), ctx.config(), logger)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Run(cmd.Context())
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Delivered briefing %s: %d items, %d segments, %d bytes\n",
					report.RunID, report.Items, report.Segments, report.ArtifactBytes)
				return nil
			}

			if isStageFailure(err) && !strict {
				logger.Warn("run stopped early", "run_id", report.RunID, "error", err)
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when a pipeline stage fails")
	return cmd
}

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on the configured cron expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.New(cmd.Context(), ctx.config(), ctx.log())
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Schedule(cmd.Context())
		},
	}
}

func isStageFailure(err error) bool {
	return errors.Is(err, usecase.ErrGeneration) ||
		errors.Is(err, usecase.ErrNoSpeakableContent) ||
		errors.Is(err, usecase.ErrDelivery)
}
