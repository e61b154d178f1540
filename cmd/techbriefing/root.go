package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"TechBriefing/internal/config"
	"TechBriefing/internal/logging"
)

type commandContext struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func (c *commandContext) config() config.Config {
	if c.cfg == nil {
		cfg := config.Load(c.configPath)
		c.cfg = &cfg
	}
	return *c.cfg
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		cfg := c.config()
		c.logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	return c.logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "techbriefing",
		Short:         "Turn tech news feeds into a two-host audio briefing on Telegram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path (defaults to $TECHBRIEFING_CONFIG)")

	rootCmd.AddCommand(newRunCommand(ctx))
	rootCmd.AddCommand(newScheduleCommand(ctx))
	rootCmd.AddCommand(newSeenCommand(ctx))

	return rootCmd
}
