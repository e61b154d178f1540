package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"TechBriefing/internal/app"
)

func newSeenCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seen",
		Short: "Inspect or edit the seen-item store",
	}
	cmd.AddCommand(newSeenListCommand(ctx))
	cmd.AddCommand(newSeenAddCommand(ctx))
	return cmd
}

func newSeenListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded links, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(cmd.Context(), ctx.config())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list seen items: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No seen items recorded")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSeenTable(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to show (0 for all)")
	return cmd
}

func newSeenAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <link>...",
		Short: "Mark links as seen so future runs skip them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.OpenStore(cmd.Context(), ctx.config())
			if err != nil {
				return err
			}
			defer store.Close()

			var errs []error
			added := 0
			for _, link := range args {
				if err := store.Add(cmd.Context(), link); err != nil {
					errs = append(errs, fmt.Errorf("add %s: %w", link, err))
					continue
				}
				added++
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d link(s) as seen\n", added)
			return errors.Join(errs...)
		},
	}
}
