package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathannncurtis/Study-Aggregator/internal/preflight"
)

func newPreflightCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check the environment before scanning",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)
			rows := make([][]string, 0, len(results))
			failed := false
			for _, result := range results {
				status := "OK"
				if !result.Passed {
					status = "WARN"
					failed = true
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
				{header: "Check"},
				{header: "Status"},
				{header: "Detail", maxWidth: 72},
			}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "Workers: %d\n", preflight.ResolveWorkers(cfg.Scan.MaxWorkers))

			if failed {
				return errors.New("one or more preflight checks reported warnings")
			}
			return nil
		},
	}
}
