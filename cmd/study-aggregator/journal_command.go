package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/nathannncurtis/Study-Aggregator/internal/journal"
)

func newJournalCommand(cmdCtx *commandContext) *cobra.Command {
	journalCmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect recorded scan runs",
	}
	journalCmd.AddCommand(newJournalRunsCommand(cmdCtx))
	journalCmd.AddCommand(newJournalShowCommand(cmdCtx))
	return journalCmd
}

func (c *commandContext) withJournal(fn func(*journal.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, closeLogs := c.buildLogger(cfg)
	defer closeLogs()

	store, err := journal.Open(cfg.Paths.JournalPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newJournalRunsCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent scan runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withJournal(func(store *journal.Store) error {
				summaries, err := store.RecentRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(summaries))
				for _, summary := range summaries {
					rows = append(rows, []string{
						summary.RunID,
						summary.Started.Local().Format(time.RFC3339),
						strconv.Itoa(summary.Archives),
						strconv.Itoa(summary.Records),
						strconv.Itoa(summary.Failures),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
					{header: "Run"},
					{header: "Started"},
					{header: "Archives", align: alignRight},
					{header: "Records", align: alignRight},
					{header: "Failures", align: alignRight},
				}, rows))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum runs to list")
	return cmd
}

func newJournalShowCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the archive outcomes of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withJournal(func(store *journal.Store) error {
				events, err := store.RunEvents(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if len(events) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No events recorded for run %s\n", args[0])
					return nil
				}
				rows := make([][]string, 0, len(events))
				for _, event := range events {
					rows = append(rows, []string{
						event.ArchivePath,
						event.Status,
						strconv.Itoa(event.Records),
						event.Note,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
					{header: "Archive"},
					{header: "Status"},
					{header: "Records", align: alignRight},
					{header: "Note", maxWidth: 72},
				}, rows))
				return nil
			})
		},
	}
}
