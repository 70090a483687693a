// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     cmd
// Description: CLI commands for the statement transcript
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	"github.com/msto63/galnotes/internal/history"
)

var (
	historySession    string
	historyErrorsOnly bool
	historyLimit      int
	historySince      time.Duration
	historyProgram    bool
	pruneOlderThan    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists recorded statements",
	Long: `Lists the recorded statement transcript, newest first.

Only inputs, answers and errors are recorded. Defined numerals and
commodities live in the session and are never restored.`,
	RunE: runHistory,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarizes the transcript",
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Deletes old transcript entries",
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyStatsCmd)
	historyCmd.AddCommand(historyPruneCmd)

	historyCmd.Flags().StringVarP(&historySession, "session", "s", "", "only statements of this session")
	historyCmd.Flags().BoolVarP(&historyErrorsOnly, "errors", "e", false, "only failed statements")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only statements newer than this (e.g. 24h)")
	historyCmd.Flags().BoolVar(&historyProgram, "program", false, "show the executed bytecode")

	historyPruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "age limit (default: configured retention)")
}

func requireHistory() (history.Store, error) {
	if !cfg.History.Enabled {
		return nil, gnerror.New("history is disabled").WithCode(gnerror.CodeHistoryError)
	}
	return openHistory()
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := requireHistory()
	if err != nil {
		return err
	}

	filter := history.Filter{
		SessionID:  historySession,
		ErrorsOnly: historyErrorsOnly,
		Limit:      historyLimit,
	}
	if historySince > 0 {
		filter.StartTime = time.Now().Add(-historySince)
	}
	entries, err := s.Query(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No statements recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Time", "Session", "Input", "Result", "Elapsed"})
	for _, e := range entries {
		result := e.Output
		if e.Failed() {
			result = e.ErrorCode + ": " + e.ErrorMessage
		} else if e.Halted {
			result = "(halted)"
		}
		t.AppendRow(table.Row{
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			shortID(e.SessionID),
			e.Input,
			result,
			e.Elapsed.Round(time.Microsecond),
		})
		if historyProgram && len(e.Program) > 0 {
			t.AppendRow(table.Row{"", "", strings.Join(e.Program, "\n"), "", ""})
		}
	}
	t.Render()
	return nil
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	s, err := requireHistory()
	if err != nil {
		return err
	}
	stats, err := s.Stats(cmd.Context())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle("Transcript")
	t.AppendRows([]table.Row{
		{"Statements", stats.Total},
		{"Failed", stats.Failed},
		{"Sessions", stats.Sessions},
	})
	if len(stats.ByCode) > 0 {
		t.AppendSeparator()
		codes := make([]string, 0, len(stats.ByCode))
		for code := range stats.ByCode {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			t.AppendRow(table.Row{code, stats.ByCode[code]})
		}
	}
	t.Render()
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	s, err := requireHistory()
	if err != nil {
		return err
	}
	age := pruneOlderThan
	if age <= 0 {
		age = cfg.History.Retention.Duration
	}
	n, err := s.Prune(cmd.Context(), age)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries older than %s\n", n, age)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
