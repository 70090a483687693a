// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     cmd
// Description: CLI command for the interactive interpreter
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/galnotes/internal/tui/repl"
)

var replPrompt string

var replCmd = &cobra.Command{
	Use:     "repl",
	Aliases: []string{"shell"},
	Short:   "Starts the interactive interpreter",
	Long: `Starts the interactive interpreter.

Every line is executed against one session, so definitions stay
available until the session ends.

Keys and commands:
  Enter       execute the line
  Up/Down     input history
  PgUp/PgDn   scroll
  :state      show registers, flags and variables
  :clear      clear the transcript
  quit        end the session
  Esc/Ctrl+C  exit`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().StringVar(&replPrompt, "prompt", "", "input prompt (default from config)")
}

func runREPL(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}

	prompt := cfg.REPL.Prompt
	if replPrompt != "" {
		prompt = replPrompt
	}
	return repl.Run(repl.Config{
		Session:     s,
		Context:     cmd.Context(),
		Prompt:      prompt,
		HistorySize: cfg.REPL.HistorySize,
	})
}
