// ============================================================================
// galnotes - Galactic Notes Interpreter
// ============================================================================
//
// Package:     cmd
// Description: CLI command showing every pipeline stage of a statement
// Author:      Mike Stoffels
// Created:     2026-10-14
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msto63/galnotes/foundation/galnotes"
	gnparser "github.com/msto63/galnotes/foundation/galnotes/parser"
	gntranslator "github.com/msto63/galnotes/foundation/galnotes/translator"
)

var (
	inspectExec    bool
	inspectPrelude []string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <statement>",
	Short: "Shows tokens, tree and bytecode of a statement",
	Long: `Shows what every pipeline stage makes of one statement: the tokens
with their final roles, the tree, and the generated program in generation
and in execution order.

With --exec the program is also run and the engine state is printed.
Statements given with --with are executed first, so queries can refer
to defined numerals and commodities.`,
	Example: `  galnotes inspect "glob glob Silver is 34 Credits" --with "glob is I" --exec`,
	Args:    cobra.ExactArgs(1),
	RunE:    runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectExec, "exec", false, "execute the program and print the engine state")
	inspectCmd.Flags().StringArrayVar(&inspectPrelude, "with", nil, "statement to execute first (repeatable)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg.History.Enabled = false

	s, err := newSession()
	if err != nil {
		return err
	}
	for _, line := range inspectPrelude {
		if _, err := s.Execute(cmd.Context(), line); err != nil {
			return fmt.Errorf("prelude %q: %w", line, err)
		}
	}
	return inspect(cmd, s, args[0], cmd.OutOrStdout())
}

func inspect(cmd *cobra.Command, s *galnotes.Session, line string, w io.Writer) error {
	p, err := gnparser.New(gnparser.Options{Logger: logger, Lexer: s.Lexer()})
	if err != nil {
		return err
	}
	parsed, err := p.Parse(s.Normalize(line))
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Tokens:")
	for _, tok := range parsed.Tokens {
		fmt.Fprintf(w, "  %4d  %s\n", tok.Offset, tok)
	}

	fmt.Fprintln(w, "\nTree:")
	fmt.Fprintln(w, indent(parsed.Tree.String(), "  "))

	statement, err := gntranslator.Classify(parsed.Tree)
	if err != nil {
		return err
	}
	prog, err := gntranslator.New(gntranslator.Options{
		Logger:   logger,
		Currency: cfg.Interpreter.Currency,
	}).Translate(parsed.Tree)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\nStatement: %s\n", statement)

	fmt.Fprintln(w, "\nGeneration order:")
	for i, inst := range prog.Instructions() {
		fmt.Fprintf(w, "  %2d  %s\n", i, inst)
	}
	fmt.Fprintln(w, "\nExecution order:")
	for i, l := range prog.Lines() {
		fmt.Fprintf(w, "  %2d  %s\n", i, l)
	}

	if !inspectExec {
		return nil
	}
	res, err := s.Execute(cmd.Context(), line)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nexecution failed: %v\n", err)
	} else if res.HasOutput {
		fmt.Fprintf(w, "\nOutput: %s\n", res.Output)
	}
	fmt.Fprintln(w)
	return s.Dump(w)
}
