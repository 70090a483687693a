package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	gnerror "github.com/msto63/galnotes/foundation/core/error"
	gnlog "github.com/msto63/galnotes/foundation/core/log"
	"github.com/msto63/galnotes/foundation/galnotes"
	"github.com/msto63/galnotes/internal/watch"
)

var (
	runStrict bool
	runWatch  bool
)

var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Executes note files line by line",
	Long: `Executes every non-blank line of the given files, or of stdin when no
file is given. Answers go to stdout, failed statements are reported on
stderr and execution continues with the next line. A quit statement ends
the file.

Files share one session, so definitions made in one file are visible in
the next. With --watch every written file is executed again in a fresh
session until interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runStrict, "strict", false, "exit with status 1 when a statement failed")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run files when they change")
}

// runStats counts the statements of one run
type runStats struct {
	executed int
	failed   int
	halted   bool
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	if len(args) == 0 {
		if runWatch {
			return gnerror.New("--watch needs at least one file").WithCode(gnerror.CodeInvalidInput)
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		stats, err := runLines(ctx, s, cmd.InOrStdin(), "stdin", out, errOut)
		if err != nil {
			return err
		}
		return strictResult(stats)
	}

	s, err := newSession()
	if err != nil {
		return err
	}
	var total runStats
	for _, path := range args {
		stats, err := runFile(ctx, s, path, out, errOut)
		if err != nil {
			return err
		}
		total.executed += stats.executed
		total.failed += stats.failed
		if stats.halted {
			break
		}
	}

	if runWatch {
		return watchFiles(ctx, args, out, errOut)
	}
	return strictResult(total)
}

func strictResult(stats runStats) error {
	if runStrict && stats.failed > 0 {
		return fmt.Errorf("%d of %d statements failed", stats.failed, stats.executed)
	}
	return nil
}

func runFile(ctx context.Context, s *galnotes.Session, path string, out, errOut io.Writer) (runStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return runStats{}, gnerror.Wrap(err, "failed to open notes").
			WithCode(gnerror.CodeInvalidInput).
			WithDetail("path", path)
	}
	defer f.Close()
	return runLines(ctx, s, f, path, out, errOut)
}

// runLines executes every non-blank line read from r. Statement errors are
// reported and counted, only read errors are returned.
func runLines(ctx context.Context, s *galnotes.Session, r io.Reader, name string, out, errOut io.Writer) (runStats, error) {
	var stats runStats
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		stats.executed++
		res, err := s.Execute(ctx, line)
		if err != nil {
			stats.failed++
			fmt.Fprintf(errOut, "%s:%d: %v\n", name, lineNo, err)
			continue
		}
		if res.HasOutput {
			fmt.Fprintln(out, res.Output)
		}
		if res.Halted {
			stats.halted = true
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, gnerror.Wrap(err, "failed to read notes").
			WithCode(gnerror.CodeInvalidInput).
			WithDetail("source", name)
	}
	return stats, nil
}

func watchFiles(ctx context.Context, paths []string, out, errOut io.Writer) error {
	w, err := watch.New(watch.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer w.Close()

	for _, path := range paths {
		if err := w.Add(path); err != nil {
			return err
		}
	}
	fmt.Fprintf(errOut, "watching %d file(s), press Ctrl+C to stop\n", len(paths))

	return w.Run(ctx, func(ctx context.Context, path string) {
		s, err := newSession()
		if err != nil {
			printError("creating session", err)
			return
		}
		fmt.Fprintf(out, "--- %s\n", path)
		stats, err := runFile(ctx, s, path, out, errOut)
		if err != nil {
			printError("running "+path, err)
			return
		}
		logger.Info("file executed", gnlog.Fields{
			"path":     path,
			"executed": stats.executed,
			"failed":   stats.failed,
		})
	})
}
