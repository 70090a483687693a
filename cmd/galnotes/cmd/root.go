package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	gnlog "github.com/msto63/galnotes/foundation/core/log"
	"github.com/msto63/galnotes/foundation/galnotes"
	gnlexer "github.com/msto63/galnotes/foundation/galnotes/lexer"
	"github.com/msto63/galnotes/internal/history"
	"github.com/msto63/galnotes/pkg/core/config"
	"github.com/msto63/galnotes/pkg/core/logging"
)

var (
	cfgFile    string
	verbose    bool
	ignoreCase bool
	rulesFile  string
	currency   string
	logLevel   string
	logFormat  string
	noHistory  bool
)

// Loaded by the persistent pre-run hook
var (
	cfg    *config.Config
	logger *gnlog.Logger
	store  history.Store
)

var rootCmd = &cobra.Command{
	Use:   "galnotes",
	Short: "Galactic notes interpreter",
	Long: `galnotes interprets notes about intergalactic trade.

Numeral words are defined as aliases of Roman numerals, commodity prices
are derived from quantities and credit amounts, and questions are answered
in numbers:

  glob is I
  prok is V
  glob glob Silver is 34 Credits
  how much is prok glob ?
  how many Credits is glob prok Silver ?
  quit`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $"+config.EnvConfig+" or ./configs/galnotes.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.BoolVar(&ignoreCase, "ignore-case", false, "upper-case every line (selects the upper-case rule table unless --rules is set)")
	flags.StringVar(&rulesFile, "rules", "", "YAML rule table replacing the built-in one")
	flags.StringVar(&currency, "currency", "", "name of the currency unit")
	flags.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "", "log format (text, json, logfmt)")
	flags.BoolVar(&noHistory, "no-history", false, "do not record statements")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("ignore-case") {
		cfg.Interpreter.IgnoreCase = ignoreCase
	}
	if flags.Changed("rules") {
		cfg.Interpreter.RulesFile = rulesFile
	}
	if flags.Changed("currency") {
		cfg.Interpreter.Currency = currency
	}
	if flags.Changed("log-level") {
		cfg.General.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		cfg.General.LogFormat = logFormat
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.NewLogger(logging.LoggerConfig{
		ServiceName: cfg.General.Name,
		Level:       cfg.General.LogLevel,
		Format:      cfg.General.LogFormat,
		Output:      os.Stderr,
	})
	gnlog.SetDefault(logger)
	return nil
}

// openHistory opens the transcript store once per process. It returns nil
// when recording is disabled.
func openHistory() (history.Store, error) {
	if store != nil || !cfg.History.Enabled {
		return store, nil
	}
	s, err := history.NewSQLiteStore(history.SQLiteConfig{Path: cfg.History.Path})
	if err != nil {
		return nil, err
	}
	atexit.Register(func() {
		if err := s.Close(); err != nil {
			logger.WarnWithErr("closing history failed", err)
		}
	})
	store = s
	return store, nil
}

// newSession builds a session from the loaded configuration
func newSession() (*galnotes.Session, error) {
	opts := galnotes.Options{
		Logger:         logger,
		IgnoreCase:     cfg.Interpreter.IgnoreCase,
		Currency:       cfg.Interpreter.Currency,
		MaxInputLength: cfg.Interpreter.MaxInputLength,
	}
	if cfg.Interpreter.RulesFile != "" {
		rules, err := gnlexer.LoadRules(cfg.Interpreter.RulesFile)
		if err != nil {
			return nil, err
		}
		opts.Rules = rules
	}

	s, err := openHistory()
	if err != nil {
		logger.WarnWithErr("history disabled", err, gnlog.Fields{"path": cfg.History.Path})
	} else if s != nil {
		opts.Recorder = history.NewRecorder(s)
	}
	return galnotes.NewSession(opts)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
