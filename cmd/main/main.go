package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// flagOverrides holds command-line values that replace config file values
// when the matching flag was set.
type flagOverrides struct {
	configPath string
	logLevel   string
	history    string
	trace      string
	length     int
	earlyStop  bool
	seed       uint64
	output     string
}

func (f *flagOverrides) apply(cmd *cobra.Command, cfg *Config) {
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("history") {
		cfg.History.Enabled = true
		cfg.History.DatabasePath = f.history
	}
	if changed("trace") {
		cfg.Tracing.Exporter = f.trace
	}
	if changed("length") {
		cfg.Generate.Length = f.length
	}
	if changed("early-stop") {
		cfg.Generate.EarlyTermination = f.earlyStop
	}
	if changed("seed") {
		cfg.Generate.Seed = f.seed
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &flagOverrides{}
	app := &App{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:     "wordchain [flags] <file>",
		Short:   "Generate a sentence from a word-level Markov chain trained on a text file",
		Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		Args:    cobra.ExactArgs(1),
		// A corpus file must never be mistaken for a generated subcommand.
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(flags.configPath)
			if err != nil {
				return err
			}
			flags.apply(cmd, cfg)
			if err = cfg.Validate(); err != nil {
				return err
			}
			// Arguments are valid from here on; further errors are not usage errors.
			cmd.SilenceUsage = true

			app.config = cfg
			app.logger = newLogger(cfg.Log, stderr)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Generate(cmd.Context(), args[0], flags.output)
		},
	}
	rootCmd.SetErr(stderr)

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&flags.configPath, "config", "", "config file (.json, .yaml or .yml); created with defaults if missing")
	persistent.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	persistent.StringVar(&flags.history, "history", "", "record runs in this SQLite database")
	persistent.StringVar(&flags.trace, "trace", "", "trace exporter: none, stdout or otlp")

	local := rootCmd.Flags()
	local.IntVarP(&flags.length, "length", "n", 20, "number of words sampled after the first")
	local.BoolVar(&flags.earlyStop, "early-stop", false, "stop at the first word with no continuation")
	local.Uint64Var(&flags.seed, "seed", 0, "random seed; 0 picks a new one each run")
	local.StringVarP(&flags.output, "output", "o", "", "write the sentence to this file instead of stdout")

	rootCmd.AddCommand(historyCmd(app))

	return rootCmd
}

func historyCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs recorded in the history database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListHistory(cmd.Context(), limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs to list")

	return cmd
}
