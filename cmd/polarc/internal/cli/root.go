// Package cli implements polarc's cobra command tree, grounded on
// cmd/cue/cmd's root-command shape. It is a pure consumer of
// polar/parser and internal/core/check; it performs no checking logic of
// its own.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/polarlang/polar/internal/core/check"
	"github.com/polarlang/polar/polar/errors"
	"github.com/polarlang/polar/polar/parser"
)

// config holds the flags and optional .polarc.yaml sidecar settings that
// govern a `polarc check` invocation.
type config struct {
	JSON       bool   `yaml:"json"`
	Verbose    bool   `yaml:"verbose"`
	StopEarly  bool   `yaml:"stopEarly"`
	ConfigPath string `yaml:"-"`
}

func defaultConfig() *config {
	return &config{StopEarly: true}
}

// loadSidecar merges a .polarc.yaml file (if present) into cfg, not
// overriding flags the user already set explicitly on the command line.
func loadSidecar(cfg *config, explicit map[string]bool) error {
	if cfg.ConfigPath == "" {
		return nil
	}
	data, err := os.ReadFile(cfg.ConfigPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	fromFile := *cfg
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing %s: %w", cfg.ConfigPath, err)
	}
	if !explicit["json"] {
		cfg.JSON = fromFile.JSON
	}
	if !explicit["verbose"] {
		cfg.Verbose = fromFile.Verbose
	}
	if !explicit["stop-early"] {
		cfg.StopEarly = fromFile.StopEarly
	}
	return nil
}

// NewRootCommand builds polarc's cobra command tree.
func NewRootCommand() *cobra.Command {
	cfg := defaultConfig()
	explicit := map[string]bool{}

	root := &cobra.Command{
		Use:           "polarc",
		Short:         "polarc type-checks polar scripts using algebraic subtyping",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	checkCmd := &cobra.Command{
		Use:   "check <files...>",
		Short: "type-check one or more polar scripts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Flags().Visit(func(f *pflag.Flag) { explicit[f.Name] = true })
			if err := loadSidecar(cfg, explicit); err != nil {
				return err
			}
			return runCheck(cmd, cfg, args)
		},
	}
	checkCmd.Flags().BoolVar(&cfg.JSON, "json", false, "emit one JSON result object per script")
	checkCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "raise log verbosity to debug")
	checkCmd.Flags().BoolVar(&cfg.StopEarly, "stop-early", true, "stop at the first script that fails to check")
	checkCmd.Flags().StringVar(&cfg.ConfigPath, "config", ".polarc.yaml", "optional sidecar config file")

	root.AddCommand(checkCmd)
	return root
}

// result is one script's outcome, used for --json output.
type result struct {
	File  string `json:"file"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func runCheck(cmd *cobra.Command, cfg *config, files []string) error {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	runID := uuid.New().String()
	logger = logger.With("run_id", runID)

	p := message.NewPrinter(message.MatchLanguage("en"))

	c := check.New()
	results := make([]result, 0, len(files))
	failures := 0

	for _, file := range files {
		logger.Debug("checking script", "file", file)
		res := checkOne(c, file)
		results = append(results, res)
		if !res.OK {
			failures++
			logger.Error("type error", "file", file, "error", res.Error)
			if cfg.StopEarly {
				break
			}
			continue
		}
		logger.Info("checked ok", "file", file)
	}

	if cfg.JSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return err
			}
		}
	} else {
		p.Fprintf(cmd.OutOrStdout(), "%d script(s) checked, %d error(s)\n", len(results), failures)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d scripts failed to type-check", failures, len(results))
	}
	return nil
}

func checkOne(c *check.Checker, file string) result {
	src, err := os.ReadFile(file)
	if err != nil {
		return result{File: file, OK: false, Error: err.Error()}
	}

	astFile, err := parser.ParseFile(file, src)
	if err != nil {
		return result{File: file, OK: false, Error: err.Error()}
	}

	if err := c.CheckScript(astFile.Items); err != nil {
		if e, ok := err.(*errors.Error); ok {
			return result{File: file, OK: false, Error: fmt.Sprintf("%s: %s", e.Kind, e.Error())}
		}
		return result{File: file, OK: false, Error: err.Error()}
	}
	return result{File: file, OK: true}
}
