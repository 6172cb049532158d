// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the tableview command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tableview/config"
	"tableview/logging"
	"tableview/source"
	"tableview/tabular"
	"tableview/windows"
)

var (
	cfgFile     string
	verbose     bool
	pollTimeout time.Duration
	pipedName   string
)

// exitCode carries a process exit status out of RunE without an error
// message; the user has already seen the error in the window.
type exitCode int

func (c exitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(c))
}

var rootCmd = &cobra.Command{
	Use:   "tableview [path-or-sheet-arg] [table-or-sheet-selector]",
	Short: "View tabular data in an interactive table",
	Long: `tableview shows CSV, TSV, Excel (xlsx, xls), OpenDocument (ods), SQLite,
Parquet and JSON data in a sortable, filterable table.

Data comes from, in order of precedence:
  - the file named by the first argument,
  - CSV text piped to standard input,
  - a file picked in the file dialog.

For workbooks and databases the second argument selects one sheet or table,
either by exact name or by zero-based index. Without it every sheet or table
is opened in its own tab.

Examples:
  tableview sales.xlsx             # every sheet
  tableview sales.xlsx 1           # the second sheet
  tableview app.db users           # the users table
  ps aux | tr -s ' ' , | tableview # piped CSV`,
	Args:          cobra.MaximumNArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runView,
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var code exitCode
	if errors.As(err, &code) {
		os.Exit(int(code))
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath(),
		"Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.Flags().DurationVar(&pollTimeout, "poll-timeout", 0,
		"How long to wait for piped data at startup (overrides stdin.poll_timeout)")
	rootCmd.Flags().StringVar(&pipedName, "name", "",
		"Title for piped data")
}

// loadConfig reads the configuration file and applies the flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("poll-timeout") {
		if pollTimeout < 0 {
			return nil, fmt.Errorf("--poll-timeout must be non-negative, got %s", pollTimeout)
		}
		cfg.Stdin.PollTimeout = pollTimeout
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	log.Debug("starting", "version", Version, "commit", CommitID, "args", args, "config", cfgFile)

	loader := tabular.NewLoader(
		tabular.WithLogger(log),
		tabular.WithSQLiteTimeout(cfg.SQLite.LoadTimeout),
	)
	mw := windows.NewMainWindow(cfg, loader, log)

	resolver := source.NewResolver(mw.FileDialog())
	resolver.PollTimeout = cfg.Stdin.PollTimeout
	resolver.RecheckTimeout = cfg.Stdin.RecheckTimeout
	resolver.Name = pipedName
	resolver.Logger = log

	code := mw.Run(func(ctx context.Context) (source.Source, error) {
		return resolver.Resolve(ctx, args)
	})
	if code != 0 {
		return exitCode(code)
	}
	return nil
}
