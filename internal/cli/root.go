// Package cli implements the radiuslog command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/color"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/output"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/config"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/engine"
	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	log     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "radiuslog",
	Short: "NPS RADIUS log browser",
	Long: `radiuslog ingests Windows NPS RADIUS accounting logs (XML or IAS
format), reconstructs authentication sessions and answers filtered
queries over them.

Point it at a log file or a folder of logs, then query by user, MAC,
access point, server or reason code, narrow to a time window, and
export the result as XLSX or CSV.`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, reporting any failure on stderr.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		return err
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./radiuslog.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text, json")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load config: %v\n", err)
		os.Exit(1)
	}

	if v, _ := rootCmd.PersistentFlags().GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("no-color"); v {
		color.NoColor = true
	}

	log = logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefault(log)
}

func newEngine() *engine.Engine {
	return engine.New(cfg, log)
}
