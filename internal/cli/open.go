package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/output"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Ingest a log file or folder and report the result",
	Long: `Parse and correlate a log file, or every log file in a folder, and
print the ingest summary. With --append the sources are merged into the
collection built by a prior run of the same process; on its own each
invocation starts from an empty collection, so append is mostly useful
through watch mode or the summary of a folder ingest.`,
	Example: `  radiuslog open /var/log/nps/IN2409.log
  radiuslog open /var/log/nps --show-errors
  radiuslog open C:/logs/nps.xml --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng := newEngine()

		appendMode, _ := cmd.Flags().GetBool("append")
		var (
			summary *model.IngestSummary
			err     error
		)
		if appendMode {
			summary, err = eng.Append(cmd.Context(), args[0])
		} else {
			summary, err = eng.OpenSource(cmd.Context(), args[0])
		}
		if err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			return output.JSON(summary)
		}

		printSummary(summary)
		if show, _ := cmd.Flags().GetBool("show-errors"); show {
			printDiagnostics(summary)
		}
		return nil
	},
}

func printSummary(s *model.IngestSummary) {
	output.Success("Ingested %d sources in %s", len(s.Sources), s.Duration.Round(time.Millisecond))
	output.Info("  events:    %d", s.EventCount)
	output.Info("  sessions:  %d", s.SessionCount)
	output.Info("  residual:  %d", s.ResidualCount)
	if s.ErrorCount > 0 {
		output.Warn("  parse errors: %d (use --show-errors to list the first %d)", s.ErrorCount, len(s.Diagnostics))
	}
	for _, se := range s.SourceErrors {
		output.Warn("  skipped %s: %s", se.Path, se.Reason)
	}
}

func printDiagnostics(s *model.IngestSummary) {
	if len(s.Diagnostics) == 0 {
		return
	}
	t := output.NewTable([]string{"Source", "Line", "Reason"})
	for _, d := range s.Diagnostics {
		t.AddRow([]string{d.SourceFile, fmt.Sprintf("%d", d.Line), d.Reason})
	}
	t.Render()
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().Bool("append", false, "merge into the current collection instead of replacing it")
	openCmd.Flags().Bool("show-errors", false, "list retained parse errors")
	openCmd.Flags().String("output", "table", "output format: table, json")
}
