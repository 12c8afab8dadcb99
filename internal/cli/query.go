package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/output"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query reconstructed sessions",
	Long: `Ingest the given source, then evaluate the filter flags against the
session collection. Filters on different dimensions must all match;
repeating --filter for the same dimension accepts any of the values.`,
	Example: `  radiuslog query --source /var/log/nps --filter user=jdoe
  radiuslog query --source nps.log --filter reason_code=16 --filter reason_code=22
  radiuslog query --source nps.log --errors-only --search "AP-EAST"
  radiuslog query --source nps.log --window-center "09/14/2025 08:30:00.000" --window-radius 2m
  radiuslog query --source nps.log --output json | jq .sessions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		spec, err := filterSpec(cmd)
		if err != nil {
			return err
		}

		eng := newEngine()
		if _, err := eng.OpenSource(cmd.Context(), source); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		rs := eng.Evaluate(spec)

		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			return output.JSON(rs)
		}

		for _, d := range rs.Diagnostics {
			output.Warn("%s", d)
		}

		limit, _ := cmd.Flags().GetInt("limit")
		printResults(rs, limit)
		return nil
	},
}

func printResults(rs *model.ResultSet, limit int) {
	shown := rs.Sessions
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}

	t := output.NewTable(model.Columns)
	for _, s := range shown {
		t.AddRow(model.Row(s))
	}
	t.Render()

	if len(shown) < len(rs.Sessions) {
		output.Info("%d of %d matching sessions shown (of %d total); raise --limit to see more", len(shown), len(rs.Sessions), rs.Total)
	} else {
		output.Info("%d matching sessions (of %d total)", len(rs.Sessions), rs.Total)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().String("source", "", "log file or folder to ingest (required)")
	_ = queryCmd.MarkFlagRequired("source")
	addFilterFlags(queryCmd)
	queryCmd.Flags().Int("limit", 100, "maximum rows to print; 0 means all")
	queryCmd.Flags().String("output", "table", "output format: table, json")
}
