package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/output"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export filtered sessions to XLSX or CSV",
	Long: `Ingest the given source, evaluate the filter flags, and write the
matching sessions to the output file. The format follows the file
extension: .xlsx or .csv.`,
	Example: `  radiuslog export --source /var/log/nps --out sessions.xlsx
  radiuslog export --source nps.log --errors-only --out rejects.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		out, _ := cmd.Flags().GetString("out")
		spec, err := filterSpec(cmd)
		if err != nil {
			return err
		}

		eng := newEngine()
		if _, err := eng.OpenSource(cmd.Context(), source); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		rs := eng.Evaluate(spec)
		for _, d := range rs.Diagnostics {
			output.Warn("%s", d)
		}

		if err := eng.Export(rs, out); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		output.Success("Wrote %d sessions to %s", len(rs.Sessions), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("source", "", "log file or folder to ingest (required)")
	exportCmd.Flags().String("out", "", "output file, .xlsx or .csv (required)")
	_ = exportCmd.MarkFlagRequired("source")
	_ = exportCmd.MarkFlagRequired("out")
	addFilterFlags(exportCmd)
}
