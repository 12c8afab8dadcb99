package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/output"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

var valuesCmd = &cobra.Command{
	Use:   "values <dimension>",
	Short: "List the distinct values of one dimension",
	Long: `Ingest the given source and print every value the collection holds
for the dimension, sorted. Handy for building --filter flags.`,
	Example: `  radiuslog values user --source /var/log/nps
  radiuslog values reason_code --source nps.log --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")

		eng := newEngine()
		if _, err := eng.OpenSource(cmd.Context(), source); err != nil {
			return fmt.Errorf("ingest failed: %w", err)
		}

		vals, err := eng.DimensionValues(model.Dimension(args[0]))
		if err != nil {
			return fmt.Errorf("%w (known: %s)", err, dimensionList())
		}

		if format, _ := cmd.Flags().GetString("output"); format == "json" {
			return output.JSON(vals)
		}
		for _, v := range vals {
			fmt.Println(v)
		}
		output.Info("%d distinct values", len(vals))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(valuesCmd)

	valuesCmd.Flags().String("source", "", "log file or folder to ingest (required)")
	_ = valuesCmd.MarkFlagRequired("source")
	valuesCmd.Flags().String("output", "table", "output format: table, json")
}
