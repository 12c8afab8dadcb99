package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/parser"
	"github.com/olivier-noblanc/nps-radius-log-viewer/pkg/model"
)

// addFilterFlags registers the filter flags shared by query and export.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray("filter", nil, "dimension filter as dim=value; repeat for AND across dimensions, repeat the same dimension for OR")
	cmd.Flags().String("search", "", "case-insensitive substring match across display columns")
	cmd.Flags().Bool("errors-only", false, "only sessions that did not end in Access-Accept")
	cmd.Flags().String("window-center", "", `time window center, e.g. "01/02/2006 15:04:05.000"`)
	cmd.Flags().Duration("window-radius", 5*time.Minute, "time window radius around --window-center")
}

// filterSpec builds the filter spec out of the registered flags.
func filterSpec(cmd *cobra.Command) (model.FilterSpec, error) {
	var spec model.FilterSpec

	filters, _ := cmd.Flags().GetStringArray("filter")
	for _, f := range filters {
		dim, value, ok := strings.Cut(f, "=")
		if !ok {
			return spec, fmt.Errorf("invalid --filter %q: want dimension=value", f)
		}
		d := model.Dimension(strings.ToLower(strings.TrimSpace(dim)))
		if !d.IsValid() {
			return spec, fmt.Errorf("unknown dimension %q (known: %s)", dim, dimensionList())
		}
		if spec.FieldFilters == nil {
			spec.FieldFilters = make(map[model.Dimension][]string)
		}
		spec.FieldFilters[d] = append(spec.FieldFilters[d], value)
	}

	spec.TextSearch, _ = cmd.Flags().GetString("search")
	spec.ErrorsOnly, _ = cmd.Flags().GetBool("errors-only")

	if center, _ := cmd.Flags().GetString("window-center"); center != "" {
		ts, err := parser.ParseTimestamp(center)
		if err != nil {
			return spec, fmt.Errorf("invalid --window-center %q: %w", center, err)
		}
		radius, _ := cmd.Flags().GetDuration("window-radius")
		spec.TimeWindow = &model.TimeWindow{Center: ts, Radius: radius}
	}

	return spec, nil
}

func dimensionList() string {
	names := make([]string, len(model.Dimensions))
	for i, d := range model.Dimensions {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}
