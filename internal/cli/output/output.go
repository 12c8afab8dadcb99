// Package output renders CLI results as tables or JSON and prints
// colorized status lines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olivier-noblanc/nps-radius-log-viewer/internal/cli/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
)

func Success(format string, a ...interface{}) {
	successColor.Printf("✓ "+format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	infoColor.Printf(format+"\n", a...)
}

func Warn(format string, a ...interface{}) {
	warnColor.Printf("⚠ "+format+"\n", a...)
}

func JSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) Render() {
	t.RenderTo(os.Stdout)
}

func (t *Table) RenderTo(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	right := t.numericColumns()

	headerColor := color.New(color.FgWhite, color.Bold)
	for i, header := range t.headers {
		fmt.Fprintf(w, "%s  ", headerColor.Sprintf("%-*s", widths[i], header))
	}
	fmt.Fprintln(w)

	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				continue
			}
			if right[i] {
				fmt.Fprintf(w, "%*s  ", widths[i], cell)
			} else {
				fmt.Fprintf(w, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w)
	}
}

// numericColumns marks columns whose every cell parses as an integer, so
// counts, codes and line numbers line up under their last digit.
func (t *Table) numericColumns() []bool {
	right := make([]bool, len(t.headers))
	for i := range t.headers {
		right[i] = len(t.rows) > 0
		for _, row := range t.rows {
			if i >= len(row) {
				right[i] = false
				break
			}
			if _, err := strconv.Atoi(row[i]); err != nil {
				right[i] = false
				break
			}
		}
	}
	return right
}
