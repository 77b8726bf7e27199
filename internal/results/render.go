package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Report formats.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []string{FormatTable, FormatCSV, FormatJSON, FormatYAML}

// Render writes the table to w in the given format.
func Render(w io.Writer, t *Table, format string) error {
	rows := t.Rows
	if rows == nil {
		rows = []Row{}
	}

	switch format {
	case "", FormatTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(Columns, "\t"))
		for _, r := range rows {
			fmt.Fprintln(tw, strings.Join(r.Cells(), "\t"))
		}
		return tw.Flush()
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(Columns); err != nil {
			return err
		}
		for _, r := range rows {
			if err := cw.Write(r.Cells()); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q (valid: %s)", format, strings.Join(Formats, ","))
	}
}

// RenderSummary writes one aligned line per experiment.
func RenderSummary(w io.Writer, sums []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "experiment\truns\ttimeouts\tmean-runtime\tmedian-runtime\tstddev-runtime\tmean-first")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%s\n",
			s.Experiment, s.Runs, s.Timeouts,
			s.MeanRuntime, s.MedianRuntime, s.StdDevRuntime,
			FormatMillis(int64(s.MeanFirstMillis)))
	}
	return tw.Flush()
}
