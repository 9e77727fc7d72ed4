// Package render writes derived views in the supported output formats.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/orderlens/internal/analysis"
	"github.com/KaramelBytes/orderlens/internal/utils"
)

// Formats lists the accepted values of Write's format argument.
var Formats = []string{"table", "markdown", "json", "yaml", "csv"}

var (
	bannerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Write renders v to w in the given format. An empty format means table.
func Write(w io.Writer, v *analysis.Views, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "table":
		return renderTable(w, v)
	case "md", "markdown":
		_, err := io.WriteString(w, v.Markdown())
		return err
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "csv":
		return renderCSV(w, v)
	default:
		return fmt.Errorf("unknown format %q (use %s)", format, strings.Join(Formats, "|"))
	}
}

// Metrics prints the global metrics banner on its own.
func Metrics(w io.Writer, v *analysis.Views) {
	m := v.Metrics
	_, _ = fmt.Fprintln(w, bannerStyle.Render(fmt.Sprintf(
		"Orders %d · Units %d · Contents %d · Creators %d", m.Orders, m.Quantity, m.Contents, m.Creators)))
	rows := fmt.Sprintf("%d rows", v.TotalRows)
	if v.FilteredRows < v.TotalRows {
		rows = fmt.Sprintf("%d of %d rows", v.FilteredRows, v.TotalRows)
	}
	if n := v.Files(); n > 0 {
		rows += fmt.Sprintf(" from %d %s", n, plural("file", n))
	}
	filter := "all SKUs"
	if len(v.ActiveSKUs) > 0 {
		filter = strings.Join(v.ActiveSKUs, ", ")
	}
	c := v.Counts
	_, _ = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s · view %s · filter: %s", rows, v.ModeName, filter)))
	_, _ = fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(
		"content %d · creator %d · product %d", c.Contents, c.Creators, c.Products)))
}

func renderTable(w io.Writer, v *analysis.Views) error {
	Metrics(w, v)
	header, rows := records(v, "\n")
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(no matches)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	hr := make(table.Row, len(header))
	for i, h := range header {
		hr[i] = h
	}
	t.AppendHeader(hr)
	for _, rec := range rows {
		r := make(table.Row, len(rec))
		for i, c := range rec {
			r[i] = c
		}
		t.AppendRow(r)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d %s)\n", len(rows), plural(v.ModeName, len(rows)))
	return nil
}

func renderCSV(w io.Writer, v *analysis.Views) error {
	header, rows := records(v, " ")
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// records flattens the active pivot into a header and string rows. sep
// joins the URLs of a top-contents list within one cell.
func records(v *analysis.Views, sep string) ([]string, [][]string) {
	itoa := strconv.Itoa
	join := analysis.JoinQuantities
	urls := func(list []analysis.Quantity) string {
		out := make([]string, 0, len(list))
		for _, q := range list {
			if q.URL != "" {
				out = append(out, q.URL)
			}
		}
		return strings.Join(out, sep)
	}
	switch v.Mode {
	case analysis.ViewCreator:
		out := make([][]string, 0, len(v.Creators))
		for _, c := range v.Creators {
			out = append(out, []string{c.ID, itoa(c.Orders), itoa(c.TotalQty),
				itoa(len(c.ContentIDs)), join(c.TopSKUs), join(c.TopContents), urls(c.TopContents)})
		}
		return []string{"Creator", "Orders", "Units", "Contents", "Top SKUs", "Top contents", "Top content URLs"}, out
	case analysis.ViewProduct:
		out := make([][]string, 0, len(v.Products))
		for _, p := range v.Products {
			out = append(out, []string{p.ID, string(p.Selected), itoa(p.Orders), itoa(p.TotalQty),
				join(p.Variants), join(p.TopContents), urls(p.TopContents)})
		}
		return []string{"Product", "Selected", "Orders", "Units", "Variants", "Top contents", "Top content URLs"}, out
	default:
		out := make([][]string, 0, len(v.Contents))
		for _, c := range v.Contents {
			out = append(out, []string{c.ID, c.URL, c.Creator, itoa(c.Orders), itoa(c.TotalQty), join(c.SKUs)})
		}
		return []string{"Content", "URL", "Creator", "Orders", "Units", "SKUs"}, out
	}
}

func plural(mode string, n int) string {
	if n == 1 {
		return mode
	}
	return mode + "s"
}
