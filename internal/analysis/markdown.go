package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact report of the active pivot suitable for
// pasting into docs or chat.
func (v *Views) Markdown() string {
	var b strings.Builder
	b.WriteString("[ATTRIBUTION SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Orders: %d\n", v.Metrics.Orders))
	b.WriteString(fmt.Sprintf("Units: %d\n", v.Metrics.Quantity))
	b.WriteString(fmt.Sprintf("Contents: %d\n", v.Metrics.Contents))
	b.WriteString(fmt.Sprintf("Creators: %d\n", v.Metrics.Creators))
	if v.FilteredRows < v.TotalRows {
		b.WriteString(fmt.Sprintf("Rows: %d (filtered from %d)\n", v.FilteredRows, v.TotalRows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", v.TotalRows))
	}
	if n := v.Files(); n > 0 {
		b.WriteString(fmt.Sprintf("Files: %d\n", n))
	}
	b.WriteString(fmt.Sprintf("Pivots: %d contents, %d creators, %d products\n",
		v.Counts.Contents, v.Counts.Creators, v.Counts.Products))

	b.WriteString("\n[ACTIVE FILTER]\n")
	if len(v.ActiveSKUs) == 0 {
		b.WriteString("(all SKUs)\n")
	} else {
		for _, s := range v.ActiveSKUs {
			b.WriteString("- ")
			b.WriteString(safeVal(s))
			b.WriteString("\n")
		}
	}
	if v.Search != "" {
		b.WriteString(fmt.Sprintf("Search: %q\n", v.Search))
	}

	switch v.Mode {
	case ViewCreator:
		b.WriteString("\n[BY CREATOR]\n")
		b.WriteString("| Creator | Orders | Units | Contents | Top SKUs | Top contents |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
		for _, c := range v.Creators {
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %s | %s |\n",
				safeVal(c.ID), c.Orders, c.TotalQty, len(c.ContentIDs), joinQty(c.TopSKUs), joinLinks(c.TopContents)))
		}
	case ViewProduct:
		b.WriteString("\n[BY PRODUCT]\n")
		b.WriteString("| Product | Orders | Units | Variants | Top contents |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, p := range v.Products {
			name := safeVal(p.ID)
			if p.Selected == SelectedAll {
				name += " ✓"
			}
			b.WriteString(fmt.Sprintf("| %s | %d | %d | %s | %s |\n",
				name, p.Orders, p.TotalQty, joinQty(p.Variants), joinLinks(p.TopContents)))
		}
	default:
		b.WriteString("\n[BY CONTENT]\n")
		b.WriteString("| Content | Creator | Orders | Units | SKUs |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, c := range v.Contents {
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %s |\n",
				link(c.ID, c.URL), safeVal(c.Creator), c.Orders, c.TotalQty, joinQty(c.SKUs)))
		}
	}
	if v.Len() == 0 {
		b.WriteString("(no matches)\n")
	}
	return b.String()
}

// JoinQuantities formats a breakdown as "id(qty), id(qty)".
func JoinQuantities(list []Quantity) string { return joinQty(list) }

func joinQty(list []Quantity) string {
	parts := make([]string, len(list))
	for i, q := range list {
		parts[i] = fmt.Sprintf("%s(%d)", safeVal(q.ID), q.Qty)
	}
	return strings.Join(parts, ", ")
}

// joinLinks is joinQty with content ids rendered as Markdown links.
func joinLinks(list []Quantity) string {
	parts := make([]string, len(list))
	for i, q := range list {
		parts[i] = fmt.Sprintf("%s(%d)", link(q.ID, q.URL), q.Qty)
	}
	return strings.Join(parts, ", ")
}

func link(id, url string) string {
	if url == "" {
		return safeVal(id)
	}
	return fmt.Sprintf("[%s](%s)", safeVal(id), url)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
