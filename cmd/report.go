package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/orderlens/internal/analysis"
	"github.com/KaramelBytes/orderlens/internal/render"
	"github.com/KaramelBytes/orderlens/internal/session"
	"github.com/KaramelBytes/orderlens/internal/store"
	"github.com/KaramelBytes/orderlens/internal/utils"
)

var (
	repView     string
	repSKUs     []string
	repProducts []string
	repSearch   string
	repFormat   string
	repOutput   string
	repLimit    int
)

var reportCmd = &cobra.Command{
	Use:   "report <files|globs...>",
	Short: "Aggregate order reports and print one pivot",
	Long: `Load one or more order attribution reports and print the content, creator or
product pivot. Globs like 'exports/**/*.csv' are expanded; files that fail to
parse are skipped with a warning. Global metrics always cover every loaded row,
while the pivot honours --sku/--product filters and --search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		view := repView
		if !cmd.Flags().Changed("view") {
			view = c.DefaultView
		}
		mode, err := analysis.ParseViewMode(view)
		if err != nil {
			return err
		}
		format := repFormat
		if !cmd.Flags().Changed("format") {
			format = c.OutputFormat
		}

		sess := session.New(c.Fragments(), logger)
		st, err := loadInto(sess, args)
		if err != nil {
			return err
		}
		if len(st.Sources) > 0 && len(st.Failed()) == len(st.Sources) {
			return fmt.Errorf("no report could be parsed (%d failed)", len(st.Sources))
		}

		for _, id := range repSKUs {
			sess.ToggleSku(id)
		}
		for _, name := range repProducts {
			if err := sess.ToggleProductByName(name); err != nil {
				return err
			}
		}
		sess.SetViewMode(mode)
		sess.SetSearchTerm(repSearch)

		v := sess.Views()
		warnMissing(v)
		v.Truncate(repLimit)

		if repOutput == "" {
			return render.Write(cmd.OutOrStdout(), v, format)
		}
		var buf bytes.Buffer
		if err := render.Write(&buf, v, format); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(repOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report to %s\n", v.ModeName, repOutput)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repView, "view", "v", "content", "pivot to show: content|creator|product")
	reportCmd.Flags().StringArrayVar(&repSKUs, "sku", nil, "toggle a SKU variant id in the filter (repeatable)")
	reportCmd.Flags().StringArrayVar(&repProducts, "product", nil, "toggle every variant of the named product (repeatable)")
	reportCmd.Flags().StringVarP(&repSearch, "search", "s", "", "case-insensitive substring match on the pivot id")
	reportCmd.Flags().StringVarP(&repFormat, "format", "f", "table", "output format: "+strings.Join(render.Formats, "|"))
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write the report to a file instead of stdout")
	reportCmd.Flags().IntVar(&repLimit, "limit", 0, "show at most N items (0 = all)")
}

// loadInto expands patterns and replaces the session's rows with the result.
func loadInto(sess *session.Session, patterns []string) (*store.Store, error) {
	paths, err := store.Expand(patterns)
	if err != nil {
		return nil, err
	}
	logger.Debug("expanded inputs", "patterns", len(patterns), "files", len(paths))
	return sess.Upload(paths), nil
}

func warnMissing(v *analysis.Views) {
	if v.TotalRows == 0 {
		return
	}
	for _, r := range v.Resolved.Missing() {
		logger.Warn("column not found, values will be empty", "role", r.String(), "fragment", v.Resolved.Column(r))
	}
}
