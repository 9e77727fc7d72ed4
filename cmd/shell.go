package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/orderlens/internal/analysis"
	"github.com/KaramelBytes/orderlens/internal/parser"
	"github.com/KaramelBytes/orderlens/internal/render"
	"github.com/KaramelBytes/orderlens/internal/session"
)

var shellFormat string

var shellCmd = &cobra.Command{
	Use:   "shell [files|globs...]",
	Short: "Explore order reports interactively",
	Long: `Start an interactive session. Reports can be loaded up front or with 'load';
SKU filters, the active view and the search term are changed with commands and
every change re-derives the pivots from the loaded rows. Type 'help' for the list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		format := shellFormat
		if !cmd.Flags().Changed("format") {
			format = c.OutputFormat
		}
		sh := &shell{
			sess:   session.New(c.Fragments(), logger),
			out:    cmd.OutOrStdout(),
			errOut: cmd.ErrOrStderr(),
			format: format,
		}
		if mode, err := analysis.ParseViewMode(c.DefaultView); err == nil {
			sh.sess.SetViewMode(mode)
		}
		if len(args) > 0 {
			if _, err := sh.exec("load " + strings.Join(args, " ")); err != nil {
				return err
			}
		}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "orderlens> ",
			HistoryFile:     c.HistoryFile,
			AutoComplete:    sh.completer(),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
			Stdout:          sh.out,
			Stderr:          sh.errOut,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize shell: %w", err)
		}
		defer func() { _ = rl.Close() }()

		_, _ = fmt.Fprintln(sh.out, "orderlens shell. Type help for commands, quit to exit")
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			quit, err := sh.exec(line)
			if err != nil {
				_, _ = fmt.Fprintf(sh.errOut, "✗ Error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringVarP(&shellFormat, "format", "f", "table", "format used by show: "+strings.Join(render.Formats, "|"))
}

// shell dispatches one command line at a time against a session.
type shell struct {
	sess   *session.Session
	out    io.Writer
	errOut io.Writer
	format string
}

// exec runs one line and reports whether the shell should exit.
func (s *shell) exec(line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "quit", "exit", ".quit", ".exit":
		return true, nil
	case "help", "?":
		printShellHelp(s.out)
	case "load":
		if rest == "" {
			return false, errors.New("usage: load <files|globs...>")
		}
		st, err := loadInto(s.sess, splitArgs(rest))
		if err != nil {
			return false, err
		}
		_, _ = fmt.Fprintf(s.out, "✓ Loaded %d rows from %d file(s)", st.Len(), len(st.Sources)-len(st.Failed()))
		if n := len(st.Failed()); n > 0 {
			_, _ = fmt.Fprintf(s.out, ", %d skipped", n)
		}
		_, _ = fmt.Fprintln(s.out)
		warnMissing(s.sess.Views())
	case "reset":
		s.sess.Reset()
		_, _ = fmt.Fprintln(s.out, "✓ Cleared rows and filters")
	case "sku":
		if rest == "" {
			return false, errors.New("usage: sku <variant id>")
		}
		if s.sess.ToggleSku(rest) {
			_, _ = fmt.Fprintf(s.out, "+ %s\n", rest)
		} else {
			_, _ = fmt.Fprintf(s.out, "- %s\n", rest)
		}
	case "product":
		if rest == "" {
			return false, errors.New("usage: product <name>")
		}
		if err := s.sess.ToggleProductByName(rest); err != nil {
			return false, err
		}
		s.printFilters()
	case "clear":
		s.sess.ClearFilters()
		_, _ = fmt.Fprintln(s.out, "✓ Filters cleared")
	case "view":
		mode, err := analysis.ParseViewMode(rest)
		if err != nil {
			return false, err
		}
		s.sess.SetViewMode(mode)
		_, _ = fmt.Fprintf(s.out, "view: %s\n", mode)
	case "search":
		s.sess.SetSearchTerm(rest)
		if rest == "" {
			_, _ = fmt.Fprintln(s.out, "search cleared")
		} else {
			_, _ = fmt.Fprintf(s.out, "search: %q\n", rest)
		}
	case "show", "ls":
		format := s.format
		if rest != "" {
			format = rest
		}
		return false, render.Write(s.out, s.sess.Views(), format)
	case "metrics":
		render.Metrics(s.out, s.sess.Views())
	case "filters":
		s.printFilters()
	case "sources":
		st := s.sess.Store()
		if len(st.Sources) == 0 {
			_, _ = fmt.Fprintln(s.out, "(no reports loaded)")
		}
		for _, src := range st.Sources {
			if src.Failed() {
				_, _ = fmt.Fprintf(s.out, "✗ %s  %s  %s\n", src.ID, src.Path, src.Err)
				continue
			}
			_, _ = fmt.Fprintf(s.out, "✓ %s  %s  %d rows\n", src.ID, src.Path, src.Rows)
		}
	case "columns":
		v := s.sess.Views()
		for _, r := range v.Resolved.Missing() {
			_, _ = fmt.Fprintf(s.out, "! %s not found (looked for %q)\n", r, v.Resolved.Column(r))
		}
		for k, col := range v.Columns {
			_, _ = fmt.Fprintf(s.out, "%s = %s\n", k, col)
		}
	default:
		return false, fmt.Errorf("unknown command: %s (type help for commands)", name)
	}
	return false, nil
}

// splitArgs splits on spaces; double quotes group a path containing spaces.
func splitArgs(line string) []string {
	var out []string
	for _, f := range parser.SplitFieldsOn(line, ' ') {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (s *shell) printFilters() {
	active := s.sess.ActiveFilter()
	if len(active) == 0 {
		_, _ = fmt.Fprintln(s.out, "filter: (all SKUs)")
		return
	}
	_, _ = fmt.Fprintf(s.out, "filter: %s\n", strings.Join(active, ", "))
}

func (s *shell) completer() *readline.PrefixCompleter {
	products := func(string) []string {
		v := s.sess.Views()
		names := make([]string, 0, len(v.All.Products))
		for _, p := range v.All.Products {
			names = append(names, p.ID)
		}
		return names
	}
	skus := func(string) []string {
		v := s.sess.Views()
		var ids []string
		for _, p := range v.All.Products {
			ids = append(ids, p.VariantIDs()...)
		}
		return ids
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("load"),
		readline.PcItem("reset"),
		readline.PcItem("sku", readline.PcItemDynamic(skus)),
		readline.PcItem("product", readline.PcItemDynamic(products)),
		readline.PcItem("clear"),
		readline.PcItem("view",
			readline.PcItem("content"),
			readline.PcItem("creator"),
			readline.PcItem("product"),
		),
		readline.PcItem("search"),
		readline.PcItem("show",
			readline.PcItem("table"),
			readline.PcItem("markdown"),
			readline.PcItem("json"),
			readline.PcItem("yaml"),
			readline.PcItem("csv"),
		),
		readline.PcItem("metrics"),
		readline.PcItem("filters"),
		readline.PcItem("sources"),
		readline.PcItem("columns"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

func printShellHelp(w io.Writer) {
	help := `
Commands:
  load <files|globs...>  Replace loaded rows with these reports ("quote paths with spaces")
  reset                  Drop all rows and filters
  sku <id>               Toggle one SKU variant in the filter
  product <name>         Toggle every variant of a product
  clear                  Clear the SKU filter
  view <mode>            Switch pivot: content|creator|product
  search [term]          Filter the pivot by id (empty clears)
  show [format]          Print the pivot (table|markdown|json|yaml|csv)
  metrics                Print global metrics
  filters                List selected SKUs
  sources                List loaded files with their ids
  columns                Show which header each field maps to
  help                   Show this help message
  quit / exit            Leave the shell
`
	_, _ = fmt.Fprintln(w, help)
}
