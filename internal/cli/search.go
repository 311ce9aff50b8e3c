package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/pipeline"
)

// searchOpts holds the command-line flags for the search command that are
// not pipeline options.
type searchOpts struct {
	output      string // search document path
	renderDir   string // directory for per-class drawings
	formats     string // drawing formats
	interactive bool   // browse the classes in a TUI
}

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		flags searchOpts
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "search [tree.json|-]",
		Short: "Find the labelings of a tree shape with the best budget curve",
		Long: `Find the labelings of a tree shape with the best budget curve.

Every way of assigning the given cost multiset and prize multiset to the
non-root nodes is scored by the area under its budget curve. The labelings
with the best area are grouped by isomorphism and one representative per
class is reported.

Without --costs and --prizes the labels already present in the tree are
rearranged. Flags left unset fall back to the [search] section of the
config file.

Examples:
  csmtree search shape.json --costs 1,1,2,3 --prizes 1,2,2,5
  csmtree search shape.json --costs 1,1,2,3 --prizes 1,2,2,5 --objective max -i
  csmtree generate 6 --zero | csmtree search - --costs 1,2,3,4,5 --prizes 5,4,3,2,1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			merged := searchDefaults(cfg.Search)
			merged.Costs = opts.Costs
			merged.Prizes = opts.Prizes
			merged.Refresh = opts.Refresh
			f := cmd.Flags()
			if f.Changed("objective") {
				merged.Objective = opts.Objective
			}
			if f.Changed("max-candidates") {
				merged.MaxCandidates = opts.MaxCandidates
			}
			if f.Changed("max-subtrees") {
				merged.MaxSubtrees = opts.MaxSubtrees
			}
			if f.Changed("workers") {
				merged.Workers = opts.Workers
			}
			if f.Changed("dedup-before") {
				merged.DedupBeforeScoring = opts.DedupBeforeScoring
			}
			if flags.renderDir != "" {
				if err := pipeline.ValidateFormats(parseFormats(flags.formats)); err != nil {
					return err
				}
			}
			return c.runSearch(cmd.Context(), args[0], merged, flags)
		},
	}

	cmd.Flags().IntSliceVar(&opts.Costs, "costs", nil, "cost multiset, one entry per non-root node (comma-separated)")
	cmd.Flags().IntSliceVar(&opts.Prizes, "prizes", nil, "prize multiset, one entry per non-root node (comma-separated)")
	cmd.Flags().StringVar(&opts.Objective, "objective", pipeline.DefaultObjective, "optimization direction: minimize or maximize")
	cmd.Flags().IntVar(&opts.MaxCandidates, "max-candidates", pipeline.DefaultMaxCandidates, "reject searches with more candidate labelings (-1 disables)")
	cmd.Flags().IntVar(&opts.MaxSubtrees, "max-subtrees", pipeline.DefaultMaxSubtrees, "reject shapes with more root-containing subtrees (-1 disables)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "scoring goroutines (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.DedupBeforeScoring, "dedup-before", false, "score each isomorphism class once")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if a cached result exists")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write the search document to a JSON file (- for stdout)")
	cmd.Flags().StringVar(&flags.renderDir, "render", "", "draw every optimal labeling into this directory")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "drawing format(s) for --render: svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "browse the optimal labelings interactively")

	return cmd
}

func (c *CLI) runSearch(ctx context.Context, input string, opts pipeline.Options, flags searchOpts) error {
	logger := loggerFromContext(ctx)

	t, err := readTree(input)
	if err != nil {
		return err
	}
	if len(opts.Costs) == 0 && len(opts.Prizes) == 0 {
		l := t.Labeling()
		opts.Costs, opts.Prizes = l.Costs, l.Prizes
		logger.Debug("Using the tree's own labels", "costs", opts.Costs, "prizes", opts.Prizes)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Searching labelings...")
	opts.Progress = func(done, total uint64) {
		spinner.SetMessage(fmt.Sprintf("Searching labelings... %d/%d", done, total))
	}
	spinner.Start()
	prog := newProgress(logger)

	res, err := runner.Search(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Search failed")
		return fmt.Errorf("search: %w", err)
	}
	spinner.Stop()
	if !res.CacheInfo.Hit {
		prog.done(fmt.Sprintf("Scored %d labelings", res.Stats.Evaluated))
	}

	if flags.output == stdio {
		return writeJSONOutput(flags.output, res.Doc)
	}

	printSuccess("Best labelings of %s", input)
	printStats(res.CacheInfo.Hit,
		plural(res.Stats.Nodes, "node", "nodes"),
		plural(res.Stats.Subtrees, "subtree", "subtrees"),
		plural(int(res.Stats.Candidates), "candidate", "candidates"),
		plural(res.Stats.Classes, "class", "classes"))
	printNewline()
	printKeyValue("Objective", res.Doc.Objective)
	printKeyValue("Area", strconv.Itoa(res.Doc.Area))
	if res.RecordID != "" {
		printKeyValue("Record", res.RecordID)
	}
	printNewline()

	if flags.output != "" {
		if err := writeJSONOutput(flags.output, res.Doc); err != nil {
			return fmt.Errorf("write search result: %w", err)
		}
		printFile(flags.output)
	}
	if flags.renderDir != "" {
		if err := renderClasses(res.Trees, flags.renderDir, parseFormats(flags.formats), opts.MaxSubtrees); err != nil {
			return err
		}
	}

	if flags.interactive && isatty.IsTerminal(os.Stdout.Fd()) {
		return browseClasses(input, res)
	}
	if flags.interactive {
		printWarning("Not a terminal; skipping the interactive browser")
	}
	fmt.Println(classTable(res.Trees, 0, -1))
	return nil
}

// renderClasses draws every labeled tree into dir as class-<n>.<format>.
func renderClasses(trees []*csm.Tree, dir string, formats []string, maxSubtrees int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for i, t := range trees {
		artifacts, err := pipeline.Render(t, pipeline.RenderOptions{
			Formats:     formats,
			Title:       fmt.Sprintf("class %d", i+1),
			Budget:      -1,
			MaxSubtrees: maxSubtrees,
		})
		if err != nil {
			return fmt.Errorf("render class %d: %w", i+1, err)
		}
		paths, err := writeArtifacts(artifacts, "", filepath.Join(dir, fmt.Sprintf("class-%d", i+1)))
		for _, p := range paths {
			printFile(p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// browseClasses runs the interactive browser and saves the class the user
// picks, if any.
func browseClasses(input string, res *pipeline.SearchResult) error {
	m, err := tea.NewProgram(NewClassBrowserModel(res.Trees, res.Doc.Curves(), res.Doc.Area)).Run()
	if err != nil {
		return fmt.Errorf("interactive browser: %w", err)
	}
	picked, ok := m.(ClassBrowserModel)
	if !ok || picked.Selected < 0 {
		return nil
	}

	path := fmt.Sprintf("%s-class-%d.json", basePath("", input), picked.Selected+1)
	if err := graph.WriteTreeFile(res.Trees[picked.Selected], path); err != nil {
		return fmt.Errorf("write class %d: %w", picked.Selected+1, err)
	}
	printSuccess("Saved class %d", picked.Selected+1)
	printFile(path)
	printNextStep("Draw it", "csmtree render "+path)
	return nil
}

// classTable lists the labels of each optimal tree. Rows are classes
// numbered from first+1 and columns are non-root nodes in pre-order; each
// cell is cost/prize. The row at cursor, if any, is highlighted.
func classTable(trees []*csm.Tree, first, cursor int) string {
	if len(trees) == 0 {
		return StyleDim.Render("no labelings")
	}
	ref := trees[0]
	headers := []string{"CLASS"}
	for _, id := range ref.AllNodes()[1:] {
		headers = append(headers, ref.Name(id))
	}

	rows := make([][]string, len(trees))
	for i, t := range trees {
		row := []string{strconv.Itoa(first + i + 1)}
		for _, id := range t.AllNodes()[1:] {
			row = append(row, labelCell(t, id))
		}
		rows[i] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle()
		}).
		String()
}

func labelCell(t *csm.Tree, id csm.NodeID) string {
	return strings.Join([]string{strconv.Itoa(t.Cost(id)), strconv.Itoa(t.Prize(id))}, "/")
}
