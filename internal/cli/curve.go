package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/pipeline"
	"github.com/matzehuels/csmtree/pkg/render"
)

// curveCommand creates the curve command.
func (c *CLI) curveCommand() *cobra.Command {
	var (
		output  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "curve [tree.json|-]",
		Short: "Print the budget curve of a labeled tree",
		Long: `Print the budget curve of a labeled tree.

For every budget from 0 up to the total cost of the tree, the curve holds the
largest prize of any root-containing subtree whose cost fits the budget. Only
the budgets where the value changes are listed.

Use --output to write the curve document as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCurve(cmd.Context(), args[0], output, refresh)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the curve document to a JSON file (- for stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if a cached result exists")

	return cmd
}

func (c *CLI) runCurve(ctx context.Context, input, output string, refresh bool) error {
	t, err := readTree(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	res, err := runner.Curve(ctx, t, pipeline.Options{Refresh: refresh})
	if err != nil {
		return fmt.Errorf("curve: %w", err)
	}

	if output == stdio {
		return writeJSONOutput(output, res.Doc)
	}

	printSuccess("Budget curve of %s", input)
	printStats(res.CacheInfo.Hit, plural(res.Stats.Nodes, "node", "nodes"), plural(res.Stats.Subtrees, "subtree", "subtrees"))
	printNewline()
	printKeyValue("Area", strconv.Itoa(res.Doc.Area))
	printKeyValue("Max cost", strconv.Itoa(res.Doc.MaxCost))
	printKeyValue("Optimum", strconv.Itoa(res.Doc.Optimum))
	if res.RecordID != "" {
		printKeyValue("Record", res.RecordID)
	}
	printNewline()
	fmt.Println(render.CurveTable(res.Doc.Curve()))

	if output != "" {
		if err := writeJSONOutput(output, res.Doc); err != nil {
			return fmt.Errorf("write curve: %w", err)
		}
		printFile(output)
	}
	return nil
}
