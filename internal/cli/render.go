package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (or base path for multiple outputs)
	formats  []string
	title    string
	detailed bool // print node names next to the labels
	budget   int  // highlight the best subtree within this budget; -1 disables

	maxSubtrees int // enumeration ceiling for the highlight
}

// renderCommand creates the render command for drawing a labeled tree.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{budget: -1}

	cmd := &cobra.Command{
		Use:   "render [tree.json|-]",
		Short: "Draw a labeled tree as SVG, PNG, PDF or DOT",
		Long: `Draw a labeled tree as SVG, PNG, PDF or DOT.

Nodes are labeled with their cost and prize. With --budget the best
root-containing subtree affordable with that budget is highlighted.

The format is taken from --format, or from the extension of --output, and
defaults to SVG. PNG and PDF output requires rsvg-convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("max-subtrees") {
				cfg, err := c.loadConfig()
				if err != nil {
					return err
				}
				opts.maxSubtrees = cfg.Search.MaxSubtrees
			}
			opts.formats = parseFormats(formatsStr)
			if formatsStr == "" {
				if f, ok := formatFromPath(opts.output); ok {
					opts.formats = []string{f}
				}
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().StringVar(&opts.title, "title", "", "diagram title")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show node names next to the labels")
	cmd.Flags().IntVar(&opts.budget, "budget", -1, "highlight the best subtree affordable with this budget")
	cmd.Flags().IntVar(&opts.maxSubtrees, "max-subtrees", pipeline.DefaultMaxSubtrees, "refuse to highlight trees with more root-containing subtrees (-1 disables)")

	return cmd
}

func runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	t, err := readTree(input)
	if err != nil {
		return err
	}
	logger.Debug("Loaded tree", "nodes", t.Len(), "depth", t.Depth())

	artifacts, err := pipeline.Render(t, pipeline.RenderOptions{
		Formats:     opts.formats,
		Title:       opts.title,
		Detailed:    opts.detailed,
		Budget:      opts.budget,
		MaxSubtrees: opts.maxSubtrees,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	paths, err := writeArtifacts(artifacts, opts.output, input)
	if err != nil {
		return err
	}
	printSuccess("Rendered %s", input)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
