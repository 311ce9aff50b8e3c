package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/generate"
	"github.com/matzehuels/csmtree/pkg/graph"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		shape  string
		seed   uint64
		zero   bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate [nodes]",
		Short: "Write a random cost-prize tree",
		Long: `Write a random cost-prize tree as a JSON tree document.

The wide shape gives every node a random number of the remaining nodes as
children; the tall shape decodes a random Prüfer sequence. Costs and prizes
are drawn from 1 to 10 unless --zero is given, which produces a bare shape
for 'csmtree search'.

The same --seed always produces the same tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid node count %q: %w", args[0], err)
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}
			return runGenerate(cmd.Context(), n, shape, seed, zero, output)
		},
	}

	cmd.Flags().StringVar(&shape, "shape", string(generate.Wide), "tree shape: wide or tall")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: current time)")
	cmd.Flags().BoolVar(&zero, "zero", false, "set every cost and prize to zero")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runGenerate(ctx context.Context, n int, shapeName string, seed uint64, zero bool, output string) error {
	logger := loggerFromContext(ctx)

	shape, err := generate.ParseShape(shapeName)
	if err != nil {
		return err
	}
	build := generate.CSM
	if zero {
		build = generate.ZeroCSM
	}
	t, err := build(n, shape, seed)
	if err != nil {
		return err
	}
	logger.Debug("Generated tree", "nodes", t.Len(), "depth", t.Depth(), "shape", shape, "seed", seed)

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	if err := graph.WriteTree(t, out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if output != "" && output != stdio {
		logger.Infof("Wrote %d-node tree to %s", t.Len(), output)
	}
	return nil
}
