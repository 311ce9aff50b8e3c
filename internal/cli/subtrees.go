package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// subtreesCommand creates the subtrees command.
func (c *CLI) subtreesCommand() *cobra.Command {
	var (
		list  bool
		limit int
	)

	cmd := &cobra.Command{
		Use:   "subtrees [tree.json|-]",
		Short: "Count or list the root-containing subtrees of a tree",
		Long: `Count or list the root-containing subtrees of a tree.

A root-containing subtree is a connected set of nodes that includes the root.
The count is computed without enumeration; --list enumerates every subtree
with its total cost and prize, refusing trees with more than --limit subtrees.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubtrees(cmd.Context(), args[0], list, limit)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list every subtree")
	cmd.Flags().IntVar(&limit, "limit", 10_000, "refuse to list more subtrees than this")

	return cmd
}

func runSubtrees(ctx context.Context, input string, list bool, limit int) error {
	logger := loggerFromContext(ctx)

	t, err := readTree(input)
	if err != nil {
		return err
	}

	count, ok := subtree.Count(t)
	if !ok {
		printWarning("%s has too many root-containing subtrees to count in 64 bits", input)
		if list {
			return cerrors.New(cerrors.ErrCodeSearchSpaceTooLarge, "too many subtrees to list")
		}
		return nil
	}
	printSuccess("%s has %d root-containing subtrees", input, count)
	if !list {
		return nil
	}

	prog := newProgress(logger)
	sets, err := subtree.EnumerateLimit(t, limit)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Enumerated %d subtrees", len(sets)))

	ix := subtree.NewIndex(sets)
	cost, prize := t.Costs(), t.Prizes()
	printNewline()
	for i := range ix.Len() {
		c, p := ix.Sum(i, cost, prize)
		fmt.Printf("%s  %s\n", StyleNumber.Render(fmt.Sprintf("%4d/%-4d", c, p)), memberNames(t, ix.Members(i)))
	}
	return nil
}

// memberNames formats node ids by their external names.
func memberNames(t *csm.Tree, ids []csm.NodeID) string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = strconv.Quote(t.Name(id))
	}
	return "{" + strings.Join(names, ", ") + "}"
}
