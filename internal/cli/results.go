package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/config"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
	"github.com/matzehuels/csmtree/pkg/storage"
)

// resultsCommand creates the results command for browsing the archive.
func (c *CLI) resultsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Browse archived curve and search results",
		Long: `Browse archived curve and search results.

Every fresh curve and search result is archived in the store configured in
the [storage] section of the config file. The default memory store does not
outlive the process; use the file or mongo backend to keep results.`,
	}

	cmd.AddCommand(c.resultsListCommand())
	cmd.AddCommand(c.resultsGetCommand())
	cmd.AddCommand(c.resultsDeleteCommand())

	return cmd
}

// openStore opens the configured store for a results subcommand.
func (c *CLI) openStore(ctx context.Context) (storage.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend == config.StorageMemory {
		printWarning("The memory store is empty in a new process; configure storage.backend to keep results")
	}
	return newStore(ctx, cfg.Storage)
}

func (c *CLI) resultsListCommand() *cobra.Command {
	var (
		kind     string
		treeHash string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := storage.ListOptions{Kind: storage.Kind(kind), TreeHash: treeHash, Limit: limit}
			switch opts.Kind {
			case "", storage.KindCurve, storage.KindSearch:
			default:
				return cerrors.New(cerrors.ErrCodeInvalidInput, "unknown kind %q (want curve or search)", kind)
			}

			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No results")
				return nil
			}
			fmt.Println(recordTable(records))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "only list curve or search results")
	cmd.Flags().StringVar(&treeHash, "tree", "", "only list results for this tree hash")
	cmd.Flags().IntVar(&limit, "limit", storage.DefaultListLimit, "maximum number of results")

	return cmd
}

func (c *CLI) resultsGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Print an archived result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSONOutput(output, rec)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func (c *CLI) resultsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an archived result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// recordTable formats archived records one per row.
func recordTable(records []*storage.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		area, classes := "-", "-"
		switch {
		case r.Curve != nil:
			area = strconv.Itoa(r.Curve.Area)
		case r.Search != nil:
			area = strconv.Itoa(r.Search.Area)
			classes = strconv.Itoa(r.Search.Classes())
		}
		nodes := "-"
		if r.Tree != nil {
			nodes = strconv.Itoa(len(r.Tree.Nodes))
		}
		rows[i] = []string{r.ID, string(r.Kind), shortHash(r.TreeHash), nodes, area, classes, r.CreatedAt.Local().Format("2006-01-02 15:04")}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "KIND", "TREE", "NODES", "AREA", "CLASSES", "CREATED").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		String()
}

// shortHash abbreviates a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
