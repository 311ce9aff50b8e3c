package cli

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/csmtree/pkg/config"
	"github.com/matzehuels/csmtree/pkg/generate"
	"github.com/matzehuels/csmtree/pkg/labeling"
	"github.com/matzehuels/csmtree/pkg/pipeline"
	"github.com/matzehuels/csmtree/pkg/storage"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for csmtree.

Besides commands and flags, the scripts complete tree files for commands
that read trees, the values of --shape, --objective, --format and --kind,
and record ids for 'results get' and 'results delete'.

Bash:
  $ source <(csmtree completion bash)

Zsh:
  $ csmtree completion zsh > "${fpath[1]}/_csmtree"

Fish:
  $ csmtree completion fish > ~/.config/fish/completions/csmtree.fish

PowerShell:
  PS> csmtree completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}

// registerCompletions attaches argument and flag completion to the command
// tree built by RootCommand.
func (c *CLI) registerCompletions(root *cobra.Command) {
	for _, name := range []string{"curve", "search", "subtrees", "render", "iso"} {
		if cmd, _, err := root.Find([]string{name}); err == nil && cmd != root {
			cmd.ValidArgsFunction = completeTreeFiles
		}
	}

	flag := func(path []string, name string, fn cobra.CompletionFunc) {
		cmd, _, err := root.Find(path)
		if err != nil || cmd == root || cmd.Flags().Lookup(name) == nil {
			return
		}
		_ = cmd.RegisterFlagCompletionFunc(name, fn)
	}
	flag([]string{"generate"}, "shape", fixedValues(string(generate.Wide), string(generate.Tall)))
	flag([]string{"search"}, "objective", fixedValues(labeling.Minimize.String(), labeling.Maximize.String()))
	flag([]string{"search"}, "format", completeFormats)
	flag([]string{"render"}, "format", completeFormats)
	flag([]string{"results", "list"}, "kind", fixedValues(string(storage.KindCurve), string(storage.KindSearch)))

	for _, name := range []string{"get", "delete"} {
		if cmd, _, err := root.Find([]string{"results", name}); err == nil {
			cmd.ValidArgsFunction = c.completeRecordIDs
		}
	}
}

func completeTreeFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

func fixedValues(values ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

var formatOrder = []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT, pipeline.FormatJSON}

// completeFormats completes the last entry of a comma-separated format
// list, leaving out formats that are already listed.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix, done := "", []string(nil)
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
		done = strings.Split(toComplete[:i], ",")
	}
	var out []string
	for _, f := range formatOrder {
		if !slices.Contains(done, f) {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeRecordIDs lists the ids of archived results. Completion stays
// quiet when the archive cannot be opened or lives only in memory.
func (c *CLI) completeRecordIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil || cfg.Storage.Backend == config.StorageMemory {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer store.Close()

	records, err := store.List(ctx, storage.ListOptions{Limit: 50})
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var ids []string
	for _, r := range records {
		if strings.HasPrefix(r.ID, toComplete) {
			ids = append(ids, r.ID+"\t"+string(r.Kind)+" "+shortHash(r.TreeHash))
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}
