package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/csmtree/pkg/cache"
	"github.com/matzehuels/csmtree/pkg/csm"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/storage"
)

// star builds r -> a (1,3), r -> b (2,4).
func star(t *testing.T) *csm.Tree {
	t.Helper()
	var b csm.Builder
	_ = b.AddNode("r", 0, 0)
	_ = b.AddChild("r", "a", 1, 3)
	_ = b.AddChild("r", "b", 2, 4)
	tree, err := b.Build("r")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		objective string
		wantErr   bool
	}{
		{"defaults", Options{}, "minimize", false},
		{"alias max", Options{Objective: "max"}, "maximize", false},
		{"alias min", Options{Objective: "min"}, "minimize", false},
		{"unknown objective", Options{Objective: "median"}, "", true},
		{"negative workers", Options{Workers: -1}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if opts.Objective != tt.objective {
				t.Errorf("Objective = %q, want %q", opts.Objective, tt.objective)
			}
			if opts.MaxCandidates != DefaultMaxCandidates || opts.MaxSubtrees != DefaultMaxSubtrees {
				t.Errorf("limits not defaulted: %+v", opts)
			}
			if opts.Logger == nil {
				t.Error("Logger should default to a discard logger")
			}
			// Idempotent
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("second call: %v", err)
			}
		})
	}
}

func TestLabelingOptions(t *testing.T) {
	opts := Options{Objective: "maximize", Workers: 3, DedupBeforeScoring: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	lo := opts.LabelingOptions()
	if lo.Objective.String() != "maximize" || lo.Workers != 3 || !lo.DedupBeforeScoring {
		t.Errorf("LabelingOptions() = %+v", lo)
	}
}

func newFileRunner(t *testing.T, store storage.Store) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, store, nil)
}

func TestRunnerCurveCaches(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t, nil)
	defer r.Close()
	tree := star(t)

	first, err := r.Curve(ctx, tree, Options{})
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if first.CacheInfo.Hit {
		t.Error("first run should miss the cache")
	}
	// Subtrees {r} {r,a} {r,b} {r,a,b}: costs 0,1,2,3 prizes 0,3,4,7.
	if first.Doc.Area != 14 || first.Doc.MaxCost != 3 || first.Doc.Optimum != 7 {
		t.Errorf("curve doc = %+v", first.Doc)
	}
	if first.Stats.Subtrees != 4 {
		t.Errorf("Subtrees = %d, want 4", first.Stats.Subtrees)
	}

	second, err := r.Curve(ctx, tree, Options{})
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run should hit the cache")
	}
	if second.Doc.Area != first.Doc.Area || second.TreeHash != first.TreeHash {
		t.Errorf("cached doc differs: %+v vs %+v", second.Doc, first.Doc)
	}

	refreshed, err := r.Curve(ctx, tree, Options{Refresh: true})
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if refreshed.CacheInfo.Hit {
		t.Error("refresh should bypass the cache")
	}
}

func TestRunnerSearch(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	r := newFileRunner(t, store)
	defer r.Close()

	opts := Options{Costs: []int{1, 2}, Prizes: []int{3, 4}, Workers: 2}
	res, err := r.Search(ctx, star(t), opts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Doc.Area != 14 || res.Doc.Classes() != 1 || len(res.Trees) != 1 {
		t.Errorf("search doc = %+v", res.Doc)
	}
	if res.Stats.Candidates != 4 || res.Stats.Classes != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.RecordID == "" {
		t.Fatal("result should be archived")
	}
	rec, err := store.Get(ctx, res.RecordID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if rec.Kind != storage.KindSearch || rec.Search.Area != 14 {
		t.Errorf("archived record = %+v", rec)
	}

	// The input labels do not matter and the multisets are unordered.
	other, err := star(t).Relabel(csm.Labeling{Costs: []int{9, 9}, Prizes: []int{9, 9}})
	if err != nil {
		t.Fatal(err)
	}
	cached, err := r.Search(ctx, other, Options{Costs: []int{2, 1}, Prizes: []int{4, 3}})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !cached.CacheInfo.Hit {
		t.Error("equivalent search should hit the cache")
	}
	if len(cached.Trees) != 1 || cached.Doc.Area != 14 {
		t.Errorf("cached result = %+v", cached.Doc)
	}
	if cached.Trees[0].Len() != 3 {
		t.Errorf("rebuilt tree has %d nodes", cached.Trees[0].Len())
	}
}

func TestRunnerSearchErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil, nil)

	_, err := r.Search(ctx, star(t), Options{Costs: []int{1}, Prizes: []int{1, 2}})
	if !cerrors.Is(err, cerrors.ErrCodeLabelCountMismatch) {
		t.Errorf("mismatch error = %v", err)
	}

	_, err = r.Search(ctx, nil, Options{})
	if !cerrors.Is(err, cerrors.ErrCodeInvalidInput) {
		t.Errorf("nil tree error = %v", err)
	}

	_, err = r.Search(ctx, star(t), Options{Costs: []int{1, 2}, Prizes: []int{3, 4}, MaxCandidates: 2})
	if !cerrors.Is(err, cerrors.ErrCodeSearchSpaceTooLarge) {
		t.Errorf("ceiling error = %v", err)
	}

	_, err = r.Curve(ctx, star(t), Options{Objective: "sideways"})
	if err == nil {
		t.Error("invalid objective should fail")
	}
}

func TestTreeHash(t *testing.T) {
	a, err := TreeHash(star(t))
	if err != nil {
		t.Fatal(err)
	}
	b, _ := TreeHash(star(t))
	if a != b {
		t.Error("hash should be deterministic")
	}
	relabeled, _ := star(t).Relabel(csm.Labeling{Costs: []int{1, 1}, Prizes: []int{1, 1}})
	c, _ := TreeHash(relabeled)
	if a == c {
		t.Error("labels should affect the hash")
	}
}

func TestRender(t *testing.T) {
	tree := star(t)

	artifacts, err := Render(tree, RenderOptions{Formats: []string{FormatDOT, FormatJSON}, Budget: 1})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	dot := string(artifacts[FormatDOT])
	if !strings.HasPrefix(dot, "digraph") {
		t.Errorf("dot output should start with digraph: %q", dot)
	}
	if strings.Count(dot, "mistyrose") != 1 {
		t.Errorf("budget 1 should highlight exactly one node:\n%s", dot)
	}

	back, err := graph.UnmarshalTree(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if back.Len() != 3 {
		t.Errorf("json artifact has %d nodes", back.Len())
	}

	plain, err := Render(tree, RenderOptions{Formats: []string{FormatDOT}, Budget: -1})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(plain[FormatDOT]), "mistyrose") {
		t.Error("negative budget should disable highlighting")
	}

	if _, err := Render(tree, RenderOptions{Formats: []string{"gif"}, Budget: -1}); err == nil {
		t.Error("unknown format should fail")
	}
}

// wideStar builds a root with n unit-labeled leaves (2^n subtrees).
func wideStar(t *testing.T, n int) *csm.Tree {
	t.Helper()
	var b csm.Builder
	_ = b.AddNode("hub", 0, 0)
	for i := range n {
		_ = b.AddChild("hub", fmt.Sprintf("leaf%d", i), 1, 1)
	}
	tree, err := b.Build("hub")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return tree
}

func TestRenderHighlightCeiling(t *testing.T) {
	wide := wideStar(t, 40)

	tests := []struct {
		name string
		opts RenderOptions
	}{
		{"default ceiling", RenderOptions{Formats: []string{FormatDOT}, Budget: 0}},
		{"explicit ceiling", RenderOptions{Formats: []string{FormatDOT}, Budget: 3, MaxSubtrees: 1000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(wide, tt.opts)
			if !cerrors.Is(err, cerrors.ErrCodeSearchSpaceTooLarge) {
				t.Errorf("Render() error = %v, want SEARCH_SPACE_TOO_LARGE", err)
			}
		})
	}

	if _, err := Render(wide, RenderOptions{Formats: []string{FormatDOT}, Budget: -1}); err != nil {
		t.Errorf("render without highlight should not enumerate: %v", err)
	}
}
