package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
)

func sample(t *testing.T) *csm.Tree {
	t.Helper()
	var b csm.Builder
	b.AddNode("root", 0, 0)
	b.AddChild("root", "web", 2, 3)
	b.AddChild("web", "db", 1, 5)
	b.AddChild("root", "mail", 1, 1)
	tr, err := b.Build("root")
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(t), Options{})

	for _, want := range []string{
		"digraph G",
		`n0 [label="root", shape=circle`,
		`label="web\nprize 3"`,
		`n1 -> n2 [label="1"]`,
		`n0 -> n3 [label="1"]`,
		`n0 -> n1 [label="2"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Labels(t *testing.T) {
	dot := ToDOT(sample(t), Options{Labels: map[string]string{"db": "Database"}, Title: "demo"})
	if !strings.Contains(dot, `Database\nprize 5`) {
		t.Errorf("ToDOT() did not use display label:\n%s", dot)
	}
	if !strings.Contains(dot, `label="demo"`) {
		t.Errorf("ToDOT() missing title:\n%s", dot)
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sample(t), Options{Detailed: true})
	if !strings.Contains(dot, `id: 2 (db)`) {
		t.Errorf("ToDOT() missing detail:\n%s", dot)
	}
}

func TestToDOT_Highlight(t *testing.T) {
	tr := sample(t)
	s, _, err := budget.Within(tr, 3, 0)
	if err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(tr, Options{Highlight: s})

	if got := strings.Count(dot, "color=firebrick"); got != 4 {
		t.Errorf("highlighted elements = %d, want 4 (2 nodes, 2 edges):\n%s", got, dot)
	}
	if strings.Contains(dot, `n0 -> n3 [label="1", penwidth=3`) {
		t.Errorf("mail edge should not be highlighted:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeViewBox([]byte(tt.svg)); string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(sample(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(`not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestToDOT_Escaping(t *testing.T) {
	dot := ToDOT(sample(t), Options{
		Labels: map[string]string{"db": `C:\db "main" café`},
		Title:  `say "hi"`,
	})

	for _, want := range []string{
		`label="C:\\db \"main\" café\nprize 5"`,
		`label="say \"hi\""`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `\u00e9`) {
		t.Errorf("non-ASCII labels should pass through unescaped:\n%s", dot)
	}

	if _, err := RenderSVG(dot); err != nil {
		t.Errorf("RenderSVG() of escaped labels: %v", err)
	}
}
