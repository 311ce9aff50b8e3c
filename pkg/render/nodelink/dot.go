package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/subtree"
	"github.com/matzehuels/csmtree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Labels maps node names to display labels. Nodes without an entry show
	// their name.
	Labels map[string]string

	// Detailed adds the node id and name to every label.
	Detailed bool

	// Highlight marks a subtree, typically the best one for some budget.
	Highlight subtree.Set

	// Title is drawn above the diagram when set.
	Title string
}

// ToDOT converts a tree to Graphviz DOT format.
//
// Prizes are drawn inside the nodes and costs on the edges leading into
// them, so reading down a path shows what each step costs and what it pays.
// The root has neither and is drawn as a filled circle.
func ToDOT(t *csm.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=14];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  labelloc=t;\n  label=%s;\n", dotString(opts.Title))
	}
	buf.WriteString("\n")

	for _, id := range t.AllNodes() {
		attrs := fmtAttrs(t, id, opts)
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeRef(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range t.AllNodes() {
		p, ok := t.Parent(id)
		if !ok {
			continue
		}
		attrs := []string{fmt.Sprintf(`label="%d"`, t.Cost(id))}
		if opts.Highlight.Contains(id) {
			attrs = append(attrs, "penwidth=3", "color=firebrick")
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeRef(p), nodeRef(id), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeRef names nodes by id so arbitrary external names never need escaping.
func nodeRef(id csm.NodeID) string { return "n" + strconv.Itoa(int(id)) }

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// dotString quotes s as a DOT string. Only backslashes and double quotes
// are escaped; everything else is passed through.
func dotString(s string) string { return `"` + dotEscaper.Replace(s) + `"` }

// fmtLabel returns the label lines of a node.
func fmtLabel(t *csm.Tree, id csm.NodeID, opts Options) []string {
	name := t.Name(id)
	if l, ok := opts.Labels[name]; ok && l != "" {
		name = l
	}
	lines := []string{name}
	if opts.Detailed {
		lines = append(lines, fmt.Sprintf("id: %d (%s)", id, t.Name(id)))
	}
	if id != csm.Root {
		lines = append(lines, fmt.Sprintf("prize %d", t.Prize(id)))
	}
	return lines
}

func fmtAttrs(t *csm.Tree, id csm.NodeID, opts Options) []string {
	lines := fmtLabel(t, id, opts)
	for i, l := range lines {
		lines[i] = dotEscaper.Replace(l)
	}
	attrs := []string{`label="` + strings.Join(lines, `\n`) + `"`}
	if id == csm.Root {
		attrs = append(attrs, "shape=circle", "fillcolor=black", "fontcolor=white")
	}
	if opts.Highlight.Contains(id) && id != csm.Root {
		attrs = append(attrs, "fillcolor=mistyrose", "penwidth=3", "color=firebrick")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag with a zero-origin viewBox and
// explicit pixel size so the output scales predictably when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
