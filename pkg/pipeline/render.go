package pipeline

import (
	"fmt"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
	"github.com/matzehuels/csmtree/pkg/graph"
	"github.com/matzehuels/csmtree/pkg/render/nodelink"
)

// DefaultPNGScale is the rasterization scale for PNG output.
const DefaultPNGScale = 2.0

// RenderOptions configures [Render].
type RenderOptions struct {
	Formats  []string `json:"formats,omitempty"`
	Title    string   `json:"title,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Budget, when non-negative, highlights the best subtree affordable
	// with that budget. Use -1 to disable.
	Budget int `json:"budget"`

	// MaxSubtrees bounds the enumeration behind the highlight.
	// Zero means DefaultMaxSubtrees; negative disables the ceiling.
	MaxSubtrees int `json:"max_subtrees,omitempty"`

	PNGScale float64 `json:"png_scale,omitempty"`
}

// SetDefaults fills unset fields.
func (o *RenderOptions) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.MaxSubtrees == 0 {
		o.MaxSubtrees = DefaultMaxSubtrees
	}
}

// Render generates output artifacts for a labeled tree in the requested
// formats. The json format is the tree document read by graph.ReadTree.
func Render(t *csm.Tree, opts RenderOptions) (map[string][]byte, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	dotOpts := nodelink.Options{Title: opts.Title, Detailed: opts.Detailed}
	if opts.Budget >= 0 {
		set, _, err := budget.Within(t, opts.Budget, opts.MaxSubtrees)
		if err != nil {
			return nil, fmt.Errorf("highlight budget %d: %w", opts.Budget, err)
		}
		dotOpts.Highlight = set
	}
	dot := nodelink.ToDOT(t, dotOpts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, opts.PNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = graph.MarshalTree(t)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
