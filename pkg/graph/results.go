package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
	"github.com/matzehuels/csmtree/pkg/labeling"
)

// =============================================================================
// CurveDoc - Budget Curve
// =============================================================================

// CurveDoc is the serialization format of a budget curve.
type CurveDoc struct {
	Points   []budget.Point `json:"points" bson:"points"`
	Area     int            `json:"area" bson:"area"`
	MaxCost  int            `json:"max_cost" bson:"max_cost"`
	Optimum  int            `json:"optimum" bson:"optimum"`
	Subtrees int            `json:"subtrees,omitempty" bson:"subtrees,omitempty"`
}

// Clone returns a copy that shares no slices with d.
func (d CurveDoc) Clone() CurveDoc {
	d.Points = slices.Clone(d.Points)
	return d
}

// NewCurveDoc converts a curve. subtrees is informational and may be zero.
func NewCurveDoc(c budget.Curve, subtrees int) CurveDoc {
	return CurveDoc{
		Points:   c.Points(),
		Area:     c.Area(),
		MaxCost:  c.MaxCost(),
		Optimum:  c.Optimum(),
		Subtrees: subtrees,
	}
}

// Curve rebuilds the curve from the document's points.
func (d CurveDoc) Curve() budget.Curve { return curveFromPoints(d.Points) }

// curveFromPoints rebuilds a curve from its full list of points.
func curveFromPoints(points []budget.Point) budget.Curve {
	c := make(budget.Curve, len(points))
	for i, p := range points {
		c[i] = p.MaxPrize
	}
	return c
}

// =============================================================================
// SearchDoc - Labeling Search Result
// =============================================================================

// SearchDoc is the serialization format of a labeling search result.
// Each entry is one isomorphism class of optimal labelings.
type SearchDoc struct {
	Objective  string        `json:"objective" bson:"objective"`
	Area       int           `json:"area" bson:"area"`
	Costs      []int         `json:"costs" bson:"costs"`
	Prizes     []int         `json:"prizes" bson:"prizes"`
	Candidates uint64        `json:"candidates" bson:"candidates"`
	Evaluated  uint64        `json:"evaluated" bson:"evaluated"`
	Subtrees   int           `json:"subtrees" bson:"subtrees"`
	Results    []SearchEntry `json:"results" bson:"results"`
}

// SearchEntry is one optimal labeling.
type SearchEntry struct {
	Form     string         `json:"form" bson:"form"`
	Labeling csm.Labeling   `json:"labeling" bson:"labeling"`
	Tree     Graph          `json:"tree" bson:"tree"`
	Curve    []budget.Point `json:"curve" bson:"curve"`
}

// Clone returns a deep copy of d.
func (d SearchDoc) Clone() SearchDoc {
	d.Costs = slices.Clone(d.Costs)
	d.Prizes = slices.Clone(d.Prizes)
	if d.Results != nil {
		results := make([]SearchEntry, len(d.Results))
		for i, e := range d.Results {
			results[i] = SearchEntry{
				Form:     e.Form,
				Labeling: e.Labeling.Clone(),
				Tree:     e.Tree.Clone(),
				Curve:    slices.Clone(e.Curve),
			}
		}
		d.Results = results
	}
	return d
}

// NewSearchDoc converts a search result for the given input multisets.
func NewSearchDoc(res *labeling.Result, costs, prizes []int) SearchDoc {
	doc := SearchDoc{
		Objective:  res.Objective.String(),
		Area:       res.Area,
		Costs:      costs,
		Prizes:     prizes,
		Candidates: res.Candidates,
		Evaluated:  res.Evaluated,
		Subtrees:   res.Subtrees,
		Results:    make([]SearchEntry, len(res.Trees)),
	}
	for i, t := range res.Trees {
		doc.Results[i] = SearchEntry{
			Form:     res.Forms[i],
			Labeling: res.Labelings[i],
			Tree:     FromTree(t),
			Curve:    res.Curves[i].Points(),
		}
	}
	return doc
}

// Classes returns the number of reported isomorphism classes.
func (d SearchDoc) Classes() int { return len(d.Results) }

// Curves returns the budget curve of every result, in order.
func (d SearchDoc) Curves() []budget.Curve {
	curves := make([]budget.Curve, len(d.Results))
	for i, e := range d.Results {
		curves[i] = curveFromPoints(e.Curve)
	}
	return curves
}

// Trees rebuilds the labeled trees of every entry.
func (d SearchDoc) Trees() ([]*csm.Tree, error) {
	trees := make([]*csm.Tree, len(d.Results))
	for i, e := range d.Results {
		t, err := ToTree(e.Tree)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		trees[i] = t
	}
	return trees, nil
}

// WriteSearchFile writes a search document to a JSON file.
func WriteSearchFile(doc SearchDoc, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeJSON(f, doc)
}

// WriteJSON writes any result document as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	return writeJSON(w, v)
}

// UnmarshalSearch decodes a search document.
func UnmarshalSearch(data []byte) (SearchDoc, error) {
	var doc SearchDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return SearchDoc{}, fmt.Errorf("decode search result: %w", err)
	}
	return doc, nil
}
