package render

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/csmtree/pkg/csm/budget"
)

// CurveTable formats a budget curve as a terminal table. Only the budgets
// where the maximum prize changes are listed, plus budget 0; every other
// budget has the value of the nearest listed budget below it.
func CurveTable(c budget.Curve) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("BUDGET", "MAX PRIZE")
	for _, p := range Steps(c) {
		t.Row(strconv.Itoa(p.Budget), strconv.Itoa(p.MaxPrize))
	}
	return t.String()
}

// Steps returns the points of c where the value changes, starting with budget 0.
func Steps(c budget.Curve) []budget.Point {
	var pts []budget.Point
	for b, v := range c {
		if b == 0 || v != c[b-1] {
			pts = append(pts, budget.Point{Budget: b, MaxPrize: v})
		}
	}
	return pts
}
