package budget_test

import (
	"fmt"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
)

func ExampleForTree() {
	var b csm.Builder
	_ = b.AddNode("root", 0, 0)
	_ = b.AddChild("root", "web", 2, 3)
	_ = b.AddChild("web", "db", 1, 5)
	_ = b.AddChild("root", "mail", 1, 1)
	t, _ := b.Build("root")

	curve, _ := budget.ForTree(t)
	for _, p := range curve.Points() {
		fmt.Printf("%d -> %d\n", p.Budget, p.MaxPrize)
	}
	fmt.Println("area:", curve.Area())
	// Output:
	// 0 -> 0
	// 1 -> 1
	// 2 -> 3
	// 3 -> 8
	// 4 -> 9
	// area: 21
}
