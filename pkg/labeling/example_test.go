package labeling_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/labeling"
)

func ExampleBest() {
	var b csm.Builder
	_ = b.AddNode("root", 0, 0)
	_ = b.AddChild("root", "gate", 0, 0)
	_ = b.AddChild("gate", "vault", 0, 0)
	t, _ := b.Build("root")

	res, err := labeling.Best(context.Background(), t, []int{0, 1}, []int{1, 2}, labeling.Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("candidates:", res.Candidates)
	fmt.Println("area:", res.Area)
	for _, l := range res.Labelings {
		fmt.Println(l.Costs, l.Prizes)
	}
	// Output:
	// candidates: 4
	// area: 3
	// [1 0] [1 2]
	// [1 0] [2 1]
}
