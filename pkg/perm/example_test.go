package perm_test

import (
	"fmt"

	"github.com/matzehuels/csmtree/pkg/perm"
)

func ExampleGenerate() {
	for _, p := range perm.Generate(3, -1) {
		fmt.Println(p)
	}
	// Output:
	// [0 1 2]
	// [1 0 2]
	// [2 0 1]
	// [0 2 1]
	// [1 2 0]
	// [2 1 0]
}

func ExampleMultiset() {
	for p := range perm.Multiset([]int{2, 1, 1}) {
		fmt.Println(p)
	}
	n, _ := perm.CountMultiset([]int{2, 1, 1})
	fmt.Println("distinct:", n)
	// Output:
	// [1 1 2]
	// [1 2 1]
	// [2 1 1]
	// distinct: 3
}
