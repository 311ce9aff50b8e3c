package graph_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/graph"
)

func ExampleWriteTree() {
	var b csm.Builder
	_ = b.AddNode("root", 0, 0)
	_ = b.AddChild("root", "web", 2, 3)
	t, _ := b.Build("root")

	if err := graph.WriteTree(t, os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "root": "root",
	//   "nodes": [
	//     {
	//       "id": "root",
	//       "cost": 0,
	//       "prize": 0
	//     },
	//     {
	//       "id": "web",
	//       "cost": 2,
	//       "prize": 3
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "root",
	//       "to": "web"
	//     }
	//   ]
	// }
}

func ExampleReadTree() {
	doc := `{
		"nodes": [
			{"id": "r"},
			{"id": "a", "cost": 1, "prize": 4},
			{"id": "b", "cost": 3, "prize": 2}
		],
		"edges": [{"from": "r", "to": "a"}, {"from": "a", "to": "b"}]
	}`
	t, err := graph.ReadTree(strings.NewReader(doc))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("root:", t.Name(csm.Root))
	fmt.Println("nodes:", t.Len())
	fmt.Println("costs:", t.Costs())
	// Output:
	// root: r
	// nodes: 3
	// costs: [0 1 3]
}
