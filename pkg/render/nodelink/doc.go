// Package nodelink draws cost-prize trees as node-link diagrams.
//
// Nodes are boxes labeled with their prize, edges carry the cost of the node
// they lead into, and the root is a filled circle. A subtree can be
// highlighted, for example the best one for a given budget.
//
//	dot := nodelink.ToDOT(t, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(dot)
//
// [RenderSVG] uses [github.com/goccy/go-graphviz] in process. PDF and PNG
// output additionally require librsvg (rsvg-convert).
package nodelink
