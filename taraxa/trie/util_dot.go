package trie

import (
	"fmt"
	"strconv"

	"github.com/emicklei/dot"
)

// Dot renders the inspected tree as a graphviz digraph. Edges are labelled
// with the nibble leading to the child and leaves share the bottom rank.
func (self *TreeNode) Dot() *dot.Graph {
	g := dot.NewGraph(dot.Directed)
	if self != nil {
		counter := 0
		dot_draw(g, self, &counter)
	}
	return g
}

func dot_draw(g *dot.Graph, n *TreeNode, counter *int) dot.Node {
	ret := dot_node(g, n, counter)
	for _, child := range n.Children {
		g.Edge(ret, dot_draw(g, child, counter), child.ParentNibble)
	}
	return ret
}

func dot_node(g *dot.Graph, n *TreeNode, counter *int) (ret dot.Node) {
	*counter++
	ret = g.Node(strconv.Itoa(*counter))
	label := n.Type
	if n.Nibbles != nil && *n.Nibbles != "" {
		label += fmt.Sprintf("\nnibbles: %s", *n.Nibbles)
	}
	if n.Value != nil {
		label += fmt.Sprintf("\nvalue: %s", n.Value)
	}
	if n.ID != nil {
		label += fmt.Sprintf("\nid: %s", n.ID.TerminalString())
	}
	ret.Label(label)
	if n.Type == "Leaf" {
		g.AddToSameRank("leaves", ret)
	}
	return
}
