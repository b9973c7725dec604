package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Node is the decoded form of a stored node: one of Empty, Leaf, Branch and
// NibbledBranch.
type Node interface {
	node_kind() string
}

type Empty struct{}

// Leaf always has a value. A nil Value encodes as the empty value, so it
// decodes back as a non-nil empty slice.
type Leaf struct {
	Key   NodeKey
	Value []byte
}

// Branch has no key segment of its own. A nil Value means no value.
type Branch struct {
	Value    []byte
	Children [16]ChildRef
}

// NibbledBranch is a branch with a non-empty shared prefix.
type NibbledBranch struct {
	Key      NodeKey
	Value    []byte
	Children [16]ChildRef
}

func (Empty) node_kind() string         { return "Empty" }
func (Leaf) node_kind() string          { return "Leaf" }
func (Branch) node_kind() string        { return "Branch" }
func (NibbledBranch) node_kind() string { return "NibbledBranch" }

// ChildRef points at a child either by digest or by carrying the child's
// encoding inline. The zero value is an absent child.
type ChildRef struct {
	Hash   *common.Hash
	Inline []byte
}

func (self ChildRef) IsEmpty() bool {
	return self.Hash == nil && len(self.Inline) == 0
}

// The engine works on the nodes below. Keys are in NIBBLES form. Nodes are
// never modified once built, every change copies the nodes on the path.

type node interface {
	fstring(string) string
}

type nodeFlag struct {
	hash  *common.Hash // digest under which the node is in the store, nil for inline or unstored nodes
	dirty bool
}

// stored reports whether the node holds a reference in the node store.
func (self nodeFlag) stored() bool {
	return self.hash != nil && !self.dirty
}

type leafNode struct {
	Key   []byte
	Val   []byte
	flags nodeFlag
}

type branchNode struct {
	Key      []byte
	Children [16]node
	Val      []byte
	flags    nodeFlag
}

type hashNode common.Hash

func (n *leafNode) copy() *leafNode     { copy := *n; return &copy }
func (n *branchNode) copy() *branchNode { copy := *n; return &copy }

func (n *leafNode) String() string   { return n.fstring("") }
func (n *branchNode) String() string { return n.fstring("") }
func (n hashNode) String() string    { return n.fstring("") }

var indices = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "a", "b", "c", "d", "e", "f"}

func (n *leafNode) fstring(string) string {
	return fmt.Sprintf("{%x: %x} ", n.Key, n.Val)
}

func (n *branchNode) fstring(ind string) string {
	resp := fmt.Sprintf("%x[\n%s  ", n.Key, ind)
	for i, child := range &n.Children {
		if child == nil {
			resp += fmt.Sprintf("%s: <nil> ", indices[i])
		} else {
			resp += fmt.Sprintf("%s: %v", indices[i], child.fstring(ind+"  "))
		}
	}
	if n.Val != nil {
		resp += fmt.Sprintf("value: %x ", n.Val)
	}
	return resp + fmt.Sprintf("\n%s] ", ind)
}

func (n hashNode) fstring(string) string {
	return fmt.Sprintf("<%x> ", n[:])
}
