package trie

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
)

var inspect_log = log.New("module", "trie/inspect")

// TreeNode is a stored node materialized for inspection, with its subtree.
type TreeNode struct {
	Type string `json:"type"`
	// ID is nil for nodes inlined into their parent.
	ID      *common.Hash   `json:"id"`
	Nibbles *string        `json:"nibbles"`
	Value   *hexutil.Bytes `json:"value,omitempty"`
	// ParentNibble is the nibble of the parent branch leading here, empty at the root.
	ParentNibble string      `json:"parent_nibble,omitempty"`
	Children     []*TreeNode `json:"children,omitempty"`
}

func (self *TreeNode) String() string {
	enc, err := json.Marshal(self)
	if err != nil {
		panic(err)
	}
	return string(enc)
}

// Inspect walks the tree under root depth first, children in ascending nibble
// order. It returns nil for the empty root and for a root the store does not
// have. Children that are missing or fail to decode are left out.
func Inspect(db NodeReader, root common.Hash) (*TreeNode, error) {
	if root == EmptyRoot || !db.Has(root) {
		return nil, nil
	}
	enc, err := db.Get(root)
	if err != nil {
		return nil, nil
	}
	decoded, err := DecodeNode(enc)
	if err != nil {
		return nil, errors.Wrapf(err, "root %x", root)
	}
	id := root
	return inspect_node(db, decoded, &id, "", nil), nil
}

func inspect_node(db NodeReader, n Node, id *common.Hash, parent_nibble string, path []byte) *TreeNode {
	ret := &TreeNode{Type: n.node_kind(), ID: id, ParentNibble: parent_nibble}
	var children *[16]ChildRef
	switch n := n.(type) {
	case Leaf:
		ret.Nibbles, ret.Value = key_hex(n.Key), value_hex(n.Value)
	case Branch:
		ret.Value, children = value_hex(n.Value), &n.Children
	case NibbledBranch:
		ret.Nibbles, ret.Value, children = key_hex(n.Key), value_hex(n.Value), &n.Children
		path = append(path, n.Key.Nibbles()...)
	}
	if children == nil {
		return ret
	}
	for i := range children {
		if child := inspect_child(db, children[i], byte(i), path); child != nil {
			ret.Children = append(ret.Children, child)
		}
	}
	return ret
}

func inspect_child(db NodeReader, ref ChildRef, nibble byte, path []byte) *TreeNode {
	if ref.IsEmpty() {
		return nil
	}
	path = append(path[:len(path):len(path)], nibble)
	enc, id := ref.Inline, ref.Hash
	if id != nil {
		var err error
		if enc, err = db.Get(*id); err != nil {
			inspect_log.Debug("skipping missing node", "hash", *id, "path", common.Bytes2Hex(path))
			return nil
		}
	}
	decoded, err := DecodeNode(enc)
	if err != nil {
		inspect_log.Debug("skipping malformed node", "path", common.Bytes2Hex(path), "err", err)
		return nil
	}
	return inspect_node(db, decoded, id, indices[nibble], path)
}

func key_hex(key NodeKey) *string {
	ret := key.Hex()
	return &ret
}

func value_hex(value []byte) *hexutil.Bytes {
	if value == nil {
		return nil
	}
	ret := hexutil.Bytes(value)
	return &ret
}
