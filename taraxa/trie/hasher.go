package trie

import (
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/hashing"
	"github.com/ethereum/go-ethereum/common"
)

type hasher struct {
	db     NodeDB // nil when only computing digests
	stored int
}

// hash collapses n into the reference its parent embeds and returns a copy of
// n with its flags updated. Encodings shorter than a digest are inlined unless
// force is set, which is the case for the root.
func (self *hasher) hash(n node, force bool) (ChildRef, node) {
	switch n := n.(type) {
	case hashNode:
		hash := common.Hash(n)
		return ChildRef{Hash: &hash}, n
	case *leafNode:
		if n.flags.stored() {
			return ChildRef{Hash: n.flags.hash}, n
		}
		cached := n.copy()
		enc := EncodeNode(Leaf{Key: NodeKeyFromNibbles(n.Key), Value: n.Val})
		return self.store(enc, force, &cached.flags), cached
	case *branchNode:
		if n.flags.stored() {
			return ChildRef{Hash: n.flags.hash}, n
		}
		cached := n.copy()
		var children [16]ChildRef
		for i, child := range &n.Children {
			if child != nil {
				children[i], cached.Children[i] = self.hash(child, false)
			}
		}
		var enc []byte
		if len(n.Key) == 0 {
			enc = EncodeNode(Branch{Value: n.Val, Children: children})
		} else {
			enc = EncodeNode(NibbledBranch{Key: NodeKeyFromNibbles(n.Key), Value: n.Val, Children: children})
		}
		return self.store(enc, force, &cached.flags), cached
	default:
		panic("impossible")
	}
}

func (self *hasher) store(enc []byte, force bool, flags *nodeFlag) ChildRef {
	if len(enc) < common.HashLength && !force {
		flags.hash, flags.dirty = nil, false
		return ChildRef{Inline: enc}
	}
	var hash common.Hash
	if self.db == nil {
		hash = hashing.Blake2Hash(enc)
	} else {
		hash = self.db.Put(enc)
		self.stored++
		storedCounter.Inc(1)
	}
	flags.hash, flags.dirty = &hash, false
	return ChildRef{Hash: &hash}
}
