package trie

import "github.com/ethereum/go-ethereum/common"

// NodeReader is the read side of the node store, enough for inspection.
type NodeReader interface {
	Get(hash common.Hash) ([]byte, error)
	Has(hash common.Hash) bool
}

// NodeDB is a content-addressed, reference counted node store. It is
// implemented by memory.NodeDB.
type NodeDB interface {
	NodeReader
	Put(enc []byte) common.Hash
	Remove(hash common.Hash)
	Clear()
	ForEach(cb func(hash common.Hash, enc []byte))
}
