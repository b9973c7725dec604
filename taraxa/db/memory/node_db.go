// Package memory implements the content-addressed node store: an in-memory
// mapping from a node digest to its encoding, reference counted so that equal
// subtrees share a single entry.
package memory

import (
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/hashing"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/comparer"
)

var ErrNotFound = errors.New("node not found")

type entry struct {
	refcount uint32
	enc      []byte
}

// NodeDB is not safe for concurrent use. An entry is dropped from the map, and
// its encoding released, as soon as its last reference is removed.
type NodeDB struct {
	entries          map[common.Hash]*entry
	size             int
	initial_capacity int
}

func NewNodeDB(initial_capacity int) *NodeDB {
	return &NodeDB{
		entries:          make(map[common.Hash]*entry, initial_capacity),
		initial_capacity: initial_capacity,
	}
}

// Put stores enc under its blake2b-256 digest, or takes another reference to
// an existing entry.
func (self *NodeDB) Put(enc []byte) common.Hash {
	hash := hashing.Blake2Hash(enc)
	if e, present := self.entries[hash]; present {
		e.refcount++
		return hash
	}
	self.entries[hash] = &entry{refcount: 1, enc: common.CopyBytes(enc)}
	self.size += common.HashLength + len(enc)
	return hash
}

func (self *NodeDB) Get(hash common.Hash) ([]byte, error) {
	if e, present := self.entries[hash]; present {
		return common.CopyBytes(e.enc), nil
	}
	return nil, errors.Wrapf(ErrNotFound, "%x", hash)
}

func (self *NodeDB) Has(hash common.Hash) bool {
	_, present := self.entries[hash]
	return present
}

func (self *NodeDB) RefCount(hash common.Hash) int {
	if e, present := self.entries[hash]; present {
		return int(e.refcount)
	}
	return 0
}

// Remove drops one reference to hash and evicts the entry once none remain.
// Removing an absent digest does nothing.
func (self *NodeDB) Remove(hash common.Hash) {
	e, present := self.entries[hash]
	if !present {
		return
	}
	if e.refcount--; e.refcount == 0 {
		delete(self.entries, hash)
		self.size -= common.HashLength + len(e.enc)
	}
}

func (self *NodeDB) Len() int {
	return len(self.entries)
}

// Clear also gives back the memory of the map itself.
func (self *NodeDB) Clear() {
	self.entries = make(map[common.Hash]*entry, self.initial_capacity)
	self.size = 0
}

// ForEach visits every entry in ascending digest order. enc must not be
// retained by cb.
func (self *NodeDB) ForEach(cb func(hash common.Hash, enc []byte)) {
	keys := treeset.NewWith(compare_hashes)
	for hash := range self.entries {
		keys.Add(hash)
	}
	for itr := keys.Iterator(); itr.Next(); {
		hash := itr.Value().(common.Hash)
		cb(hash, self.entries[hash].enc)
	}
}

// Size is the number of bytes held by live entries, digests included.
func (self *NodeDB) Size() int {
	return self.size
}

func compare_hashes(a, b interface{}) int {
	h1, h2 := a.(common.Hash), b.(common.Hash)
	return comparer.DefaultComparer.Compare(h1[:], h2[:])
}
