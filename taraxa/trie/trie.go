// Package trie implements a content-addressed Merkle radix trie over nibble
// paths, with nodes kept in a reference counted node store.
package trie

import (
	"bytes"
	"fmt"

	"github.com/Taraxa-project/taraxa-trie/taraxa/util/bin"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/hashing"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// EmptyRoot is the root of a trie without keys. It is never stored.
var EmptyRoot = hashing.Blake2Hash([]byte{header_empty})

type Opts struct {
	CacheSize int `json:"cacheSize"`
}

const default_cache_size = 1024

// Trie is not safe for concurrent use.
//
// Insert and Remove work on an in-memory copy-on-write overlay and leave the
// node store untouched. Commit writes the changed nodes, drops one reference
// to every stored node they replace, and publishes the new root.
type Trie struct {
	db        NodeDB
	root      node
	root_hash common.Hash
	dirty     bool
	death_row *linkedhashset.Set
	pending   []deathRowEntry
	cache     *lru.Cache
	log       log.Logger
}

// deathRowEntry is a stored node superseded since the last commit. The path
// tells apart equal subtrees at different positions, each holding its own
// reference.
type deathRowEntry struct {
	hash common.Hash
	path string
}

func New(db NodeDB, opts Opts) *Trie {
	cache_size := opts.CacheSize
	if cache_size <= 0 {
		cache_size = default_cache_size
	}
	cache, err := lru.New(cache_size)
	if err != nil {
		panic(err)
	}
	self := &Trie{
		db:        db,
		root_hash: EmptyRoot,
		death_row: linkedhashset.New(),
		cache:     cache,
		log:       log.New("trie", uuid.New().String()),
	}
	self.log.Debug("trie created", "cacheSize", cache_size)
	return self
}

// NewWithRoot opens a trie on a root committed earlier into db.
func NewWithRoot(db NodeDB, root common.Hash, opts Opts) (*Trie, error) {
	self := New(db, opts)
	if root == EmptyRoot {
		return self, nil
	}
	if !db.Has(root) {
		return nil, errors.Wrapf(ErrHandleOpen, "root %x", root)
	}
	self.root, self.root_hash = hashNode(root), root
	return self, nil
}

// Root is the digest of the last committed state.
func (self *Trie) Root() common.Hash {
	return self.root_hash
}

// Dirty reports whether there are changes since the last commit.
func (self *Trie) Dirty() bool {
	return self.dirty
}

// Hash computes the root digest of the uncommitted state without writing
// anything to the node store.
func (self *Trie) Hash() common.Hash {
	if !self.dirty {
		return self.root_hash
	}
	if self.root == nil {
		return EmptyRoot
	}
	ref, _ := new(hasher).hash(self.root, true)
	return *ref.Hash
}

// Get returns the value stored under key, or nil if there is none. A present
// empty value is returned as a non-nil empty slice.
func (self *Trie) Get(key []byte) ([]byte, error) {
	key_nibbles := KeyToNibbles(key)
	n, pos := self.root, 0
	for {
		switch curr := n.(type) {
		case nil:
			return nil, nil
		case *leafNode:
			if !bytes.Equal(curr.Key, key_nibbles[pos:]) {
				return nil, nil
			}
			return bin.Clone(curr.Val), nil
		case *branchNode:
			rest := key_nibbles[pos:]
			if len(rest) < len(curr.Key) || !bytes.Equal(curr.Key, rest[:len(curr.Key)]) {
				return nil, nil
			}
			pos += len(curr.Key)
			if pos == len(key_nibbles) {
				return bin.Clone(curr.Val), nil
			}
			n = curr.Children[key_nibbles[pos]]
			pos++
		case hashNode:
			resolved, err := self.resolve(curr, key_nibbles[:pos])
			if err != nil {
				return nil, err
			}
			n = resolved
		default:
			panic(fmt.Sprintf("%T: invalid node: %v", n, n))
		}
	}
}

// Insert sets the value under key. A nil value is stored as an empty value.
func (self *Trie) Insert(key, value []byte) error {
	if len(key)*2 > NibbleSizeBound {
		return errors.Wrapf(ErrKeyTooLong, "%d bytes", len(key))
	}
	if value == nil {
		value = []byte{}
	}
	self.pending = self.pending[:0]
	dirty, n, err := self.insert(self.root, nil, KeyToNibbles(key), bin.Clone(value))
	if err != nil {
		return err
	}
	if dirty {
		self.apply(n)
	}
	return nil
}

// Remove deletes key and collapses the branches left with a single path.
// Removing an absent key changes nothing.
func (self *Trie) Remove(key []byte) error {
	if len(key)*2 > NibbleSizeBound {
		return nil
	}
	self.pending = self.pending[:0]
	dirty, n, err := self.remove(self.root, nil, KeyToNibbles(key))
	if err != nil {
		return err
	}
	if dirty {
		self.apply(n)
	}
	return nil
}

func (self *Trie) apply(root node) {
	self.root, self.dirty = root, true
	for _, entry := range self.pending {
		self.death_row.Add(entry)
	}
	self.pending = self.pending[:0]
}

// Commit is a no-op when nothing changed since the previous commit.
func (self *Trie) Commit() (common.Hash, error) {
	if !self.dirty {
		return self.root_hash, nil
	}
	h := hasher{db: self.db}
	if self.root == nil {
		self.root_hash = EmptyRoot
	} else {
		ref, cached := h.hash(self.root, true)
		self.root, self.root_hash = cached, *ref.Hash
	}
	dereferenced := 0
	for _, v := range self.death_row.Values() {
		entry := v.(deathRowEntry)
		self.db.Remove(entry.hash)
		if !self.db.Has(entry.hash) {
			self.cache.Remove(entry.hash)
		}
		dereferenced++
	}
	dereferencedCounter.Inc(int64(dereferenced))
	self.death_row.Clear()
	self.dirty = false
	self.log.Debug("trie committed", "root", self.root_hash, "stored", h.stored, "dereferenced", dereferenced)
	return self.root_hash, nil
}

// Clear drops the node store contents together with any uncommitted changes.
func (self *Trie) Clear() {
	self.db.Clear()
	self.cache.Purge()
	self.death_row.Clear()
	self.root, self.root_hash, self.dirty = nil, EmptyRoot, false
	self.log.Debug("trie cleared")
}

// Values dumps the node store as digest to encoding.
func (self *Trie) Values() map[common.Hash][]byte {
	ret := make(map[common.Hash][]byte)
	self.db.ForEach(func(hash common.Hash, enc []byte) {
		ret[hash] = common.CopyBytes(enc)
	})
	return ret
}

// DBValues is the inspected tree at the committed root, nil when it is empty.
func (self *Trie) DBValues() (*TreeNode, error) {
	return Inspect(self.db, self.root_hash)
}

func (self *Trie) insert(n node, prefix, key, value []byte) (bool, node, error) {
	switch n := n.(type) {
	case nil:
		return true, &leafNode{Key: key, Val: value, flags: self.newFlag()}, nil
	case *leafNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) && matchlen == len(key) {
			if bytes.Equal(n.Val, value) {
				return false, n, nil
			}
			self.obsolete(n.flags, prefix)
			return true, &leafNode{Key: n.Key, Val: value, flags: self.newFlag()}, nil
		}
		// Branch out at the first differing nibble. A key that ends at the
		// branch puts its value on the branch itself.
		self.obsolete(n.flags, prefix)
		branch := &branchNode{Key: key[:matchlen], flags: self.newFlag()}
		if matchlen == len(n.Key) {
			branch.Val = n.Val
		} else {
			branch.Children[n.Key[matchlen]] = &leafNode{Key: n.Key[matchlen+1:], Val: n.Val, flags: self.newFlag()}
		}
		if matchlen == len(key) {
			branch.Val = value
		} else {
			branch.Children[key[matchlen]] = &leafNode{Key: key[matchlen+1:], Val: value, flags: self.newFlag()}
		}
		return true, branch, nil
	case *branchNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			self.obsolete(n.flags, prefix)
			demoted := n.copy()
			demoted.Key, demoted.flags = n.Key[matchlen+1:], self.newFlag()
			branch := &branchNode{Key: key[:matchlen], flags: self.newFlag()}
			branch.Children[n.Key[matchlen]] = demoted
			if matchlen == len(key) {
				branch.Val = value
			} else {
				branch.Children[key[matchlen]] = &leafNode{Key: key[matchlen+1:], Val: value, flags: self.newFlag()}
			}
			return true, branch, nil
		}
		if matchlen == len(key) {
			if n.Val != nil && bytes.Equal(n.Val, value) {
				return false, n, nil
			}
			self.obsolete(n.flags, prefix)
			nn := n.copy()
			nn.Val, nn.flags = value, self.newFlag()
			return true, nn, nil
		}
		idx := key[matchlen]
		dirty, child, err := self.insert(n.Children[idx], bin.Concat(prefix, key[:matchlen+1]...), key[matchlen+1:], value)
		if !dirty || err != nil {
			return false, n, err
		}
		self.obsolete(n.flags, prefix)
		nn := n.copy()
		nn.Children[idx], nn.flags = child, self.newFlag()
		return true, nn, nil
	case hashNode:
		rn, err := self.resolve(n, prefix)
		if err != nil {
			return false, n, err
		}
		dirty, nn, err := self.insert(rn, prefix, key, value)
		if !dirty || err != nil {
			return false, n, err
		}
		return true, nn, nil
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", n, n))
	}
}

func (self *Trie) remove(n node, prefix, key []byte) (bool, node, error) {
	switch n := n.(type) {
	case nil:
		return false, nil, nil
	case *leafNode:
		if !bytes.Equal(n.Key, key) {
			return false, n, nil
		}
		self.obsolete(n.flags, prefix)
		return true, nil, nil
	case *branchNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen < len(n.Key) {
			return false, n, nil
		}
		if matchlen == len(key) {
			if n.Val == nil {
				return false, n, nil
			}
			self.obsolete(n.flags, prefix)
			nn := n.copy()
			nn.Val, nn.flags = nil, self.newFlag()
			return self.fix(nn, prefix)
		}
		idx := key[matchlen]
		dirty, child, err := self.remove(n.Children[idx], bin.Concat(prefix, key[:matchlen+1]...), key[matchlen+1:])
		if !dirty || err != nil {
			return false, n, err
		}
		self.obsolete(n.flags, prefix)
		nn := n.copy()
		nn.Children[idx], nn.flags = child, self.newFlag()
		return self.fix(nn, prefix)
	case hashNode:
		rn, err := self.resolve(n, prefix)
		if err != nil {
			return false, n, err
		}
		dirty, nn, err := self.remove(rn, prefix, key)
		if !dirty || err != nil {
			return false, n, err
		}
		return true, nn, nil
	default:
		panic(fmt.Sprintf("%T: invalid node: %v (%v)", n, n, key))
	}
}

// fix restores the canonical shape of a branch that just lost a value or a
// child. n is a fresh copy owned by the caller.
func (self *Trie) fix(n *branchNode, prefix []byte) (bool, node, error) {
	pos, count := -1, 0
	for i, child := range &n.Children {
		if child != nil {
			pos, count = i, count+1
		}
	}
	switch {
	case count > 1 || count == 1 && n.Val != nil:
		return true, n, nil
	case count == 0 && n.Val == nil:
		return true, nil, nil
	case count == 0:
		return true, &leafNode{Key: n.Key, Val: n.Val, flags: n.flags}, nil
	}
	// A valueless branch with one child merges into it.
	child_prefix := bin.Concat(bin.Concat(prefix, n.Key...), byte(pos))
	child := n.Children[pos]
	if hash, ok := child.(hashNode); ok {
		resolved, err := self.resolve(hash, child_prefix)
		if err != nil {
			return false, nil, err
		}
		child = resolved
	}
	switch child := child.(type) {
	case *leafNode:
		self.obsolete(child.flags, child_prefix)
		key := bin.Concat(bin.Concat(n.Key, byte(pos)), child.Key...)
		return true, &leafNode{Key: key, Val: child.Val, flags: self.newFlag()}, nil
	case *branchNode:
		self.obsolete(child.flags, child_prefix)
		nn := child.copy()
		nn.Key, nn.flags = bin.Concat(bin.Concat(n.Key, byte(pos)), child.Key...), self.newFlag()
		return true, nn, nil
	default:
		panic(fmt.Sprintf("%T: invalid node: %v", child, child))
	}
}

func (self *Trie) resolve(hash hashNode, prefix []byte) (node, error) {
	if cached, ok := self.cache.Get(common.Hash(hash)); ok {
		return cached.(node), nil
	}
	cacheMissCounter.Inc(1)
	enc, err := self.db.Get(common.Hash(hash))
	if err != nil {
		if len(prefix) == 0 {
			return nil, errors.Wrapf(ErrHandleOpen, "root %x", hash[:])
		}
		return nil, &MissingNodeError{NodeHash: common.Hash(hash), Path: common.CopyBytes(prefix)}
	}
	digest := common.Hash(hash)
	ret, err := decode_working_node(enc, &digest)
	if err != nil {
		return nil, errors.Wrapf(ErrCorruptTrie, "node %x at path %x: %v", hash[:], prefix, err)
	}
	self.cache.Add(digest, ret)
	return ret, nil
}

// obsolete schedules the stored version of a replaced node for dereferencing
// at the next commit. Nodes that never made it to the store are skipped.
func (self *Trie) obsolete(flags nodeFlag, path []byte) {
	if flags.stored() {
		self.pending = append(self.pending, deathRowEntry{*flags.hash, string(path)})
	}
}

func (self *Trie) newFlag() nodeFlag {
	return nodeFlag{dirty: true}
}

// decode_working_node turns a stored encoding into engine nodes, decoding
// inline children in place.
func decode_working_node(enc []byte, hash *common.Hash) (node, error) {
	decoded, err := DecodeNode(enc)
	if err != nil {
		return nil, err
	}
	flags := nodeFlag{hash: hash}
	switch n := decoded.(type) {
	case Leaf:
		return &leafNode{Key: n.Key.Nibbles(), Val: n.Value, flags: flags}, nil
	case Branch:
		return decode_working_branch(nil, n.Value, &n.Children, flags)
	case NibbledBranch:
		return decode_working_branch(n.Key.Nibbles(), n.Value, &n.Children, flags)
	default:
		return nil, malformed("unexpected %s node", decoded.node_kind())
	}
}

func decode_working_branch(key, value []byte, children *[16]ChildRef, flags nodeFlag) (node, error) {
	ret := &branchNode{Key: key, Val: value, flags: flags}
	for i, child := range children {
		switch {
		case child.Hash != nil:
			ret.Children[i] = hashNode(*child.Hash)
		case len(child.Inline) != 0:
			inline, err := decode_working_node(child.Inline, nil)
			if err != nil {
				return nil, err
			}
			ret.Children[i] = inline
		}
	}
	return ret, nil
}
