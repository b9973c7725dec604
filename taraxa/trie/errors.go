package trie

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrMalformedNode = errors.New("malformed trie node")
	ErrCorruptTrie   = errors.New("corrupt trie")
	ErrHandleOpen    = errors.New("trie root is not in the node store")
	ErrKeyTooLong    = errors.New("key exceeds the nibble size bound")
)

// MissingNodeError is returned when a node referenced by digest on the way to
// a key is absent from the node store.
type MissingNodeError struct {
	NodeHash common.Hash
	Path     []byte // nibbles leading to the missing node
}

func (err *MissingNodeError) Error() string {
	return fmt.Sprintf("missing trie node %x (path %x)", err.NodeHash, err.Path)
}

func malformed(format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformedNode, format, args...)
}
