package api

import (
	"github.com/Taraxa-project/taraxa-trie/taraxa/trie"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type OpType = string

const (
	OpInsert   OpType = "insert"
	OpRemove   OpType = "remove"
	OpGet      OpType = "get"
	OpCommit   OpType = "commit"
	OpRoot     OpType = "root"
	OpClear    OpType = "clear"
	OpValues   OpType = "values"
	OpDBValues OpType = "dbValues"
)

type Op struct {
	Type  OpType        `json:"type"`
	Key   hexutil.Bytes `json:"key,omitempty"`
	Value hexutil.Bytes `json:"value,omitempty"`
}

type Pair struct {
	Key   hexutil.Bytes `json:"key"`
	Value hexutil.Bytes `json:"value"`
}

type Request struct {
	Config *Config `json:"config"`
	Ops    []Op    `json:"ops"`
}

// OpResult carries the outcome of one Op. Value is null for an absent key,
// Tree is null for an empty trie.
type OpResult struct {
	Ok     bool                          `json:"ok"`
	Value  *hexutil.Bytes                `json:"value,omitempty"`
	Root   *common.Hash                  `json:"root,omitempty"`
	Tree   *trie.TreeNode                `json:"tree,omitempty"`
	Values map[common.Hash]hexutil.Bytes `json:"values,omitempty"`
}

type Response struct {
	Results []OpResult   `json:"results"`
	Root    common.Hash  `json:"root"`
	Error   *SimpleError `json:"error"`
}

type SimpleError string

func (self SimpleError) Error() string {
	return string(self)
}
