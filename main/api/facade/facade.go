// Package facade is the boundary exposed to hosts: every operation reports
// failure as false or nil instead of an error and never panics.
package facade

import (
	"encoding/json"

	"github.com/Taraxa-project/taraxa-trie/main/api"
	"github.com/Taraxa-project/taraxa-trie/taraxa/db/memory"
	"github.com/Taraxa-project/taraxa-trie/taraxa/trie"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/jsonutil"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("module", "facade")

type Trie struct {
	db   *memory.NodeDB
	trie *trie.Trie
}

func New(cfg *api.Config) *Trie {
	if cfg == nil {
		cfg = new(api.Config)
	}
	db := cfg.DB.NewNodeDB()
	return &Trie{db: db, trie: trie.New(db, cfg.Trie)}
}

func (self *Trie) Clear() {
	defer util.Recover(on_panic("clear"))
	self.trie.Clear()
}

func (self *Trie) Insert(key, value []byte) (ok bool) {
	defer util.Recover(on_panic("insert"))
	if err := self.trie.Insert(key, value); err != nil {
		logger.Warn("insert failed", "key", hexutil.Bytes(key), "err", err)
		return false
	}
	return true
}

func (self *Trie) Remove(key []byte) (ok bool) {
	defer util.Recover(on_panic("remove"))
	if err := self.trie.Remove(key); err != nil {
		logger.Warn("remove failed", "key", hexutil.Bytes(key), "err", err)
		return false
	}
	return true
}

func (self *Trie) Commit() (ok bool) {
	defer util.Recover(on_panic("commit"))
	if _, err := self.trie.Commit(); err != nil {
		logger.Warn("commit failed", "err", err)
		return false
	}
	return true
}

// Root is the 32 byte committed root digest, or nil on failure.
func (self *Trie) Root() (ret []byte) {
	defer util.Recover(on_panic("root"))
	return self.trie.Root().Bytes()
}

// Get returns nil for an absent key and on failure.
func (self *Trie) Get(key []byte) []byte {
	ret, _ := self.get(key)
	return ret
}

func (self *Trie) get(key []byte) (ret []byte, ok bool) {
	defer util.Recover(on_panic("get"))
	ret, err := self.trie.Get(key)
	if err != nil {
		logger.Warn("get failed", "key", hexutil.Bytes(key), "err", err)
		return nil, false
	}
	return ret, true
}

// DBValues returns nil for an empty trie and on failure.
func (self *Trie) DBValues() (ret *trie.TreeNode) {
	defer util.Recover(on_panic("dbValues"))
	ret, err := self.trie.DBValues()
	if err != nil {
		logger.Warn("inspection failed", "err", err)
		return nil
	}
	return
}

func (self *Trie) Values() (ret map[common.Hash][]byte) {
	defer util.Recover(on_panic("values"))
	return self.trie.Values()
}

func on_panic(op string) util.Predicate {
	return util.CatchAnyErr(func(err error) {
		logger.Error("trie operation panicked", "op", op, "err", err)
	})
}

// Run applies the request's operations in order to a fresh trie.
func Run(request *api.Request) (ret api.Response) {
	defer util.Recover(util.CatchAnyErr(func(e error) {
		err := api.SimpleError(e.Error())
		ret.Error = &err
	}))
	self := New(request.Config)
	ret.Results = make([]api.OpResult, 0, len(request.Ops))
	for _, op := range request.Ops {
		ret.Results = append(ret.Results, self.apply(op))
	}
	ret.Root = self.trie.Root()
	return
}

func (self *Trie) apply(op api.Op) (ret api.OpResult) {
	switch op.Type {
	case api.OpInsert:
		ret.Ok = self.Insert(op.Key, op.Value)
	case api.OpRemove:
		ret.Ok = self.Remove(op.Key)
	case api.OpGet:
		value, ok := self.get(op.Key)
		if value != nil {
			enc := hexutil.Bytes(value)
			ret.Value = &enc
		}
		ret.Ok = ok
	case api.OpCommit:
		ret.Ok = self.Commit()
		root := self.trie.Root()
		ret.Root = &root
	case api.OpRoot:
		root := self.trie.Root()
		ret.Ok, ret.Root = true, &root
	case api.OpClear:
		self.Clear()
		ret.Ok = true
	case api.OpValues:
		ret.Values = make(map[common.Hash]hexutil.Bytes)
		for hash, enc := range self.Values() {
			ret.Values[hash] = enc
		}
		ret.Ok = true
	case api.OpDBValues:
		ret.Tree = self.DBValues()
		ret.Ok = true
	default:
		logger.Warn("unknown operation", "type", op.Type)
	}
	return
}

func RunJson(requestJson string) string {
	var response api.Response
	request := new(api.Request)
	if err := json.Unmarshal([]byte(requestJson), request); err != nil {
		simple_err := api.SimpleError(err.Error())
		response.Error = &simple_err
	} else {
		response = Run(request)
	}
	return string(jsonutil.MustEncode(&response))
}
