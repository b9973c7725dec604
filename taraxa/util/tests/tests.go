package tests

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	mapset "github.com/deckarep/golang-set"
	"github.com/stretchr/testify/assert"
)

type TestCtx struct {
	*testing.T
	Assert assert.Assertions
}

func NewTestCtx(t *testing.T) (ret TestCtx) {
	ret.T = t
	ret.Assert = *assert.New(t)
	return
}

// Dump logs a deep dump of objs; used to make structural failures readable.
func (self *TestCtx) Dump(objs ...interface{}) {
	self.Log(spew.Sdump(objs...))
}

func RandomBytes(rnd *rand.Rand, size int) []byte {
	ret := make([]byte, size)
	rnd.Read(ret)
	return ret
}

// UniqueKeys returns count distinct random keys with lengths in [1, max_len].
func UniqueKeys(rnd *rand.Rand, count, max_len int) (ret [][]byte) {
	seen := mapset.NewThreadUnsafeSet()
	for len(ret) < count {
		k := RandomBytes(rnd, 1+rnd.Intn(max_len))
		if seen.Add(string(k)) {
			ret = append(ret, k)
		}
	}
	return
}
