// Package hashing provides the digest families used by the trie and its hosts:
// blake2b at 128/256/512 bits and the twox (xxhash64) family at 64/128 bits.
package hashing

import (
	"encoding/binary"
	"hash"
	"sync"

	"github.com/Taraxa-project/taraxa-trie/taraxa/util"
	"github.com/cespare/xxhash/v2"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"
)

type Hasher struct {
	state hash.Hash
}

func (self *Hasher) Write(b []byte) {
	self.state.Write(b)
}

func (self *Hasher) Hash() (ret common.Hash) {
	self.state.Sum(ret[:0])
	return
}

var hashers = sync.Pool{New: func() interface{} {
	state, err := blake2b.New256(nil)
	util.PanicIfNotNil(err)
	return &Hasher{state}
}}

func GetHasherFromPool() *Hasher {
	return hashers.Get().(*Hasher)
}

func ReturnHasherToPool(hasher *Hasher) {
	hasher.state.Reset()
	hashers.Put(hasher)
}

// Blake2Hash is the 256-bit blake2b digest of the concatenation of bs.
func Blake2Hash(bs ...[]byte) common.Hash {
	hasher := GetHasherFromPool()
	defer ReturnHasherToPool(hasher)
	for _, b := range bs {
		hasher.Write(b)
	}
	return hasher.Hash()
}

func Blake2_512(data []byte) []byte {
	ret := blake2b.Sum512(data)
	return ret[:]
}

func Blake2_256(data []byte) []byte {
	ret := Blake2Hash(data)
	return ret[:]
}

func Blake2_128(data []byte) []byte {
	state, err := blake2b.New(16, nil)
	util.PanicIfNotNil(err)
	state.Write(data)
	return state.Sum(nil)
}

func Twox64(data []byte) []byte {
	return twox(data, 1)
}

func Twox128(data []byte) []byte {
	return twox(data, 2)
}

// twox concatenates little-endian xxhash64 digests seeded 0..rounds-1.
func twox(data []byte, rounds int) []byte {
	ret := make([]byte, 8*rounds)
	for seed := 0; seed < rounds; seed++ {
		digest := xxhash.NewWithSeed(uint64(seed))
		digest.Write(data)
		binary.LittleEndian.PutUint64(ret[8*seed:], digest.Sum64())
	}
	return ret
}
