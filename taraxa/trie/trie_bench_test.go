package trie

import (
	"math/rand"
	"testing"

	"github.com/Taraxa-project/taraxa-trie/taraxa/db/memory"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/benchmarking"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/tests"
)

func BenchmarkTrie(b *testing.B) {
	rnd := rand.New(rand.NewSource(0))
	keys := tests.UniqueKeys(rnd, 10000, 32)
	values := make([][]byte, len(keys))
	for i := range values {
		values[i] = tests.RandomBytes(rnd, 1+rnd.Intn(64))
	}
	benchmarking.AddBenchmark(b, "insert_commit", func(b *testing.B, i int) {
		tr := New(memory.NewNodeDB(0), Opts{})
		for j, key := range keys {
			if err := tr.Insert(key, values[j]); err != nil {
				b.Fatal(err)
			}
		}
		if _, err := tr.Commit(); err != nil {
			b.Fatal(err)
		}
	})
	db := memory.NewNodeDB(0)
	populated := New(db, Opts{})
	for j, key := range keys {
		populated.Insert(key, values[j])
	}
	root, _ := populated.Commit()
	benchmarking.AddBenchmark(b, "get_cold", func(b *testing.B, i int) {
		tr, err := NewWithRoot(db, root, Opts{CacheSize: len(keys)})
		if err != nil {
			b.Fatal(err)
		}
		for _, key := range keys[:1000] {
			if _, err := tr.Get(key); err != nil {
				b.Fatal(err)
			}
		}
	})
}
