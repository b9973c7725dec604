package trie

import "github.com/ethereum/go-ethereum/metrics"

var (
	cacheMissCounter    = metrics.NewRegisteredCounterForced("trie/cachemiss", nil)
	storedCounter       = metrics.NewRegisteredCounterForced("trie/commit/stored", nil)
	dereferencedCounter = metrics.NewRegisteredCounterForced("trie/commit/dereferenced", nil)
)

// CacheMisses counts node resolutions that had to decode from the node store.
func CacheMisses() int64 {
	return cacheMissCounter.Count()
}

// StoredNodes counts node store references taken by commits.
func StoredNodes() int64 {
	return storedCounter.Count()
}

// DereferencedNodes counts node store references released by commits.
func DereferencedNodes() int64 {
	return dereferencedCounter.Count()
}
