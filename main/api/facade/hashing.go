package facade

import "github.com/Taraxa-project/taraxa-trie/taraxa/util/hashing"

var (
	Blake2_512 = hashing.Blake2_512
	Blake2_256 = hashing.Blake2_256
	Blake2_128 = hashing.Blake2_128
	Twox64     = hashing.Twox64
	Twox128    = hashing.Twox128
)

// HashFunctions maps algorithm names to the standalone hash functions.
var HashFunctions = map[string]func([]byte) []byte{
	"blake2_512": Blake2_512,
	"blake2_256": Blake2_256,
	"blake2_128": Blake2_128,
	"twox_64":    Twox64,
	"twox_128":   Twox128,
}
