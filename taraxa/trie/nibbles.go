package trie

import (
	"encoding/hex"

	"github.com/Taraxa-project/taraxa-trie/taraxa/util/asserts"
)

// Keys are handled in two forms. KEYBYTES is the caller's key as is. NIBBLES
// holds one nibble (0..15) per byte, most significant nibble first, and is
// what the engine works with. NodeKey is the packed form stored in encoded
// nodes: two nibbles per byte, with the high nibble of the first byte unused
// when the nibble count is odd.

func KeyToNibbles(key []byte) []byte {
	ret := make([]byte, len(key)*2)
	for i, b := range key {
		ret[i*2] = b >> 4
		ret[i*2+1] = b & 0x0f
	}
	return ret
}

// NibblesToKey packs an even number of nibbles back into bytes.
func NibblesToKey(nibbles []byte) []byte {
	asserts.Holds(len(nibbles)&1 == 0, "can't convert an odd number of nibbles to key bytes")
	ret := make([]byte, len(nibbles)/2)
	for i := range ret {
		ret[i] = nibbles[i*2]<<4 | nibbles[i*2+1]
	}
	return ret
}

type NodeKey struct {
	Offset int
	Data   []byte
}

func NodeKeyFromNibbles(nibbles []byte) (ret NodeKey) {
	if len(nibbles) == 0 {
		return
	}
	if len(nibbles)&1 == 1 {
		ret.Offset = 1
		ret.Data = append([]byte{nibbles[0]}, NibblesToKey(nibbles[1:])...)
		return
	}
	ret.Data = NibblesToKey(nibbles)
	return
}

func (self NodeKey) Len() int {
	if len(self.Data) == 0 {
		return 0
	}
	return len(self.Data)*2 - self.Offset
}

func (self NodeKey) Nibbles() []byte {
	if len(self.Data) == 0 {
		return nil
	}
	return KeyToNibbles(self.Data)[self.Offset:]
}

// Hex renders the key as one hex digit per nibble, without the padding nibble.
func (self NodeKey) Hex() string {
	if len(self.Data) == 0 {
		return ""
	}
	return hex.EncodeToString(self.Data)[self.Offset:]
}

func prefixLen(a, b []byte) (i int) {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	for ; i < length; i++ {
		if a[i] != b[i] {
			break
		}
	}
	return
}
