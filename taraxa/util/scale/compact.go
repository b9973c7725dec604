// Package scale implements the SCALE compact integer encoding used for
// length prefixes in encoded trie nodes.
//
// The two low bits of the first byte select the mode: 0b00 a single byte,
// 0b01 two bytes, 0b10 four bytes (all little-endian, value shifted left by
// two), and 0b11 a big-integer mode where the upper six bits hold the number
// of following little-endian bytes minus four.
package scale

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrTruncated    = errors.New("compact: unexpected end of input")
	ErrNonCanonical = errors.New("compact: non-canonical encoding")
	ErrOverflow     = errors.New("compact: value overflows 64 bits")
)

const (
	singleByteLimit = 1 << 6
	twoByteLimit    = 1 << 14
	fourByteLimit   = 1 << 30
)

func AppendCompact(out []byte, v uint64) []byte {
	switch {
	case v < singleByteLimit:
		return append(out, byte(v<<2))
	case v < twoByteLimit:
		return append(out, byte(v<<2)|0b01, byte(v>>6))
	case v < fourByteLimit:
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(v<<2)|0b10)
		return append(out, buf[:]...)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	size := 8
	for buf[size-1] == 0 {
		size--
	}
	out = append(out, byte(size-4)<<2|0b11)
	return append(out, buf[:size]...)
}

func EncodeCompact(v uint64) []byte {
	return AppendCompact(make([]byte, 0, 9), v)
}

// DecodeCompact returns the decoded value and the number of bytes it spans.
func DecodeCompact(in []byte) (v uint64, size int, err error) {
	if len(in) == 0 {
		return 0, 0, ErrTruncated
	}
	switch in[0] & 0b11 {
	case 0b00:
		return uint64(in[0] >> 2), 1, nil
	case 0b01:
		if len(in) < 2 {
			return 0, 0, ErrTruncated
		}
		if v = uint64(binary.LittleEndian.Uint16(in) >> 2); v < singleByteLimit {
			return 0, 0, ErrNonCanonical
		}
		return v, 2, nil
	case 0b10:
		if len(in) < 4 {
			return 0, 0, ErrTruncated
		}
		if v = uint64(binary.LittleEndian.Uint32(in) >> 2); v < twoByteLimit {
			return 0, 0, ErrNonCanonical
		}
		return v, 4, nil
	}
	size = int(in[0]>>2) + 4
	if size > 8 {
		return 0, 0, ErrOverflow
	}
	if len(in) < size+1 {
		return 0, 0, ErrTruncated
	}
	var buf [8]byte
	copy(buf[:], in[1:size+1])
	if buf[size-1] == 0 {
		return 0, 0, ErrNonCanonical
	}
	if v = binary.LittleEndian.Uint64(buf[:]); v < fourByteLimit {
		return 0, 0, ErrNonCanonical
	}
	return v, size + 1, nil
}
