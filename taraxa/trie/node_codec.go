package trie

import (
	"encoding/binary"

	"github.com/Taraxa-project/taraxa-trie/taraxa/util/asserts"
	"github.com/Taraxa-project/taraxa-trie/taraxa/util/scale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Node layout:
//
//	header | partial key | [value] | [bitmap | children]
//
// The two high bits of the header select the variant, the six low bits hold
// the partial key length in nibbles. A length of 63 or more is continued in the
// following bytes. The value is a SCALE compact length followed by the bytes.
// Branches carry a little-endian 16-bit bitmap of present children, then each
// child as a compact length followed by either a 32 byte digest or the child's
// own encoding when that is shorter than 32 bytes.

const NibbleSizeBound = 65535

const (
	header_empty             = byte(0x00)
	header_leaf              = byte(0x40)
	header_branch            = byte(0x80)
	header_branch_with_value = byte(0xC0)
	header_variant_mask      = byte(0xC0)
	header_size_mask         = byte(0x3F)
	header_size_inline_max   = 62
)

func EncodeNode(n Node) []byte {
	return AppendNode(nil, n)
}

func AppendNode(out []byte, n Node) []byte {
	switch n := n.(type) {
	case Empty:
		return append(out, header_empty)
	case Leaf:
		out = append_partial(out, header_leaf, n.Key)
		return append_value(out, n.Value)
	case Branch:
		return append_branch(out, NodeKey{}, n.Value, &n.Children)
	case NibbledBranch:
		asserts.Holds(n.Key.Len() != 0, "nibbled branch with an empty key")
		return append_branch(out, n.Key, n.Value, &n.Children)
	default:
		panic("impossible")
	}
}

func append_branch(out []byte, key NodeKey, value []byte, children *[16]ChildRef) []byte {
	if value == nil {
		out = append_partial(out, header_branch, key)
	} else {
		out = append_partial(out, header_branch_with_value, key)
		out = append_value(out, value)
	}
	var bitmap uint16
	for i := range children {
		if !children[i].IsEmpty() {
			bitmap |= 1 << uint(i)
		}
	}
	out = append(out, byte(bitmap), byte(bitmap>>8))
	for i := range children {
		switch child := children[i]; {
		case child.Hash != nil:
			out = scale.AppendCompact(out, common.HashLength)
			out = append(out, child.Hash[:]...)
		case len(child.Inline) != 0:
			asserts.Holds(len(child.Inline) < common.HashLength, "inline child is too large")
			out = scale.AppendCompact(out, uint64(len(child.Inline)))
			out = append(out, child.Inline...)
		}
	}
	return out
}

func append_partial(out []byte, variant byte, key NodeKey) []byte {
	size := key.Len()
	asserts.Holds(size <= NibbleSizeBound, "partial key exceeds the nibble size bound")
	if size <= header_size_inline_max {
		out = append(out, variant|byte(size))
	} else {
		out = append(out, variant|header_size_mask)
		for rem := size - header_size_inline_max; rem > 0; {
			if rem < 256 {
				out, rem = append(out, byte(rem-1)), 0
			} else {
				out, rem = append(out, 255), rem-255
			}
		}
	}
	if size == 0 {
		return out
	}
	if key.Offset == 1 {
		out = append(out, key.Data[0]&0x0f)
		return append(out, key.Data[1:]...)
	}
	return append(out, key.Data...)
}

func append_value(out, value []byte) []byte {
	out = scale.AppendCompact(out, uint64(len(value)))
	return append(out, value...)
}

func DecodeNode(enc []byte) (Node, error) {
	dec := node_decoder{enc}
	ret, err := dec.node()
	if err != nil {
		return nil, err
	}
	if len(dec.in) != 0 {
		return nil, malformed("%d trailing bytes", len(dec.in))
	}
	return ret, nil
}

type node_decoder struct {
	in []byte
}

func (self *node_decoder) node() (Node, error) {
	header, err := self.bytes(1)
	if err != nil {
		return nil, err
	}
	if header[0] == header_empty {
		return Empty{}, nil
	}
	variant := header[0] & header_variant_mask
	if variant == 0 {
		return nil, malformed("unknown header %#x", header[0])
	}
	size, err := self.partial_size(header[0])
	if err != nil {
		return nil, err
	}
	key, err := self.partial(size)
	if err != nil {
		return nil, err
	}
	if variant == header_leaf {
		value, err := self.value()
		if err != nil {
			return nil, err
		}
		return Leaf{Key: key, Value: value}, nil
	}
	var value []byte
	if variant == header_branch_with_value {
		if value, err = self.value(); err != nil {
			return nil, err
		}
	}
	var children [16]ChildRef
	if err := self.children(&children); err != nil {
		return nil, err
	}
	if size == 0 {
		return Branch{Value: value, Children: children}, nil
	}
	return NibbledBranch{Key: key, Value: value, Children: children}, nil
}

func (self *node_decoder) partial_size(header byte) (int, error) {
	size := int(header & header_size_mask)
	if size <= header_size_inline_max {
		return size, nil
	}
	size = header_size_inline_max
	for {
		b, err := self.bytes(1)
		if err != nil {
			return 0, err
		}
		if b[0] < 255 {
			size += int(b[0]) + 1
			break
		}
		size += 255
		if size > NibbleSizeBound {
			break
		}
	}
	if size > NibbleSizeBound {
		return 0, malformed("partial key of %d nibbles", size)
	}
	return size, nil
}

func (self *node_decoder) partial(size int) (ret NodeKey, err error) {
	if size == 0 {
		return
	}
	data, err := self.bytes((size + 1) / 2)
	if err != nil {
		return
	}
	if size&1 == 1 {
		if data[0]&0xf0 != 0 {
			return ret, malformed("non-zero padding nibble in %#x", data[0])
		}
		ret.Offset = 1
	}
	ret.Data = common.CopyBytes(data)
	return
}

func (self *node_decoder) value() ([]byte, error) {
	size, err := self.compact()
	if err != nil {
		return nil, err
	}
	data, err := self.bytes(size)
	if err != nil {
		return nil, err
	}
	return append(make([]byte, 0, size), data...), nil
}

func (self *node_decoder) children(children *[16]ChildRef) error {
	raw_bitmap, err := self.bytes(2)
	if err != nil {
		return err
	}
	bitmap := binary.LittleEndian.Uint16(raw_bitmap)
	for i := range children {
		if bitmap&(1<<uint(i)) == 0 {
			continue
		}
		size, err := self.compact()
		if err != nil {
			return err
		}
		if size == 0 || size > common.HashLength {
			return malformed("child %s of %d bytes", indices[i], size)
		}
		data, err := self.bytes(size)
		if err != nil {
			return err
		}
		if size == common.HashLength {
			hash := common.BytesToHash(data)
			children[i].Hash = &hash
		} else {
			children[i].Inline = common.CopyBytes(data)
		}
	}
	return nil
}

func (self *node_decoder) compact() (int, error) {
	v, n, err := scale.DecodeCompact(self.in)
	if err != nil {
		return 0, errors.Wrap(ErrMalformedNode, err.Error())
	}
	self.in = self.in[n:]
	if v > uint64(len(self.in)) {
		return 0, malformed("length %d exceeds the remaining %d bytes", v, len(self.in))
	}
	return int(v), nil
}

func (self *node_decoder) bytes(n int) (ret []byte, err error) {
	if len(self.in) < n {
		return nil, malformed("truncated: need %d bytes, have %d", n, len(self.in))
	}
	ret, self.in = self.in[:n], self.in[n:]
	return
}
