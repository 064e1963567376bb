package bptree

import (
	"go-dbindex/pkg/customerrors"
	"go-dbindex/util/helpers"

	"github.com/pkg/errors"
)

// nodeCodec converts nodes to and from their fixed-width block layout:
//
//	count    int32             leaf: -len(keys), internal: len(keys)
//	keys     int32 * (order-1) occupied prefix, zero padded
//	children int64 * order     internal: child blocks
//	                           leaf: row addresses, last slot = next leaf
//
// The rest of the block, if any, is zero.
type nodeCodec struct {
	order     int
	blockSize int
}

func newNodeCodec(blockSize int) nodeCodec {
	return nodeCodec{
		order:     blockSize / nodeSlotSize,
		blockSize: blockSize,
	}
}

func (c nodeCodec) keyOffset(i int) int {
	return countSize + i*keySize
}

func (c nodeCodec) childOffset(i int) int {
	return countSize + (c.order-1)*keySize + i*childSize
}

func (c nodeCodec) encode(n node) []byte {
	buf := make([]byte, c.blockSize)

	var (
		count    int32
		keys     []int32
		children []Address
	)

	switch n := n.(type) {
	case *leafNode:
		count = -int32(len(n.keys))
		keys = n.keys
		children = n.values
		bin.PutUint64(buf[c.childOffset(c.order-1):], uint64(n.next))
	case *internalNode:
		count = int32(len(n.keys))
		keys = n.keys
		children = n.children
	}

	bin.PutUint32(buf[0:countSize], uint32(count))
	for i, k := range keys {
		bin.PutUint32(buf[c.keyOffset(i):], uint32(k))
	}
	for i, ch := range children {
		bin.PutUint64(buf[c.childOffset(i):], uint64(ch))
	}

	return buf
}

func (c nodeCodec) decode(addr Address, d []byte) (node, error) {
	if len(d) < c.childOffset(c.order) {
		return nil, errors.Wrapf(customerrors.ErrCorruptNode, "short block at %v: %d bytes", addr, len(d))
	}

	count := int32(bin.Uint32(d[0:countSize]))
	if limit := int32(c.order - 1); count < -limit || count > limit {
		return nil, errors.Wrapf(
			customerrors.ErrCorruptNode,
			"count %d out of range at %v (order %d)", count, addr, c.order,
		)
	}

	// full width arrays are always read; only the occupied prefix is kept.
	allKeys := make([]int32, c.order-1)
	for i := range allKeys {
		allKeys[i] = int32(bin.Uint32(d[c.keyOffset(i):]))
	}
	allChildren := make([]Address, c.order)
	for i := range allChildren {
		allChildren[i] = Address(bin.Uint64(d[c.childOffset(i):]))
	}

	n := int(helpers.Abs(count))
	for i := 1; i < n; i++ {
		if allKeys[i-1] >= allKeys[i] {
			return nil, errors.Wrapf(customerrors.ErrCorruptNode, "unsorted keys at %v: %v", addr, allKeys[:n])
		}
	}

	if count <= 0 {
		leaf := &leafNode{
			addr:   addr,
			keys:   make([]int32, n, c.order-1),
			values: make([]Address, n, c.order-1),
			next:   allChildren[c.order-1],
		}
		copy(leaf.keys, allKeys[:n])
		copy(leaf.values, allChildren[:n])
		return leaf, nil
	}

	internal := &internalNode{
		addr:     addr,
		keys:     make([]int32, n, c.order-1),
		children: make([]Address, n+1, c.order),
	}
	copy(internal.keys, allKeys[:n])
	copy(internal.children, allChildren[:n+1])
	return internal, nil
}
