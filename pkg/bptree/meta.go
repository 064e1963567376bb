package bptree

import (
	"github.com/pkg/errors"
)

// metadataSize is the size of the header at offset 0:
// root (8) + free list head (8) + block size (4).
const metadataSize = 20

// metadata represents the header of the index file. It is read once on open
// and written back on close, so in between it is authoritative only in
// memory.
type metadata struct {
	root      Address
	freeHead  Address
	blockSize int32
}

// order is the maximum number of children of an internal node. Each key
// costs 4 bytes and each child 8, so a node of this order fits one block.
func (m metadata) order() int {
	return int(m.blockSize) / nodeSlotSize
}

func (m metadata) MarshalBinary() ([]byte, error) {
	buf := make([]byte, metadataSize)
	bin.PutUint64(buf[0:8], uint64(m.root))
	bin.PutUint64(buf[8:16], uint64(m.freeHead))
	bin.PutUint32(buf[16:20], uint32(m.blockSize))
	return buf, nil
}

func (m *metadata) UnmarshalBinary(d []byte) error {
	if len(d) < metadataSize {
		return errors.New("in-sufficient data for unmarshal")
	} else if m == nil {
		return errors.New("cannot unmarshal into nil")
	}

	m.root = Address(bin.Uint64(d[0:8]))
	m.freeHead = Address(bin.Uint64(d[8:16]))
	m.blockSize = int32(bin.Uint32(d[16:20]))
	return nil
}
