package table

import (
	"go-dbindex/util/helpers"

	"github.com/pkg/errors"
)

// metadata represents the header of the row file:
//
//	field count int32 | field length int32 * count | free list head int64
type metadata struct {
	fieldLengths []int
	freeHead     int64
}

func metadataSize(fields int) int {
	return 4 + 4*fields + 8
}

// rowSize is the width of one row: the key followed by 2 bytes per
// character of every field. Rows are never smaller than a free list link.
func (m *metadata) rowSize() int {
	size := 4
	for _, l := range m.fieldLengths {
		size += 2 * l
	}
	return helpers.Max(size, 8)
}

func (m *metadata) MarshalBinary() ([]byte, error) {
	buf := make([]byte, metadataSize(len(m.fieldLengths)))
	offset := 0

	bin.PutUint32(buf[offset:offset+4], uint32(len(m.fieldLengths)))
	offset += 4

	for _, l := range m.fieldLengths {
		bin.PutUint32(buf[offset:offset+4], uint32(l))
		offset += 4
	}

	bin.PutUint64(buf[offset:offset+8], uint64(m.freeHead))
	return buf, nil
}

func (m *metadata) UnmarshalBinary(d []byte) error {
	if len(d) < 4 {
		return errors.New("in-sufficient data for unmarshal")
	}

	count := int(int32(bin.Uint32(d[0:4])))
	if count <= 0 || len(d) < metadataSize(count) {
		return errors.Errorf("invalid field count %d", count)
	}

	offset := 4
	m.fieldLengths = make([]int, count)
	for i := range m.fieldLengths {
		m.fieldLengths[i] = int(int32(bin.Uint32(d[offset : offset+4])))
		if m.fieldLengths[i] <= 0 {
			return errors.Errorf("invalid length %d of field %d", m.fieldLengths[i], i)
		}
		offset += 4
	}

	m.freeHead = int64(bin.Uint64(d[offset : offset+8]))
	return nil
}
