package table

import (
	"unicode/utf16"

	"go-dbindex/pkg/customerrors"

	"github.com/pkg/errors"
)

// record is one row: the key and its character fields.
type record struct {
	key    int32
	fields []string
}

func (t *Table) validate(fields []string) error {
	if len(fields) != len(t.meta.fieldLengths) {
		return errors.Wrapf(
			customerrors.ErrFieldCount,
			"got %d, table has %d", len(fields), len(t.meta.fieldLengths),
		)
	}

	for i, f := range fields {
		if n := len(utf16.Encode([]rune(f))); n > t.meta.fieldLengths[i] {
			return errors.Wrapf(
				customerrors.ErrFieldTooLong,
				"field %d: %d characters, max %d", i, n, t.meta.fieldLengths[i],
			)
		}
	}
	return nil
}

func (t *Table) marshalRecord(r record) []byte {
	buf := make([]byte, t.meta.rowSize())
	bin.PutUint32(buf[0:4], uint32(r.key))

	offset := 4
	for i, f := range r.fields {
		for j, c := range utf16.Encode([]rune(f)) {
			bin.PutUint16(buf[offset+2*j:], c)
		}
		offset += 2 * t.meta.fieldLengths[i]
	}
	return buf
}

func (t *Table) unmarshalRecord(d []byte) record {
	r := record{
		key:    int32(bin.Uint32(d[0:4])),
		fields: make([]string, len(t.meta.fieldLengths)),
	}

	offset := 4
	for i, l := range t.meta.fieldLengths {
		units := make([]uint16, 0, l)
		for j := 0; j < l; j++ {
			if c := bin.Uint16(d[offset : offset+2]); c != 0 {
				units = append(units, c)
			}
			offset += 2
		}
		r.fields[i] = string(utf16.Decode(units))
	}
	return r
}
