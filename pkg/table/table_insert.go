package table

import (
	"go-dbindex/pkg/bptree"

	"github.com/pkg/errors"
)

// Insert adds a row. It returns false, leaving the table unchanged, when a
// row with the same key exists.
func (t *Table) Insert(key int32, fields []string) (bool, error) {
	if err := t.checkOpen(); err != nil {
		return false, err
	}
	if err := t.validate(fields); err != nil {
		return false, err
	}

	addr, err := t.free.Alloc()
	if err != nil {
		return false, errors.Wrap(err, "failed to allocate row")
	}

	ok, err := t.index.Insert(key, bptree.Address(addr))
	if err != nil || !ok {
		if ferr := t.free.Free(addr); err == nil {
			err = ferr
		}
		return false, err
	}

	return true, t.writeRecord(bptree.Address(addr), record{key: key, fields: fields})
}
