package table

import (
	"math"

	"go-dbindex/pkg/bptree"
	"go-dbindex/pkg/customerrors"

	"github.com/pkg/errors"
)

// Search returns the fields of the row with the given key, without their
// padding. The result is empty when there is no such row.
func (t *Table) Search(key int32) ([]string, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	addr, err := t.index.Search(key)
	if err != nil {
		return nil, err
	}
	if addr.IsNil() {
		return []string{}, nil
	}

	r, err := t.readRecord(addr)
	if err != nil {
		return nil, err
	}
	return r.fields, nil
}

// SearchRange returns the fields of every row with a key in [low, high], in
// ascending key order.
func (t *Table) SearchRange(low, high int32) ([][]string, error) {
	if err := t.checkOpen(); err != nil {
		return nil, err
	}

	addrs, err := t.index.SearchRange(low, high)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, len(addrs))
	for _, addr := range addrs {
		r, err := t.readRecord(addr)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r.fields)
	}
	return rows, nil
}

// Each calls fn for every row in ascending key order until fn returns true.
func (t *Table) Each(fn func(key int32, fields []string) (bool, error)) error {
	return t.Scan(math.MinInt32, math.MaxInt32, fn)
}

// Scan calls fn for every row with a key in [low, high] in ascending key
// order until fn returns true.
func (t *Table) Scan(low, high int32, fn func(key int32, fields []string) (bool, error)) error {
	if err := t.checkOpen(); err != nil {
		return err
	}

	return t.index.Scan(low, high, func(key int32, addr bptree.Address) (bool, error) {
		r, err := t.readRecord(addr)
		if err != nil {
			return false, err
		}
		if r.key != key {
			return false, errors.Wrapf(
				customerrors.ErrCorruptNode,
				"index key %d points at row %v with key %d", key, addr, r.key,
			)
		}
		return fn(r.key, r.fields)
	})
}
