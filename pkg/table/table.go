// Package table stores fixed-width rows in a flat file and finds them
// through a bptree index on the row key. Rows removed from the table go on a
// free list threaded through the row file and are reused by later inserts.
package table

import (
	"encoding/binary"
	"fmt"

	"go-dbindex/pkg/bptree"
	"go-dbindex/pkg/customerrors"
	"go-dbindex/pkg/freelist"
	"go-dbindex/pkg/pager"
	"go-dbindex/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// bin is the byte order used for all marshals/unmarshals.
var bin = binary.BigEndian

type Table struct {
	path  string
	pager *pager.Pager
	free  *freelist.Freelist
	index *bptree.BPlusTree
	meta  *metadata
}

// Create creates a new table at tablePath, replacing any existing one, with
// its key index at tablePath + "Index".
func Create(tablePath string, opts *Options) (*Table, error) {
	if opts == nil || len(opts.FieldLengths) == 0 {
		return nil, errors.New("at least one field is required")
	}
	for i, l := range opts.FieldLengths {
		if l <= 0 {
			return nil, errors.Errorf("invalid length %d of field %d", l, i)
		}
	}

	mode := opts.FileMode
	if mode == 0 {
		mode = 0644
	}

	p, err := pager.Create(tablePath, mode)
	if err != nil {
		return nil, err
	}

	t := &Table{
		path:  tablePath,
		pager: p,
		meta: &metadata{
			fieldLengths: append([]int(nil), opts.FieldLengths...),
		},
	}

	if err := t.writeMeta(); err != nil {
		_ = p.Close()
		return nil, err
	}

	if t.index, err = createIndex(tablePath, opts); err != nil {
		_ = p.Close()
		return nil, err
	}

	if err := t.init(); err != nil {
		_ = t.index.Close()
		_ = p.Close()
		return nil, err
	}

	logger.L.WithFields(logrus.Fields{
		"path":   tablePath,
		"fields": opts.FieldLengths,
	}).Debug("created table")
	return t, nil
}

// Open opens an existing table and its index.
func Open(tablePath string) (*Table, error) {
	p, err := pager.Open(tablePath)
	if err != nil {
		return nil, err
	}

	t := &Table{
		path:  tablePath,
		pager: p,
		meta:  &metadata{},
	}

	if err := t.readMeta(); err != nil {
		_ = p.Close()
		return nil, err
	}

	if t.index, err = openIndex(tablePath); err != nil {
		_ = p.Close()
		return nil, err
	}

	if err := t.init(); err != nil {
		_ = t.index.Close()
		_ = p.Close()
		return nil, err
	}

	logger.L.WithFields(logrus.Fields{
		"path":   tablePath,
		"fields": t.meta.fieldLengths,
		"index":  t.index,
	}).Debug("opened table")
	return t, nil
}

// FieldLengths returns the declared width of every field.
func (t *Table) FieldLengths() []int {
	return append([]int(nil), t.meta.fieldLengths...)
}

// Index exposes the key index, for diagnostics.
func (t *Table) Index() *bptree.BPlusTree {
	return t.index
}

// Close writes the header and closes the row file and the index. The table
// must not be used afterwards.
func (t *Table) Close() error {
	if err := t.checkOpen(); err != nil {
		return err
	}

	err := t.writeMeta()
	if ierr := t.index.Close(); err == nil {
		err = ierr
	}
	if perr := t.pager.Close(); err == nil {
		err = perr
	}
	t.pager = nil

	logger.L.WithField("path", t.path).Debug("closed table")
	return err
}

func (t *Table) String() string {
	return fmt.Sprintf("Table{path='%s', fields=%v}", t.path, t.meta.fieldLengths)
}

func (t *Table) init() error {
	fl, err := freelist.New(t.pager, freelist.Options{
		Head:      t.meta.freeHead,
		BlockSize: int64(t.meta.rowSize()),
	})
	if err != nil {
		return err
	}
	t.free = fl
	return nil
}

func (t *Table) checkOpen() error {
	if t.pager == nil {
		return customerrors.ErrClosed
	}
	return nil
}

func (t *Table) readMeta() error {
	head := make([]byte, 4)
	if err := t.pager.ReadAt(0, head); err != nil {
		return errors.Wrap(err, "failed to read table meta")
	}

	count := int(int32(bin.Uint32(head)))
	if count <= 0 || count > 1<<16 {
		return errors.Errorf("invalid field count %d", count)
	}

	buf := make([]byte, metadataSize(count))
	if err := t.pager.ReadAt(0, buf); err != nil {
		return errors.Wrap(err, "failed to read table meta")
	}
	return t.meta.UnmarshalBinary(buf)
}

func (t *Table) writeMeta() error {
	if t.free != nil {
		t.meta.freeHead = t.free.Head()
	}

	buf, err := t.meta.MarshalBinary()
	if err != nil {
		return err
	}
	return errors.Wrap(t.pager.WriteAt(0, buf), "failed to write table meta")
}

func (t *Table) readRecord(addr bptree.Address) (record, error) {
	buf := make([]byte, t.meta.rowSize())
	if err := t.pager.ReadAt(int64(addr), buf); err != nil {
		return record{}, errors.Wrapf(err, "failed to read row %v", addr)
	}
	return t.unmarshalRecord(buf), nil
}

func (t *Table) writeRecord(addr bptree.Address, r record) error {
	return errors.Wrapf(
		t.pager.WriteAt(int64(addr), t.marshalRecord(r)),
		"failed to write row %v", addr,
	)
}
