package table

import (
	"go-dbindex/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Remove deletes the row with the given key and returns whether it existed.
// The row's space is reused by a later insert.
func (t *Table) Remove(key int32) (bool, error) {
	if err := t.checkOpen(); err != nil {
		return false, err
	}

	addr, err := t.index.Remove(key)
	if err != nil {
		return false, err
	}
	if addr.IsNil() {
		return false, nil
	}

	if err := t.free.Free(int64(addr)); err != nil {
		return false, errors.Wrapf(err, "failed to release row %v", addr)
	}

	logger.L.WithFields(logrus.Fields{
		"key":  key,
		"addr": addr,
	}).Debug("removed row")
	return true, nil
}
