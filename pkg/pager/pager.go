// Package pager provides direct, unbuffered block I/O over a single file.
// Every call is a positioned read or write against the file; nothing is
// cached, so a write is visible to the next read as soon as it returns.
package pager

import (
	"encoding/binary"
	"io"
	"os"

	"go-dbindex/pkg/customerrors"

	"github.com/pkg/errors"
)

// bin is the byte order used for all marshals/unmarshals.
var bin = binary.BigEndian

// AddressSize is the on-disk width of a block address.
const AddressSize = 8

// Create creates the named file, truncating it if it already exists.
func Create(fileName string, mode os.FileMode) (*Pager, error) {
	f, err := os.OpenFile(fileName, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", fileName)
	}
	return &Pager{file: f, fileName: fileName}, nil
}

// Open attaches to an existing file. It fails if the file does not exist.
func Open(fileName string) (*Pager, error) {
	f, err := os.OpenFile(fileName, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", fileName)
	}
	return &Pager{file: f, fileName: fileName}, nil
}

// Pager represents a seekable backing file.
type Pager struct {
	file     *os.File
	fileName string
}

func (p *Pager) FileName() string {
	return p.fileName
}

// ReadAt fills buf from the given offset. Reading past the end of file
// returns ErrOutOfRange.
func (p *Pager) ReadAt(off int64, buf []byte) error {
	if p.file == nil {
		return customerrors.ErrClosed
	}
	if off < 0 {
		return errors.Wrapf(customerrors.ErrOutOfRange, "negative offset %d", off)
	}

	n, err := p.file.ReadAt(buf, off)
	if err == io.EOF || (err == nil && n < len(buf)) {
		return errors.Wrapf(
			customerrors.ErrOutOfRange,
			"read %d bytes at %d: got %d", len(buf), off, n,
		)
	}
	return errors.Wrapf(err, "failed to read at %d", off)
}

// WriteAt writes the whole buf at the given offset, growing the file when
// needed.
func (p *Pager) WriteAt(off int64, buf []byte) error {
	if p.file == nil {
		return customerrors.ErrClosed
	}
	if off < 0 {
		return errors.Wrapf(customerrors.ErrOutOfRange, "negative offset %d", off)
	}

	_, err := p.file.WriteAt(buf, off)
	return errors.Wrapf(err, "failed to write at %d", off)
}

// ReadAddress reads a single address stored at off.
func (p *Pager) ReadAddress(off int64) (int64, error) {
	buf := make([]byte, AddressSize)
	if err := p.ReadAt(off, buf); err != nil {
		return 0, err
	}
	return int64(bin.Uint64(buf)), nil
}

// WriteAddress stores a single address at off.
func (p *Pager) WriteAddress(off, addr int64) error {
	buf := make([]byte, AddressSize)
	bin.PutUint64(buf, uint64(addr))
	return p.WriteAt(off, buf)
}

// Size returns the current end of file offset.
func (p *Pager) Size() (int64, error) {
	if p.file == nil {
		return 0, customerrors.ErrClosed
	}

	info, err := p.file.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "failed to stat file")
	}
	return info.Size(), nil
}

// Grow extends the file by n zero bytes and returns the offset where the
// new region starts.
func (p *Pager) Grow(n int64) (int64, error) {
	end, err := p.Size()
	if err != nil {
		return 0, err
	}

	if err := p.file.Truncate(end + n); err != nil {
		return 0, errors.Wrapf(err, "failed to grow file by %d", n)
	}
	return end, nil
}

// Sync commits the file contents to stable storage.
func (p *Pager) Sync() error {
	if p.file == nil {
		return customerrors.ErrClosed
	}
	return errors.Wrap(p.file.Sync(), "failed to sync")
}

// Close releases the file handle. Further calls return ErrClosed.
func (p *Pager) Close() error {
	if p.file == nil {
		return customerrors.ErrClosed
	}

	err := p.file.Close()
	p.file = nil
	return errors.Wrap(err, "failed to close")
}
