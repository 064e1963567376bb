package pager

import (
	"os"
	"path/filepath"
	"testing"

	"go-dbindex/pkg/customerrors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newPager(t *testing.T) *Pager {
	p, err := Create(filepath.Join(t.TempDir(), "pager.bin"), 0644)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestPager_ReadWrite(t *testing.T) {
	p := newPager(t)

	require.NoError(t, p.WriteAt(10, []byte("hello")))
	size, err := p.Size()
	require.NoError(t, err)
	require.Equal(t, int64(15), size)

	buf := make([]byte, 5)
	require.NoError(t, p.ReadAt(10, buf))
	require.Equal(t, []byte("hello"), buf)

	// the gap before the first write reads back as zeros
	require.NoError(t, p.ReadAt(0, buf))
	require.Equal(t, make([]byte, 5), buf)
}

func TestPager_ReadPastEnd(t *testing.T) {
	p := newPager(t)
	require.NoError(t, p.WriteAt(0, []byte{1, 2, 3}))

	err := p.ReadAt(1, make([]byte, 8))
	require.True(t, errors.Is(err, customerrors.ErrOutOfRange), "got %v", err)

	err = p.ReadAt(-1, make([]byte, 1))
	require.True(t, errors.Is(err, customerrors.ErrOutOfRange), "got %v", err)
}

func TestPager_Address(t *testing.T) {
	p := newPager(t)

	require.NoError(t, p.WriteAddress(8, 0x0102030405060708))
	addr, err := p.ReadAddress(8)
	require.NoError(t, err)
	require.Equal(t, int64(0x0102030405060708), addr)

	raw := make([]byte, 8)
	require.NoError(t, p.ReadAt(8, raw))
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, raw)
}

func TestPager_Grow(t *testing.T) {
	p := newPager(t)
	require.NoError(t, p.WriteAt(0, make([]byte, 20)))

	off, err := p.Grow(60)
	require.NoError(t, err)
	require.Equal(t, int64(20), off)

	size, err := p.Size()
	require.NoError(t, err)
	require.Equal(t, int64(80), size)
}

func TestPager_ReopenAndClose(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pager.bin")
	_, err := Open(file)
	require.Error(t, err)

	p, err := Create(file, 0644)
	require.NoError(t, err)
	require.NoError(t, p.WriteAddress(0, 42))
	require.NoError(t, p.Sync())
	require.NoError(t, p.Close())

	require.True(t, errors.Is(p.Close(), customerrors.ErrClosed))
	require.True(t, errors.Is(p.WriteAt(0, []byte{1}), customerrors.ErrClosed))
	_, err = p.Size()
	require.True(t, errors.Is(err, customerrors.ErrClosed))

	p, err = Open(file)
	require.NoError(t, err)
	defer p.Close()

	addr, err := p.ReadAddress(0)
	require.NoError(t, err)
	require.Equal(t, int64(42), addr)

	_, err = os.Stat(file)
	require.NoError(t, err)
}
