package freelist

import (
	"path/filepath"
	"testing"

	"go-dbindex/pkg/pager"

	"github.com/stretchr/testify/require"
)

const headerSz = 20

func newFreelist(t *testing.T, blockSize int64) (*Freelist, *pager.Pager) {
	p, err := pager.Create(filepath.Join(t.TempDir(), "freelist.bin"), 0644)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })

	require.NoError(t, p.WriteAt(0, make([]byte, headerSz)))

	fl, err := New(p, Options{BlockSize: blockSize})
	require.NoError(t, err)
	return fl, p
}

func TestFreelist_AllocGrowsFile(t *testing.T) {
	fl, p := newFreelist(t, 60)

	a, err := fl.Alloc()
	require.NoError(t, err)
	b, err := fl.Alloc()
	require.NoError(t, err)

	require.Equal(t, int64(20), a)
	require.Equal(t, int64(80), b)

	size, err := p.Size()
	require.NoError(t, err)
	require.Equal(t, int64(140), size)
}

func TestFreelist_Reuse(t *testing.T) {
	fl, _ := newFreelist(t, 60)

	addrs := make([]int64, 4)
	for i := range addrs {
		var err error
		addrs[i], err = fl.Alloc()
		require.NoError(t, err)
	}

	require.NoError(t, fl.Free(addrs[1]))
	require.NoError(t, fl.Free(addrs[3]))
	require.Equal(t, addrs[3], fl.Head())

	n, err := fl.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	var chain []int64
	require.NoError(t, fl.Each(func(addr int64) (bool, error) {
		chain = append(chain, addr)
		return false, nil
	}))
	require.Equal(t, []int64{addrs[3], addrs[1]}, chain)

	got, err := fl.Alloc()
	require.NoError(t, err)
	require.Equal(t, addrs[3], got)

	got, err = fl.Alloc()
	require.NoError(t, err)
	require.Equal(t, addrs[1], got)
	require.Equal(t, int64(0), fl.Head())

	got, err = fl.Alloc()
	require.NoError(t, err)
	require.Equal(t, addrs[3]+60, got)
}

func TestFreelist_ReopenFromHead(t *testing.T) {
	fl, p := newFreelist(t, 16)

	a, err := fl.Alloc()
	require.NoError(t, err)
	b, err := fl.Alloc()
	require.NoError(t, err)
	require.NoError(t, fl.Free(a))
	require.NoError(t, fl.Free(b))

	reopened, err := New(p, Options{Head: fl.Head(), BlockSize: 16})
	require.NoError(t, err)

	n, err := reopened.Len()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestFreelist_Invalid(t *testing.T) {
	_, err := New(nil, Options{BlockSize: 4})
	require.Error(t, err)

	fl, _ := newFreelist(t, 16)
	require.Error(t, fl.Free(0))
}
