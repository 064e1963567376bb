package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMin(t *testing.T) {
	require.Equal(t, 1, Min(3, 1, 2))
	require.Equal(t, int32(-5), Min[int32](0, -5, 7))
	require.Equal(t, 4, Min(4))
}

func TestMax(t *testing.T) {
	require.Equal(t, 3, Max(3, 1, 2))
	require.Equal(t, int64(7), Max[int64](0, -5, 7))
}

func TestAbs(t *testing.T) {
	require.Equal(t, int32(4), Abs(int32(-4)))
	require.Equal(t, int32(4), Abs(int32(4)))
	require.Equal(t, 0, Abs(0))
}

func TestCeilDiv(t *testing.T) {
	require.Equal(t, 2, CeilDiv(4, 2))
	require.Equal(t, 3, CeilDiv(5, 2))
	require.Equal(t, 1, CeilDiv(1, 8))
	require.Equal(t, 0, CeilDiv(0, 8))
}
