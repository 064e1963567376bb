package stack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	s := New[int](2)
	require.True(t, s.Empty())
	require.Equal(t, 0, s.Size())

	s.Push(1)
	s.Push(2)
	s.Push(3)
	require.Equal(t, 3, s.Size())
	require.Equal(t, 3, s.Top())

	require.Equal(t, 3, s.Pop())
	require.Equal(t, 2, s.Pop())
	require.Equal(t, 1, s.Top())
	require.Equal(t, 1, s.Pop())
	require.True(t, s.Empty())
}

func TestStackEmptyPanics(t *testing.T) {
	s := New[string](0)
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Pop() })
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Top() })
}
