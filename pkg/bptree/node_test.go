package bptree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_node_Search(t *testing.T) {
	keys := []int32{10, 20, 30, 40, 50, 60, 70}

	idx, found := search(keys, 40)
	require.True(t, found, "expected key to exist")
	require.Equal(t, 3, idx)

	idx, found = search(keys, 10)
	require.True(t, found, "expected key to exist")
	require.Equal(t, 0, idx)

	idx, found = search(keys, 70)
	require.True(t, found, "expected key to exist")
	require.Equal(t, 6, idx)

	idx, found = search(keys, 99)
	require.False(t, found, "expected key to not exist")
	require.Equal(t, 7, idx, "expected insertion index to be 7")

	idx, found = search(keys, 15)
	require.False(t, found)
	require.Equal(t, 1, idx)

	idx, found = search(nil, 15)
	require.False(t, found)
	require.Equal(t, 0, idx)
}

func Test_node_ChildIndex(t *testing.T) {
	n := &internalNode{
		keys:     []int32{15, 25},
		children: []Address{100, 200, 300},
	}

	require.Equal(t, 0, n.childIndex(5))
	require.Equal(t, 1, n.childIndex(15), "separator itself goes right")
	require.Equal(t, 1, n.childIndex(20))
	require.Equal(t, 2, n.childIndex(25))
	require.Equal(t, 2, n.childIndex(99))
}

func Test_node_LeafInsertRemove(t *testing.T) {
	n := &leafNode{}
	n.insertAt(0, 20, 2000)
	n.insertAt(0, 10, 1000)
	n.insertAt(2, 30, 3000)

	require.Equal(t, []int32{10, 20, 30}, n.keys)
	require.Equal(t, []Address{1000, 2000, 3000}, n.values)

	require.Equal(t, Address(2000), n.removeAt(1))
	require.Equal(t, []int32{10, 30}, n.keys)
	require.Equal(t, []Address{1000, 3000}, n.values)
}

func Test_node_InternalInsertRemove(t *testing.T) {
	n := &internalNode{
		keys:     []int32{20},
		children: []Address{100, 200},
	}

	n.insertAt(1, 30, 300)
	n.insertAt(0, 10, 150)
	require.Equal(t, []int32{10, 20, 30}, n.keys)
	require.Equal(t, []Address{100, 150, 200, 300}, n.children)

	n.removeAt(1)
	require.Equal(t, []int32{10, 30}, n.keys)
	require.Equal(t, []Address{100, 150, 300}, n.children)
}
