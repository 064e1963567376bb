package bptree

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func sortedKeys(model map[int32]Address) []int32 {
	keys := make([]int32, 0, len(model))
	for k := range model {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func requireMatchesModel(t *testing.T, tree *BPlusTree, model map[int32]Address) {
	require.NoError(t, tree.Check())

	var want []Address
	for _, k := range sortedKeys(model) {
		want = append(want, model[k])
	}

	got, err := tree.SearchRange(math.MinInt32, math.MaxInt32)
	require.NoError(t, err)
	if len(want) == 0 {
		require.Empty(t, got)
	} else {
		require.Equal(t, want, got)
	}
}

func TestRemove_Simple(t *testing.T) {
	tree, _ := newTree(t, 60)
	for _, k := range []int32{15, 10, 20, 5, 25, 30, 35} {
		_, err := tree.Insert(k, Address(k)*100)
		require.NoError(t, err)
	}

	// [25 30 35] has a key to spare
	val, err := tree.Remove(30)
	require.NoError(t, err)
	require.Equal(t, Address(3000), val)

	val, err = tree.Search(30)
	require.NoError(t, err)
	require.Equal(t, Nil, val)

	val, err = tree.Remove(30)
	require.NoError(t, err)
	require.Equal(t, Nil, val)

	val, err = tree.Remove(31)
	require.NoError(t, err)
	require.Equal(t, Nil, val)

	vals, err := tree.SearchRange(0, 100)
	require.NoError(t, err)
	require.Equal(t, []Address{500, 1000, 1500, 2000, 2500, 3500}, vals)
	require.NoError(t, tree.Check())
}

func TestRemove_BorrowAndMerge(t *testing.T) {
	tree, _ := newTree(t, 60)
	for _, k := range []int32{15, 10, 20, 5, 25, 30, 35} {
		_, err := tree.Insert(k, Address(k)*100)
		require.NoError(t, err)
	}
	// leaves: [5 10] [15 20] [25 30 35]

	// [15 20] underflows and borrows 25 from its right sibling
	_, err := tree.Remove(20)
	require.NoError(t, err)
	require.NoError(t, tree.Check())

	nodes := collectNodes(t, tree)
	require.Equal(t, []int32{15, 30}, nodes[0].Keys)
	require.Equal(t, []int32{15, 25}, nodes[2].Keys)
	require.Equal(t, []int32{30, 35}, nodes[3].Keys)

	// [5 10] underflows, [15 25] can't spare a key: merge
	_, err = tree.Remove(5)
	require.NoError(t, err)
	require.NoError(t, tree.Check())

	nodes = collectNodes(t, tree)
	require.Len(t, nodes, 3)
	require.Equal(t, []int32{30}, nodes[0].Keys)
	require.Equal(t, []int32{10, 15, 25}, nodes[1].Keys)

	n, err := tree.free.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n, "merged leaf goes to the free list")

	// shrink until the root collapses back into a single leaf
	for _, k := range []int32{35, 30} {
		_, err := tree.Remove(k)
		require.NoError(t, err)
		require.NoError(t, tree.Check())
	}

	h, err := tree.Height()
	require.NoError(t, err)
	require.Equal(t, 1, h)

	vals, err := tree.SearchRange(math.MinInt32, math.MaxInt32)
	require.NoError(t, err)
	require.Equal(t, []Address{1000, 1500, 2500}, vals)

	// a freed block is reused by the next allocation
	head := Address(tree.free.Head())
	for _, k := range []int32{1, 2, 3} {
		_, err := tree.Insert(k, Address(k))
		require.NoError(t, err)
	}
	nodes = collectNodes(t, tree)
	found := false
	for _, n := range nodes {
		found = found || n.Address == head
	}
	require.True(t, found, "freed block %v not reused", head)
}

func TestRemove_All(t *testing.T) {
	for _, blockSize := range []int{36, 48, 60, 72} {
		tree, _ := newTree(t, blockSize)
		rnd := rand.New(rand.NewSource(int64(blockSize)))

		keys := rnd.Perm(400)
		for _, k := range keys {
			ok, err := tree.Insert(int32(k), Address(k+1))
			require.NoError(t, err)
			require.True(t, ok)
		}
		require.NoError(t, tree.Check())

		sizeBefore, err := tree.pager.Size()
		require.NoError(t, err)

		for i, k := range rnd.Perm(400) {
			val, err := tree.Remove(int32(k))
			require.NoError(t, err)
			require.Equal(t, Address(k+1), val)
			if i%17 == 0 {
				require.NoError(t, tree.Check(), "block %d after %d removals", blockSize, i+1)
			}
		}

		require.Equal(t, Nil, tree.Root())

		// every block the tree ever used is back on the free list
		freed, err := tree.free.Len()
		require.NoError(t, err)
		require.Equal(t, int(sizeBefore-metadataSize)/blockSize, freed)

		// the same inserts again fit entirely into reused blocks
		for _, k := range keys {
			_, err := tree.Insert(int32(k), Address(k+1))
			require.NoError(t, err)
		}
		sizeAfter, err := tree.pager.Size()
		require.NoError(t, err)
		require.Equal(t, sizeBefore, sizeAfter)
		require.NoError(t, tree.Check())
	}
}

func TestRemove_RandomAgainstModel(t *testing.T) {
	for _, blockSize := range []int{36, 60, 84} {
		tree, file := newTree(t, blockSize)
		rnd := rand.New(rand.NewSource(int64(blockSize) * 31))
		model := map[int32]Address{}

		for step := 0; step < 3000; step++ {
			k := rnd.Int31n(500)
			if rnd.Intn(3) > 0 {
				v := Address(rnd.Int63n(1<<30) + 1)
				ok, err := tree.Insert(k, v)
				require.NoError(t, err)
				_, exists := model[k]
				require.Equal(t, !exists, ok)
				if !exists {
					model[k] = v
				}
			} else {
				val, err := tree.Remove(k)
				require.NoError(t, err)
				require.Equal(t, model[k], val, "remove %d", k)
				delete(model, k)
			}

			if step%250 == 0 {
				requireMatchesModel(t, tree, model)
			}
		}
		requireMatchesModel(t, tree, model)

		require.NoError(t, tree.Close())
		reopened, err := Open(file)
		require.NoError(t, err)
		requireMatchesModel(t, reopened, model)
		require.NoError(t, reopened.Close())
	}
}
