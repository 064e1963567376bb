package bptree

import (
	"math"

	"go-dbindex/pkg/customerrors"

	"github.com/pkg/errors"
)

// NodeInfo describes a node visited by Walk.
type NodeInfo struct {
	Address Address
	Depth   int
	Leaf    bool
	Keys    []int32

	// Children holds child blocks of an internal node, or the row
	// addresses of a leaf's keys.
	Children []Address

	// Next is the following leaf in the chain. Always Nil for internal
	// nodes.
	Next Address
}

// Walk visits every node in pre-order, children left to right, starting at
// the root at depth 0.
func (tree *BPlusTree) Walk(fn func(info NodeInfo) error) error {
	if err := tree.checkOpen(); err != nil {
		return err
	}
	if tree.meta.root.IsNil() {
		return nil
	}
	return tree.walk(tree.meta.root, 0, fn)
}

func (tree *BPlusTree) walk(addr Address, depth int, fn func(info NodeInfo) error) error {
	if depth >= maxHeight {
		return errors.Wrapf(customerrors.ErrCorruptNode, "tree deeper than %d", maxHeight)
	}

	n, err := tree.fetch(addr)
	if err != nil {
		return err
	}

	switch n := n.(type) {
	case *leafNode:
		return fn(NodeInfo{
			Address:  addr,
			Depth:    depth,
			Leaf:     true,
			Keys:     n.keys,
			Children: n.values,
			Next:     n.next,
		})
	case *internalNode:
		err := fn(NodeInfo{
			Address:  addr,
			Depth:    depth,
			Keys:     n.keys,
			Children: n.children,
		})
		if err != nil {
			return err
		}

		for _, child := range n.children {
			if err := tree.walk(child, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Height returns the number of levels, 0 for an empty tree.
func (tree *BPlusTree) Height() (int, error) {
	if err := tree.checkOpen(); err != nil {
		return 0, err
	}

	height := 0
	addr := tree.meta.root
	for !addr.IsNil() {
		if height >= maxHeight {
			return 0, errors.Wrapf(customerrors.ErrCorruptNode, "tree deeper than %d", maxHeight)
		}

		n, err := tree.fetch(addr)
		if err != nil {
			return 0, err
		}

		height++
		internal, ok := n.(*internalNode)
		if !ok {
			break
		}
		addr = internal.children[0]
	}
	return height, nil
}

// Len returns the number of keys in the tree.
func (tree *BPlusTree) Len() (int, error) {
	count := 0
	return count, tree.Scan(math.MinInt32, math.MaxInt32, func(int32, Address) (bool, error) {
		count++
		return false, nil
	})
}

// Check verifies the structure of the whole tree: key order and separator
// bounds, occupancy of every non-root node, uniform leaf depth and a leaf
// chain that links exactly the leaves in key order. It returns an error
// wrapping ErrCorruptNode describing the first violation found.
func (tree *BPlusTree) Check() error {
	if err := tree.checkOpen(); err != nil {
		return err
	}
	if tree.meta.root.IsNil() {
		return nil
	}

	c := &checker{tree: tree, leafDepth: -1}
	if err := c.check(tree.meta.root, 0, math.MinInt64, math.MaxInt64); err != nil {
		return err
	}
	return c.checkChain()
}

type checker struct {
	tree      *BPlusTree
	leafDepth int
	leaves    []*leafNode
}

func corrupt(addr Address, format string, args ...interface{}) error {
	return errors.Wrapf(
		customerrors.ErrCorruptNode,
		"node %v: "+format,
		append([]interface{}{addr}, args...)...,
	)
}

// check verifies the sub-tree at addr whose keys must lie in [lo, hi).
func (c *checker) check(addr Address, depth int, lo, hi int64) error {
	if depth >= maxHeight {
		return corrupt(addr, "tree deeper than %d", maxHeight)
	}

	n, err := c.tree.fetch(addr)
	if err != nil {
		return err
	}

	isRoot := depth == 0
	keys := n.size()
	if keys > c.tree.maxKeys() {
		return corrupt(addr, "%d keys, max %d", keys, c.tree.maxKeys())
	}

	var nodeKeys []int32
	switch n := n.(type) {
	case *leafNode:
		nodeKeys = n.keys
		if isRoot && keys == 0 {
			return corrupt(addr, "empty root leaf")
		}
		if !isRoot && keys < c.tree.minLeafKeys() {
			return corrupt(addr, "leaf underflow: %d keys, min %d", keys, c.tree.minLeafKeys())
		}
		if c.leafDepth == -1 {
			c.leafDepth = depth
		} else if c.leafDepth != depth {
			return corrupt(addr, "leaf at depth %d, others at %d", depth, c.leafDepth)
		}
		c.leaves = append(c.leaves, n)
	case *internalNode:
		nodeKeys = n.keys
		if keys == 0 {
			return corrupt(addr, "internal node without keys")
		}
		if !isRoot && keys < c.tree.minInternalKeys() {
			return corrupt(addr, "internal underflow: %d keys, min %d", keys, c.tree.minInternalKeys())
		}
	}

	for i, k := range nodeKeys {
		if int64(k) < lo || int64(k) >= hi {
			return corrupt(addr, "key %d outside [%d, %d)", k, lo, hi)
		}
		if i > 0 && nodeKeys[i-1] >= k {
			return corrupt(addr, "keys not increasing: %v", nodeKeys)
		}
	}

	internal, ok := n.(*internalNode)
	if !ok {
		return nil
	}

	for i, child := range internal.children {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = int64(internal.keys[i-1])
		}
		if i < len(internal.keys) {
			childHi = int64(internal.keys[i])
		}
		if err := c.check(child, depth+1, childLo, childHi); err != nil {
			return err
		}
	}
	return nil
}

// checkChain verifies that next links connect the leaves in the order the
// tree walk found them and that the last leaf ends the chain.
func (c *checker) checkChain() error {
	for i, leaf := range c.leaves {
		want := Nil
		if i+1 < len(c.leaves) {
			want = c.leaves[i+1].addr
		}
		if leaf.next != want {
			return corrupt(leaf.addr, "next leaf is %v, want %v", leaf.next, want)
		}
	}
	return nil
}
