package bptree

import (
	"go-dbindex/pkg/customerrors"
	"go-dbindex/pkg/stack"

	"github.com/pkg/errors"
)

// frame is one step of a descent: the internal node visited and the index
// of the child taken.
type frame struct {
	node *internalNode
	idx  int
}

// Search returns the row address stored for key, or Nil if the key is not
// in the tree.
func (tree *BPlusTree) Search(key int32) (Address, error) {
	if err := tree.checkOpen(); err != nil {
		return Nil, err
	}
	if tree.meta.root.IsNil() {
		return Nil, nil
	}

	_, leaf, err := tree.descend(key)
	if err != nil {
		return Nil, err
	}

	if idx, found := search(leaf.keys, key); found {
		return leaf.values[idx], nil
	}
	return Nil, nil
}

// SearchRange returns the row addresses of all keys in [low, high] in
// ascending key order. The result is empty, never nil, when nothing matches.
func (tree *BPlusTree) SearchRange(low, high int32) ([]Address, error) {
	result := []Address{}
	return result, tree.Scan(low, high, func(_ int32, val Address) (bool, error) {
		result = append(result, val)
		return false, nil
	})
}

// Scan calls scanFn for every key in [low, high] in ascending order. The scan
// starts at the leaf that would hold low and follows the leaf chain until a
// key exceeds high, the chain ends, or scanFn returns true.
func (tree *BPlusTree) Scan(
	low, high int32,
	scanFn func(key int32, val Address) (bool, error),
) error {
	if err := tree.checkOpen(); err != nil {
		return err
	}
	if low > high {
		return errors.Wrapf(customerrors.ErrInvalidRange, "[%d, %d]", low, high)
	}
	if tree.meta.root.IsNil() {
		return nil
	}

	_, leaf, err := tree.descend(low)
	if err != nil {
		return err
	}

	idx, _ := search(leaf.keys, low)
	for {
		for i := idx; i < len(leaf.keys); i++ {
			if leaf.keys[i] > high {
				return nil
			}
			if stop, err := scanFn(leaf.keys[i], leaf.values[i]); err != nil {
				return err
			} else if stop {
				return nil
			}
		}

		if leaf.next.IsNil() {
			return nil
		}
		if leaf, err = tree.fetchLeaf(leaf.next); err != nil {
			return err
		}
		idx = 0
	}
}

// descend walks from the root to the leaf that holds or would hold key. The
// internal nodes visited are returned on a stack, the parent of the leaf on
// top. The tree must not be empty.
func (tree *BPlusTree) descend(key int32) (stack.Stack[frame], *leafNode, error) {
	path := stack.New[frame](8)
	addr := tree.meta.root

	for depth := 0; depth < maxHeight; depth++ {
		n, err := tree.fetch(addr)
		if err != nil {
			return nil, nil, err
		}

		switch n := n.(type) {
		case *leafNode:
			return path, n, nil
		case *internalNode:
			idx := n.childIndex(key)
			path.Push(frame{node: n, idx: idx})
			addr = n.children[idx]
		}
	}

	return nil, nil, errors.Wrapf(customerrors.ErrCorruptNode, "tree deeper than %d", maxHeight)
}
