package bptree

import (
	"go-dbindex/pkg/stack"
	"go-dbindex/util/logger"

	"github.com/sirupsen/logrus"
)

// Remove deletes key and returns the row address that was stored for it, so
// the caller can reclaim the row. It returns Nil if the key is not in the
// tree. Underflowing nodes borrow from or merge with a sibling; emptied
// blocks go back to the free list.
func (tree *BPlusTree) Remove(key int32) (Address, error) {
	if err := tree.checkOpen(); err != nil {
		return Nil, err
	}
	if tree.meta.root.IsNil() {
		return Nil, nil
	}

	path, leaf, err := tree.descend(key)
	if err != nil {
		return Nil, err
	}

	idx, found := search(leaf.keys, key)
	if !found {
		return Nil, nil
	}

	val := leaf.removeAt(idx)
	return val, tree.rebalanceLeaf(path, leaf)
}

// rebalanceLeaf writes back a leaf that just lost a key, fixing underflow
// through its parent (top of path) when needed.
func (tree *BPlusTree) rebalanceLeaf(path stack.Stack[frame], leaf *leafNode) error {
	if path.Empty() {
		if len(leaf.keys) == 0 {
			logger.L.WithField("root", leaf.addr).Debug("tree is empty")
			tree.meta.root = Nil
			return tree.freeNode(leaf)
		}
		return tree.write(leaf)
	}

	minKeys := tree.minLeafKeys()
	if len(leaf.keys) >= minKeys {
		return tree.write(leaf)
	}

	f := path.Pop()
	parent, i := f.node, f.idx

	var left, right *leafNode
	var err error

	if i > 0 {
		if left, err = tree.fetchLeaf(parent.children[i-1]); err != nil {
			return err
		}
		if len(left.keys) > minKeys {
			last := len(left.keys) - 1
			leaf.insertAt(0, left.keys[last], left.values[last])
			left.removeAt(last)
			parent.keys[i-1] = leaf.keys[0]
			return tree.write(left, leaf, parent)
		}
	}

	if i < len(parent.keys) {
		if right, err = tree.fetchLeaf(parent.children[i+1]); err != nil {
			return err
		}
		if len(right.keys) > minKeys {
			leaf.insertAt(len(leaf.keys), right.keys[0], right.values[0])
			right.removeAt(0)
			parent.keys[i] = right.keys[0]
			return tree.write(right, leaf, parent)
		}
	}

	// no sibling can spare a key, so two leaves become one
	if left != nil {
		left.keys = append(left.keys, leaf.keys...)
		left.values = append(left.values, leaf.values...)
		left.next = leaf.next
		parent.removeAt(i - 1)
		if err := tree.write(left); err != nil {
			return err
		}
		tree.logMerge(left, leaf)
		if err := tree.freeNode(leaf); err != nil {
			return err
		}
	} else {
		leaf.keys = append(leaf.keys, right.keys...)
		leaf.values = append(leaf.values, right.values...)
		leaf.next = right.next
		parent.removeAt(i)
		if err := tree.write(leaf); err != nil {
			return err
		}
		tree.logMerge(leaf, right)
		if err := tree.freeNode(right); err != nil {
			return err
		}
	}

	return tree.rebalanceInternal(path, parent)
}

// rebalanceInternal writes back an internal node that just lost a key and
// child, rotating a key through the parent or merging with a sibling when it
// underflows, and continues upwards.
func (tree *BPlusTree) rebalanceInternal(path stack.Stack[frame], n *internalNode) error {
	if path.Empty() {
		if len(n.keys) == 0 {
			logger.L.WithFields(logrus.Fields{
				"old": n.addr,
				"new": n.children[0],
			}).Debug("collapsing root")
			tree.meta.root = n.children[0]
			return tree.freeNode(n)
		}
		return tree.write(n)
	}

	minKeys := tree.minInternalKeys()
	if len(n.keys) >= minKeys {
		return tree.write(n)
	}

	f := path.Pop()
	parent, i := f.node, f.idx

	var left, right *internalNode
	var err error

	if i > 0 {
		if left, err = tree.fetchInternal(parent.children[i-1]); err != nil {
			return err
		}
		if len(left.keys) > minKeys {
			last := len(left.keys) - 1
			n.keys = append([]int32{parent.keys[i-1]}, n.keys...)
			n.children = append([]Address{left.children[last+1]}, n.children...)
			parent.keys[i-1] = left.keys[last]
			left.keys = left.keys[:last]
			left.children = left.children[:last+1]
			return tree.write(left, n, parent)
		}
	}

	if i < len(parent.keys) {
		if right, err = tree.fetchInternal(parent.children[i+1]); err != nil {
			return err
		}
		if len(right.keys) > minKeys {
			n.keys = append(n.keys, parent.keys[i])
			n.children = append(n.children, right.children[0])
			parent.keys[i] = right.keys[0]
			right.keys = right.keys[1:]
			right.children = right.children[1:]
			return tree.write(right, n, parent)
		}
	}

	// merge, pulling the separator between the two nodes down
	if left != nil {
		left.keys = append(left.keys, parent.keys[i-1])
		left.keys = append(left.keys, n.keys...)
		left.children = append(left.children, n.children...)
		parent.removeAt(i - 1)
		if err := tree.write(left); err != nil {
			return err
		}
		tree.logMerge(left, n)
		if err := tree.freeNode(n); err != nil {
			return err
		}
	} else {
		n.keys = append(n.keys, parent.keys[i])
		n.keys = append(n.keys, right.keys...)
		n.children = append(n.children, right.children...)
		parent.removeAt(i)
		if err := tree.write(n); err != nil {
			return err
		}
		tree.logMerge(n, right)
		if err := tree.freeNode(right); err != nil {
			return err
		}
	}

	return tree.rebalanceInternal(path, parent)
}

func (tree *BPlusTree) logMerge(into, from node) {
	logger.L.WithFields(logrus.Fields{
		"into": into.address(),
		"from": from.address(),
		"keys": into.size(),
	}).Debug("merged nodes")
}
