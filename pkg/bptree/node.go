package bptree

import (
	"fmt"
)

const (
	countSize    = 4
	keySize      = 4
	childSize    = 8
	nodeSlotSize = keySize + childSize
)

// node is either a *leafNode or an *internalNode. The kind is the Go type;
// the signed on-disk count that also encodes it exists only in the codec.
type node interface {
	address() Address
	size() int
	String() string
}

// leafNode holds keys with their row addresses and the link to the next
// leaf in key order.
type leafNode struct {
	addr   Address
	keys   []int32
	values []Address
	next   Address
}

// internalNode holds len(keys)+1 children. children[i] covers keys in
// [keys[i-1], keys[i]), open ended at both extremes.
type internalNode struct {
	addr     Address
	keys     []int32
	children []Address
}

func (n *leafNode) address() Address     { return n.addr }
func (n *internalNode) address() Address { return n.addr }

func (n *leafNode) size() int     { return len(n.keys) }
func (n *internalNode) size() int { return len(n.keys) }

// search performs a binary search in keys for the given key and returns the
// index where it is or should be, and a flag indicating whether it exists.
func search(keys []int32, key int32) (idx int, found bool) {
	left, right := 0, len(keys)-1

	for left <= right {
		idx = (right + left) / 2

		if key == keys[idx] {
			return idx, true
		} else if key > keys[idx] {
			left = idx + 1
		} else {
			right = idx - 1
		}
	}

	return left, false
}

// childIndex returns the index of the child to descend into for key: the
// child right before the first separator strictly greater than key.
func (n *internalNode) childIndex(key int32) int {
	idx, found := search(n.keys, key)
	if found {
		return idx + 1
	}
	return idx
}

// insertAt inserts the key/value pair at the given index.
func (n *leafNode) insertAt(idx int, key int32, val Address) {
	n.keys = append(n.keys, 0)
	copy(n.keys[idx+1:], n.keys[idx:])
	n.keys[idx] = key

	n.values = append(n.values, Nil)
	copy(n.values[idx+1:], n.values[idx:])
	n.values[idx] = val
}

// removeAt removes the pair at the given index and returns its value.
func (n *leafNode) removeAt(idx int) Address {
	val := n.values[idx]
	n.keys = append(n.keys[:idx], n.keys[idx+1:]...)
	n.values = append(n.values[:idx], n.values[idx+1:]...)
	return val
}

// insertAt inserts key at idx and its right hand child at idx+1.
func (n *internalNode) insertAt(idx int, key int32, child Address) {
	n.keys = append(n.keys, 0)
	copy(n.keys[idx+1:], n.keys[idx:])
	n.keys[idx] = key

	n.children = append(n.children, Nil)
	copy(n.children[idx+2:], n.children[idx+1:])
	n.children[idx+1] = child
}

// removeAt removes the key at idx together with its right hand child.
func (n *internalNode) removeAt(idx int) {
	n.keys = append(n.keys[:idx], n.keys[idx+1:]...)
	n.children = append(n.children[:idx+1], n.children[idx+2:]...)
}

func (n *leafNode) String() string {
	return fmt.Sprintf("leaf%v{keys=%v, values=%v, next=%v}", n.addr, n.keys, n.values, n.next)
}

func (n *internalNode) String() string {
	return fmt.Sprintf("internal%v{keys=%v, children=%v}", n.addr, n.keys, n.children)
}
