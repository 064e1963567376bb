package bptree

import (
	"go-dbindex/pkg/customerrors"
	"go-dbindex/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// split is the result of splitting a node: the separator to insert into the
// parent and the address of the new right sibling. A nil *split means the
// insertion was absorbed and nothing propagates.
type split struct {
	key   int32
	right Address
}

// Insert adds key with its row address. It returns false, without touching
// the tree, if the key already exists.
func (tree *BPlusTree) Insert(key int32, val Address) (bool, error) {
	if err := tree.checkOpen(); err != nil {
		return false, err
	}
	if val.IsNil() {
		return false, errors.Wrapf(customerrors.ErrNilAddress, "key %d", key)
	}

	if tree.meta.root.IsNil() {
		return true, tree.insertFirst(key, val)
	}

	path, leaf, err := tree.descend(key)
	if err != nil {
		return false, err
	}

	idx, found := search(leaf.keys, key)
	if found {
		return false, nil
	}

	s, err := tree.insertIntoLeaf(leaf, idx, key, val)
	if err != nil {
		return false, err
	}

	for s != nil && !path.Empty() {
		f := path.Pop()
		if s, err = tree.insertIntoInternal(f.node, f.idx, s); err != nil {
			return false, err
		}
	}

	if s != nil {
		return true, tree.growRoot(s)
	}
	return true, nil
}

func (tree *BPlusTree) insertFirst(key int32, val Address) error {
	addr, err := tree.alloc()
	if err != nil {
		return err
	}

	root := &leafNode{
		addr:   addr,
		keys:   []int32{key},
		values: []Address{val},
		next:   Nil,
	}
	if err := tree.write(root); err != nil {
		return err
	}

	tree.meta.root = addr
	return nil
}

// insertIntoLeaf puts key at idx. A full leaf is split: the first order/2
// keys stay, the rest move to a new right sibling linked in after it, and
// the first key of the sibling becomes the separator.
func (tree *BPlusTree) insertIntoLeaf(leaf *leafNode, idx int, key int32, val Address) (*split, error) {
	if len(leaf.keys) < tree.maxKeys() {
		leaf.insertAt(idx, key, val)
		return nil, tree.write(leaf)
	}

	order := tree.codec.order
	keys := make([]int32, 0, order)
	keys = append(keys, leaf.keys[:idx]...)
	keys = append(keys, key)
	keys = append(keys, leaf.keys[idx:]...)

	values := make([]Address, 0, order)
	values = append(values, leaf.values[:idx]...)
	values = append(values, val)
	values = append(values, leaf.values[idx:]...)

	addr, err := tree.alloc()
	if err != nil {
		return nil, err
	}

	mid := order / 2
	sibling := &leafNode{
		addr:   addr,
		keys:   append([]int32(nil), keys[mid:]...),
		values: append([]Address(nil), values[mid:]...),
		next:   leaf.next,
	}
	leaf.keys = keys[:mid]
	leaf.values = values[:mid]
	leaf.next = addr

	// the sibling goes first so the chain never points at an unwritten block
	if err := tree.write(sibling, leaf); err != nil {
		return nil, err
	}

	logger.L.WithFields(logrus.Fields{
		"left":      leaf.addr,
		"right":     sibling.addr,
		"separator": sibling.keys[0],
	}).Debug("split leaf")
	return &split{key: sibling.keys[0], right: addr}, nil
}

// insertIntoInternal adds the separator and right child produced by
// splitting n.children[idx]. A full node is split around the middle key of
// the merged buffer; that key moves up and is kept in neither half.
func (tree *BPlusTree) insertIntoInternal(n *internalNode, idx int, s *split) (*split, error) {
	if len(n.keys) < tree.maxKeys() {
		n.insertAt(idx, s.key, s.right)
		return nil, tree.write(n)
	}

	order := tree.codec.order
	keys := make([]int32, 0, order)
	keys = append(keys, n.keys[:idx]...)
	keys = append(keys, s.key)
	keys = append(keys, n.keys[idx:]...)

	children := make([]Address, 0, order+1)
	children = append(children, n.children[:idx+1]...)
	children = append(children, s.right)
	children = append(children, n.children[idx+1:]...)

	addr, err := tree.alloc()
	if err != nil {
		return nil, err
	}

	mid := order / 2
	separator := keys[mid]
	sibling := &internalNode{
		addr:     addr,
		keys:     append([]int32(nil), keys[mid+1:]...),
		children: append([]Address(nil), children[mid+1:]...),
	}
	n.keys = keys[:mid]
	n.children = children[:mid+1]

	if err := tree.write(sibling, n); err != nil {
		return nil, err
	}

	logger.L.WithFields(logrus.Fields{
		"left":      n.addr,
		"right":     sibling.addr,
		"separator": separator,
	}).Debug("split internal node")
	return &split{key: separator, right: addr}, nil
}

// growRoot puts a new root above the old one after the old root split.
func (tree *BPlusTree) growRoot(s *split) error {
	addr, err := tree.alloc()
	if err != nil {
		return err
	}

	root := &internalNode{
		addr:     addr,
		keys:     []int32{s.key},
		children: []Address{tree.meta.root, s.right},
	}
	if err := tree.write(root); err != nil {
		return err
	}

	logger.L.WithFields(logrus.Fields{
		"old": tree.meta.root,
		"new": addr,
	}).Debug("new root")
	tree.meta.root = addr
	return nil
}
