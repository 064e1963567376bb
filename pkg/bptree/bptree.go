// Package bptree implements an on-disk B+ tree index mapping int32 keys to
// row addresses. Every node is a fixed size block in a single file; nodes are
// read on demand and every node a mutation touches is rewritten before the
// call returns. The header (root, free list head, block size) is kept in
// memory and written back on Close or Flush.
package bptree

import (
	"encoding/binary"
	"fmt"

	"go-dbindex/pkg/customerrors"
	"go-dbindex/pkg/freelist"
	"go-dbindex/pkg/pager"
	"go-dbindex/util/helpers"
	"go-dbindex/util/logger"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// bin is the byte order used for all marshals/unmarshals.
var bin = binary.BigEndian

// maxHeight bounds every descent so a corrupt file with a cycle of child
// pointers fails instead of looping.
const maxHeight = 64

// Create creates (or truncates) the named file and initializes an empty
// B+ tree in it. If nil options are provided, defaultOptions will be used.
func Create(fileName string, opts *Options) (*BPlusTree, error) {
	if opts == nil {
		opts = &defaultOptions
	}
	if err := validateBlockSize(opts.BlockSize); err != nil {
		return nil, err
	}

	mode := opts.FileMode
	if mode == 0 {
		mode = defaultOptions.FileMode
	}

	p, err := pager.Create(fileName, mode)
	if err != nil {
		return nil, err
	}

	tree := &BPlusTree{
		file:  fileName,
		pager: p,
		meta: &metadata{
			root:      Nil,
			freeHead:  Nil,
			blockSize: int32(opts.BlockSize),
		},
	}

	if err := tree.writeMeta(); err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "failed to write meta after init")
	}
	if err := tree.init(); err != nil {
		_ = p.Close()
		return nil, err
	}

	logger.L.WithFields(logrus.Fields{
		"file":  fileName,
		"block": opts.BlockSize,
		"order": tree.codec.order,
	}).Debug("created bptree")
	return tree, nil
}

// Open opens an existing index file created by Create.
func Open(fileName string) (*BPlusTree, error) {
	p, err := pager.Open(fileName)
	if err != nil {
		return nil, err
	}

	tree := &BPlusTree{
		file:  fileName,
		pager: p,
		meta:  &metadata{},
	}

	buf := make([]byte, metadataSize)
	if err := p.ReadAt(0, buf); err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "failed to read meta while opening bptree")
	}
	if err := tree.meta.UnmarshalBinary(buf); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := validateBlockSize(int(tree.meta.blockSize)); err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := tree.init(); err != nil {
		_ = p.Close()
		return nil, err
	}

	logger.L.WithFields(logrus.Fields{
		"file":  fileName,
		"root":  tree.meta.root,
		"free":  tree.meta.freeHead,
		"order": tree.codec.order,
	}).Debug("opened bptree")
	return tree, nil
}

// BPlusTree represents an on-disk B+ tree. Each node is mapped to a single
// block in the file. The order of the tree is decided by the block size.
type BPlusTree struct {
	file  string
	pager *pager.Pager
	free  *freelist.Freelist
	codec nodeCodec
	meta  *metadata
}

// Order returns the maximum number of children of an internal node.
func (tree *BPlusTree) Order() int { return tree.codec.order }

// BlockSize returns the size of every node block.
func (tree *BPlusTree) BlockSize() int { return tree.codec.blockSize }

// Root returns the address of the root node, Nil for an empty tree.
func (tree *BPlusTree) Root() Address { return tree.meta.root }

// Flush writes the header and syncs the file without closing it.
func (tree *BPlusTree) Flush() error {
	if err := tree.checkOpen(); err != nil {
		return err
	}
	if err := tree.writeMeta(); err != nil {
		return err
	}
	return tree.pager.Sync()
}

// Close writes the header and closes the underlying file. The tree must not
// be used afterwards.
func (tree *BPlusTree) Close() error {
	if err := tree.checkOpen(); err != nil {
		return err
	}

	err := tree.writeMeta()
	if cerr := tree.pager.Close(); err == nil {
		err = cerr
	}
	tree.pager = nil

	logger.L.WithField("file", tree.file).Debug("closed bptree")
	return err
}

func (tree *BPlusTree) String() string {
	return fmt.Sprintf(
		"BPlusTree{file='%s', order=%d, root=%v}",
		tree.file, tree.codec.order, tree.meta.root,
	)
}

func validateBlockSize(blockSize int) error {
	if blockSize/nodeSlotSize < 3 {
		return errors.Wrapf(
			customerrors.ErrInvalidBlockSize,
			"block size %d gives order %d, need at least 3",
			blockSize, blockSize/nodeSlotSize,
		)
	}
	return nil
}

func (tree *BPlusTree) init() error {
	tree.codec = newNodeCodec(int(tree.meta.blockSize))

	fl, err := freelist.New(tree.pager, freelist.Options{
		Head:      int64(tree.meta.freeHead),
		BlockSize: int64(tree.meta.blockSize),
	})
	if err != nil {
		return err
	}
	tree.free = fl
	return nil
}

func (tree *BPlusTree) checkOpen() error {
	if tree.pager == nil {
		return customerrors.ErrClosed
	}
	return nil
}

func (tree *BPlusTree) writeMeta() error {
	if tree.free != nil {
		tree.meta.freeHead = Address(tree.free.Head())
	}

	buf, err := tree.meta.MarshalBinary()
	if err != nil {
		return err
	}
	return errors.Wrap(tree.pager.WriteAt(0, buf), "failed to write meta")
}

// maxKeys is the capacity of every node.
func (tree *BPlusTree) maxKeys() int {
	return tree.codec.order - 1
}

// minLeafKeys is the least number of keys a non-root leaf may hold. It is
// the size of the left half of a leaf split.
func (tree *BPlusTree) minLeafKeys() int {
	return tree.codec.order / 2
}

// minInternalKeys is the least number of keys a non-root internal node may
// hold, i.e. ceil(order/2) children.
func (tree *BPlusTree) minInternalKeys() int {
	return helpers.CeilDiv(tree.codec.order, 2) - 1
}

// fetch reads and decodes the node stored at addr.
func (tree *BPlusTree) fetch(addr Address) (node, error) {
	if addr < metadataSize {
		return nil, errors.Wrapf(customerrors.ErrCorruptNode, "node address %v inside header", addr)
	}

	buf := make([]byte, tree.codec.blockSize)
	if err := tree.pager.ReadAt(int64(addr), buf); err != nil {
		return nil, errors.Wrapf(err, "failed to read node %v", addr)
	}
	return tree.codec.decode(addr, buf)
}

func (tree *BPlusTree) fetchLeaf(addr Address) (*leafNode, error) {
	n, err := tree.fetch(addr)
	if err != nil {
		return nil, err
	}

	leaf, ok := n.(*leafNode)
	if !ok {
		return nil, errors.Wrapf(customerrors.ErrCorruptNode, "expected leaf at %v", addr)
	}
	return leaf, nil
}

func (tree *BPlusTree) fetchInternal(addr Address) (*internalNode, error) {
	n, err := tree.fetch(addr)
	if err != nil {
		return nil, err
	}

	internal, ok := n.(*internalNode)
	if !ok {
		return nil, errors.Wrapf(customerrors.ErrCorruptNode, "expected internal node at %v", addr)
	}
	return internal, nil
}

// write stores the given nodes, in order, each at its own address.
func (tree *BPlusTree) write(nodes ...node) error {
	for _, n := range nodes {
		err := tree.pager.WriteAt(int64(n.address()), tree.codec.encode(n))
		if err != nil {
			return errors.Wrapf(err, "failed to write node %v", n.address())
		}
	}
	return nil
}

// alloc returns a block for a new node, reusing freed blocks first.
func (tree *BPlusTree) alloc() (Address, error) {
	addr, err := tree.free.Alloc()
	if err != nil {
		return Nil, errors.Wrap(err, "failed to allocate node")
	}
	return Address(addr), nil
}

// freeNode returns the node's block to the free list.
func (tree *BPlusTree) freeNode(n node) error {
	logger.L.WithField("addr", n.address()).Debug("freeing node")
	return errors.Wrap(tree.free.Free(int64(n.address())), "failed to free node")
}
