// Package freelist keeps released blocks of a file in a singly linked chain
// threaded through the blocks themselves: the first 8 bytes of every free
// block hold the address of the next one, 0 ends the chain.
package freelist

import (
	"go-dbindex/pkg/pager"

	"github.com/pkg/errors"
)

// Store is the block storage the chain lives in.
type Store interface {
	ReadAddress(off int64) (int64, error)
	WriteAddress(off, addr int64) error
	Grow(n int64) (int64, error)
}

func New(store Store, opts Options) (*Freelist, error) {
	if opts.BlockSize < pager.AddressSize {
		return nil, errors.Errorf(
			"block size %d can't hold a free list link",
			opts.BlockSize,
		)
	}

	return &Freelist{
		store:     store,
		head:      opts.Head,
		blockSize: opts.BlockSize,
	}, nil
}

// Freelist hands out reusable block addresses. The head is owned by the
// caller's header and persisted with it.
type Freelist struct {
	store     Store
	head      int64
	blockSize int64
}

// Head returns the first free block, 0 if the chain is empty.
func (fl *Freelist) Head() int64 {
	return fl.head
}

// Alloc pops the head of the chain. When the chain is empty a new block is
// reserved at the end of file, so two allocations in a row never return the
// same address even if nothing was written in between.
func (fl *Freelist) Alloc() (int64, error) {
	if fl.head == 0 {
		addr, err := fl.store.Grow(fl.blockSize)
		return addr, errors.Wrap(err, "failed to extend file")
	}

	addr := fl.head
	next, err := fl.store.ReadAddress(addr)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read free list link at %d", addr)
	}

	fl.head = next
	return addr, nil
}

// Free pushes addr on the chain. The rest of the block is left as is.
func (fl *Freelist) Free(addr int64) error {
	if addr <= 0 {
		return errors.Errorf("invalid block address %d", addr)
	}

	if err := fl.store.WriteAddress(addr, fl.head); err != nil {
		return errors.Wrapf(err, "failed to link free block %d", addr)
	}

	fl.head = addr
	return nil
}

// Each walks the chain from the head until fn returns true or the chain ends.
func (fl *Freelist) Each(fn func(addr int64) (bool, error)) error {
	addr := fl.head
	for addr != 0 {
		if stop, err := fn(addr); err != nil {
			return err
		} else if stop {
			return nil
		}

		next, err := fl.store.ReadAddress(addr)
		if err != nil {
			return errors.Wrapf(err, "failed to read free list link at %d", addr)
		}
		addr = next
	}
	return nil
}

// Len counts the blocks on the chain.
func (fl *Freelist) Len() (int, error) {
	n := 0
	return n, fl.Each(func(int64) (bool, error) {
		n++
		return false, nil
	})
}
