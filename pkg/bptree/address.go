package bptree

import "fmt"

// Address is a byte offset inside a file. In the index it locates a node
// block; as a value it locates a row in the record file. The tree never
// interprets row addresses.
type Address int64

// Nil is the zero address. It marks an empty tree, the end of the leaf
// chain, and "not found" results.
const Nil Address = 0

func (a Address) IsNil() bool {
	return a == Nil
}

func (a Address) String() string {
	return fmt.Sprintf("@%d", int64(a))
}
