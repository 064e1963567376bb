package bptree

import "os"

// Options represents the configuration options for creating a B+ tree
// index file.
type Options struct {
	// BlockSize of every node. The order of the tree is BlockSize / 12 and
	// must be at least 3. It is fixed for the lifetime of the file.
	BlockSize int `json:"block_size"`

	// FileMode used when the index file is created.
	FileMode os.FileMode `json:"file_mode"`
}

var defaultOptions = Options{
	BlockSize: 60,
	FileMode:  0644,
}
