package table

import "os"

// Options represents the configuration options for creating a table.
type Options struct {
	// FieldLengths holds the fixed width, in characters, of every field
	// stored next to the key. Shorter values are NUL padded.
	FieldLengths []int

	// BlockSize of the key index. See bptree.Options.
	BlockSize int

	// FileMode used for the row file and the index file.
	FileMode os.FileMode
}
