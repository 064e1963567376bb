package freelist

type Options struct {
	// Head is the first free block, 0 for an empty list.
	Head int64

	// BlockSize is the size reserved at the end of file when the list is
	// empty. It must be at least 8 so a released block can hold its link.
	BlockSize int64
}
