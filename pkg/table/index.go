package table

import (
	"go-dbindex/pkg/bptree"
)

const (
	indexSuffix      = "Index"
	defaultBlockSize = 60
)

func indexPath(tablePath string) string {
	return tablePath + indexSuffix
}

func createIndex(tablePath string, opts *Options) (*bptree.BPlusTree, error) {
	blockSize := opts.BlockSize
	if blockSize == 0 {
		blockSize = defaultBlockSize
	}

	return bptree.Create(indexPath(tablePath), &bptree.Options{
		BlockSize: blockSize,
		FileMode:  opts.FileMode,
	})
}

func openIndex(tablePath string) (*bptree.BPlusTree, error) {
	return bptree.Open(indexPath(tablePath))
}
