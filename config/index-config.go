package config

type IndexConfig struct {
	// BlockSize of every index node. order = BlockSize / 12.
	BlockSize int
}

func NewIndexConfig() *IndexConfig {
	return &IndexConfig{
		BlockSize: 60,
	}
}
