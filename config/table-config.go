package config

type TableConfig struct {
	Path         string
	Create       bool
	FieldLengths []int

	// SeedRecords is the number of generated rows inserted at startup.
	SeedRecords int
}

func NewTableConfig() *TableConfig {
	return &TableConfig{
		Path:         "table.db",
		FieldLengths: []int{10, 20},
	}
}
