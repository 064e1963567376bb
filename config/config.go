package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type AppConfig struct {
	Index *IndexConfig
	Table *TableConfig
	Log   *LogConfig
}

func New() *AppConfig {
	return &AppConfig{
		Index: NewIndexConfig(),
		Table: NewTableConfig(),
		Log:   NewLogConfig(),
	}
}

// ParseFieldLengths parses a comma separated list of positive field widths,
// e.g. "10,20".
func ParseFieldLengths(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	lengths := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid field length %q", p)
		}
		if n <= 0 {
			return nil, errors.Errorf("field length must be positive, got %d", n)
		}
		lengths = append(lengths, n)
	}

	if len(lengths) == 0 {
		return nil, errors.New("at least one field is required")
	}
	return lengths, nil
}
