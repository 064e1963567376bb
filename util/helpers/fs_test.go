package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateParentDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "a", "b", "table.db")
	require.NoError(t, CreateParentDir(file))

	info, err := os.Stat(filepath.Dir(file))
	require.NoError(t, err)
	require.True(t, info.IsDir())

	// existing directory
	require.NoError(t, CreateParentDir(file))
}
