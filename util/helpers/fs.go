package helpers

import (
	"os"
	"path/filepath"
)

// CreateDir creates dir and its parents when missing.
func CreateDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// CreateParentDir creates the directory holding file.
func CreateParentDir(file string) error {
	return CreateDir(filepath.Dir(file))
}
