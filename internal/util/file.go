package util

import (
	"os"
	"path/filepath"
)

// GetTempDir is the scratch directory of the process, e.g. /tmp/seccert.
func GetTempDir() string {
	return filepath.Join(os.TempDir(), "seccert")
}
