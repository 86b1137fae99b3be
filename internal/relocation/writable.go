package relocation

import (
	"os"
	"path/filepath"
)

const probeFileName = ".catalogmirror-write-probe"

// IsWritable reports whether files can be created in path. A missing directory
// is created.
func IsWritable(path string) bool {
	if path == "" {
		return false
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(path, probeFileName)
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	_ = f.Close()
	return os.Remove(probe) == nil
}
