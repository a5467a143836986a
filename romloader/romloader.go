// Package romloader resolves logical ROM names to file bytes under
// the configured resource root, as spec.md §6 describes: ROMs live at
// ${RETRO_PATH}/rom/<name>, opaque and loaded verbatim with no header
// or checksum.
package romloader

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultRetroPath = ".retro"

// LoadError reports a ROM that could not be resolved or read. ROM
// load failure is a host misconfiguration, so callers are expected to
// fail fast (log.Fatalf) rather than recover from it.
type LoadError struct {
	Name string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("can't load rom %q from %q: %v", e.Name, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ResourceRoot returns the configured resource root: $RETRO_PATH if
// set, otherwise ~/.retro.
func ResourceRoot() string {
	if p := os.Getenv("RETRO_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultRetroPath
	}
	return filepath.Join(home, ".retro")
}

// Path returns the resolved path for a logical ROM name under the
// resource root's rom/ subdirectory.
func Path(name string) string {
	return filepath.Join(ResourceRoot(), "rom", name)
}

// Load reads the named ROM file's bytes in full. Returns a *LoadError
// wrapping the underlying cause on any failure.
func Load(name string) ([]uint8, error) {
	path := Path(name)
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Name: name, Path: path, Err: err}
	}
	return b, nil
}
