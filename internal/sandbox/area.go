// Package sandbox runs validated scripts in isolation: each script is
// persisted into a per-session throwaway directory and interpreted in a
// separate process with a bounded lifetime.
package sandbox

import (
	"fmt"
	"os"
)

// Area is the per-session throwaway directory. Scripts accumulate here
// for the life of the session and the whole directory goes away at exit.
type Area struct {
	dir string
}

// NewArea creates a fresh throwaway directory.
func NewArea() (*Area, error) {
	dir, err := os.MkdirTemp("", "sheetwright-scripts-*")
	if err != nil {
		return nil, fmt.Errorf("create script area: %w", err)
	}
	return &Area{dir: dir}, nil
}

func (a *Area) Dir() string {
	return a.dir
}

// Cleanup removes the directory and everything in it. A failure here is
// reported, not fatal; the session is already ending.
func (a *Area) Cleanup() error {
	return os.RemoveAll(a.dir)
}
