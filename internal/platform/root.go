package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/aretw0/serlyo/pkg/adapters/sqlite"
	"github.com/aretw0/serlyo/pkg/planner"
)

// ErrRootNotFound is returned by FindRoot when no ancestor holds a planner.
var ErrRootNotFound = errors.New("serlyo root not found")

// rootMarkers are the entries whose presence makes a directory a planner root,
// in the order they are checked.
var rootMarkers = []string{
	ConfigFileName,
	planner.PostsKey + ".json",
	planner.PostsKey + ".yaml",
	sqlite.DefaultFile,
	".git",
}

// FindRoot returns the nearest directory at or above startDir that holds
// serlyo.yaml, a posts blob, a sqlite database or a .git directory.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for dir := abs; ; {
		if isRoot(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w from %s", ErrRootNotFound, abs)
		}
		dir = parent
	}
}

func isRoot(dir string) bool {
	return slices.ContainsFunc(rootMarkers, func(name string) bool {
		_, err := os.Stat(filepath.Join(dir, name))
		return err == nil
	})
}
