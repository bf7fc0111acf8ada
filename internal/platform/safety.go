package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// DevDirName is the directory under os.TempDir that holds sandboxed stores.
const DevDirName = "serlyo-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// Both build their binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(os.TempDir())) {
		return true
	}
	return strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe")
}

// ResolveStorePath returns the path the store really uses.
// With forceTemp, paths outside the temporary directory are re-rooted under
// <tmp>/serlyo-dev/<base name> so a dev run never touches the real workspace.
func ResolveStorePath(userPath string, forceTemp bool) string {
	if !forceTemp {
		if userPath == "" {
			return "."
		}
		return userPath
	}

	clean := filepath.Clean(userPath)
	tempRoot := os.TempDir()

	// Already inside the temp dir, e.g. t.TempDir().
	if rel, err := filepath.Rel(tempRoot, clean); err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(clean) {
		return clean
	}

	sub := "default"
	if userPath != "" && userPath != "." && userPath != "./" {
		sub = filepath.Base(userPath)
		if sub == "." || sub == string(os.PathSeparator) {
			sub = "default"
		}
	}
	return filepath.Join(tempRoot, DevDirName, sub)
}
