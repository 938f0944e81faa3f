package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extensionConn is the subset of *sqlite3.SQLiteConn the probing needs.
type extensionConn interface {
	LoadExtension(lib string, entry string) error
}

// VecExtension locates and loads the sqlite-vec loadable extension.
// Builds of the extension differ in both install location and exported
// entrypoint, so loading probes every path/entrypoint pair in preference
// order and only fails once all of them have been tried.
type VecExtension struct {
	// Paths are candidate shared-library locations, tried in order.
	Paths []string
	// Entries are candidate init entrypoints per path. The empty string
	// means the driver's default (sqlite3_extension_init).
	Entries []string
}

// DefaultVecExtension returns the standard candidate list, with the
// configured path (if any) tried first, as-is and with platform suffixes.
func DefaultVecExtension(configured string) *VecExtension {
	var paths []string
	if configured != "" {
		paths = append(paths, configured, configured+".so", configured+".dylib")
	}
	paths = append(paths,
		"/usr/local/lib/vec0",
		"/usr/local/lib/vec0.so",
		"/usr/local/lib/sqlite-vec/vec0.so",
		"/usr/lib/sqlite3/vec0.so",
	)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".local/lib/vec0.so"),
			filepath.Join(home, ".local/lib/sqlite-vec/vec0.so"),
		)
	}
	return &VecExtension{
		Paths:   paths,
		Entries: []string{"", "sqlite3_vec_init", "sqlite3_vec0_init", "sqlite3_sqlitevec_init"},
	}
}

// Load tries every existing candidate path with every entrypoint until one
// succeeds. On failure the returned error lists each attempt.
func (v *VecExtension) Load(conn extensionConn) error {
	var tried []string
	seen := map[string]bool{}
	for _, path := range v.Paths {
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err != nil {
			continue
		}
		for _, entry := range v.Entries {
			err := conn.LoadExtension(path, entry)
			if err == nil {
				return nil
			}
			label := path
			if entry != "" {
				label = fmt.Sprintf("%s (%s)", path, entry)
			}
			tried = append(tried, fmt.Sprintf("%s -> %v", label, err))
		}
	}
	if len(tried) == 0 {
		return fmt.Errorf("load sqlite-vec: no candidate paths found")
	}
	return fmt.Errorf("load sqlite-vec: tried %s", strings.Join(tried, "; "))
}
