package vcvars

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// cacheDirName is the fixed subdirectory under the output directory that
// holds one file per cached variable.
const cacheDirName = "vcvars-cache"

// cacheStore abstracts the per-variable cache files so an invalidation
// strategy could be swapped in later without touching the resolver. Entries
// are never expired here; callers clear the cache directory on toolchain
// upgrades.
type cacheStore interface {
	// get returns the stored value. A missing entry is a miss, not an error.
	get(name string) (value string, ok bool, err error)
	// put stores the value, creating the cache directory as needed.
	put(name, value string) error
}

// dirStore keeps one file per variable under dir. The filename is derived
// from the originally-requested variable name, sanitized to stay legal on
// every mainstream filesystem so one cache directory is portable.
type dirStore struct {
	dir string
}

func (s *dirStore) path(name string) string {
	return filepath.Join(s.dir, sanitizeFilename(name+".txt"))
}

func (s *dirStore) get(name string) (string, bool, error) {
	path := s.path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %w", ErrCacheFailed, path, err)
	}
	return string(data), true, nil
}

func (s *dirStore) put(name, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCacheFailed, s.dir, err)
	}
	path := s.path(name)
	if err := os.WriteFile(path, []byte(value), 0o644); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCacheFailed, path, err)
	}
	return nil
}

// GetCached returns the value of the named variable, preferring the disk
// cache under the output directory (the OutDir option or VCVARS_OUT_DIR). On
// a hit the child processes are skipped entirely; on a miss the value is
// resolved via Get, persisted and returned. A resolver failure propagates
// unchanged and leaves no cache file behind.
//
// GetCached panics if the output directory is unconfigured or does not
// exist: that indicates caller misuse of the build environment, not a
// runtime condition.
//
// Two processes racing to populate the same cache file may interleave; the
// last writer wins. Callers own cross-process coordination.
func (v *Vcvars) GetCached(name string) (string, error) {
	store := v.store
	if store == nil {
		store = &dirStore{dir: filepath.Join(v.outputDir(), cacheDirName)}
	}

	value, ok, err := store.get(name)
	if err != nil {
		return "", err
	}
	if ok {
		return value, nil
	}

	value, err = v.Get(name)
	if err != nil {
		return "", err
	}
	if err := store.put(name, value); err != nil {
		return "", err
	}
	return value, nil
}

func (v *Vcvars) outputDir() string {
	dir := v.outDir
	if dir == "" {
		dir = os.Getenv(outDirEnv)
	}
	if dir == "" {
		panic(fmt.Sprintf("vcvars: output directory not configured: set %s or the OutDir option", outDirEnv))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		panic(fmt.Sprintf("vcvars: output directory %q is not an existing directory", dir))
	}
	return dir
}
