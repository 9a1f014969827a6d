package exchange

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mesh-intelligence/mdmreg/pkg/schema"
	"github.com/mesh-intelligence/mdmreg/pkg/types"
)

// TempFilePrefix is the prefix used for temporary atomic write files.
const TempFilePrefix = ".mdmreg-tmp-"

// WriteFileAtomic writes data to filename using the temp-file, fsync,
// rename pattern so readers never observe a partial file.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, TempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", filename, err)
	}
	return nil
}

// LoadRegistryFile reads a registry export from path. A missing file is an
// empty registry.
func LoadRegistryFile(path string, now time.Time) ([]types.Entity, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []types.Entity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseRegistry(data, now)
}

// SaveRegistryFile writes entities to path as a registry export.
func SaveRegistryFile(path string, entities []types.Entity, now time.Time) error {
	data, err := ExportRegistry(entities, now)
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	return WriteFileAtomic(path, append(data, '\n'), 0o644)
}

// WriteEntityFiles writes <key>.schema.json and <key>.d.ts into dir and
// returns the paths written. Keys that are not plain file names are
// rejected with types.ErrInvalidName and nothing is written.
func WriteEntityFiles(dir string, set *schema.Set, key string) ([]string, error) {
	if err := types.ValidateKey(key); err != nil {
		return nil, err
	}
	schemaJSON, dts, err := EntityFiles(set, key)
	if err != nil {
		return nil, err
	}
	schemaPath := filepath.Join(dir, SchemaFileName(key))
	typesPath := filepath.Join(dir, TypesFileName(key))
	if err := WriteFileAtomic(schemaPath, append(schemaJSON, '\n'), 0o644); err != nil {
		return nil, err
	}
	if err := WriteFileAtomic(typesPath, dts, 0o644); err != nil {
		return nil, err
	}
	return []string{schemaPath, typesPath}, nil
}

// SelectKeys returns the keys matching a doublestar glob pattern, in the
// order given. An empty pattern selects every key.
func SelectKeys(pattern string, keys []string) ([]string, error) {
	if pattern == "" {
		return append([]string{}, keys...), nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}
	var out []string
	for _, k := range keys {
		ok, err := doublestar.Match(pattern, k)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		if ok {
			out = append(out, k)
		}
	}
	return out, nil
}
