package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// writeJSONAtomic replaces path with the indented JSON encoding of v as a
// single atomic unit: the bytes land in a temp file in the same directory,
// are fsynced, and only then renamed over the target. A crash mid-write
// leaves either the old complete file or the new one, never a torn shard.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrap(err, "catalog: marshal shard")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrap(err, "catalog: create shard directory")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrap(err, "catalog: create temp shard")
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return eris.Wrap(err, "catalog: write temp shard")
	}
	if err := tmp.Sync(); err != nil {
		return eris.Wrap(err, "catalog: sync temp shard")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "catalog: close temp shard")
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return eris.Wrap(err, "catalog: chmod temp shard")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return eris.Wrap(err, "catalog: rename temp shard")
	}
	return nil
}
