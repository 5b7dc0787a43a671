package catalog

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/SeanTater/llm-pareto/internal/model"
)

// ErrShardNotFound marks a read of a shard file that does not exist yet.
// Apply treats it as "create this shard"; everything else surfaces it.
var ErrShardNotFound = eris.New("catalog: shard not found")

const (
	manifestFile   = "manifest.json"
	categoriesFile = "benchmarks/categories.json"
)

// Store is the sharded on-disk catalog rooted at a data directory:
// manifest.json, benchmarks/<category>.json, benchmarks/categories.json,
// and models/<provider>.json (optionally nested one level). All writes go
// through atomic replace; readers never observe a torn shard.
type Store struct {
	dir string
}

// New returns a Store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory root.
func (s *Store) Dir() string { return s.dir }

// ModelPath returns the data-dir-relative shard path for a provider,
// the default target when a change-set names no explicit file.
func ModelPath(provider string) string {
	return "models/" + strings.ToLower(provider) + ".json"
}

// BenchmarkPath returns the data-dir-relative shard path for a category.
func BenchmarkPath(category string) string {
	return "benchmarks/" + category + ".json"
}

func (s *Store) abs(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

func (s *Store) readJSON(rel string, v any) error {
	data, err := os.ReadFile(s.abs(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return eris.Wrap(ErrShardNotFound, rel)
		}
		return eris.Wrapf(err, "catalog: read %s", rel)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "catalog: unmarshal %s", rel)
	}
	return nil
}

// ReadModelShard loads one model shard by its data-dir-relative path.
func (s *Store) ReadModelShard(rel string) (*ModelShard, error) {
	var shard ModelShard
	if err := s.readJSON(rel, &shard); err != nil {
		return nil, err
	}
	return &shard, nil
}

// WriteModelShard atomically replaces one model shard.
func (s *Store) WriteModelShard(rel string, shard *ModelShard) error {
	return writeJSONAtomic(s.abs(rel), shard)
}

// ReadBenchmarkShard loads the shard for one benchmark category.
func (s *Store) ReadBenchmarkShard(category string) (*BenchmarkShard, error) {
	var shard BenchmarkShard
	if err := s.readJSON(BenchmarkPath(category), &shard); err != nil {
		return nil, err
	}
	if shard.Benchmarks == nil {
		shard.Benchmarks = map[string]model.BenchmarkDefinition{}
	}
	for id, def := range shard.Benchmarks {
		def.ID = id
		shard.Benchmarks[id] = def
	}
	return &shard, nil
}

// WriteBenchmarkShard atomically replaces the shard for one category.
func (s *Store) WriteBenchmarkShard(category string, shard *BenchmarkShard) error {
	return writeJSONAtomic(s.abs(BenchmarkPath(category)), shard)
}

// ReadCategories loads the category display registry. A missing file is an
// empty registry, not an error: the mapping is advisory.
func (s *Store) ReadCategories() (*CategoriesShard, error) {
	var shard CategoriesShard
	if err := s.readJSON(categoriesFile, &shard); err != nil {
		if eris.Is(err, ErrShardNotFound) {
			return &CategoriesShard{Categories: map[string]model.CategoryInfo{}}, nil
		}
		return nil, err
	}
	if shard.Categories == nil {
		shard.Categories = map[string]model.CategoryInfo{}
	}
	return &shard, nil
}

// ReadManifest loads manifest.json.
func (s *Store) ReadManifest() (*Manifest, error) {
	var m Manifest
	if err := s.readJSON(manifestFile, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// WriteManifest atomically replaces manifest.json.
func (s *Store) WriteManifest(m *Manifest) error {
	return writeJSONAtomic(s.abs(manifestFile), m)
}

// ModelShardPaths scans the models directory for shard files: top-level
// provider files plus one level of provider subdirectories. Returns sorted
// data-dir-relative slash paths.
func (s *Store) ModelShardPaths() ([]string, error) {
	modelsDir := filepath.Join(s.dir, "models")
	entries, err := os.ReadDir(modelsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "catalog: scan models dir")
	}

	var paths []string
	for _, e := range entries {
		if !e.IsDir() {
			if strings.HasSuffix(e.Name(), ".json") {
				paths = append(paths, "models/"+e.Name())
			}
			continue
		}
		sub, err := os.ReadDir(filepath.Join(modelsDir, e.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "catalog: scan models/%s", e.Name())
		}
		for _, f := range sub {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".json") {
				paths = append(paths, "models/"+e.Name()+"/"+f.Name())
			}
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// BenchmarkCategoryIDs scans the benchmarks directory for category shards,
// skipping the categories registry itself. Returns sorted category ids.
func (s *Store) BenchmarkCategoryIDs() ([]string, error) {
	benchDir := filepath.Join(s.dir, "benchmarks")
	entries, err := os.ReadDir(benchDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "catalog: scan benchmarks dir")
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || name == "categories.json" {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load reads every shard into an in-memory Catalog.
func (s *Store) Load() (*Catalog, error) {
	cat := &Catalog{
		ModelShards:     map[string]*ModelShard{},
		BenchmarkShards: map[string]*BenchmarkShard{},
	}

	modelPaths, err := s.ModelShardPaths()
	if err != nil {
		return nil, err
	}
	for _, rel := range modelPaths {
		shard, err := s.ReadModelShard(rel)
		if err != nil {
			return nil, err
		}
		cat.ModelShards[rel] = shard
	}

	categories, err := s.BenchmarkCategoryIDs()
	if err != nil {
		return nil, err
	}
	for _, id := range categories {
		shard, err := s.ReadBenchmarkShard(id)
		if err != nil {
			return nil, err
		}
		cat.BenchmarkShards[id] = shard
	}

	cats, err := s.ReadCategories()
	if err != nil {
		return nil, err
	}
	cat.Categories = cats.Categories

	return cat, nil
}

// RebuildManifest regenerates manifest.json from whatever model shard files
// exist on disk, recursively, and writes it back.
func (s *Store) RebuildManifest(now time.Time) (*Manifest, error) {
	modelsDir := filepath.Join(s.dir, "models")
	var files []string
	err := filepath.WalkDir(modelsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			rel, err := filepath.Rel(s.dir, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "catalog: walk models dir")
	}
	sort.Strings(files)

	m := &Manifest{ModelFiles: files, LastUpdated: now.UTC().Format(time.RFC3339)}
	if err := s.WriteManifest(m); err != nil {
		return nil, err
	}
	return m, nil
}
