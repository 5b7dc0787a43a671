package curate

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
)

// ApplyResult summarizes what an apply wrote.
type ApplyResult struct {
	WrittenShards   []string `json:"written_shards"`
	ManifestUpdated bool     `json:"manifest_updated"`
	Inserted        int      `json:"inserted"`
	Updated         int      `json:"updated"`
	Skipped         int      `json:"skipped"`
	Stamp           string   `json:"stamp"`
}

// ApplyModelPlan writes every shard the plan touches, creating shards that
// do not exist yet, then updates the manifest listing and stamp. Callers
// gate on a clean validation report first; apply itself only fails on IO.
// Each shard is rebuilt in memory and replaced atomically.
func ApplyModelPlan(st *catalog.Store, plan *ModelPlan, now time.Time) (*ApplyResult, error) {
	stamp := now.UTC().Format(time.RFC3339)
	res := &ApplyResult{Stamp: stamp}
	res.Inserted, res.Updated, res.Skipped = plan.Counts()

	byShard := map[string][]ModelOp{}
	for _, op := range plan.Ops {
		if op.Action == ActionSkip {
			continue
		}
		byShard[op.Shard] = append(byShard[op.Shard], op)
	}
	shards := make([]string, 0, len(byShard))
	for rel := range byShard {
		shards = append(shards, rel)
	}
	sort.Strings(shards)

	for _, rel := range shards {
		shard, err := st.ReadModelShard(rel)
		if err != nil {
			if !eris.Is(err, catalog.ErrShardNotFound) {
				return nil, err
			}
			shard = &catalog.ModelShard{Provider: plan.ChangeSet.Provider}
		}

		for _, op := range byShard[rel] {
			if existing, ok := shard.FindModel(op.ID); ok {
				*existing = *op.Merged
			} else {
				shard.Models = append(shard.Models, *op.Merged)
			}
		}
		shard.LastUpdated = stamp

		if err := st.WriteModelShard(rel, shard); err != nil {
			return nil, err
		}
		res.WrittenShards = append(res.WrittenShards, rel)
	}

	if len(res.WrittenShards) > 0 {
		if err := touchManifest(st, res.WrittenShards, stamp); err != nil {
			return nil, err
		}
		res.ManifestUpdated = true
	}

	zap.L().Info("curate: applied model change-set",
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
		zap.Strings("shards", res.WrittenShards))
	return res, nil
}

// ApplyBenchmarkPlan writes every category shard the plan touches, creating
// new category shards as needed, and refreshes the manifest stamp. The model
// shard listing is untouched.
func ApplyBenchmarkPlan(st *catalog.Store, plan *BenchmarkPlan, now time.Time) (*ApplyResult, error) {
	stamp := now.UTC().Format(time.RFC3339)
	res := &ApplyResult{Stamp: stamp}
	res.Inserted, res.Updated, res.Skipped = plan.Counts()

	byCategory := map[string][]BenchmarkOp{}
	for _, op := range plan.Ops {
		if op.Action == ActionSkip {
			continue
		}
		byCategory[op.Category] = append(byCategory[op.Category], op)
	}
	categories := make([]string, 0, len(byCategory))
	for id := range byCategory {
		categories = append(categories, id)
	}
	sort.Strings(categories)

	for _, categoryID := range categories {
		shard, err := st.ReadBenchmarkShard(categoryID)
		if err != nil {
			if !eris.Is(err, catalog.ErrShardNotFound) {
				return nil, err
			}
			shard = &catalog.BenchmarkShard{Benchmarks: map[string]model.BenchmarkDefinition{}}
		}

		for _, op := range byCategory[categoryID] {
			shard.Benchmarks[op.ID] = op.Merged
		}

		if err := st.WriteBenchmarkShard(categoryID, shard); err != nil {
			return nil, err
		}
		res.WrittenShards = append(res.WrittenShards, catalog.BenchmarkPath(categoryID))
	}

	if len(res.WrittenShards) > 0 {
		if err := touchManifest(st, nil, stamp); err != nil {
			return nil, err
		}
		res.ManifestUpdated = true
	}

	zap.L().Info("curate: applied benchmark change-set",
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped),
		zap.Strings("shards", res.WrittenShards))
	return res, nil
}

// touchManifest stamps last_updated and registers any newly written model
// shards in the listing. A missing manifest is created.
func touchManifest(st *catalog.Store, modelShards []string, stamp string) error {
	m, err := st.ReadManifest()
	if err != nil {
		if !eris.Is(err, catalog.ErrShardNotFound) {
			return err
		}
		m = &catalog.Manifest{}
	}
	for _, rel := range modelShards {
		m.AddFile(rel)
	}
	m.LastUpdated = stamp
	return st.WriteManifest(m)
}
