package curate

import (
	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
)

// Action classifies one record in a merge plan.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip" // id exists and no field effectively changes
)

// ModelOp is the planned disposition of one incoming model record.
type ModelOp struct {
	Action  Action             `json:"action"`
	ID      string             `json:"id"`
	Shard   string             `json:"shard"` // data-dir-relative path the record lands in
	Merged  *model.ModelRecord `json:"merged,omitempty"`
	Changes []FieldChange      `json:"changes,omitempty"` // updates only
}

// ModelPlan is the full merge plan for an add-models change-set.
type ModelPlan struct {
	ChangeSet *ModelChangeSet `json:"change_set,omitempty"`
	Ops       []ModelOp       `json:"ops"`
}

// BenchmarkOp is the planned disposition of one incoming benchmark.
type BenchmarkOp struct {
	Action   Action                    `json:"action"`
	ID       string                    `json:"id"`
	Category string                    `json:"category"` // owning category shard
	Merged   model.BenchmarkDefinition `json:"merged"`
	Changes  []FieldChange             `json:"changes,omitempty"`
}

// BenchmarkPlan is the full merge plan for an add-benchmarks change-set.
type BenchmarkPlan struct {
	ChangeSet *BenchmarkChangeSet `json:"change_set,omitempty"`
	Ops       []BenchmarkOp       `json:"ops"`
}

// PlanModelMerge classifies each incoming record as insert, update, or skip
// and computes the merged result. Inserts land in the change-set's target
// shard; updates stay in the shard that already owns the id, so an id never
// spreads across two shards.
func PlanModelMerge(cs *ModelChangeSet, cat *catalog.Catalog) *ModelPlan {
	plan := &ModelPlan{ChangeSet: cs}
	target := cs.TargetShard()

	for _, ch := range cs.Models {
		existing, owner, found := cat.FindModel(ch.ID)
		if !found {
			merged, _ := mergeModel(nil, ch, cs.Provider)
			plan.Ops = append(plan.Ops, ModelOp{
				Action: ActionInsert,
				ID:     ch.ID,
				Shard:  target,
				Merged: merged,
			})
			continue
		}

		merged, changes := mergeModel(existing, ch, cs.Provider)
		op := ModelOp{ID: ch.ID, Shard: owner, Merged: merged, Changes: changes}
		if len(changes) == 0 {
			op.Action = ActionSkip
		} else {
			op.Action = ActionUpdate
		}
		plan.Ops = append(plan.Ops, op)
	}
	return plan
}

// PlanBenchmarkMerge classifies each incoming definition. Inserts land in
// the shard for their (possibly defaulted) category; updates stay in the
// category shard that already owns the id even when the category field
// changes, preserving id uniqueness across shards.
func PlanBenchmarkMerge(cs *BenchmarkChangeSet, cat *catalog.Catalog) *BenchmarkPlan {
	plan := &BenchmarkPlan{ChangeSet: cs}

	owners := map[string]string{} // benchmark id -> category shard
	for _, categoryID := range cat.CategoryIDs() {
		for id := range cat.BenchmarkShards[categoryID].Benchmarks {
			if _, ok := owners[id]; !ok {
				owners[id] = categoryID
			}
		}
	}

	for _, id := range cs.IDs() {
		ch := cs.Benchmarks[id]
		owner, found := owners[id]
		if !found {
			merged, _ := mergeBenchmark(id, nil, ch)
			plan.Ops = append(plan.Ops, BenchmarkOp{
				Action:   ActionInsert,
				ID:       id,
				Category: merged.Category,
				Merged:   merged,
			})
			continue
		}

		def := cat.BenchmarkShards[owner].Benchmarks[id]
		merged, changes := mergeBenchmark(id, &def, ch)
		op := BenchmarkOp{ID: id, Category: owner, Merged: merged, Changes: changes}
		if len(changes) == 0 {
			op.Action = ActionSkip
		} else {
			op.Action = ActionUpdate
		}
		plan.Ops = append(plan.Ops, op)
	}
	return plan
}

// Counts tallies the plan by action.
func (p *ModelPlan) Counts() (inserted, updated, skipped int) {
	for _, op := range p.Ops {
		switch op.Action {
		case ActionInsert:
			inserted++
		case ActionUpdate:
			updated++
		case ActionSkip:
			skipped++
		}
	}
	return
}

// HasWork reports whether the plan writes anything.
func (p *ModelPlan) HasWork() bool {
	i, u, _ := p.Counts()
	return i+u > 0
}

// Counts tallies the plan by action.
func (p *BenchmarkPlan) Counts() (inserted, updated, skipped int) {
	for _, op := range p.Ops {
		switch op.Action {
		case ActionInsert:
			inserted++
		case ActionUpdate:
			updated++
		case ActionSkip:
			skipped++
		}
	}
	return
}

// HasWork reports whether the plan writes anything.
func (p *BenchmarkPlan) HasWork() bool {
	i, u, _ := p.Counts()
	return i+u > 0
}
