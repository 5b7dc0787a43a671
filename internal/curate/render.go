package curate

import (
	"fmt"
	"strings"
)

// Render formats the plan as the human-readable diff shown by dry-run:
// added records, updated records with per-field before/after values, and
// skipped identical records.
func (p *ModelPlan) Render() string {
	var added, updated, skipped []string
	for _, op := range p.Ops {
		switch op.Action {
		case ActionInsert:
			added = append(added, fmt.Sprintf("%s -> %s", op.ID, op.Shard))
		case ActionUpdate:
			updated = append(updated, renderUpdate(op.ID, op.Shard, op.Changes))
		case ActionSkip:
			skipped = append(skipped, fmt.Sprintf("%s (identical)", op.ID))
		}
	}
	return renderSections(added, updated, skipped)
}

// Render formats the benchmark plan the same way.
func (p *BenchmarkPlan) Render() string {
	var added, updated, skipped []string
	for _, op := range p.Ops {
		switch op.Action {
		case ActionInsert:
			added = append(added, fmt.Sprintf("%s -> benchmarks/%s.json", op.ID, op.Category))
		case ActionUpdate:
			updated = append(updated, renderUpdate(op.ID, "benchmarks/"+op.Category+".json", op.Changes))
		case ActionSkip:
			skipped = append(skipped, fmt.Sprintf("%s (identical)", op.ID))
		}
	}
	return renderSections(added, updated, skipped)
}

func renderUpdate(id, shard string, changes []FieldChange) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", id, shard)
	for _, c := range changes {
		fmt.Fprintf(&b, "\n      %s", c)
	}
	return b.String()
}

func renderSections(added, updated, skipped []string) string {
	var b strings.Builder
	if len(added) > 0 {
		fmt.Fprintf(&b, "Added (%d):\n", len(added))
		for _, s := range added {
			fmt.Fprintf(&b, "  + %s\n", s)
		}
	}
	if len(updated) > 0 {
		fmt.Fprintf(&b, "Updated (%d):\n", len(updated))
		for _, s := range updated {
			fmt.Fprintf(&b, "  ~ %s\n", s)
		}
	}
	if len(skipped) > 0 {
		fmt.Fprintf(&b, "Skipped (%d):\n", len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(&b, "  = %s\n", s)
		}
	}
	if b.Len() == 0 {
		return "No records in change-set.\n"
	}
	return b.String()
}
