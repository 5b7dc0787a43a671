package frontier

import (
	"math"
	"sort"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
)

// Point is one model's position on the comparison plane.
type Point struct {
	X          float64            `json:"x"`
	Y          float64            `json:"y"`
	Model      *model.ModelRecord `json:"model"`
	XEstimated bool               `json:"x_estimated"`
	OnFrontier bool               `json:"on_frontier"`
}

// BuildPoints resolves one point per catalog model on the chosen axes,
// optionally filtered by family. Models missing either axis value are
// excluded, never errors; an empty result means no data for the filter.
func BuildPoints(cat *catalog.Catalog, xAxis Axis, benchID, family string, cal Calibration) []Point {
	var points []Point
	for _, e := range cat.Models() {
		m := e.Record
		if family != "" && m.Family != family {
			continue
		}
		x, ok := AxisValue(m, xAxis, cal)
		if !ok {
			continue
		}
		y, ok := BenchmarkValue(m, benchID)
		if !ok {
			continue
		}
		points = append(points, Point{X: x.V, Y: y, Model: m, XEstimated: x.Estimated})
	}
	return points
}

// ParetoFrontier marks the subset of points that are frontier-optimal under
// "maximize Y, minimize X" and returns them in ascending-X order, forming a
// step-function upper envelope.
//
// The scan sorts by X ascending (stable) and keeps a point iff its Y
// strictly exceeds the running maximum. Among equal-X points only the first
// strict improvement survives: a later equal-X point with an equal Y is
// dropped even though the usual Pareto relation would not dominate it. That
// tie behavior is part of the contract; rendering and tests rely on it.
func ParetoFrontier(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}

	idx := make([]int, len(points))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return points[idx[a]].X < points[idx[b]].X
	})

	maxY := math.Inf(-1)
	var frontier []Point
	for _, i := range idx {
		if points[i].Y > maxY {
			maxY = points[i].Y
			points[i].OnFrontier = true
			frontier = append(frontier, points[i])
		}
	}
	return frontier
}
