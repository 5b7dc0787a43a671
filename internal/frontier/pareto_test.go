package frontier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeanTater/llm-pareto/internal/catalog"
	"github.com/SeanTater/llm-pareto/internal/model"
)

func pts(xy ...float64) []Point {
	var out []Point
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, Point{X: xy[i], Y: xy[i+1]})
	}
	return out
}

func coords(points []Point) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, p := range points {
		out[i] = [2]float64{p.X, p.Y}
	}
	return out
}

func TestParetoFrontierEqualXTieBreak(t *testing.T) {
	t.Parallel()

	// The second 20-X point has a lower Y and the trailing 30-X point only
	// equals the running max; both drop.
	points := pts(10, 50, 20, 60, 20, 55, 30, 60)
	frontier := ParetoFrontier(points)

	assert.Equal(t, [][2]float64{{10, 50}, {20, 60}}, coords(frontier))
	assert.Equal(t, []bool{true, true, false, false}, []bool{
		points[0].OnFrontier, points[1].OnFrontier, points[2].OnFrontier, points[3].OnFrontier,
	})
}

func TestParetoFrontierEqualXEqualYKeepsFirstOnly(t *testing.T) {
	t.Parallel()

	// An equal-X equal-Y point is not dominated in the usual sense, but the
	// strict-improvement scan keeps only the first. Contract, not bug.
	frontier := ParetoFrontier(pts(20, 60, 20, 60))
	assert.Equal(t, [][2]float64{{20, 60}}, coords(frontier))
}

func TestParetoFrontierEmptyAndSingle(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParetoFrontier(nil))
	assert.Empty(t, ParetoFrontier([]Point{}))

	single := pts(5, 5)
	frontier := ParetoFrontier(single)
	require.Len(t, frontier, 1)
	assert.True(t, frontier[0].OnFrontier)
}

func TestParetoFrontierSortsInput(t *testing.T) {
	t.Parallel()

	frontier := ParetoFrontier(pts(30, 70, 10, 50, 20, 60))
	assert.Equal(t, [][2]float64{{10, 50}, {20, 60}, {30, 70}}, coords(frontier))
}

func TestParetoFrontierDropsDominated(t *testing.T) {
	t.Parallel()

	// (15, 40) is worse on both axes than (10, 50).
	frontier := ParetoFrontier(pts(10, 50, 15, 40, 20, 60))
	assert.Equal(t, [][2]float64{{10, 50}, {20, 60}}, coords(frontier))
}

func TestParetoFrontierIdempotent(t *testing.T) {
	t.Parallel()

	first := ParetoFrontier(pts(10, 50, 20, 60, 20, 55, 30, 60, 40, 90))
	second := ParetoFrontier(first)
	assert.Equal(t, coords(first), coords(second))
}

func TestParetoFrontierAscendingEnvelope(t *testing.T) {
	t.Parallel()

	frontier := ParetoFrontier(pts(4, 10, 1, 3, 3, 9, 2, 7, 5, 8))
	for i := 1; i < len(frontier); i++ {
		assert.Less(t, frontier[i-1].X, frontier[i].X, "X strictly ascending")
		assert.Less(t, frontier[i-1].Y, frontier[i].Y, "Y strictly ascending along the envelope")
	}
}

func frontierCatalog() *catalog.Catalog {
	f := func(v float64) *float64 { return &v }
	return &catalog.Catalog{
		ModelShards: map[string]*catalog.ModelShard{
			"models/a.json": {Provider: "a", Models: []model.ModelRecord{
				{
					ID: "dense-small", Name: "Dense Small", Family: "dense",
					ParametersBillions: f(8),
					Benchmarks:         map[string]model.BenchmarkScore{"mmlu": {Score: 65}},
				},
				{
					ID: "dense-large", Name: "Dense Large", Family: "dense",
					ParametersBillions: f(70),
					Benchmarks:         map[string]model.BenchmarkScore{"mmlu": {Score: 80}},
				},
			}},
			"models/b.json": {Provider: "b", Models: []model.ModelRecord{
				{
					ID: "priced-only", Name: "Priced Only", Family: "api",
					Pricing:    &model.Pricing{InputPer1MTokens: 1.0, OutputPer1MTokens: 2.0},
					Benchmarks: map[string]model.BenchmarkScore{"mmlu": {Score: 75}},
				},
				{
					ID: "no-axis", Name: "No Axis", Family: "api",
					Benchmarks: map[string]model.BenchmarkScore{"mmlu": {Score: 90}},
				},
				{
					ID: "no-score", Name: "No Score", Family: "dense",
					ParametersBillions: f(30),
				},
			}},
		},
		BenchmarkShards: map[string]*catalog.BenchmarkShard{
			"knowledge": {Benchmarks: map[string]model.BenchmarkDefinition{
				"mmlu": {ID: "mmlu", Name: "MMLU", Category: "knowledge", Scale: "0-100", HigherIsBetter: true},
			}},
		},
	}
}

func TestBuildPointsExcludesMissingAxes(t *testing.T) {
	t.Parallel()

	cat := frontierCatalog()
	points := BuildPoints(cat, AxisTotalParameters, "mmlu", "", DefaultCalibration())

	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.Model.ID
	}
	// no-axis has neither parameters nor pricing; no-score has no mmlu entry.
	assert.ElementsMatch(t, []string{"dense-small", "dense-large", "priced-only"}, ids)
}

func TestBuildPointsPricingDerivedParamsAreFlagged(t *testing.T) {
	t.Parallel()

	cat := frontierCatalog()
	points := BuildPoints(cat, AxisTotalParameters, "mmlu", "", DefaultCalibration())

	var priced *Point
	for i := range points {
		if points[i].Model.ID == "priced-only" {
			priced = &points[i]
		}
	}
	require.NotNil(t, priced)
	assert.True(t, priced.XEstimated)

	cal := DefaultCalibration()
	want := (1.0/cal.Total.InputPerBillion + 2.0/cal.Total.OutputPerBillion) / 2
	assert.InDelta(t, want, priced.X, 1e-9)
}

func TestBuildPointsFamilyFilter(t *testing.T) {
	t.Parallel()

	cat := frontierCatalog()
	points := BuildPoints(cat, AxisTotalParameters, "mmlu", "dense", DefaultCalibration())
	require.Len(t, points, 2)
	for _, p := range points {
		assert.Equal(t, "dense", p.Model.Family)
	}
}

func TestBuildPointsEmptyFilterIsData(t *testing.T) {
	t.Parallel()

	cat := frontierCatalog()
	points := BuildPoints(cat, AxisTotalParameters, "mmlu", "no-such-family", DefaultCalibration())
	assert.Empty(t, points)
	assert.Empty(t, ParetoFrontier(points))
}
