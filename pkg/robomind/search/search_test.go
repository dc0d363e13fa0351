package search

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/robomind/pkg/robomind/grid"
	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

func mustParse(t *testing.T, text string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(text)
	if err != nil {
		t.Fatalf("parse map: %v", err)
	}
	return g
}

// checkPath asserts the path starts at origin, ends at destination and only
// steps between adjacent free cells.
func checkPath(t *testing.T, g *grid.Grid, path []grid.Position, origin, destination grid.Position) {
	t.Helper()
	if len(path) == 0 {
		t.Fatal("empty path")
	}
	if path[0] != origin {
		t.Errorf("path starts at %v, want %v", path[0], origin)
	}
	if path[len(path)-1] != destination {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], destination)
	}
	for i, p := range path {
		if !g.IsValid(p) {
			t.Errorf("path[%d] = %v is not a free cell", i, p)
		}
		if i > 0 && !grid.Adjacent(path[i-1], p) {
			t.Errorf("path[%d] = %v not adjacent to %v", i, p, path[i-1])
		}
	}
}

// bruteForce enumerates every simple path and returns the fewest steps and
// the lowest cost (which may come from different paths).
func bruteForce(g *grid.Grid, from, to grid.Position) (steps int, cost float64, ok bool) {
	steps, cost = math.MaxInt, math.Inf(1)
	visited := map[grid.Position]bool{from: true}

	var walk func(cur grid.Position, depth int, c float64)
	walk = func(cur grid.Position, depth int, c float64) {
		if cur == to {
			ok = true
			if depth < steps {
				steps = depth
			}
			if c < cost {
				cost = c
			}
			return
		}
		for _, n := range g.Neighbors(cur) {
			if visited[n] {
				continue
			}
			visited[n] = true
			walk(n, depth+1, c+g.StepCost(cur, n))
			visited[n] = false
		}
	}
	walk(from, 0, 0)
	return steps, cost, ok
}

func randomGrid(rng *rand.Rand, rows, cols int, density float64, weighted bool) *grid.Grid {
	g, _ := grid.New(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := grid.Position{Row: r, Col: c}
			if p == g.Start || p == g.Goal {
				continue
			}
			if rng.Float64() < density {
				g.Block(p)
			} else if weighted {
				g.SetCost(p, float64(1+rng.Intn(5)))
			}
		}
	}
	return g
}

func TestOpenGridAllAlgorithms(t *testing.T) {
	g, _ := grid.New(3, 3)
	f := New()

	for _, algo := range Algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			res, err := f.Find(g, grid.Position{}, grid.Position{Row: 2, Col: 2}, algo, Manhattan)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if res.Cost != 4 {
				t.Errorf("cost = %v, want 4", res.Cost)
			}
			if len(res.Path) != 5 {
				t.Errorf("path length = %d, want 5", len(res.Path))
			}
			checkPath(t, g, res.Path, grid.Position{}, grid.Position{Row: 2, Col: 2})
		})
	}
}

func TestOriginEqualsDestination(t *testing.T) {
	g := mustParse(t, "S1\n1G")
	f := New()

	for _, algo := range Algorithms {
		res, err := f.Find(g, g.Start, g.Start, algo, Euclidean)
		if err != nil {
			t.Fatalf("%v: %v", algo, err)
		}
		if diff := cmp.Diff([]grid.Position{g.Start}, res.Path); diff != "" {
			t.Errorf("%v path mismatch (-want +got):\n%s", algo, diff)
		}
		if res.Cost != 0 || res.Expanded != 0 {
			t.Errorf("%v: cost=%v expanded=%d, want 0 and 0", algo, res.Cost, res.Expanded)
		}
	}
}

func TestUnreachableGoal(t *testing.T) {
	g := mustParse(t, `
S0000
00111
001G1
00111
`)
	f := New()

	for _, algo := range Algorithms {
		res, err := f.Find(g, g.Start, g.Goal, algo, Manhattan)
		if err != nil {
			t.Fatalf("%v: unexpected error %v", algo, err)
		}
		if res.Found() {
			t.Errorf("%v: expected no path, got %v", algo, res.Path)
		}
		if !math.IsInf(res.Cost, 1) {
			t.Errorf("%v: cost = %v, want +Inf", algo, res.Cost)
		}
		if res.Steps() != -1 {
			t.Errorf("%v: steps = %d, want -1", algo, res.Steps())
		}
		if res.Expanded == 0 {
			t.Errorf("%v: expected expansions before exhaustion", algo)
		}
	}
}

func TestInvalidArguments(t *testing.T) {
	g, _ := grid.New(2, 2)
	f := New()

	_, err := f.Find(g, g.Start, g.Goal, Algorithm(42), Manhattan)
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("unknown algorithm: expected ErrInvalidInput, got %v", err)
	}

	_, err = f.Find(g, g.Start, g.Goal, AStar, Heuristic(9))
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("unknown heuristic: expected ErrInvalidInput, got %v", err)
	}

	// Rejected before the origin == destination shortcut
	_, err = f.Find(g, g.Start, g.Start, Algorithm(-1), Manhattan)
	if err == nil {
		t.Error("expected error for invalid algorithm even when origin == destination")
	}
}

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]Algorithm{
		"bfs":           BreadthFirst,
		"UCS":           UniformCost,
		"a-star":        AStar,
		"astar":         AStar,
		" bidi ":        Bidirectional,
		"bidirectional": Bidirectional,
	}
	for in, want := range cases {
		got, err := ParseAlgorithm(in)
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseAlgorithm("dfs"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for dfs, got %v", err)
	}
}

func TestParseHeuristic(t *testing.T) {
	if h, err := ParseHeuristic(""); err != nil || h != Manhattan {
		t.Errorf("empty heuristic = %v, %v; want manhattan", h, err)
	}
	if h, err := ParseHeuristic("Euclidean"); err != nil || h != Euclidean {
		t.Errorf("Euclidean = %v, %v", h, err)
	}
	if _, err := ParseHeuristic("chebyshev"); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestHeuristicEstimate(t *testing.T) {
	a, b := grid.Position{Row: 0, Col: 0}, grid.Position{Row: 3, Col: 4}
	if got := Manhattan.Estimate(a, b); got != 7 {
		t.Errorf("manhattan = %v, want 7", got)
	}
	if got := Euclidean.Estimate(a, b); got != 5 {
		t.Errorf("euclidean = %v, want 5", got)
	}
}

func TestTieBreakFollowsNeighborOrder(t *testing.T) {
	// Both (1,0) and (0,1) lead to (1,1); "down" is enumerated before "right".
	g, _ := grid.New(2, 2)
	f := New()
	want := []grid.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}

	for _, algo := range []Algorithm{BreadthFirst, UniformCost, AStar} {
		res, err := f.Find(g, g.Start, g.Goal, algo, Manhattan)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, res.Path); diff != "" {
			t.Errorf("%v path mismatch (-want +got):\n%s", algo, diff)
		}
	}
}

func TestWeightedDetour(t *testing.T) {
	g := mustParse(t, "S0G\n000")
	if err := g.SetCost(grid.Position{Row: 0, Col: 1}, 10); err != nil {
		t.Fatal(err)
	}
	f := New()

	bfs, _ := f.Find(g, g.Start, g.Goal, BreadthFirst, Manhattan)
	if bfs.Steps() != 2 || bfs.Cost != 11 {
		t.Errorf("bfs: steps=%d cost=%v, want 2 and 11", bfs.Steps(), bfs.Cost)
	}

	for _, algo := range []Algorithm{UniformCost, AStar} {
		res, _ := f.Find(g, g.Start, g.Goal, algo, Manhattan)
		if res.Cost != 4 {
			t.Errorf("%v: cost = %v, want 4", algo, res.Cost)
		}
		want := []grid.Position{{Row: 0, Col: 0}, {Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 0, Col: 2}}
		if diff := cmp.Diff(want, res.Path); diff != "" {
			t.Errorf("%v path mismatch (-want +got):\n%s", algo, diff)
		}
	}
}

func TestAgreementWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	f := New()

	for i := 0; i < 200; i++ {
		g := randomGrid(rng, 4, 4, 0.3, false)
		wantSteps, _, reachable := bruteForce(g, g.Start, g.Goal)

		results := make(map[Algorithm]Result)
		for _, algo := range Algorithms {
			res, err := f.Find(g, g.Start, g.Goal, algo, Manhattan)
			if err != nil {
				t.Fatalf("grid %d %v: %v", i, algo, err)
			}
			results[algo] = res
			if res.Found() != reachable {
				t.Fatalf("grid %d %v: found=%v, brute force reachable=%v\n%s", i, algo, res.Found(), reachable, g)
			}
			if reachable {
				checkPath(t, g, res.Path, g.Start, g.Goal)
			}
		}
		if !reachable {
			continue
		}

		if got := results[BreadthFirst].Steps(); got != wantSteps {
			t.Errorf("grid %d: bfs steps = %d, want %d\n%s", i, got, wantSteps, g)
		}
		if got := results[UniformCost].Cost; got != float64(wantSteps) {
			t.Errorf("grid %d: ucs cost = %v, want %d", i, got, wantSteps)
		}
		if got := results[AStar].Cost; got != results[UniformCost].Cost {
			t.Errorf("grid %d: astar cost = %v, ucs = %v", i, got, results[UniformCost].Cost)
		}
		if got := results[Bidirectional].Steps(); got != wantSteps {
			t.Errorf("grid %d: bidirectional steps = %d, want %d\n%s", i, got, wantSteps, g)
		}

		euclid, _ := f.Find(g, g.Start, g.Goal, AStar, Euclidean)
		if euclid.Cost != results[UniformCost].Cost {
			t.Errorf("grid %d: euclidean astar cost = %v, ucs = %v", i, euclid.Cost, results[UniformCost].Cost)
		}
	}
}

func TestWeightedAgreementWithBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	f := New()

	for i := 0; i < 100; i++ {
		g := randomGrid(rng, 4, 4, 0.2, true)
		_, wantCost, reachable := bruteForce(g, g.Start, g.Goal)
		if !reachable {
			continue
		}
		for _, algo := range []Algorithm{UniformCost, AStar} {
			for _, h := range []Heuristic{Manhattan, Euclidean} {
				res, err := f.Find(g, g.Start, g.Goal, algo, h)
				if err != nil {
					t.Fatal(err)
				}
				if res.Cost != wantCost {
					t.Errorf("grid %d %v/%v: cost = %v, want %v", i, algo, h, res.Cost, wantCost)
				}
				checkPath(t, g, res.Path, g.Start, g.Goal)
			}
		}
	}
}
