package search

import (
	"container/heap"
	"fmt"
	"math"
	"strings"

	"github.com/cognicore/robomind/pkg/robomind/grid"
	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// Graph is what the finder needs from a world: valid neighbors in a fixed,
// stable order. Bidirectional search also assumes adjacency is symmetric.
type Graph interface {
	Neighbors(p grid.Position) []grid.Position
}

// Coster is implemented by graphs with non-uniform step costs.
// Graphs without it cost 1 per step.
type Coster interface {
	StepCost(from, to grid.Position) float64
}

// Algorithm selects the search strategy
type Algorithm int

const (
	BreadthFirst Algorithm = iota
	UniformCost
	AStar
	Bidirectional
)

// Algorithms lists every strategy in declaration order
var Algorithms = []Algorithm{BreadthFirst, UniformCost, AStar, Bidirectional}

func (a Algorithm) String() string {
	switch a {
	case BreadthFirst:
		return "bfs"
	case UniformCost:
		return "ucs"
	case AStar:
		return "astar"
	case Bidirectional:
		return "bidirectional"
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm maps a CLI/config token onto an Algorithm
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bfs", "breadth-first":
		return BreadthFirst, nil
	case "ucs", "uniform-cost":
		return UniformCost, nil
	case "astar", "a-star", "a*":
		return AStar, nil
	case "bidirectional", "bidi":
		return Bidirectional, nil
	}
	return 0, fmt.Errorf("unknown algorithm %q: %w", s, internalerr.ErrInvalidInput)
}

// Heuristic estimates remaining cost for A*. The zero value is Manhattan.
type Heuristic int

const (
	Manhattan Heuristic = iota
	Euclidean
)

func (h Heuristic) String() string {
	switch h {
	case Manhattan:
		return "manhattan"
	case Euclidean:
		return "euclidean"
	}
	return fmt.Sprintf("Heuristic(%d)", int(h))
}

// ParseHeuristic maps a token onto a Heuristic. Empty means Manhattan.
func ParseHeuristic(s string) (Heuristic, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "manhattan":
		return Manhattan, nil
	case "euclidean":
		return Euclidean, nil
	}
	return 0, fmt.Errorf("unknown heuristic %q: %w", s, internalerr.ErrInvalidInput)
}

// Estimate returns the heuristic distance between a and b. Both are
// admissible for 4-directional movement with step costs >= 1.
func (h Heuristic) Estimate(a, b grid.Position) float64 {
	dr := math.Abs(float64(a.Row - b.Row))
	dc := math.Abs(float64(a.Col - b.Col))
	if h == Euclidean {
		return math.Sqrt(dr*dr + dc*dc)
	}
	return dr + dc
}

// Result is the outcome of a search. A missing path has Cost +Inf.
type Result struct {
	Path     []grid.Position
	Cost     float64
	Expanded int
}

// Found reports whether a path was returned
func (r Result) Found() bool {
	return r.Path != nil
}

// Steps is the number of moves along the path, or -1 without one
func (r Result) Steps() int {
	if r.Path == nil {
		return -1
	}
	return len(r.Path) - 1
}

func noPath(expanded int) Result {
	return Result{Cost: math.Inf(1), Expanded: expanded}
}

// Finder runs searches. It keeps no state between calls, so one value
// can serve any number of grids.
type Finder struct{}

// New creates a Finder
func New() *Finder {
	return &Finder{}
}

// Find searches from origin to destination. "No path" is a normal Result;
// the only error is an algorithm or heuristic outside the known set.
func (f *Finder) Find(g Graph, origin, destination grid.Position, algo Algorithm, h Heuristic) (Result, error) {
	if h != Manhattan && h != Euclidean {
		return Result{}, fmt.Errorf("find: %v: %w", h, internalerr.ErrInvalidInput)
	}

	switch algo {
	case BreadthFirst, UniformCost, AStar, Bidirectional:
	default:
		return Result{}, fmt.Errorf("find: %v: %w", algo, internalerr.ErrInvalidInput)
	}

	if origin == destination {
		return Result{Path: []grid.Position{origin}}, nil
	}

	switch algo {
	case BreadthFirst:
		return f.breadthFirst(g, origin, destination), nil
	case UniformCost:
		return f.bestFirst(g, origin, destination, nil), nil
	case AStar:
		return f.bestFirst(g, origin, destination, h.Estimate), nil
	default:
		return f.bidirectional(g, origin, destination), nil
	}
}

func (f *Finder) breadthFirst(g Graph, origin, destination grid.Position) Result {
	parent := map[grid.Position]grid.Position{origin: origin}
	queue := []grid.Position{origin}
	expanded := 0

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		if cur == destination {
			path := walkParents(parent, origin, destination)
			return Result{Path: path, Cost: pathCost(g, path), Expanded: expanded}
		}

		expanded++
		for _, n := range g.Neighbors(cur) {
			if _, seen := parent[n]; seen {
				continue
			}
			parent[n] = cur
			queue = append(queue, n)
		}
	}

	return noPath(expanded)
}

// bestFirst is uniform-cost search when estimate is nil and A* otherwise
func (f *Finder) bestFirst(g Graph, origin, destination grid.Position, estimate func(a, b grid.Position) float64) Result {
	h := func(p grid.Position) float64 {
		if estimate == nil {
			return 0
		}
		return estimate(p, destination)
	}

	best := map[grid.Position]float64{origin: 0}
	parent := map[grid.Position]grid.Position{origin: origin}
	closed := make(map[grid.Position]bool)

	pq := &frontier{}
	heap.Push(pq, &entry{pos: origin, g: 0, f: h(origin)})
	seq := 0
	expanded := 0

	for pq.Len() > 0 {
		e := heap.Pop(pq).(*entry)
		if closed[e.pos] {
			continue
		}
		if e.pos == destination {
			return Result{
				Path:     walkParents(parent, origin, destination),
				Cost:     e.g,
				Expanded: expanded,
			}
		}

		closed[e.pos] = true
		expanded++

		for _, n := range g.Neighbors(e.pos) {
			if closed[n] {
				continue
			}
			ng := e.g + stepCost(g, e.pos, n)
			if old, ok := best[n]; ok && ng >= old {
				continue
			}
			best[n] = ng
			parent[n] = e.pos
			seq++
			heap.Push(pq, &entry{pos: n, g: ng, f: ng + h(n), seq: seq})
		}
	}

	return noPath(expanded)
}

func walkParents(parent map[grid.Position]grid.Position, origin, destination grid.Position) []grid.Position {
	path := []grid.Position{destination}
	for cur := destination; cur != origin; {
		cur = parent[cur]
		path = append(path, cur)
	}
	reverse(path)
	return path
}

func reverse(path []grid.Position) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

func stepCost(g Graph, from, to grid.Position) float64 {
	if c, ok := g.(Coster); ok {
		return c.StepCost(from, to)
	}
	return 1
}

func pathCost(g Graph, path []grid.Position) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += stepCost(g, path[i-1], path[i])
	}
	return total
}
