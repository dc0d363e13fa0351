package search

import "github.com/cognicore/robomind/pkg/robomind/grid"

// Navigator plans a start-to-goal route on one grid and hands out the
// route one position at a time.
type Navigator struct {
	grid   *grid.Grid
	finder *Finder
	last   Result
	path   []grid.Position
	step   int
}

// NewNavigator creates a navigator bound to g
func NewNavigator(g *grid.Grid) *Navigator {
	return &Navigator{grid: g, finder: New()}
}

// Plan searches from the grid's start to its goal and caches the route
func (n *Navigator) Plan(algo Algorithm, h Heuristic) (Result, error) {
	res, err := n.finder.Find(n.grid, n.grid.Start, n.grid.Goal, algo, h)
	if err != nil {
		return Result{}, err
	}
	n.last = res
	n.path = res.Path
	n.step = 0
	return res, nil
}

// NextMove returns the next position on the route, starting with the
// origin itself. ok is false once the route is used up or absent.
func (n *Navigator) NextMove() (pos grid.Position, ok bool) {
	if n.step >= len(n.path) {
		return grid.Position{}, false
	}
	pos = n.path[n.step]
	n.step++
	return pos, true
}

// HasPath reports whether the last plan produced a route
func (n *Navigator) HasPath() bool {
	return len(n.path) > 0
}

// AtGoal reports whether every position of the route has been handed out
func (n *Navigator) AtGoal() bool {
	return n.HasPath() && n.step >= len(n.path)
}

// Last returns the result of the most recent Plan
func (n *Navigator) Last() Result {
	return n.last
}

// Reset forgets the cached route
func (n *Navigator) Reset() {
	n.last = Result{}
	n.path = nil
	n.step = 0
}
