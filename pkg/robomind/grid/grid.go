package grid

import (
	"fmt"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// Position is a (row, column) cell coordinate
type Position struct {
	Row int
	Col int
}

// String renders the position as (r,c)
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Add returns p shifted by the given delta
func (p Position) Add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

// Direction is one of the four grid moves
type Direction struct {
	Name  string
	Delta Position
}

// Directions is the fixed neighbor order: up, down, left, right.
// Every search tie-break depends on it.
var Directions = []Direction{
	{Name: "up", Delta: Position{Row: -1}},
	{Name: "down", Delta: Position{Row: 1}},
	{Name: "left", Delta: Position{Col: -1}},
	{Name: "right", Delta: Position{Col: 1}},
}

// Grid is a rectangular world of free and blocked cells
type Grid struct {
	Rows  int
	Cols  int
	Start Position
	Goal  Position

	blocked []bool
	cost    []float64
}

// New creates an obstacle-free grid with unit step costs.
// Start is the top-left cell and Goal the bottom-right one.
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid %dx%d: %w", rows, cols, internalerr.ErrInvalidInput)
	}
	return &Grid{
		Rows:    rows,
		Cols:    cols,
		Start:   Position{},
		Goal:    Position{Row: rows - 1, Col: cols - 1},
		blocked: make([]bool, rows*cols),
		cost:    make([]float64, rows*cols),
	}, nil
}

// InBounds reports whether p lies inside the grid
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.Rows && p.Col >= 0 && p.Col < g.Cols
}

func (g *Grid) index(p Position) int {
	return p.Row*g.Cols + p.Col
}

// IsValid reports whether p is inside the grid and not blocked
func (g *Grid) IsValid(p Position) bool {
	return g.InBounds(p) && !g.blocked[g.index(p)]
}

// IsBlocked reports whether p is an in-bounds obstacle
func (g *Grid) IsBlocked(p Position) bool {
	return g.InBounds(p) && g.blocked[g.index(p)]
}

// Block marks p as an obstacle. Start and goal cannot be blocked.
func (g *Grid) Block(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("block %s: out of bounds: %w", p, internalerr.ErrInvalidInput)
	}
	if p == g.Start || p == g.Goal {
		return fmt.Errorf("block %s: start and goal must stay free: %w", p, internalerr.ErrInvalidInput)
	}
	g.blocked[g.index(p)] = true
	return nil
}

// Unblock frees p
func (g *Grid) Unblock(p Position) {
	if g.InBounds(p) {
		g.blocked[g.index(p)] = false
	}
}

// SetCost sets the cost of entering p. Costs below 1 are rejected so
// that Manhattan and Euclidean estimates stay admissible.
func (g *Grid) SetCost(p Position, c float64) error {
	if !g.InBounds(p) {
		return fmt.Errorf("cost %s: out of bounds: %w", p, internalerr.ErrInvalidInput)
	}
	if c < 1 {
		return fmt.Errorf("cost %s: %.2f < 1: %w", p, c, internalerr.ErrInvalidInput)
	}
	g.cost[g.index(p)] = c
	return nil
}

// StepCost is the cost of moving from one cell into an adjacent one
func (g *Grid) StepCost(_, to Position) float64 {
	if !g.InBounds(to) {
		return 1
	}
	if c := g.cost[g.index(to)]; c > 0 {
		return c
	}
	return 1
}

// Neighbors returns the valid neighbors of p in Directions order
func (g *Grid) Neighbors(p Position) []Position {
	out := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		n := p.Add(d.Delta)
		if g.IsValid(n) {
			out = append(out, n)
		}
	}
	return out
}

// Adjacent reports whether a and b differ by exactly one grid move
func Adjacent(a, b Position) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return dr*dr+dc*dc == 1
}

// SetStart moves the start marker onto a free cell
func (g *Grid) SetStart(p Position) error {
	if !g.IsValid(p) {
		return fmt.Errorf("start %s: not a free cell: %w", p, internalerr.ErrInvalidInput)
	}
	g.Start = p
	return nil
}

// SetGoal moves the goal marker onto a free cell
func (g *Grid) SetGoal(p Position) error {
	if !g.IsValid(p) {
		return fmt.Errorf("goal %s: not a free cell: %w", p, internalerr.ErrInvalidInput)
	}
	g.Goal = p
	return nil
}

// String renders the grid with S, G, 1 (blocked) and 0 (free)
func (g *Grid) String() string {
	buf := make([]byte, 0, g.Rows*(g.Cols+1))
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			p := Position{Row: r, Col: c}
			switch {
			case p == g.Start:
				buf = append(buf, 'S')
			case p == g.Goal:
				buf = append(buf, 'G')
			case g.blocked[g.index(p)]:
				buf = append(buf, '1')
			default:
				buf = append(buf, '0')
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
