package agent

import (
	"fmt"
	"strconv"

	"github.com/cognicore/robomind/pkg/robomind/grid"
	"github.com/cognicore/robomind/pkg/robomind/inference"
	"github.com/cognicore/robomind/pkg/robomind/internalerr"
)

// DefaultRules is the rule set the logic agent reasons with
const DefaultRules = `
Safe(?x,?y) :- Visited(?x,?y)
Safe(?x,?y) :- Free(?x,?y)
CanMoveTo(?nx,?ny) :- At(?cx,?cy), Safe(?nx,?ny), Adjacent(?cx,?cy,?nx,?ny)
AtGoal :- At(?gx,?gy), Goal(?gx,?gy)
`

// Move is a candidate step out of the current cell
type Move struct {
	Direction string
	To        grid.Position
}

// Summary describes the agent's current state
type Summary struct {
	Position     grid.Position
	Goal         grid.Position
	VisitedCount int
	FactsCount   int
	RulesCount   int
	AtGoal       bool
}

// LogicAgent explores a grid using only local perception and the
// knowledge base: each turn it perceives its neighborhood, lets forward
// chaining decide which cells it can move to, and greedily heads for the goal.
type LogicAgent struct {
	grid    *grid.Grid
	kb      *inference.KnowledgeBase
	pos     grid.Position
	visited map[grid.Position]bool
	history []string
}

// NewLogicAgent creates an agent at the grid's start using DefaultRules
func NewLogicAgent(g *grid.Grid, opts ...inference.Option) (*LogicAgent, error) {
	return NewLogicAgentWithRules(g, DefaultRules, opts...)
}

// NewLogicAgentWithRules creates an agent with a custom rule set. The rule
// set must derive CanMoveTo(row,col) for the agent to move at all.
func NewLogicAgentWithRules(g *grid.Grid, rules string, opts ...inference.Option) (*LogicAgent, error) {
	kb := inference.New(opts...)
	if err := kb.LoadRules(rules); err != nil {
		return nil, fmt.Errorf("load agent rules: %w", err)
	}
	return NewLogicAgentWithKB(g, kb)
}

// NewLogicAgentWithKB creates an agent reasoning with an existing knowledge
// base, such as one built by config.Loader. Its facts are replaced on the
// first Perceive; its rules are kept.
func NewLogicAgentWithKB(g *grid.Grid, kb *inference.KnowledgeBase) (*LogicAgent, error) {
	if kb == nil || len(kb.Rules()) == 0 {
		return nil, fmt.Errorf("agent knowledge base has no rules: %w", internalerr.ErrInvalidInput)
	}
	a := &LogicAgent{grid: g, kb: kb}
	a.reset()
	return a, nil
}

func (a *LogicAgent) reset() {
	a.pos = a.grid.Start
	a.visited = map[grid.Position]bool{a.pos: true}
	a.history = nil
}

func itoa(i int) string { return strconv.Itoa(i) }

func cellFact(pred string, p grid.Position) inference.Fact {
	return inference.NewFact(pred, itoa(p.Row), itoa(p.Col))
}

// Perceive replaces the knowledge base's facts with what the agent can
// sense from its current cell
func (a *LogicAgent) Perceive() {
	a.kb.ClearFacts()
	a.visited[a.pos] = true

	a.kb.Tell(cellFact("At", a.pos))
	a.kb.Tell(cellFact("Visited", a.pos))
	a.kb.Tell(cellFact("Goal", a.grid.Goal))

	for _, d := range grid.Directions {
		n := a.pos.Add(d.Delta)
		a.kb.Tell(inference.NewFact("Adjacent", itoa(a.pos.Row), itoa(a.pos.Col), itoa(n.Row), itoa(n.Col)))
		if !a.grid.IsValid(n) {
			a.kb.Tell(cellFact("Obstacle", n))
			continue
		}
		a.kb.Tell(cellFact("Free", n))
		if !a.visited[n] {
			a.kb.Tell(cellFact("Unexplored", n))
		}
	}
}

// ValidMoves returns the moves whose target the knowledge base entails
// as CanMoveTo, in grid.Directions order
func (a *LogicAgent) ValidMoves() []Move {
	var moves []Move
	for _, d := range grid.Directions {
		n := a.pos.Add(d.Delta)
		if a.kb.Ask(cellFact("CanMoveTo", n)) {
			moves = append(moves, Move{Direction: d.Name, To: n})
		}
	}
	return moves
}

// ChooseMove prefers unvisited cells, then the smallest Manhattan distance
// to the goal. Earlier moves win ties.
func (a *LogicAgent) ChooseMove(moves []Move) (Move, bool) {
	var candidates []Move
	for _, m := range moves {
		if !a.visited[m.To] {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		candidates = moves
	}
	if len(candidates) == 0 {
		return Move{}, false
	}

	best := candidates[0]
	for _, m := range candidates[1:] {
		if manhattan(m.To, a.grid.Goal) < manhattan(best.To, a.grid.Goal) {
			best = m
		}
	}
	return best, true
}

func manhattan(a, b grid.Position) int {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// Act runs one perceive-reason-move turn. ok is false when no move is
// possible; desc describes what happened either way.
func (a *LogicAgent) Act() (ok bool, desc string) {
	a.Perceive()

	move, ok := a.ChooseMove(a.ValidMoves())
	if !ok {
		return false, "No moves."
	}

	from := a.pos
	a.pos = move.To
	a.visited[move.To] = true

	desc = fmt.Sprintf("Moved %s from %s to %s", move.Direction, from, move.To)
	a.history = append(a.history, desc)
	return true, desc
}

// RunToGoal restarts from the grid's start and acts until the goal is
// reached, no move is possible, or maxSteps moves have been made. A dead
// end is recorded in the history as "No moves.".
func (a *LogicAgent) RunToGoal(maxSteps int) (reached bool, steps int, history []string) {
	a.reset()
	for steps < maxSteps && a.pos != a.grid.Goal {
		ok, desc := a.Act()
		if !ok {
			a.history = append(a.history, desc)
			break
		}
		steps++
	}
	if a.pos == a.grid.Goal {
		// settle the AtGoal fact for callers inspecting the knowledge base
		a.Perceive()
	}
	return a.pos == a.grid.Goal, steps, append([]string(nil), a.history...)
}

// Position returns the agent's current cell
func (a *LogicAgent) Position() grid.Position { return a.pos }

// KnowledgeBase exposes the agent's knowledge base for inspection
func (a *LogicAgent) KnowledgeBase() *inference.KnowledgeBase { return a.kb }

// Summary reports the agent's state
func (a *LogicAgent) Summary() Summary {
	return Summary{
		Position:     a.pos,
		Goal:         a.grid.Goal,
		VisitedCount: len(a.visited),
		FactsCount:   a.kb.Len(),
		RulesCount:   len(a.kb.Rules()),
		AtGoal:       a.pos == a.grid.Goal,
	}
}
