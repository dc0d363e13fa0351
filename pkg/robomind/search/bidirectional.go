package search

import "github.com/cognicore/robomind/pkg/robomind/grid"

const noParent = -1

type arenaNode struct {
	pos    grid.Position
	parent int
}

// arena stores the visited nodes of one search direction. Back-links are
// indices into nodes, never pointers.
type arena struct {
	nodes []arenaNode
	index map[grid.Position]int
}

func newArena(root grid.Position) *arena {
	return &arena{
		nodes: []arenaNode{{pos: root, parent: noParent}},
		index: map[grid.Position]int{root: 0},
	}
}

func (a *arena) add(p grid.Position, parent int) int {
	i := len(a.nodes)
	a.nodes = append(a.nodes, arenaNode{pos: p, parent: parent})
	a.index[p] = i
	return i
}

func (a *arena) lookup(p grid.Position) (int, bool) {
	i, ok := a.index[p]
	return i, ok
}

// chain walks from node i back to the root
func (a *arena) chain(i int) []grid.Position {
	var out []grid.Position
	for ; i != noParent; i = a.nodes[i].parent {
		out = append(out, a.nodes[i].pos)
	}
	return out
}

// bidirectional runs breadth-first search from both ends, expanding the
// smaller frontier each round, and stops at the first node seen by both.
func (f *Finder) bidirectional(g Graph, origin, destination grid.Position) Result {
	fwd, bwd := newArena(origin), newArena(destination)
	fwdFront, bwdFront := []int{0}, []int{0}
	expanded := 0

	for len(fwdFront) > 0 && len(bwdFront) > 0 {
		forward := len(fwdFront) <= len(bwdFront)
		own, other, front := fwd, bwd, fwdFront
		if !forward {
			own, other, front = bwd, fwd, bwdFront
		}

		var next []int
		for _, i := range front {
			expanded++
			cur := own.nodes[i].pos
			for _, n := range g.Neighbors(cur) {
				if _, seen := own.lookup(n); !seen {
					next = append(next, own.add(n, i))
				}
				if _, met := other.lookup(n); met {
					path := joinAt(fwd, bwd, n)
					return Result{Path: path, Cost: pathCost(g, path), Expanded: expanded}
				}
			}
		}

		if forward {
			fwdFront = next
		} else {
			bwdFront = next
		}
	}

	return noPath(expanded)
}

// joinAt concatenates origin->meet from fwd with meet->destination from bwd
func joinAt(fwd, bwd *arena, meet grid.Position) []grid.Position {
	fi, _ := fwd.lookup(meet)
	bi, _ := bwd.lookup(meet)

	path := fwd.chain(fi)
	reverse(path)
	if p := bwd.nodes[bi].parent; p != noParent {
		path = append(path, bwd.chain(p)...)
	}
	return path
}
