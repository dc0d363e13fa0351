package search

import "github.com/cognicore/robomind/pkg/robomind/grid"

type entry struct {
	pos grid.Position
	g   float64 // cost so far
	f   float64 // g + estimate
	seq int     // discovery order
}

// frontier is a min-heap ordered by f, then g, then discovery order
type frontier []*entry

func (pq frontier) Len() int { return len(pq) }

func (pq frontier) Less(i, j int) bool {
	a, b := pq[i], pq[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	return a.seq < b.seq
}

func (pq frontier) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *frontier) Push(x any) {
	*pq = append(*pq, x.(*entry))
}

func (pq *frontier) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}
