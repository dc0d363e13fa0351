package runlog

import (
	"context"
	"crypto/rand"
	"math"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/robomind/pkg/robomind/search"
)

// Store persists search runs made by the command-line tools
type Store interface {
	Close() error

	// Record stores a run. Runs with an existing ID are replaced.
	Record(ctx context.Context, r Run) error

	// Get returns a run by ID, or internalerr.ErrNotFound
	Get(ctx context.Context, id string) (Run, error)

	// List returns runs newest first. An empty mapName lists every map;
	// limit <= 0 means 20.
	List(ctx context.Context, mapName string, limit int) ([]Run, error)
}

// DefaultListLimit is used when List is called without a limit
const DefaultListLimit = 20

// Run is one recorded search
type Run struct {
	ID        string
	Map       string
	Algorithm string
	Heuristic string
	Found     bool
	Cost      float64 // +Inf when not found
	Steps     int     // -1 when not found
	Expanded  int
	CreatedAt time.Time
}

// Recorder turns search results into runs with sortable IDs
type Recorder struct {
	store   Store
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewRecorder creates a recorder writing to st
func NewRecorder(st Store) *Recorder {
	return &Recorder{
		store:   st,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// NewRun builds a run from a search result without storing it
func (rec *Recorder) NewRun(mapName string, algo search.Algorithm, h search.Heuristic, res search.Result) Run {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	now := rec.now()
	r := Run{
		ID:        ulid.MustNew(ulid.Timestamp(now), rec.entropy).String(),
		Map:       mapName,
		Algorithm: algo.String(),
		Found:     res.Found(),
		Cost:      res.Cost,
		Steps:     res.Steps(),
		Expanded:  res.Expanded,
		CreatedAt: now.UTC(),
	}
	if algo == search.AStar {
		r.Heuristic = h.String()
	}
	if !r.Found {
		r.Cost = math.Inf(1)
	}
	return r
}

// Record builds a run from a search result and stores it
func (rec *Recorder) Record(ctx context.Context, mapName string, algo search.Algorithm, h search.Heuristic, res search.Result) (Run, error) {
	r := rec.NewRun(mapName, algo, h, res)
	if err := rec.store.Record(ctx, r); err != nil {
		return Run{}, err
	}
	return r, nil
}
