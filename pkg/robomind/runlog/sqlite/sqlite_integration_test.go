package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cognicore/robomind/pkg/robomind/grid"
	"github.com/cognicore/robomind/pkg/robomind/internalerr"
	"github.com/cognicore/robomind/pkg/robomind/runlog"
	"github.com/cognicore/robomind/pkg/robomind/search"
)

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer st.Close()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	run := runlog.Run{
		ID:        "01HZZ0000000000000000000AA",
		Map:       "simple",
		Algorithm: "astar",
		Heuristic: "manhattan",
		Found:     true,
		Cost:      8,
		Steps:     8,
		Expanded:  13,
		CreatedAt: created,
	}
	if err := st.Record(ctx, run); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := st.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(run, got); diff != "" {
		t.Errorf("run mismatch (-want +got):\n%s", diff)
	}

	// Upsert replaces
	run.Expanded = 20
	if err := st.Record(ctx, run); err != nil {
		t.Fatal(err)
	}
	got, _ = st.Get(ctx, run.ID)
	if got.Expanded != 20 {
		t.Errorf("expanded after upsert = %d, want 20", got.Expanded)
	}

	if _, err := st.Get(ctx, "nope"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteNoPathStoresInfinity(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	g, _ := grid.Parse("S1\n1G")
	res, _ := search.New().Find(g, g.Start, g.Goal, search.Bidirectional, search.Manhattan)

	rec := runlog.NewRecorder(st)
	run, err := rec.Record(ctx, "walled", search.Bidirectional, search.Manhattan, res)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := st.Get(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Found || !math.IsInf(got.Cost, 1) || got.Steps != -1 {
		t.Errorf("got %+v", got)
	}
}

func TestSQLiteListAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	st, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	rec := runlog.NewRecorder(st)
	g, _ := grid.New(4, 4)
	f := search.New()
	for _, algo := range search.Algorithms {
		res, _ := f.Find(g, g.Start, g.Goal, algo, search.Manhattan)
		if _, err := rec.Record(ctx, "open4", algo, search.Manhattan, res); err != nil {
			t.Fatal(err)
		}
	}
	res, _ := f.Find(g, g.Start, g.Start, search.BreadthFirst, search.Manhattan)
	rec.Record(ctx, "other", search.BreadthFirst, search.Manhattan, res)
	st.Close()

	st, err = OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	runs, err := st.List(ctx, "open4", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 4 {
		t.Fatalf("runs = %d, want 4", len(runs))
	}
	if runs[0].Algorithm != "bidirectional" || runs[3].Algorithm != "bfs" {
		t.Errorf("unexpected order: %s ... %s", runs[0].Algorithm, runs[3].Algorithm)
	}
	for _, r := range runs {
		if r.Steps != 6 {
			t.Errorf("%s steps = %d, want 6", r.Algorithm, r.Steps)
		}
	}

	all, _ := st.List(ctx, "", 0)
	if len(all) != 5 {
		t.Errorf("all runs = %d, want 5", len(all))
	}
}
