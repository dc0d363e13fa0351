package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/robomind/pkg/robomind/internalerr"
	"github.com/cognicore/robomind/pkg/robomind/runlog"
)

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	s := New()

	run := runlog.Run{ID: "01A", Map: "simple", Algorithm: "bfs", Found: true, Cost: 8, Steps: 8}
	if err := s.Record(ctx, run); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "01A")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != run {
		t.Errorf("got %+v, want %+v", got, run)
	}

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordRejectsEmptyID(t *testing.T) {
	if err := New().Record(context.Background(), runlog.Run{}); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, r := range []runlog.Run{
		{ID: "01A", Map: "simple"},
		{ID: "01C", Map: "simple"},
		{ID: "01B", Map: "maze"},
		{ID: "01D", Map: "simple"},
	} {
		s.Record(ctx, r)
	}

	runs, _ := s.List(ctx, "simple", 2)
	if len(runs) != 2 || runs[0].ID != "01D" || runs[1].ID != "01C" {
		t.Errorf("List(simple, 2) = %+v", runs)
	}

	all, _ := s.List(ctx, "", 0)
	if len(all) != 4 || all[3].ID != "01A" {
		t.Errorf("List(all) = %+v", all)
	}
}
