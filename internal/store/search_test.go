package store

import (
	"context"
	"reflect"
	"testing"

	"github.com/rcliao/mind/internal/model"
)

func TestFilterClauses(t *testing.T) {
	tests := []struct {
		name     string
		f        Filter
		want     []string
		wantArgs []any
	}{
		{
			"no filters still excludes deleted",
			Filter{},
			[]string{"m.deleted_at IS NULL"},
			nil,
		},
		{
			"type and tags",
			Filter{Type: "fact", Tags: []string{"work", "go"}},
			[]string{"m.deleted_at IS NULL", "m.type = ?", "m.tags LIKE ?", "m.tags LIKE ?"},
			[]any{"fact", "%work%", "%go%"},
		},
		{
			"time bounds inclusive",
			Filter{Since: 100, Until: 200},
			[]string{"m.deleted_at IS NULL", "m.created_at >= ?", "m.created_at <= ?"},
			[]any{int64(100), int64(200)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := filterClauses(tt.f)
			if !reflect.DeepEqual(where, tt.want) {
				t.Errorf("where = %v, want %v", where, tt.want)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	near, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "near"}, []float32{1, 0, 0})
	mid, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "mid"}, []float32{0.7, 0.7, 0})
	far, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "far"}, []float32{0, 0, 1})
	_ = far

	results, err := s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != near.ID || results[1].ID != mid.ID {
		t.Errorf("order = %d,%d, want %d,%d", results[0].ID, results[1].ID, near.ID, mid.ID)
	}
	if results[0].Distance > results[1].Distance {
		t.Errorf("distances not ascending: %v, %v", results[0].Distance, results[1].Distance)
	}
}

func TestSearchTypeFilterAppliesAfterCut(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, &model.Memory{Type: "task", Text: "closest but wrong type"}, []float32{1, 0, 0})
	fact, _ := s.Create(ctx, &model.Memory{Type: "fact", Text: "further but right type"}, []float32{0.5, 0.8, 0})

	results, err := s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 2, Type: "fact"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != fact.ID {
		t.Fatalf("results = %+v", results)
	}

	// With limit 1 the only candidate is the task, so filtering narrows to
	// zero rather than widening the candidate set.
	results, err = s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 1, Type: "fact"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected filter to never widen candidates, got %+v", results)
	}
}

func TestSearchTagSubstringMatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, &model.Memory{Type: "note", Text: "a", Tags: []string{"cart"}}, []float32{1, 0, 0})
	s.Create(ctx, &model.Memory{Type: "note", Text: "b", Tags: []string{"focus"}}, []float32{0.9, 0.1, 0})

	// "art" matches the stored "cart" tag by substring
	results, err := s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 10, Tags: []string{"art"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].Text != "a" {
		t.Fatalf("results = %+v", results)
	}

	// All requested tags must match
	results, err = s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 10, Tags: []string{"cart", "focus"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected AND semantics, got %+v", results)
	}
}

func TestSearchExcludesDeleted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	kept, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "kept"}, []float32{1, 0, 0})
	gone, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "gone"}, []float32{0.99, 0.1, 0})
	if _, err := s.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	results, err := s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 || results[0].ID != kept.ID {
		t.Fatalf("results = %+v", results)
	}
}

func TestSearchTimeBounds(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "now"}, []float32{1, 0, 0})

	results, err := s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 10, Since: m.CreatedAt, Until: m.CreatedAt})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("inclusive bounds should match, got %+v", results)
	}

	results, err = s.Search(ctx, []float32{1, 0, 0}, Filter{Limit: 10, Until: m.CreatedAt - 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results before creation, got %+v", results)
	}
}
