package store

import (
	"context"
	"testing"

	"github.com/rcliao/mind/internal/model"
)

func TestStatsCountsByType(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, &model.Memory{Type: "fact", Text: "a"}, []float32{1, 0, 0})
	s.Create(ctx, &model.Memory{Type: "fact", Text: "b"}, []float32{0, 1, 0})
	doomed, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "c"}, []float32{0, 0, 1})
	s.Delete(ctx, doomed.ID)

	st, err := s.Stats(ctx, "unused.db")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalMemories != 3 || st.ActiveMemories != 2 || st.DeletedMemories != 1 {
		t.Errorf("counts = %d/%d/%d", st.TotalMemories, st.ActiveMemories, st.DeletedMemories)
	}
	if len(st.Types) != 1 || st.Types[0].Type != "fact" || st.Types[0].Count != 2 {
		t.Errorf("types = %+v", st.Types)
	}
}

func TestExportAllSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Create(ctx, &model.Memory{Type: "fact", Text: "keep"}, []float32{1, 0, 0})
	doomed, _ := s.Create(ctx, &model.Memory{Type: "note", Text: "drop"}, []float32{0, 1, 0})
	s.Delete(ctx, doomed.ID)

	all, err := s.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(all) != 1 || all[0].Text != "keep" {
		t.Fatalf("export = %+v", all)
	}

	facts, err := s.ExportAll(ctx, "fact")
	if err != nil {
		t.Fatalf("export by type: %v", err)
	}
	if len(facts) != 1 {
		t.Errorf("facts = %+v", facts)
	}
	if none, _ := s.ExportAll(ctx, "journal"); len(none) != 0 {
		t.Errorf("journal = %+v", none)
	}
}
