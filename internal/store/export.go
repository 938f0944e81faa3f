package store

import (
	"context"

	"github.com/rcliao/mind/internal/model"
)

// ExportAll returns all non-deleted memories, oldest first, optionally
// filtered by type.
func (s *SQLiteStore) ExportAll(ctx context.Context, memType string) ([]model.Memory, error) {
	query := `SELECT ` + memCols + ` FROM memories WHERE deleted_at IS NULL`
	var args []any
	if memType != "" {
		query += ` AND type = ?`
		args = append(args, memType)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, *m)
	}
	return memories, rows.Err()
}
