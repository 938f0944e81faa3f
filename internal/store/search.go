package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/mind/internal/model"
)

// filterClauses builds the relational WHERE fragment applied after the
// nearest-neighbor cut. Soft-deleted rows are always excluded.
//
// Tag filtering is a substring match against the stored comma-joined tag
// text, so a filter "art" also matches a stored tag "cart". Existing
// callers depend on this; do not tighten it silently.
func filterClauses(f Filter) ([]string, []any) {
	where := []string{"m.deleted_at IS NULL"}
	var args []any

	if f.Type != "" {
		where = append(where, "m.type = ?")
		args = append(args, f.Type)
	}
	for _, tag := range f.Tags {
		where = append(where, "m.tags LIKE ?")
		args = append(args, "%"+tag+"%")
	}
	if f.Since > 0 {
		where = append(where, "m.created_at >= ?")
		args = append(args, f.Since)
	}
	if f.Until > 0 {
		where = append(where, "m.created_at <= ?")
		args = append(args, f.Until)
	}

	return where, args
}

// Search runs a KNN lookup over all vectors for the top f.Limit candidates,
// then joins them against the metadata table with the filters applied.
// Because filtering happens after the top-limit cut, fewer than f.Limit
// rows may come back even when more matching records exist; filters never
// widen the candidate set.
func (s *SQLiteStore) Search(ctx context.Context, embedding []float32, f Filter) ([]model.SearchResult, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}

	vec, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("encode embedding: %w", err)
	}

	where, filterArgs := filterClauses(f)
	args := append([]any{string(vec), limit}, filterArgs...)

	query := fmt.Sprintf(`
		WITH matches AS (
			SELECT rowid, distance
			FROM vec_memories
			WHERE embedding MATCH ?
			ORDER BY distance
			LIMIT ?
		)
		SELECT `+memColsM+`, matches.distance
		FROM matches
		JOIN memories m ON m.id = matches.rowid
		WHERE %s
		ORDER BY matches.distance`, strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var results []model.SearchResult
	for rows.Next() {
		var distance float64
		m, err := scanMemory(rows, &distance)
		if err != nil {
			return nil, err
		}
		results = append(results, model.SearchResult{Memory: *m, Distance: distance})
	}
	return results, rows.Err()
}
