package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/rcliao/mind/internal/model"
)

// vecExt holds the extension locator used by the connect hook. Stores in
// one process share it; the last configured locator wins.
var vecExt atomic.Pointer[VecExtension]

func init() {
	sql.Register("sqlite3_vec", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			ext := vecExt.Load()
			if ext == nil {
				return fmt.Errorf("sqlite-vec extension locator not configured")
			}
			return ext.Load(conn)
		},
	})
}

// Options configures a SQLiteStore.
type Options struct {
	// Dim is the embedding width of the vector index. Must match the
	// embedding provider's configured dimensionality.
	Dim int
	// Extension locates the sqlite-vec loadable extension. Nil means the
	// default candidate list.
	Extension *VecExtension
}

// SQLiteStore implements Store on SQLite with a sqlite-vec vector index.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates the database at dbPath, loads the
// sqlite-vec extension, and runs the idempotent schema migration.
func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	if opts.Dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", opts.Dim)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	ext := opts.Extension
	if ext == nil {
		ext = DefaultVecExtension("")
	}
	vecExt.Store(ext)

	db, err := sql.Open("sqlite3_vec", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite handles one writer at a time

	// Force the first connection now so extension-load failures surface
	// at open, with the full probe diagnostic.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(opts.Dim); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func nowTS() int64 {
	return time.Now().Unix()
}

func (s *SQLiteStore) migrate(dim int) error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS memories (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid             TEXT UNIQUE NOT NULL,
		user_id          TEXT,
		agent_id         TEXT,
		source           TEXT,
		type             TEXT,
		text             TEXT NOT NULL,
		summary          TEXT,
		tags             TEXT,
		importance       REAL,
		conversation_id  TEXT,
		cluster_id       INTEGER,
		created_at       INTEGER NOT NULL,
		updated_at       INTEGER NOT NULL,
		last_accessed_at INTEGER,
		extra_json       TEXT,
		deleted_at       INTEGER,
		FOREIGN KEY(cluster_id) REFERENCES clusters(id)
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS vec_memories USING vec0(
		embedding FLOAT[%d]
	);

	CREATE TABLE IF NOT EXISTS clusters (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		label      TEXT,
		summary    TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS memory_relations (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		from_id    INTEGER NOT NULL,
		to_id      INTEGER NOT NULL,
		kind       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY(from_id) REFERENCES memories(id),
		FOREIGN KEY(to_id) REFERENCES memories(id)
	);

	CREATE INDEX IF NOT EXISTS idx_memories_deleted_at ON memories(deleted_at);
	CREATE INDEX IF NOT EXISTS idx_memories_cluster_id ON memories(cluster_id);
	`, dim)

	_, err := s.db.Exec(schema)
	return err
}

const memCols = `id, uuid, user_id, agent_id, source, type, text, summary, tags,
	importance, conversation_id, cluster_id, created_at, updated_at,
	last_accessed_at, extra_json, deleted_at`

const memColsM = `m.id, m.uuid, m.user_id, m.agent_id, m.source, m.type, m.text,
	m.summary, m.tags, m.importance, m.conversation_id, m.cluster_id,
	m.created_at, m.updated_at, m.last_accessed_at, m.extra_json, m.deleted_at`

func (s *SQLiteStore) Create(ctx context.Context, m *model.Memory, embedding []float32) (*model.Memory, error) {
	extra, err := marshalExtra(m.Extra)
	if err != nil {
		return nil, fmt.Errorf("encode extra: %w", err)
	}
	vec, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("encode embedding: %w", err)
	}

	now := nowTS()
	uuid := s.newID()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO memories (
			uuid, user_id, agent_id, source, type, text, summary, tags,
			importance, conversation_id, cluster_id, created_at, updated_at,
			last_accessed_at, extra_json
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,NULL,?)`,
		uuid, nullStr(m.UserID), nullStr(m.AgentID), nullStr(m.Source),
		m.Type, m.Text, nullStr(m.Summary), nullStr(model.JoinTags(m.Tags)),
		nullFloat(m.Importance), nullStr(m.ConversationID), nullInt(m.ClusterID),
		now, now, extra)
	if err != nil {
		return nil, fmt.Errorf("insert memory: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO vec_memories(rowid, embedding) VALUES (?, ?)`,
		id, string(vec)); err != nil {
		return nil, fmt.Errorf("insert vector: %w", err)
	}

	out, err := scanMemory(tx.QueryRowContext(ctx,
		`SELECT `+memCols+` FROM memories WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Memory, error) {
	m, err := scanMemory(s.db.QueryRowContext(ctx,
		`SELECT `+memCols+` FROM memories WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (s *SQLiteStore) Update(ctx context.Context, m *model.Memory, embedding []float32) (*model.Memory, error) {
	vec, err := json.Marshal(embedding)
	if err != nil {
		return nil, fmt.Errorf("encode embedding: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE memories
		 SET text = ?, type = ?, tags = ?, importance = ?, summary = ?,
		     cluster_id = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		m.Text, m.Type, nullStr(model.JoinTags(m.Tags)), nullFloat(m.Importance),
		nullStr(m.Summary), nullInt(m.ClusterID), nowTS(), m.ID)
	if err != nil {
		return nil, fmt.Errorf("update memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	if embedding != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO vec_memories(rowid, embedding) VALUES (?, ?)`,
			m.ID, string(vec)); err != nil {
			return nil, fmt.Errorf("upsert vector: %w", err)
		}
	}

	out, err := scanMemory(tx.QueryRowContext(ctx,
		`SELECT `+memCols+` FROM memories WHERE id = ?`, m.ID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE memories SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		nowTS(), id)
	if err != nil {
		return false, fmt.Errorf("soft-delete memory: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_memories WHERE rowid = ?`, id); err != nil {
		return false, fmt.Errorf("delete vector: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanMemory scans one memories row. Extra destinations (e.g. a distance
// column appended by a search query) are scanned after the fixed columns.
func scanMemory(row scanner, extraDest ...any) (*model.Memory, error) {
	var m model.Memory
	var userID, agentID, source, memType, summary, tags, convID, extra sql.NullString
	var importance sql.NullFloat64
	var clusterID, lastAccessed, deletedAt sql.NullInt64

	dest := []any{
		&m.ID, &m.UUID, &userID, &agentID, &source, &memType, &m.Text,
		&summary, &tags, &importance, &convID, &clusterID,
		&m.CreatedAt, &m.UpdatedAt, &lastAccessed, &extra, &deletedAt,
	}
	dest = append(dest, extraDest...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	m.UserID = userID.String
	m.AgentID = agentID.String
	m.Source = source.String
	m.Type = memType.String
	m.Summary = summary.String
	m.Tags = model.ParseTags(tags.String)
	m.ConversationID = convID.String
	if importance.Valid {
		m.Importance = &importance.Float64
	}
	if clusterID.Valid {
		m.ClusterID = &clusterID.Int64
	}
	if lastAccessed.Valid {
		m.LastAccessedAt = &lastAccessed.Int64
	}
	if deletedAt.Valid {
		m.DeletedAt = &deletedAt.Int64
	}
	if extra.Valid {
		if err := json.Unmarshal([]byte(extra.String), &m.Extra); err != nil {
			return nil, fmt.Errorf("decode extra: %w", err)
		}
	}

	return &m, nil
}

func marshalExtra(extra map[string]any) (*string, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
