// Package engine implements the memory engine: create, read, update,
// delete, and semantic search over the store, with AI-assisted metadata
// resolution.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rcliao/mind/internal/model"
	"github.com/rcliao/mind/internal/provider"
	"github.com/rcliao/mind/internal/store"
)

// ErrValidation marks input errors rejected before any provider or store
// call. Use errors.Is to detect it.
var ErrValidation = errors.New("validation")

// Config carries the process defaults the engine needs. It is injected at
// construction so operation behavior is determined by explicit inputs only.
type Config struct {
	// AIAssist enables classification for creates that do not override it.
	AIAssist bool
}

// Engine orchestrates memory operations. It holds no cross-call state
// beyond its injected dependencies.
type Engine struct {
	store    store.Store
	embedder provider.Embedder
	classify provider.Classifier
	cfg      Config
	log      *slog.Logger
}

// New builds an engine. classify may be nil when AI assist is disabled;
// log nil means slog.Default().
func New(st store.Store, emb provider.Embedder, cls provider.Classifier, cfg Config, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: st, embedder: emb, classify: cls, cfg: cfg, log: log}
}

// TypeOption expresses how the memory type should be resolved: the zero
// value leaves it unset, AutoType requests a classifier guess, and
// ExplicitType pins a value.
type TypeOption struct {
	value string
	auto  bool
}

// AutoType requests resolution via the classification provider.
func AutoType() TypeOption { return TypeOption{auto: true} }

// ExplicitType pins the memory type to v.
func ExplicitType(v string) TypeOption { return TypeOption{value: v} }

// Explicit returns the pinned value and whether one was set.
func (t TypeOption) Explicit() (string, bool) { return t.value, t.value != "" && !t.auto }

// CreateParams holds inputs for Create. Nil optional fields are resolved
// by the classifier (when enabled) or left unset.
type CreateParams struct {
	Text       string
	Type       TypeOption
	Tags       []string // nil means unset; empty slice means "no tags"
	Importance *float64
	Summary    *string

	UserID         string
	AgentID        string
	ConversationID string
	Source         string
	ClusterID      *int64
	Extra          map[string]any

	// AIAssist overrides the engine default when non-nil.
	AIAssist *bool
}

// Create persists a new memory: resolves metadata (explicit value, then
// classifier guess, then fallback), embeds the raw text, and writes the
// metadata row and vector atomically. Classification failures degrade to
// "no guess"; embedding failures fail the operation.
func (e *Engine) Create(ctx context.Context, p CreateParams) (*model.Memory, error) {
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}
	if v, ok := p.Type.Explicit(); ok && !model.ValidTypes[v] {
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, v)
	}
	if err := validImportance(p.Importance); err != nil {
		return nil, err
	}

	aiAssist := e.cfg.AIAssist
	if p.AIAssist != nil {
		aiAssist = *p.AIAssist
	}

	guess := e.classifyIfNeeded(ctx, p, aiAssist)

	memType, _ := p.Type.Explicit()
	if memType == "" && guess != nil {
		memType = guess.Type
	}
	if memType == "" {
		memType = model.TypeNote
	}

	tags := p.Tags
	if tags == nil && guess != nil {
		tags = guess.Tags
	}
	importance := p.Importance
	if importance == nil && guess != nil {
		importance = guess.Importance
	}
	summary := ""
	if p.Summary != nil {
		summary = *p.Summary
	} else if guess != nil {
		summary = guess.Summary
	}

	// Embed before opening any transaction: a slow or failing provider
	// must never hold store resources, and no row may exist without a
	// vector.
	vec, err := e.embedOne(ctx, p.Text)
	if err != nil {
		return nil, err
	}

	return e.store.Create(ctx, &model.Memory{
		UserID:         p.UserID,
		AgentID:        p.AgentID,
		Source:         p.Source,
		Type:           memType,
		Text:           p.Text,
		Summary:        summary,
		Tags:           model.NormalizeTags(tags),
		Importance:     importance,
		ConversationID: p.ConversationID,
		ClusterID:      p.ClusterID,
		Extra:          p.Extra,
	}, vec)
}

// classifyIfNeeded calls the classifier once when AI assist is on and any
// of type/tags/importance/summary is unresolved. Provider failure is
// absorbed: capture must never block on a classification outage.
func (e *Engine) classifyIfNeeded(ctx context.Context, p CreateParams, aiAssist bool) *provider.Classification {
	if !aiAssist || e.classify == nil {
		return nil
	}
	_, explicit := p.Type.Explicit()
	if explicit && p.Tags != nil && p.Importance != nil && p.Summary != nil {
		return nil
	}
	guess, err := e.classify.Classify(ctx, p.Text)
	if err != nil {
		e.log.Debug("classification unavailable, proceeding without guess", "error", err)
		return nil
	}
	return guess
}

// Get returns a memory by internal id, including soft-deleted records.
// A missing id yields (nil, nil).
func (e *Engine) Get(ctx context.Context, id int64) (*model.Memory, error) {
	return e.store.Get(ctx, id)
}

// SearchParams holds inputs for Search. Since/Until are inclusive unix
// seconds; zero means unbounded.
type SearchParams struct {
	Query string
	Limit int
	Type  string
	Tags  []string
	Since int64
	Until int64
}

// Search embeds the query and returns up to Limit memories by ascending
// vector distance, filtered by the relational predicates. Filters apply
// after the nearest-neighbor cut, so fewer than Limit results may return
// even when more matches exist.
func (e *Engine) Search(ctx context.Context, p SearchParams) ([]model.SearchResult, error) {
	if strings.TrimSpace(p.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", ErrValidation)
	}
	if p.Type != "" && !model.ValidTypes[p.Type] {
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, p.Type)
	}
	if p.Since > 0 && p.Until > 0 && p.Since > p.Until {
		return nil, fmt.Errorf("%w: since is after until", ErrValidation)
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	vec, err := e.embedOne(ctx, p.Query)
	if err != nil {
		return nil, err
	}

	return e.store.Search(ctx, vec, store.Filter{
		Limit: limit,
		Type:  p.Type,
		Tags:  p.Tags,
		Since: p.Since,
		Until: p.Until,
	})
}

// UpdateParams holds the fields Update may change. Nil fields keep their
// previous value.
type UpdateParams struct {
	Text       *string
	Type       *string
	Tags       []string // nil keeps previous; empty slice clears
	Importance *float64
	Summary    *string
	ClusterID  *int64
}

// Update applies a partial update to a non-deleted memory. A text change
// re-embeds and replaces the vector-index entry; updated_at is refreshed
// on any successful update. Missing or soft-deleted ids yield (nil, nil).
func (e *Engine) Update(ctx context.Context, id int64, p UpdateParams) (*model.Memory, error) {
	if p.Text != nil && strings.TrimSpace(*p.Text) == "" {
		return nil, fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	if p.Type != nil && !model.ValidTypes[*p.Type] {
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, *p.Type)
	}
	if err := validImportance(p.Importance); err != nil {
		return nil, err
	}

	existing, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.DeletedAt != nil {
		return nil, nil
	}

	merged := *existing
	if p.Text != nil {
		merged.Text = *p.Text
	}
	if p.Type != nil {
		merged.Type = *p.Type
	}
	if p.Tags != nil {
		merged.Tags = model.NormalizeTags(p.Tags)
	}
	if p.Importance != nil {
		merged.Importance = p.Importance
	}
	if p.Summary != nil {
		merged.Summary = *p.Summary
	}
	if p.ClusterID != nil {
		merged.ClusterID = p.ClusterID
	}

	// Re-embed outside the store transaction. A stale vector would make
	// the record unreachable by the meaning its text now expresses.
	var vec []float32
	if p.Text != nil {
		if vec, err = e.embedOne(ctx, merged.Text); err != nil {
			return nil, err
		}
	}

	return e.store.Update(ctx, &merged, vec)
}

// Delete soft-deletes a memory: the metadata row is kept with a deletion
// timestamp and the vector-index entry is removed. Deleting a missing or
// already-deleted id reports false with no error.
func (e *Engine) Delete(ctx context.Context, id int64) (bool, error) {
	return e.store.Delete(ctx, id)
}

func (e *Engine) embedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embed text: got %d vectors, want 1", len(vecs))
	}
	return vecs[0], nil
}

func validImportance(f *float64) error {
	if f != nil && (*f < 0 || *f > 1) {
		return fmt.Errorf("%w: importance %v out of range [0,1]", ErrValidation, *f)
	}
	return nil
}
