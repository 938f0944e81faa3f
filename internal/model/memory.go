// Package model defines the core memory data types.
package model

import "strings"

// Memory represents one stored unit of remembered text plus metadata.
// Timestamps are unix seconds and are assigned by the store.
type Memory struct {
	ID             int64          `json:"id"`
	UUID           string         `json:"uuid"`
	UserID         string         `json:"user_id,omitempty"`
	AgentID        string         `json:"agent_id,omitempty"`
	Source         string         `json:"source,omitempty"`
	Type           string         `json:"type"`
	Text           string         `json:"text"`
	Summary        string         `json:"summary,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	Importance     *float64       `json:"importance,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	ClusterID      *int64         `json:"cluster_id,omitempty"`
	CreatedAt      int64          `json:"created_at"`
	UpdatedAt      int64          `json:"updated_at"`
	LastAccessedAt *int64         `json:"last_accessed_at,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
	DeletedAt      *int64         `json:"deleted_at,omitempty"`
}

// SearchResult is a memory annotated with its vector distance to the probe
// query. Smaller is closer.
type SearchResult struct {
	Memory
	Distance float64 `json:"distance"`
}

// Cluster groups related memories. Reserved: no operation creates or
// queries clusters yet, but a memory may reference one by id.
type Cluster struct {
	ID        int64  `json:"id"`
	Label     string `json:"label,omitempty"`
	Summary   string `json:"summary,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Relation is a directed edge between two memories. Reserved, schema-only.
type Relation struct {
	ID        int64  `json:"id"`
	FromID    int64  `json:"from_id"`
	ToID      int64  `json:"to_id"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at"`
}

// TypeNote is the fallback type when neither the caller nor the classifier
// supplies one.
const TypeNote = "note"

// ValidTypes are the allowed memory types.
var ValidTypes = map[string]bool{
	"fact":       true,
	"preference": true,
	"task":       true,
	"journal":    true,
	TypeNote:     true,
}

// NormalizeTags trims whitespace, drops empty entries, and collapses
// duplicates case-insensitively, keeping the first occurrence's casing and
// position. A nil input stays nil (meaning "unset").
func NormalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	var out []string
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

// JoinTags encodes tags for storage as comma-joined text.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// ParseTags decodes stored comma-joined tag text.
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
