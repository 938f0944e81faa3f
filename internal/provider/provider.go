// Package provider adapts the remote embedding and classification services
// behind small interfaces the engine consumes.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/rcliao/mind/internal/model"
)

// ErrMissingAPIKey is returned before any network call when no credentials
// are configured.
var ErrMissingAPIKey = errors.New("api key is not set")

// Embedder maps a batch of strings to fixed-dimension float vectors, one
// per input, in input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Classifier proposes metadata for a piece of free text. Its output is
// advisory; callers fill only the fields they left unresolved.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Classification, error)
}

// Classification is the structured guess returned by the classification
// provider. All fields are optional; absent fields stay at their zero
// value (nil Importance means "no guess").
type Classification struct {
	Type       string   `json:"type"`
	Tags       []string `json:"tags"`
	Importance *float64 `json:"importance"`
	Summary    string   `json:"summary"`
}

// Validate checks the guess against the schema the engine expects. Any
// violation makes the whole response unusable.
func (c *Classification) Validate() error {
	if c.Type != "" && !model.ValidTypes[c.Type] {
		return fmt.Errorf("unknown memory type %q", c.Type)
	}
	if c.Importance != nil && (*c.Importance < 0 || *c.Importance > 1) {
		return fmt.Errorf("importance %v out of range [0,1]", *c.Importance)
	}
	return nil
}
