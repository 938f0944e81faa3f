// Package cli implements the mind CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/mind/internal/config"
	"github.com/rcliao/mind/internal/engine"
	"github.com/rcliao/mind/internal/provider"
	"github.com/rcliao/mind/internal/store"
)

var dbFlag string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "mind",
	Short: "Personal long-term memory for AI agents",
	Long:  "Store natural-language memories with inferred metadata and retrieve them by semantic similarity plus filters. SQLite + sqlite-vec backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database path (default: $MIND_DB_PATH or ~/.mind/mind.db)")
}

// app bundles the wired dependencies behind one Close.
type app struct {
	cfg    *config.Config
	store  *store.SQLiteStore
	engine *engine.Engine
}

func openApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbFlag != "" {
		cfg.DBPath = dbFlag
	}

	st, err := store.NewSQLiteStore(cfg.DBPath, store.Options{
		Dim:       cfg.EmbedDim,
		Extension: store.DefaultVecExtension(cfg.VecExtPath),
	})
	if err != nil {
		return nil, err
	}

	client := provider.NewOpenRouterClient(provider.Options{
		BaseURL:         cfg.OpenRouterBase,
		APIKey:          cfg.OpenRouterKey,
		EmbedModel:      cfg.EmbedModel,
		EmbedDim:        cfg.EmbedDim,
		ChatModel:       cfg.ChatModel,
		EmbedTimeout:    cfg.EmbedTimeout,
		ClassifyTimeout: cfg.ClassifyTimeout,
	})

	eng := engine.New(st, client, client, engine.Config{AIAssist: cfg.AIAssist}, slog.Default())
	return &app{cfg: cfg, store: st, engine: eng}, nil
}

func (a *app) Close() {
	a.store.Close()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
