package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/mind/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search memories by meaning",
		Long:  "Embed the query and return the closest memories, optionally filtered by type, tags, and creation time.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")
	cmd.Flags().String("type", "", "Filter by type")
	cmd.Flags().StringP("tags", "t", "", "Required tags (comma-separated, all must match)")
	cmd.Flags().Int64("since", 0, "Created at or after (unix seconds)")
	cmd.Flags().Int64("until", 0, "Created at or before (unix seconds)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	typeStr, _ := cmd.Flags().GetString("type")
	tagsStr, _ := cmd.Flags().GetString("tags")
	since, _ := cmd.Flags().GetInt64("since")
	until, _ := cmd.Flags().GetInt64("until")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	results, err := a.engine.Search(cmd.Context(), engine.SearchParams{
		Query: strings.Join(args, " "),
		Limit: limit,
		Type:  typeStr,
		Tags:  splitTags(tagsStr),
		Since: since,
		Until: until,
	})
	if err != nil {
		exitErr("search", err)
	}

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
