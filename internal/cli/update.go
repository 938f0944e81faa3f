package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/mind/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update fields of a memory",
		Long:  "Partially update a memory. Only the given flags change; updating the text re-embeds it.",
		Args:  cobra.ExactArgs(1),
		Run:   runUpdate,
	}

	cmd.Flags().String("text", "", "New text (re-embeds)")
	cmd.Flags().String("type", "", "New type")
	cmd.Flags().StringP("tags", "t", "", "New tags (comma-separated, replaces the set)")
	cmd.Flags().Float64P("importance", "i", 0, "New importance in [0,1]")
	cmd.Flags().String("summary", "", "New summary")
	cmd.Flags().Int64("cluster", 0, "Cluster id reference")

	RootCmd.AddCommand(cmd)
}

func runUpdate(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("update", fmt.Errorf("invalid id %q", args[0]))
	}

	var p engine.UpdateParams
	if cmd.Flags().Changed("text") {
		v, _ := cmd.Flags().GetString("text")
		p.Text = &v
	}
	if cmd.Flags().Changed("type") {
		v, _ := cmd.Flags().GetString("type")
		p.Type = &v
	}
	if cmd.Flags().Changed("tags") {
		v, _ := cmd.Flags().GetString("tags")
		tags := splitTags(v)
		if tags == nil {
			tags = []string{}
		}
		p.Tags = tags
	}
	if cmd.Flags().Changed("importance") {
		v, _ := cmd.Flags().GetFloat64("importance")
		p.Importance = &v
	}
	if cmd.Flags().Changed("summary") {
		v, _ := cmd.Flags().GetString("summary")
		p.Summary = &v
	}
	if cmd.Flags().Changed("cluster") {
		v, _ := cmd.Flags().GetInt64("cluster")
		p.ClusterID = &v
	}

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	mem, err := a.engine.Update(cmd.Context(), id, p)
	if err != nil {
		exitErr("update", err)
	}
	if mem == nil {
		fmt.Println("null")
		return
	}

	b, _ := json.MarshalIndent(mem, "", "  ")
	fmt.Println(string(b))
}
