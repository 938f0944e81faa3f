package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/mind/internal/engine"
)

func init() {
	cmd := &cobra.Command{
		Use:   "remember [text]",
		Short: "Store a memory",
		Long:  "Store a memory. Text can be a positional arg or piped via stdin. Unset metadata is filled by the classifier when AI assist is on.",
		Run:   runRemember,
	}

	cmd.Flags().String("type", "", "Memory type: fact, preference, task, journal, note, or auto")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	cmd.Flags().Float64P("importance", "i", 0, "Importance in [0,1]")
	cmd.Flags().String("summary", "", "One-line summary")
	cmd.Flags().String("user", "", "User id")
	cmd.Flags().String("agent", "", "Agent id")
	cmd.Flags().String("conversation", "", "Conversation id")
	cmd.Flags().String("source", "cli", "Origin tag")
	cmd.Flags().Bool("ai", false, "Force AI assist on/off for this memory (default: config)")

	RootCmd.AddCommand(cmd)
}

func runRemember(cmd *cobra.Command, args []string) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			text = string(b)
		}
	}
	if strings.TrimSpace(text) == "" {
		exitErr("remember", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	p := engine.CreateParams{Text: strings.TrimSpace(text)}

	switch typeStr, _ := cmd.Flags().GetString("type"); typeStr {
	case "":
	case "auto":
		p.Type = engine.AutoType()
	default:
		p.Type = engine.ExplicitType(typeStr)
	}
	if cmd.Flags().Changed("tags") {
		tagsStr, _ := cmd.Flags().GetString("tags")
		tags := splitTags(tagsStr)
		if tags == nil {
			tags = []string{} // explicit empty set suppresses classifier tags
		}
		p.Tags = tags
	}
	if cmd.Flags().Changed("importance") {
		imp, _ := cmd.Flags().GetFloat64("importance")
		p.Importance = &imp
	}
	if cmd.Flags().Changed("summary") {
		summary, _ := cmd.Flags().GetString("summary")
		p.Summary = &summary
	}
	if cmd.Flags().Changed("ai") {
		ai, _ := cmd.Flags().GetBool("ai")
		p.AIAssist = &ai
	}
	p.UserID, _ = cmd.Flags().GetString("user")
	p.AgentID, _ = cmd.Flags().GetString("agent")
	p.ConversationID, _ = cmd.Flags().GetString("conversation")
	p.Source, _ = cmd.Flags().GetString("source")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	mem, err := a.engine.Create(cmd.Context(), p)
	if err != nil {
		exitErr("remember", err)
	}

	b, _ := json.Marshal(mem)
	fmt.Println(string(b))
}
