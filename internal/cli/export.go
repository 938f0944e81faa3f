package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all active memories as JSON",
		Run:   runExport,
	}

	cmd.Flags().String("type", "", "Only export memories of this type")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	typeStr, _ := cmd.Flags().GetString("type")

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	memories, err := a.store.ExportAll(cmd.Context(), typeStr)
	if err != nil {
		exitErr("export", err)
	}

	if len(memories) == 0 {
		fmt.Println("[]")
		return
	}
	b, _ := json.MarshalIndent(memories, "", "  ")
	fmt.Println(string(b))
}
