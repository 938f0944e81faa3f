package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a memory",
		Long:  "Soft-delete a memory: it stops appearing in searches but stays on disk for audit.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}
	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("rm", fmt.Errorf("invalid id %q", args[0]))
	}

	a, err := openApp()
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	deleted, err := a.engine.Delete(cmd.Context(), id)
	if err != nil {
		exitErr("rm", err)
	}
	if deleted {
		fmt.Printf("deleted %d\n", id)
	} else {
		fmt.Printf("nothing to delete for %d\n", id)
	}
}
