package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/rcliao/mind/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
