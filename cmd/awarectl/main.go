package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/awarehq/aware-api/cmd/awarectl/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "awarectl",
		Short: "Administration tool for the Aware API",
		Long:  "CLI tool for managing accounts and loading demo fixtures",
	}

	rootCmd.AddCommand(commands.NewUserCmd())
	rootCmd.AddCommand(commands.NewSeedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
