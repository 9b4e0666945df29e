package main

import (
	"os"

	"github.com/omnifs/omnifs/internal/cli"

	"github.com/spf13/cobra"
)

var writeCmd = &cobra.Command{
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupService(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.Write(cli.WriteConfig{
			Path:   args[0],
			Input:  os.Stdin,
			Stderr: os.Stderr,
		})
	},
	Short: "Create or replace a file with data from stdin",
	Use:   "write <path>",
}
