package main

import (
	"os"

	"github.com/omnifs/omnifs/internal/cli"

	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupService(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.Stat(cli.StatConfig{Path: args[0], Stdout: os.Stdout})
	},
	Short: "Print the metadata of a file or directory",
	Use:   "stat <path>",
}
