package main

import (
	"os"

	"github.com/omnifs/omnifs/internal/cli"

	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupService(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return service.Move(cli.MoveConfig{
			Oldname: args[0],
			Newname: args[1],
			Stderr:  os.Stderr,
		})
	},
	Short: "Move or rename a file or directory",
	Use:   "mv <source> <destination>",
}
