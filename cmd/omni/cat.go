package main

import (
	"os"

	"github.com/omnifs/omnifs/internal/cli"

	"github.com/spf13/cobra"
)

var catCmd = &cobra.Command{
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupService(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			err := service.Cat(cli.CatConfig{Path: path, Stdout: os.Stdout})
			if err != nil {
				return err
			}
		}

		return nil
	},
	Short: "Print the contents of one or more files",
	Use:   "cat <path>...",
}
