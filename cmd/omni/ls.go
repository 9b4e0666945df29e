package main

import (
	"os"

	"github.com/omnifs/omnifs/internal/cli"

	"github.com/spf13/cobra"
)

var (
	LsLong bool

	lsCmd = &cobra.Command{
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupService(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			return service.List(cli.ListConfig{
				Path:   path,
				Long:   LsLong,
				Stdout: os.Stdout,
			})
		},
		Short: "List the entries of a directory",
		Use:   "ls [flags] [path]",
	}
)

func init() {
	lsCmd.Flags().BoolVarP(&LsLong, "long", "l", false, "print metadata for each entry")
}
