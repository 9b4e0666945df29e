package main

import (
	"github.com/omnifs/omnifs/internal/cli"

	"github.com/spf13/cobra"
)

var (
	MkdirParents bool

	mkdirCmd = &cobra.Command{
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupService(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				err := service.MakeDir(cli.MakeDirConfig{Path: path, Parents: MkdirParents})
				if err != nil {
					return err
				}
			}

			return nil
		},
		Short: "Create one or more directories",
		Use:   "mkdir [flags] <path>...",
	}
)

func init() {
	mkdirCmd.Flags().BoolVarP(&MkdirParents, "parents", "p", false, "create missing parent directories as needed")
}
