package main

import (
	"fmt"
	"os"

	"github.com/omnifs/omnifs/internal/cli"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	RmRecurse bool
	RmDirOnly bool
	RmForce   bool

	rmCmd = &cobra.Command{
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return setupService(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				if RmRecurse && !RmForce && term.IsTerminal(int(os.Stdin.Fd())) {
					prompt := promptui.Prompt{
						Label:     fmt.Sprintf("Recursively remove %q", path),
						IsConfirm: true,
					}
					if _, err := prompt.Run(); err != nil {
						fmt.Fprintf(os.Stderr, "Skipping %q.\n", path)
						continue
					}
				}

				err := service.Remove(cli.RemoveConfig{
					Path:    path,
					Recurse: RmRecurse,
					Dir:     RmDirOnly,
					Force:   RmForce,
					Stderr:  os.Stderr,
				})
				if err != nil {
					return err
				}
			}

			return nil
		},
		Short: "Remove files or directories",
		Use:   "rm [flags] <path>...",
	}
)

func init() {
	rmCmd.Flags().BoolVarP(&RmRecurse, "recursive", "r", false, "remove directories and their contents recursively")
	rmCmd.Flags().BoolVarP(&RmDirOnly, "dir", "d", false, "remove empty directories")
	rmCmd.Flags().BoolVarP(&RmForce, "force", "f", false, "ignore missing paths and never prompt")
}
