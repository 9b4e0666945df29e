package main

import (
	"io/fs"
	"strconv"

	"github.com/omnifs/omnifs/internal/cli"
	"github.com/omnifs/omnifs/internal/errors"

	"github.com/spf13/cobra"
)

var chmodCmd = &cobra.Command{
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return setupService(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := ParseMode(args[0])
		if err != nil {
			return err
		}

		return service.Chmod(cli.ChmodConfig{Path: args[1], Mode: mode})
	},
	Short: "Change the permission bits of a file or directory",
	Use:   "chmod <octal-mode> <path>",
}

// ParseMode reads an octal permission string such as 644 or 0755.
func ParseMode(s string) (fs.FileMode, error) {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil || mode&^uint64(fs.ModePerm) != 0 {
		return 0, errors.Errorf("invalid mode %q", s)
	}

	return fs.FileMode(mode), nil
}
