package main

import (
	"fmt"
	"sort"

	"github.com/omnifs/omnifs/internal/errors"
	"github.com/omnifs/omnifs/internal/profile"

	"github.com/spf13/cobra"
)

var (
	profileCmd = &cobra.Command{
		Short: "Manage stored backend profiles",
		Use:   "profile",
	}

	profileAddCmd = &cobra.Command{
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if BackendName == "" {
				return errors.New("missing --backend")
			}

			backend, err := profileBackend()
			if err != nil {
				return err
			}

			err = profile.Add(backend, args[0], profile.Profile{
				Backend:     BackendName,
				Addr:        Addr,
				User:        User,
				KeyFile:     KeyFile,
				Endpoint:    Endpoint,
				Bucket:      Bucket,
				AccessKeyID: AccessKeyID,
				Region:      Region,
				Secure:      Secure,
				Prefix:      Prefix,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Saved profile %q.\n", args[0])
			return nil
		},
		Short: "Store the connection flags under a profile name",
		Use:   "add [flags] <name>",
	}

	profileListCmd = &cobra.Command{
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := profileBackend()
			if err != nil {
				return err
			}

			profiles, err := backend.Load()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(profiles))
			for name := range profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				p := profiles[name]
				switch p.Backend {
				case "sftp", "ssh":
					fmt.Printf("%s\t%s\t%s@%s\n", name, p.Backend, p.User, p.Addr)
				case "s3":
					fmt.Printf("%s\t%s\t%s/%s\n", name, p.Backend, p.Endpoint, p.Bucket)
				default:
					fmt.Printf("%s\t%s\n", name, p.Backend)
				}
			}

			return nil
		},
		Short: "List stored profiles",
		Use:   "list",
	}

	profileRemoveCmd = &cobra.Command{
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := profileBackend()
			if err != nil {
				return err
			}

			return profile.Remove(backend, args[0])
		},
		Short: "Remove a stored profile",
		Use:   "remove <name>",
	}
)

func init() {
	profileCmd.AddCommand(profileAddCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileRemoveCmd)
}
