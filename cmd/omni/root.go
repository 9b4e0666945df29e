package main

import (
	"os"

	"github.com/omnifs/omnifs/cmd/omni/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	Debug       bool
	ProfileName string
	BackendName string
	Addr        string
	User        string
	KeyFile     string
	Endpoint    string
	Bucket      string
	AccessKeyID string
	Region      string
	Prefix      string
	Secure      bool
	Timeout     string

	rootCmd = &cobra.Command{
		Use:           "omni",
		Short:         "One client for local, in-memory, SFTP, SSH, and S3 filesystems",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       config.Version,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeFileSystem()
		},
	}
)

func init() {
	// A .env file supplies OMNIFS_* variables when present.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug output")
	_ = rootCmd.PersistentFlags().MarkHidden("debug")

	rootCmd.PersistentFlags().StringVar(&ProfileName, "profile", os.Getenv("OMNIFS_PROFILE"), "connect with a stored profile")
	rootCmd.PersistentFlags().StringVar(&BackendName, "backend", os.Getenv("OMNIFS_BACKEND"), "the backend to connect to: os, mem, sftp, ssh, or s3")
	rootCmd.PersistentFlags().StringVar(&Addr, "addr", os.Getenv("OMNIFS_ADDR"), "host:port of the SFTP or SSH server")
	rootCmd.PersistentFlags().StringVar(&User, "user", os.Getenv("OMNIFS_USER"), "user for the SFTP or SSH server")
	rootCmd.PersistentFlags().StringVar(&KeyFile, "key-file", os.Getenv("OMNIFS_KEY_FILE"), "private key for the SFTP or SSH server")
	rootCmd.PersistentFlags().StringVar(&Endpoint, "endpoint", os.Getenv("OMNIFS_S3_ENDPOINT"), "S3-compatible endpoint")
	rootCmd.PersistentFlags().StringVar(&Bucket, "bucket", os.Getenv("OMNIFS_S3_BUCKET"), "S3 bucket")
	rootCmd.PersistentFlags().StringVar(&AccessKeyID, "access-key", os.Getenv("OMNIFS_S3_ACCESS_KEY"), "S3 access key ID; the secret key comes from OMNIFS_S3_SECRET_KEY")
	rootCmd.PersistentFlags().StringVar(&Region, "region", os.Getenv("OMNIFS_S3_REGION"), "S3 region")
	rootCmd.PersistentFlags().StringVar(&Prefix, "prefix", os.Getenv("OMNIFS_S3_PREFIX"), "key prefix inside the S3 bucket")
	rootCmd.PersistentFlags().BoolVar(&Secure, "secure", true, "use TLS for the S3 endpoint")
	rootCmd.PersistentFlags().StringVar(&Timeout, "timeout", os.Getenv("OMNIFS_TIMEOUT"), "per-operation timeout for remote backends, e.g. 30s")

	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(chmodCmd)
	rootCmd.AddCommand(profileCmd)
}
