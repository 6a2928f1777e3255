package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "audrive",
		Short: "Telegram bot that converts YouTube videos to MP3 and uploads files to Google Drive",
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the liveness endpoint",
		Run: func(cmd *cobra.Command, args []string) {
			runServe(configPath)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "authorize",
		Short: "Run the interactive Drive authorization flow once and persist the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthorize(cmd.Context(), configPath)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
