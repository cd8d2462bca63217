package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/communityhub/core/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "communityhub",
		Short: "CommunityHub API Server",
		Long:  `CommunityHub is a community platform backend with posts, articles, announcements, documents, and notifications behind a single REST API.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewBackupCommand())
	rootCmd.AddCommand(commands.NewUserCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
