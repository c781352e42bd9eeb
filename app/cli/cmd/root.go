package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand returns a new instance of a conveyor command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "conveyor",
		Short: "conveyor is the command line interface to the conveyor pipeline engine",
		Run: func(cmd *cobra.Command, args []string) {
		},
	}

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewGetCommand())
	return rootCmd
}
