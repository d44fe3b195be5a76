package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "analyzer",
	Short: "Exercise-form motion analysis service",
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(runCmd)
}
