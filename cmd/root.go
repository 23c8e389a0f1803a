package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keyservice",
	Short: "API key issuance and validation service",
	Long:  `A service issuing, listing, validating and revoking API keys over HTTP, backed by PostgreSQL.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
