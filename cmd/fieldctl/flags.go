package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// mustFlag marks a flag as required and panics on error.
func mustFlag(cmd *cobra.Command, name string) {
	cobra.CheckErr(cmd.MarkFlagRequired(name))
}

// outputFormat returns the --output value: table (default) or json.
func outputFormat(cmd *cobra.Command) (string, error) {
	f, _ := cmd.Root().PersistentFlags().GetString("output")
	switch f {
	case "", "table":
		return "table", nil
	case "json":
		return "json", nil
	}
	return "", fmt.Errorf("unsupported output format: %s", f)
}
