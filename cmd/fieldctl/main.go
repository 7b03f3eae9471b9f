package main

import (
	"log"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{Use: "fieldctl", Short: "Check match input fields and records", SilenceUsage: true}
	root.PersistentFlags().String("api-url", "", "API base URL")
	root.PersistentFlags().String("token", "", "Bearer token for the API")
	root.PersistentFlags().String("profile", "", "Profile name in config (overrides active)")
	root.PersistentFlags().String("registry", "", "Registry YAML file")
	root.PersistentFlags().String("plugins", "", "Field type plugin directory")
	root.PersistentFlags().String("output", "table", "Output format (table|json)")
	root.PersistentFlags().Bool("verbose", false, "Log plugin and registry loading")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newPatternCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newTokenCmd())
	root.AddCommand(newMigrateYAMLCmd())
	root.AddCommand(newPluginsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newGenDocsCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
