package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/matchinput/pkg/registry/codec"
)

func newMigrateYAMLCmd() *cobra.Command {
	var inFile string
	var outFile string
	cmd := &cobra.Command{
		Use:   "migrate-yaml",
		Short: "Rewrite a registry file in the current format",
		Long:  "Reads a registry file of any supported version, fills in generated uids and defaults, and writes it back as the current version.",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(filepath.Clean(inFile)) // #nosec G304 -- operator supplied path
			if err != nil {
				return err
			}
			metas, err := codec.DecodeYAML(data)
			if err != nil {
				return err
			}
			outData, err := codec.EncodeYAML(metas)
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Clean(outFile), outData, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s to %s\n", countOf(len(metas), "field"), outFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&inFile, "in", "", "input YAML file")
	cmd.Flags().StringVar(&outFile, "out", "", "output YAML file")
	mustFlag(cmd, "in")
	mustFlag(cmd, "out")
	return cmd
}
