package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/pkg/registry/codec"
)

var errDrift = errors.New("registry file and API differ")

func newDiffCmd() *cobra.Command {
	var file string
	var fail bool
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how a registry file differs from the fields the API serves",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := registryFile(cmd, file)
			if err != nil {
				return err
			}
			local, err := fieldstore.ReadFile(path)
			if err != nil {
				return err
			}
			c, err := newClient(cmd, file, true)
			if err != nil {
				return err
			}
			remote, err := c.Fields(cmd.Context())
			if err != nil {
				return err
			}
			d, err := codec.Diff(remote, local, "api", path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if d == "" {
				fmt.Fprintln(out, "no changes")
				return nil
			}
			fmt.Fprint(out, d)
			if fail {
				return errDrift
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "registry file (default: --registry or registry.yaml)")
	cmd.Flags().BoolVar(&fail, "fail-on-change", false, "exit non-zero when the file differs")
	return cmd
}
