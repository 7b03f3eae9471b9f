package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/pkg/customfield"
	"github.com/faciam-dev/matchinput/pkg/inputmask"
	"github.com/faciam-dev/matchinput/pkg/registry"
	"github.com/faciam-dev/matchinput/sdk/client"
)

func newValidateCmd() *cobra.Command {
	var file string
	var remote bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check every field definition in a registry file",
		Long: "Builds each definition through its field type, as saving it would, and reports every field that cannot be saved. " +
			"With --remote the definitions are checked by the API of the active profile.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := registryFile(cmd, file)
			if err != nil {
				return err
			}
			metas, err := fieldstore.ReadFile(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			var failed int
			if remote {
				failed, err = checkRemote(cmd, metas)
				if err != nil {
					return err
				}
				return validateResult(out, failed, len(metas))
			}
			types, err := loadTypes(cmd)
			if err != nil {
				return err
			}
			for _, m := range metas {
				f, err := types.Build(m)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s\t%s\n", m.Handle, describeBuildError(err))
					continue
				}
				if mf, ok := f.(customfield.Masked); ok {
					for _, d := range mf.Mask().Diagnostics() {
						fmt.Fprintf(out, "%s\twarning: %s\n", m.Handle, d)
					}
				}
			}
			return validateResult(out, failed, len(metas))
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "registry file (default: --registry or registry.yaml)")
	cmd.Flags().BoolVar(&remote, "remote", false, "check definitions with the API instead of locally")
	return cmd
}

// checkRemote sends each definition to the API check endpoint and prints
// the outcome. It returns the number of definitions the API rejected.
func checkRemote(cmd *cobra.Command, metas []registry.FieldMeta) (int, error) {
	c, err := newClient(cmd, "", true)
	if err != nil {
		return 0, err
	}
	newLogger(cmd).Debugw("checking definitions", "mode", c.Mode(), "count", len(metas))
	out := cmd.OutOrStdout()
	var failed int
	for _, m := range metas {
		diags, err := c.CheckField(cmd.Context(), m)
		var fe *client.FieldError
		switch {
		case errors.As(err, &fe):
			failed++
			fmt.Fprintf(out, "%s\t%s: %s\n", m.Handle, fe.Location, fe.Message)
			continue
		case err != nil:
			return failed, err
		}
		for _, d := range diags {
			fmt.Fprintf(out, "%s\twarning: %s\n", m.Handle, d)
		}
	}
	return failed, nil
}

func validateResult(out io.Writer, failed, total int) error {
	if failed > 0 {
		return fmt.Errorf("%d of %s invalid", failed, countOf(total, "field"))
	}
	fmt.Fprintln(out, "ok")
	return nil
}

func describeBuildError(err error) string {
	var ce *inputmask.ConfigError
	if errors.As(err, &ce) {
		if se := new(inputmask.SyntaxError); errors.As(err, &se) {
			return fmt.Sprintf("settings.%s: %s (%s)", ce.Setting, ce.Message(), se.Reason)
		}
		return fmt.Sprintf("settings.%s: %s", ce.Setting, ce.Message())
	}
	return err.Error()
}
