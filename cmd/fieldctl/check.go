package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var file string
	var sets []string
	var fields []string
	var remote bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate record values against the configured fields",
		Example: `  fieldctl check --set phone=555-1234
  fieldctl check --remote --set phone=abc --fields phone`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseSets(sets)
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			c, err := newClient(cmd, file, remote)
			if err != nil {
				return err
			}
			res, err := c.ValidateRecord(cmd.Context(), values, fields...)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{"valid": len(res) == 0, "errors": res}); err != nil {
					return err
				}
			} else if len(res) == 0 {
				fmt.Fprintln(out, "ok")
			} else {
				handles := make([]string, 0, len(res))
				for h := range res {
					handles = append(handles, h)
				}
				sort.Strings(handles)
				tw := tablewriter.NewWriter(out)
				tw.SetHeader([]string{"Field", "Value", "Error"})
				for _, h := range handles {
					for _, msg := range res[h] {
						tw.Append([]string{h, fmt.Sprint(values[h]), msg})
					}
				}
				tw.Render()
			}
			if len(res) > 0 {
				return fmt.Errorf("%s failed validation", countOf(len(res), "field"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "registry file (default: --registry or registry.yaml)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as handle=value (repeatable)")
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "only validate these handles")
	cmd.Flags().BoolVar(&remote, "remote", false, "validate through the API of the active profile")
	return cmd
}

func parseSets(sets []string) (map[string]any, error) {
	values := make(map[string]any, len(sets))
	for _, s := range sets {
		handle, value, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(handle) == "" {
			return nil, fmt.Errorf("invalid --set %q: want handle=value", s)
		}
		if _, dup := values[handle]; dup {
			return nil, errors.New("duplicate --set for " + handle)
		}
		values[handle] = value
	}
	return values, nil
}
