package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var file string
	var remote bool
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			c, err := newClient(cmd, file, remote)
			if err != nil {
				return err
			}
			metas, err := c.Fields(cmd.Context())
			if err != nil {
				return err
			}
			filtered := metas[:0]
			for _, m := range metas {
				if typ == "" || m.Type == typ {
					filtered = append(filtered, m)
				}
			}
			metas = filtered

			out := cmd.OutOrStdout()
			if format == "json" {
				b, err := json.MarshalIndent(metas, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
				return nil
			}
			tw := tablewriter.NewWriter(out)
			tw.SetHeader([]string{"Handle", "Name", "Type", "Input Mask", "Error Message", "Rows"})
			for _, m := range metas {
				tw.Append([]string{m.Handle, m.Label(), m.Type, m.Settings.InputMask, m.Settings.ErrorMessage, strconv.Itoa(m.Settings.InitialRows)})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "registry file (default: --registry or registry.yaml)")
	cmd.Flags().BoolVar(&remote, "remote", false, "list the fields served by the API of the active profile")
	cmd.Flags().StringVar(&typ, "type", "", "filter by field type")
	return cmd
}
