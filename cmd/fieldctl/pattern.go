package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/matchinput/pkg/inputmask"
)

func newPatternCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "pattern", Short: "Work with input masks"}
	cmd.AddCommand(newPatternTestCmd())
	return cmd
}

type patternResult struct {
	Pattern     string   `json:"pattern"`
	Valid       bool     `json:"valid"`
	Error       string   `json:"error,omitempty"`
	Expr        string   `json:"expr,omitempty"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	Value       *string  `json:"value,omitempty"`
	Matched     *bool    `json:"matched,omitempty"`
}

func newPatternTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <pattern> [value]",
		Short: "Check that an input mask compiles and optionally match a value",
		Example: `  fieldctl pattern test '/^[0-9]{3}-[0-9]{4}$/' 555-1234
  fieldctl pattern test '#^abc$#i'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			res := patternResult{Pattern: args[0]}
			p, err := inputmask.Compile(args[0])
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Valid = true
				res.Expr = p.Expr()
				res.Diagnostics = p.Diagnostics()
				if len(args) == 2 {
					m := p.MatchString(args[1])
					res.Value = &args[1]
					res.Matched = &m
				}
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				b, err := json.MarshalIndent(res, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(b))
			} else {
				if !res.Valid {
					fmt.Fprintf(out, "invalid: %s\n", inputmask.InvalidPatternMessage)
					fmt.Fprintf(out, "  %s\n", res.Error)
				} else {
					fmt.Fprintf(out, "valid: %s\n", res.Expr)
				}
				for _, d := range res.Diagnostics {
					fmt.Fprintf(out, "warning: %s\n", d)
				}
				if res.Matched != nil {
					if *res.Matched {
						fmt.Fprintf(out, "match: %q\n", *res.Value)
					} else {
						fmt.Fprintf(out, "no match: %q\n", *res.Value)
					}
				}
			}
			if !res.Valid {
				return fmt.Errorf("%s", inputmask.InvalidPatternMessage)
			}
			if res.Matched != nil && !*res.Matched {
				return fmt.Errorf("value does not match")
			}
			return nil
		},
	}
}
