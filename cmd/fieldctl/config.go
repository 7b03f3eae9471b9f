package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/faciam-dev/matchinput/pkg/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Manage fieldctl configuration"}
	cmd.AddCommand(newConfigUseCmd())
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Set active profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			prof := args[0]
			if _, ok := cfg.Profiles[prof]; !ok {
				return fmt.Errorf("profile %q not found", prof)
			}
			cfg.Active = prof
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile %q\n", prof)
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			names := make([]string, 0, len(cfg.Profiles))
			for name := range cfg.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				mark := " "
				if name == cfg.Active {
					mark = "*"
				}
				p := cfg.Profiles[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t%s\n", mark, name, p.APIURL, p.Registry)
			}
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show active profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			p := cfg.Current()
			b, _ := json.MarshalIndent(struct {
				Active   string `json:"active"`
				APIURL   string `json:"apiUrl"`
				Registry string `json:"registry"`
				Insecure bool   `json:"insecure"`
				HasToken bool   `json:"hasToken"`
			}{cfg.Active, p.APIURL, p.Registry, p.Insecure, p.Token != ""}, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var p config.Profile
	var activate bool
	cmd := &cobra.Command{
		Use:   "set <profile>",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cur := cfg.Profiles[args[0]]
			cur.Name = args[0]
			flags := cmd.Flags()
			if flags.Changed("api-url") {
				cur.APIURL = p.APIURL
			}
			if flags.Changed("token") {
				cur.Token = p.Token
			}
			if flags.Changed("insecure") {
				cur.Insecure = p.Insecure
			}
			if flags.Changed("registry") {
				cur.Registry = p.Registry
			}
			cfg.Profiles[cur.Name] = cur
			if activate {
				cfg.Active = cur.Name
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q\n", cur.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&p.APIURL, "api-url", "", "API base URL")
	cmd.Flags().StringVar(&p.Token, "token", "", "Bearer token")
	cmd.Flags().BoolVar(&p.Insecure, "insecure", false, "skip TLS verification")
	cmd.Flags().StringVar(&p.Registry, "registry", "", "registry YAML file")
	cmd.Flags().BoolVar(&activate, "use", false, "make the profile active")
	return cmd
}
