package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/faciam-dev/matchinput/pkg/config"
	"github.com/faciam-dev/matchinput/sdk/client"
)

func newLoginCmd() *cobra.Command {
	var nonInteractive bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save API endpoint and token into ~/.fieldctl/config.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			prof, _ := cmd.Root().PersistentFlags().GetString("profile")
			if prof == "" {
				prof = cfg.Active
			}
			url, _ := cmd.Root().PersistentFlags().GetString("api-url")
			tok, _ := cmd.Root().PersistentFlags().GetString("token")
			if !nonInteractive {
				in := bufio.NewReader(cmd.InOrStdin())
				if url == "" {
					url = prompt(cmd.OutOrStdout(), in, "API URL", cfg.Profiles[prof].APIURL)
				}
				if tok == "" {
					tok = promptSecret(cmd.OutOrStdout(), in, "Token (Bearer)")
				}
			}
			if url == "" {
				return fmt.Errorf("api-url is required (provide flags or use interactive mode)")
			}
			url = strings.TrimRight(url, "/")

			var opts []client.Option
			if tok != "" {
				opts = append(opts, client.WithToken(tok))
			}
			if _, err := client.NewHTTP(url, opts...).Fields(cmd.Context()); err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			cp := cfg.Profiles[prof]
			cp.Name = prof
			cp.APIURL = url
			cp.Token = tok
			cfg.Profiles[prof] = cp
			cfg.Active = prof
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in. Active profile: %s\n", prof)
			return nil
		},
	}
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Fail instead of prompting")
	return cmd
}

func prompt(out io.Writer, in *bufio.Reader, label, def string) string {
	fmt.Fprintf(out, "%s [%s]: ", label, def)
	s, err := in.ReadString('\n')
	if err != nil && s == "" {
		return def
	}
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func promptSecret(out io.Writer, in *bufio.Reader, label string) string {
	fmt.Fprintf(out, "%s: ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, _ := term.ReadPassword(fd)
		fmt.Fprintln(out)
		return strings.TrimSpace(string(b))
	}
	s, _ := in.ReadString('\n')
	return strings.TrimSpace(s)
}
