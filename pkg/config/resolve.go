package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Resolved is the effective connection and registry setting of a command.
type Resolved struct {
	APIURL   string
	Token    string
	Insecure bool
	Registry string
	Profile  string
}

// Resolve merges the root persistent flags, FIELDCTL_* environment
// variables and the selected profile, in that order of precedence.
func Resolve(cmd *cobra.Command) (Resolved, error) {
	flags := cmd.Root().PersistentFlags()
	flagURL, _ := flags.GetString("api-url")
	flagToken, _ := flags.GetString("token")
	flagRegistry, _ := flags.GetString("registry")

	cfg, err := Load()
	if err != nil {
		return Resolved{}, fmt.Errorf("load config: %w", err)
	}
	prof := cfg.Active
	if p, _ := flags.GetString("profile"); p != "" {
		prof = p
		if _, ok := cfg.Profiles[prof]; !ok {
			return Resolved{}, fmt.Errorf("profile %q not found", prof)
		}
	}
	cp := cfg.Profiles[prof]

	return Resolved{
		APIURL:   strings.TrimRight(firstNonEmpty(flagURL, os.Getenv("FIELDCTL_API_URL"), cp.APIURL), "/"),
		Token:    firstNonEmpty(flagToken, os.Getenv("FIELDCTL_TOKEN"), cp.Token),
		Insecure: cp.Insecure,
		Registry: firstNonEmpty(flagRegistry, os.Getenv("MATCHINPUT_REGISTRY"), cp.Registry),
		Profile:  prof,
	}, nil
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
