package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func newRoot() *cobra.Command {
	cmd := &cobra.Command{Use: "root"}
	cmd.PersistentFlags().String("api-url", "", "")
	cmd.PersistentFlags().String("token", "", "")
	cmd.PersistentFlags().String("profile", "", "")
	cmd.PersistentFlags().String("registry", "", "")
	return cmd
}

func TestResolvePrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("FIELDCTL_API_URL", "")
	t.Setenv("FIELDCTL_TOKEN", "")
	t.Setenv("MATCHINPUT_REGISTRY", "")

	cfg := &File{Active: "default", Profiles: map[string]Profile{
		"default": {Name: "default", APIURL: "http://cfg/", Token: "cfgtok", Registry: "cfg.yaml"},
	}, Version: 1}
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	t.Run("config", func(t *testing.T) {
		r, err := Resolve(newRoot())
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		want := Resolved{APIURL: "http://cfg", Token: "cfgtok", Registry: "cfg.yaml", Profile: "default"}
		if diff := cmp.Diff(want, r); diff != "" {
			t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("FIELDCTL_API_URL", "http://env")
		t.Setenv("FIELDCTL_TOKEN", "envtok")
		t.Setenv("MATCHINPUT_REGISTRY", "env.yaml")
		r, err := Resolve(newRoot())
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if r.APIURL != "http://env" || r.Token != "envtok" || r.Registry != "env.yaml" {
			t.Fatalf("unexpected %+v", r)
		}
	})

	t.Run("flag", func(t *testing.T) {
		t.Setenv("FIELDCTL_API_URL", "http://env")
		root := newRoot()
		for name, v := range map[string]string{"api-url": "http://flag", "token": "flagtok", "registry": "flag.yaml"} {
			if err := root.PersistentFlags().Set(name, v); err != nil {
				t.Fatalf("set %s: %v", name, err)
			}
		}
		r, err := Resolve(root)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if r.APIURL != "http://flag" || r.Token != "flagtok" || r.Registry != "flag.yaml" {
			t.Fatalf("unexpected %+v", r)
		}
	})

	t.Run("profile flag", func(t *testing.T) {
		cfg.Profiles["p2"] = Profile{Name: "p2", APIURL: "http://p2", Insecure: true}
		if err := Save(cfg); err != nil {
			t.Fatalf("save: %v", err)
		}
		root := newRoot()
		if err := root.PersistentFlags().Set("profile", "p2"); err != nil {
			t.Fatalf("set profile: %v", err)
		}
		r, err := Resolve(root)
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		want := Resolved{APIURL: "http://p2", Insecure: true, Profile: "p2"}
		if diff := cmp.Diff(want, r); diff != "" {
			t.Fatalf("resolved mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown profile", func(t *testing.T) {
		root := newRoot()
		if err := root.PersistentFlags().Set("profile", "nope"); err != nil {
			t.Fatalf("set profile: %v", err)
		}
		if _, err := Resolve(root); err == nil {
			t.Fatalf("expected error")
		}
	})
}
