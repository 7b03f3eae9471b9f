package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/faciam-dev/matchinput/internal/auth"
	"github.com/faciam-dev/matchinput/internal/fieldstore"
	"github.com/faciam-dev/matchinput/internal/server"
	"github.com/faciam-dev/matchinput/pkg/config"
	"github.com/faciam-dev/matchinput/pkg/registry/codec"
)

const testRegistry = `version: 1
fields:
  - handle: phone
    type: match-input
    settings:
      inputMask: /^[0-9]{3}-[0-9]{4}$/D
      errorMessage: Use the 555-1234 format
  - handle: notes
    type: plain-text
`

func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MATCHINPUT_PLUGIN_DIR", t.TempDir())
	t.Setenv("MATCHINPUT_REGISTRY", "")
	t.Setenv("FIELDCTL_API_URL", "")
	t.Setenv("FIELDCTL_TOKEN", "")
	p := filepath.Join(t.TempDir(), "registry.yaml")
	if err := os.WriteFile(p, []byte(testRegistry), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCmd(t *testing.T) {
	p := setupEnv(t)
	out, err := run(t, "validate", "--file", p)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "phone\twarning: modifier 'D' is implied: $ never matches before a trailing newline") || !strings.HasSuffix(out, "ok\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte(`version: 1
fields:
  - handle: zip
    type: match-input
    settings:
      inputMask: "^[0-9]{5}$"
      errorMessage: Five digits
  - handle: code
    type: match-input
    settings:
      inputMask: /^[A-Z]+$/
      errorMessage: ""
`), 0o644)
	out, err = run(t, "validate", "--file", bad)
	if err == nil || err.Error() != "2 of 2 fields invalid" {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(out, "zip\tsettings.inputMask: Not a valid regex (missing delimiters?)") ||
		!strings.Contains(out, "code\tsettings.errorMessage: Error message cannot be blank.") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidateCmdRemote(t *testing.T) {
	p := setupEnv(t)
	store, err := server.NewStore(server.Config{RegistryFile: p}, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	srv := httptest.NewServer(server.New(store).Adapter())
	defer srv.Close()

	out, err := run(t, "validate", "--remote", "--api-url", srv.URL, "--file", p)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "phone\twarning: modifier 'D' is implied") || !strings.HasSuffix(out, "ok\n") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte(`version: 1
fields:
  - handle: zip
    type: match-input
    settings:
      inputMask: "^[0-9]{5}$"
      errorMessage: Five digits
`), 0o644)
	out, err = run(t, "validate", "--remote", "--api-url", srv.URL, "--file", bad)
	if err == nil || err.Error() != "1 of 1 field invalid" {
		t.Fatalf("err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "zip\tsettings.inputMask: Not a valid regex (missing delimiters?)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestValidateCmdUsesProfileRegistry(t *testing.T) {
	p := setupEnv(t)
	if _, err := run(t, "config", "set", "local", "--registry", p, "--use"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if out, err := run(t, "validate"); err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
}

func TestCheckCmdLocal(t *testing.T) {
	p := setupEnv(t)
	out, err := run(t, "check", "--file", p, "--set", "phone=555-1234", "--set", "notes=hi")
	if err != nil || strings.TrimSpace(out) != "ok" {
		t.Fatalf("check: %v\n%s", err, out)
	}
	out, err = run(t, "check", "--file", p, "--set", "phone=5551234", "--output", "json")
	if err == nil {
		t.Fatalf("expected failure")
	}
	var res struct {
		Valid  bool                `json:"valid"`
		Errors map[string][]string `json:"errors"`
	}
	if jerr := json.Unmarshal([]byte(out[:strings.LastIndex(out, "}")+1]), &res); jerr != nil {
		t.Fatalf("decode: %v\n%s", jerr, out)
	}
	want := map[string][]string{"phone": {"Use the 555-1234 format"}}
	if res.Valid || !cmp.Equal(want, res.Errors) {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestCheckCmdRemote(t *testing.T) {
	p := setupEnv(t)
	store, err := server.NewStore(server.Config{RegistryFile: p}, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	srv := httptest.NewServer(server.New(store).Adapter())
	defer srv.Close()

	out, err := run(t, "check", "--remote", "--api-url", srv.URL, "--set", "phone=abc", "--fields", "phone")
	if err == nil || err.Error() != "1 field failed validation" {
		t.Fatalf("err = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Use the 555-1234 format") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "check", "--remote", "--set", "phone=abc"); err == nil {
		t.Fatalf("expected missing API URL error")
	}
}

func TestParseSets(t *testing.T) {
	got, err := parseSets([]string{"a=1", "b=x=y", "c="})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"a": "1", "b": "x=y", "c": ""}, got); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	for _, bad := range [][]string{{"novalue"}, {"=x"}, {"a=1", "a=2"}} {
		if _, err := parseSets(bad); err == nil {
			t.Fatalf("parseSets(%q) accepted", bad)
		}
	}
}

func TestPatternTestCmd(t *testing.T) {
	setupEnv(t)
	tests := []struct {
		args    []string
		wantErr bool
		want    string
	}{
		{[]string{"/^a+$/i", "AAA"}, false, "match: \"AAA\""},
		{[]string{"/^a+$/", "b"}, true, "no match: \"b\""},
		{[]string{"^a+$"}, true, "invalid: Not a valid regex (missing delimiters?)"},
		{[]string{"/a/S"}, false, "warning: modifier 'S' has no effect"},
	}
	for _, tt := range tests {
		out, err := run(t, append([]string{"pattern", "test"}, tt.args...)...)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%v: err = %v", tt.args, err)
		}
		if !strings.Contains(out, tt.want) {
			t.Fatalf("%v: output %q missing %q", tt.args, out, tt.want)
		}
	}
}

func TestListCmd(t *testing.T) {
	p := setupEnv(t)
	out, err := run(t, "list", "--file", p, "--type", "match-input", "--output", "json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var metas []struct {
		Handle string `json:"handle"`
	}
	if err := json.Unmarshal([]byte(out), &metas); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(metas) != 1 || metas[0].Handle != "phone" {
		t.Fatalf("unexpected %+v", metas)
	}
	out, err = run(t, "list", "--file", p)
	if err != nil || !strings.Contains(out, "/^[0-9]{3}-[0-9]{4}$/D") {
		t.Fatalf("table: %v\n%s", err, out)
	}
}

func TestMigrateYAMLCmd(t *testing.T) {
	setupEnv(t)
	dir := t.TempDir()
	in := filepath.Join(dir, "old.yaml")
	os.WriteFile(in, []byte(`fields:
  - handle: zip_code
    type: match-input
    inputMask: /^\d{5}$/
    errorMessage: Five digits
`), 0o644)
	outFile := filepath.Join(dir, "new.yaml")
	if _, err := run(t, "migrate-yaml", "--in", in, "--out", outFile); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	b, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	metas, err := codec.DecodeYAML(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(metas) != 1 || metas[0].Handle != "zipCode" || metas[0].UID == "" || metas[0].Settings.InputMask != `/^\d{5}$/` {
		t.Fatalf("unexpected %+v", metas)
	}
}

func TestConfigCmds(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "config", "use", "nope"); err == nil {
		t.Fatalf("expected unknown profile error")
	}
	if _, err := run(t, "config", "set", "prod", "--api-url", "https://api", "--token", "tok"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := run(t, "config", "use", "prod"); err != nil {
		t.Fatalf("use: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := config.Profile{Name: "prod", APIURL: "https://api", Token: "tok"}
	if diff := cmp.Diff(want, cfg.Current()); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
	out, err := run(t, "config", "get")
	if err != nil || !strings.Contains(out, `"hasToken": true`) {
		t.Fatalf("get: %v\n%s", err, out)
	}
}

func TestIsTrustedModule(t *testing.T) {
	t.Setenv("FIELDCTL_TRUSTED_MODULE_PREFIXES", "")
	if !isTrustedModule(DefaultTrustedModulePrefix+"foo") || isTrustedModule("example.com/foo") {
		t.Fatalf("default prefix handling")
	}
	t.Setenv("FIELDCTL_TRUSTED_MODULE_PREFIXES", "example.com/a/, example.org/b/")
	if !isTrustedModule("example.com/a/foo") || !isTrustedModule("example.org/b/foo") {
		t.Fatalf("comma separated prefixes not handled")
	}
	if isTrustedModule(DefaultTrustedModulePrefix + "x") {
		t.Fatalf("unlisted prefix allowed")
	}
}

func TestDiffCmd(t *testing.T) {
	p := setupEnv(t)
	store, err := server.NewStore(server.Config{RegistryFile: p}, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	srv := httptest.NewServer(server.New(store).Adapter())
	defer srv.Close()

	out, err := run(t, "diff", "--file", p, "--api-url", srv.URL, "--fail-on-change")
	if err != nil || strings.TrimSpace(out) != "no changes" {
		t.Fatalf("diff: %v\n%s", err, out)
	}

	changed := filepath.Join(t.TempDir(), "changed.yaml")
	os.WriteFile(changed, []byte(strings.Replace(testRegistry, "{4}", "{5}", 1)), 0o644)
	out, err = run(t, "diff", "--file", changed, "--api-url", srv.URL, "--fail-on-change")
	if err == nil || !strings.Contains(out, "+++ "+changed) {
		t.Fatalf("diff: %v\n%s", err, out)
	}
}

func TestLoginAndTokenCmds(t *testing.T) {
	setupEnv(t)
	t.Setenv("MATCHINPUT_JWT_SECRET", "s3cret")
	out, err := run(t, "token", "--subject", "ci")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	tok := strings.TrimSpace(out)

	srv := httptest.NewServer(server.New(newEmptyStore(t), server.WithAuth(auth.NewJWT("s3cret", time.Hour))).Adapter())
	defer srv.Close()

	if _, err := run(t, "login", "--non-interactive", "--api-url", srv.URL, "--token", "wrong"); err == nil {
		t.Fatalf("login with a bad token succeeded")
	}
	if _, err := run(t, "login", "--non-interactive", "--api-url", srv.URL+"/", "--token", tok); err != nil {
		t.Fatalf("login: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p := cfg.Current(); p.APIURL != srv.URL || p.Token != tok {
		t.Fatalf("profile = %+v", p)
	}
	if out, err := run(t, "list", "--remote"); err != nil {
		t.Fatalf("remote list with saved token: %v\n%s", err, out)
	}

	t.Setenv("MATCHINPUT_JWT_SECRET", "")
	if _, err := run(t, "token"); err == nil {
		t.Fatalf("token without secret succeeded")
	}
}

func newEmptyStore(t *testing.T) *fieldstore.Store {
	t.Helper()
	s, err := server.NewStore(server.Config{}, nil)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return s
}

func TestCountOf(t *testing.T) {
	if got := countOf(1, "field"); got != "1 field" {
		t.Fatalf("got %q", got)
	}
	if got := countOf(3, "field"); got != "3 fields" {
		t.Fatalf("got %q", got)
	}
}
