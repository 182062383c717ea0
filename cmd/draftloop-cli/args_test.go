package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newTestRoot builds a root command tree identical to main() but with
// PersistentPreRun stubbed out so the API client is never initialised.
func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:          "draftloop",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip client initialisation in tests.
		},
	}
	root.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "")
	root.PersistentFlags().StringVar(&flagFmt, "format", "json", "")

	root.AddCommand(newDerivativeCmd())
	root.AddCommand(newVersionCmd())
	root.AddCommand(newAuditCmd())
	return root
}

// --- derivative create ---

func TestDerivativeCreateArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing title", []string{"derivative", "create", "--platform", "linkedin"}},
		{"extra positional", []string{"derivative", "create", "a", "b", "--platform", "linkedin"}},
		{"missing required platform flag", []string{"derivative", "create", "Launch post"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDerivativeCreateFlagRegistration(t *testing.T) {
	cmd := derivativeCreateCmd()
	for _, name := range []string{"platform", "content", "file", "by"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found on derivative create", name)
		}
	}
}

// --- single-ID subcommands ---

func TestExactArgs1Commands(t *testing.T) {
	argsValidator := cobra.ExactArgs(1)
	for _, sub := range []string{"get", "delete", "update", "regenerate"} {
		t.Run(sub, func(t *testing.T) {
			if err := argsValidator(nil, []string{"some-id"}); err != nil {
				t.Errorf("%s: one arg should be accepted: %v", sub, err)
			}
			if err := argsValidator(nil, []string{}); err == nil {
				t.Errorf("%s: zero args should be rejected", sub)
			}
		})
	}
}

// --- version rollback / compare ---

func TestVersionTwoArgCommands(t *testing.T) {
	argsValidator := cobra.ExactArgs(2)

	cases := []struct {
		args    []string
		wantErr bool
	}{
		{[]string{"derivative-id", "3"}, false},
		{[]string{"only-one"}, true},
		{[]string{"a", "b", "c"}, true},
		{[]string{}, true},
	}
	for _, tc := range cases {
		err := argsValidator(nil, tc.args)
		if tc.wantErr && err == nil {
			t.Errorf("args %v: expected error", tc.args)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("args %v: unexpected error: %v", tc.args, err)
		}
	}
}

func TestVersionRollbackArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing both args", []string{"version", "rollback"}},
		{"missing target version", []string{"version", "rollback", "derivative-id"}},
		{"too many args", []string{"version", "rollback", "a", "b", "c"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := newTestRoot()
			if err := executeArgs(t, root, tc.args...); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// --- version purge flags ---

func TestVersionPurgeKeepDefault(t *testing.T) {
	cmd := versionPurgeCmd()
	f := cmd.Flags().Lookup("keep")
	if f == nil {
		t.Fatal("--keep flag not found on version purge")
	}
	if f.DefValue != "10" {
		t.Errorf("--keep default: got %q, want %q", f.DefValue, "10")
	}
}

// --- derivative list flags ---

func TestDerivativeListFlagDefaults(t *testing.T) {
	cmd := derivativeListCmd()

	cases := []struct {
		flag string
		want string
	}{
		{"platform", ""},
		{"status", ""},
		{"limit", "50"},
		{"offset", "0"},
	}
	for _, tc := range cases {
		f := cmd.Flags().Lookup(tc.flag)
		if f == nil {
			t.Errorf("--%s flag not found", tc.flag)
			continue
		}
		if f.DefValue != tc.want {
			t.Errorf("--%s default: got %q, want %q", tc.flag, f.DefValue, tc.want)
		}
	}
}

// --- audit flags ---

func TestAuditQueryFlagDefaults(t *testing.T) {
	cmd := auditQueryCmd()

	for _, name := range []string{"entity-type", "entity-id", "action", "since", "limit", "offset"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("--%s flag not found on audit query", name)
		}
	}

	if f := cmd.Flags().Lookup("limit"); f != nil && f.DefValue != "50" {
		t.Errorf("--limit default: got %q, want %q", f.DefValue, "50")
	}
}

func TestAuditPurgeRetentionDefault(t *testing.T) {
	cmd := auditPurgeCmd()
	f := cmd.Flags().Lookup("retention-days")
	if f == nil {
		t.Fatal("--retention-days flag not found on audit purge")
	}
	if f.DefValue != "90" {
		t.Errorf("--retention-days default: got %q, want %q", f.DefValue, "90")
	}
}

// --- global format flag ---

func TestFormatFlagDefault(t *testing.T) {
	root := newTestRoot()
	f := root.PersistentFlags().Lookup("format")
	if f == nil {
		t.Fatal("--format flag not found")
	}
	if f.DefValue != "json" {
		t.Errorf("default format: got %q, want %q", f.DefValue, "json")
	}
}
