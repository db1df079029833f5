package cli

import (
	"bytes"
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()

	if cmd == nil {
		t.Fatal("expected root command, got nil")
	}

	if cmd.Name() != "multikube" {
		t.Errorf("expected command name 'multikube', got %q", cmd.Name())
	}

	// Every positional argument must reach kubectl, so the root command
	// registers no subcommands.
	if got := len(cmd.Commands()); got != 0 {
		t.Errorf("expected no subcommands, got %d", got)
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCmd()

	expectedFlags := []string{
		"config",
		"init",
		"store-clusters-contexts",
		"set-clusters-contexts",
		"renew-cache",
		"output",
		"verbose",
		"no-color",
	}

	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag %q to be defined", flagName)
		}
	}
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := newRootCmd()

	tests := []struct {
		flag     string
		expected string
	}{
		{flag: "config", expected: ""},
		{flag: "init", expected: "false"},
		{flag: "store-clusters-contexts", expected: ""},
		{flag: "set-clusters-contexts", expected: ""},
		{flag: "renew-cache", expected: "false"},
		{flag: "output", expected: "table"},
		{flag: "verbose", expected: "false"},
		{flag: "no-color", expected: "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			flag := cmd.Flags().Lookup(tt.flag)
			if flag == nil {
				t.Fatalf("flag %q not found", tt.flag)
			}
			if flag.DefValue != tt.expected {
				t.Errorf("expected default value %q, got %q", tt.expected, flag.DefValue)
			}
		})
	}
}

func TestRootCommandShortFlags(t *testing.T) {
	cmd := newRootCmd()

	shortFlags := map[string]string{
		"o": "output",
		"v": "verbose",
	}

	for short, long := range shortFlags {
		shortFlag := cmd.Flags().ShorthandLookup(short)
		if shortFlag == nil {
			t.Errorf("expected short flag -%s for %s", short, long)
			continue
		}
		if shortFlag.Name != long {
			t.Errorf("expected short flag -%s to map to %s, got %s", short, long, shortFlag.Name)
		}
	}
}

func TestRootCommandSilenceFlags(t *testing.T) {
	cmd := newRootCmd()

	if !cmd.SilenceUsage {
		t.Error("expected SilenceUsage to be true")
	}
	if !cmd.SilenceErrors {
		t.Error("expected SilenceErrors to be true")
	}
}

// Flags placed after the first positional argument belong to kubectl and
// must survive parsing untouched.
func TestRootCommandStopsParsingAtFirstPositional(t *testing.T) {
	cmd := newRootCmd()

	if err := cmd.ParseFlags([]string{"--renew-cache", "get", "pods", "-o", "wide"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	renew, err := cmd.Flags().GetBool("renew-cache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !renew {
		t.Error("expected renew-cache to be set")
	}

	// kubectl's -o wide must not be mistaken for multikube's --output
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != "table" {
		t.Errorf("expected output to stay 'table', got %q", format)
	}

	want := []string{"get", "pods", "-o", "wide"}
	if got := cmd.Flags().Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected passthrough args %v, got %v", want, got)
	}
}

func TestRootCommandFlagsBeforeCommand(t *testing.T) {
	cmd := newRootCmd()

	if err := cmd.ParseFlags([]string{"-o", "json", "logs", "-f", "pod"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	format, err := cmd.Flags().GetString("output")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if format != "json" {
		t.Errorf("expected output 'json', got %q", format)
	}

	want := []string{"logs", "-f", "pod"}
	if got := cmd.Flags().Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected passthrough args %v, got %v", want, got)
	}
}

func TestRootCommandHelp(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--help"})

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	help := buf.String()
	expectedStrings := []string{
		"multikube",
		"kubectl",
		"--init",
		"--store-clusters-contexts",
		"--set-clusters-contexts",
		"--renew-cache",
	}

	for _, want := range expectedStrings {
		if !strings.Contains(help, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--version"})

	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "multikube") {
		t.Errorf("expected version output to name multikube, got %q", out)
	}
	if !strings.Contains(out, "Version:") {
		t.Errorf("expected version output to contain 'Version:', got %q", out)
	}
}

func TestSetupLogging(t *testing.T) {
	old := slog.Default()
	defer slog.SetDefault(old)

	ctx := context.Background()

	setupLogging(false, false)
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug logging to be disabled without verbose")
	}
	if !slog.Default().Enabled(ctx, slog.LevelInfo) {
		t.Error("expected info logging to be enabled")
	}

	setupLogging(true, false)
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		t.Error("expected debug logging to be enabled with verbose")
	}
}
