package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coerce/internal/report"
	"coerce/internal/version"
)

func TestMain(m *testing.M) {
	registerCommands()
	os.Exit(m.Run())
}

// execute runs the CLI against a throwaway coerce.toml so the repository's
// own project file does not leak into the test.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "coerce.toml")
	if err := os.WriteFile(cfg, []byte("[output]\ncolor = \"off\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfg, "--color", "off"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEval(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"looseEquals", "null", "undefined"}, "true\n"},
		{[]string{"toString", "arr:num:1|null|str:x"}, "str:\"1,,x\"\n"},
		{[]string{"toNumber", "str:  0x10 "}, "num:16\n"},
		{[]string{"typeOf", "fn:f"}, "str:\"function\"\n"},
	}
	for _, tt := range tests {
		got, err := execute(t, append([]string{"eval"}, tt.args...)...)
		if err != nil {
			t.Fatalf("eval %v: %v\n%s", tt.args, err, got)
		}
		if got != tt.want {
			t.Errorf("eval %v = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"add", "big:1", "num:2"}, "CO1001 TypeMismatch"},
		{[]string{"nope", "null"}, `unknown op "nope"`},
		{[]string{"toNumber", "null", "null"}, "takes 1 argument(s), got 2"},
		{[]string{"toNumber", "num:abc"}, "invalid value notation"},
	}
	for _, tt := range tests {
		_, err := execute(t, append([]string{"eval"}, tt.args...)...)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("eval %v err = %v, want %q", tt.args, err, tt.want)
		}
	}
}

func TestTable(t *testing.T) {
	out, err := execute(t, "table", "str:", "big:3")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Number()", "TypeMismatch", "bigint"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "--property", "falsy-set,cyclic")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok  2 properties") {
		t.Fatalf("check output:\n%s", out)
	}
}

func TestRunWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	cases := filepath.Join("..", "..", "internal", "conformance", "testdata", "cases")
	out, err := execute(t, "run", "--ui", "off", "--report", path, cases)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "PASS") {
		t.Fatalf("run output:\n%s", out)
	}
	doc, err := report.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Summary.Failed != 0 || doc.FileCount != 4 {
		t.Fatalf("report = %+v", doc.Summary)
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("%v: %q", err, out)
	}
	if info.Version != version.Version {
		t.Fatalf("version = %q", info.Version)
	}
}

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]switchMode{"": switchAuto, "ON": switchOn, " off ": switchOff, "always": switchOn} {
		got, err := parseSwitch("ui", in)
		if err != nil || got != want {
			t.Errorf("parseSwitch(%q) = %v, %v", in, got, err)
		}
	}
	_, err := parseSwitch("ui", "sometimes")
	if err == nil || !strings.Contains(err.Error(), "--ui") {
		t.Errorf("err = %v", err)
	}
}

func TestSwitchDecide(t *testing.T) {
	tests := []struct {
		mode     switchMode
		detected bool
		want     bool
	}{
		{switchAuto, true, true},
		{switchAuto, false, false},
		{switchOn, false, true},
		{switchOff, true, false},
	}
	for _, tt := range tests {
		if got := tt.mode.decide(tt.detected); got != tt.want {
			t.Errorf("%v.decide(%v) = %v", tt.mode, tt.detected, got)
		}
	}
	if useProgressUI(switchOn, true) {
		t.Error("quiet must disable the progress view")
	}
}
