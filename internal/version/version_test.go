package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestCurrentHonoursOverrides(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3-rc.1"
	GitCommit = "1234567890abcdef1234"
	BuildDate = "2026-01-15T10:30:00Z"

	info := Current()
	if info.Version != Version || info.GitCommit != GitCommit || info.BuildDate != BuildDate {
		t.Fatalf("info = %+v", info)
	}
}

func TestPretty(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	tests := []struct {
		info Info
		want []string
	}{
		{Info{Version: "0.1.0-dev"}, []string{"coerce 0.1.0-dev\n"}},
		{Info{Version: "2.0.0", GitCommit: "1234567890abcdef", BuildDate: "2026-01-15"}, []string{"coerce 2.0.0\n", "commit: 1234567890ab\n", "built:  2026-01-15\n"}},
		{Info{Version: "dev"}, []string{"coerce dev\n"}},
	}
	for _, tt := range tests {
		got := tt.info.Pretty()
		for _, want := range tt.want {
			if !strings.Contains(got, want) {
				t.Errorf("Pretty(%+v) = %q, missing %q", tt.info, got, want)
			}
		}
	}
}
