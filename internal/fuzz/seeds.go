package fuzztests

import (
	"path/filepath"
	"strings"
	"testing"

	"coerce/internal/conformance"
)

const (
	maxSeedBytes = 4 << 10
)

var literalSeeds = []string{
	"",
	" ",
	"0",
	"-0",
	"  42  ",
	"95abc",
	"0x1F",
	"0o17",
	"0b101",
	"1e21",
	".5",
	"5.",
	"+Infinity",
	"-Infinity",
	"infinity",
	"1_000",
	"\u00a0\ufeff12\u3000",
	"123456789012345678901234567890",
}

// caseSeeds returns every argument and expectation written in the
// conformance case files, in file order.
func caseSeeds(tb testing.TB) [][]string {
	tb.Helper()
	files, err := conformance.ListFiles([]string{filepath.Join("..", "conformance", "testdata", "cases")})
	if err != nil {
		return nil
	}
	var out [][]string
	for _, path := range files {
		suite, err := conformance.LoadFile(path)
		if err != nil {
			continue
		}
		for _, c := range suite.Cases {
			group := make([]string, 0, len(c.Args)+1)
			for _, arg := range c.Args {
				group = append(group, clampSeed(arg))
			}
			if c.Expect != "" {
				group = append(group, clampSeed(c.Expect))
			}
			out = append(out, group)
		}
	}
	return out
}

// addStringSeeds adds literal seeds plus the raw text of every str: argument.
func addStringSeeds(f *testing.F) {
	for _, s := range literalSeeds {
		f.Add(s)
	}
	for _, group := range caseSeeds(f) {
		for _, arg := range group {
			if body, ok := strings.CutPrefix(arg, "str:"); ok {
				f.Add(body)
			}
		}
	}
}

// addNotationSeeds adds every notation string found in the case files.
func addNotationSeeds(f *testing.F) {
	f.Add("num:-0")
	f.Add("arr:num:1|arr:|str:x")
	for _, group := range caseSeeds(f) {
		for _, arg := range group {
			f.Add(arg)
		}
	}
}

// addPairSeeds adds the two arguments of every binary case.
func addPairSeeds(f *testing.F) {
	f.Add("null", "undefined")
	f.Add("arr:num:1|num:2", `str:"1,2"`)
	for _, group := range caseSeeds(f) {
		if len(group) >= 2 {
			f.Add(group[0], group[1])
		}
	}
}

func clampSeed(src string) string {
	if len(src) <= maxSeedBytes {
		return src
	}
	return src[:maxSeedBytes]
}
