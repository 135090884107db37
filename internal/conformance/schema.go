package conformance

import (
	"fmt"
	"strings"

	"coerce/internal/coerce"
	"coerce/internal/value"
)

// Suite is one case file.
type Suite struct {
	Name    string       `toml:"name" yaml:"name"`
	Objects []ObjectSpec `toml:"objects" yaml:"objects"`
	Cases   []Case       `toml:"cases" yaml:"cases"`
}

// ObjectSpec declares a named object. Elements may reference any object of
// the same suite, the object itself included.
type ObjectSpec struct {
	Name     string   `toml:"name" yaml:"name"`
	Kind     string   `toml:"kind" yaml:"kind"`
	Elements []string `toml:"elements" yaml:"elements"`
}

// Case is one operation with its expected outcome: a value in notation or
// an error code name.
type Case struct {
	Name   string   `toml:"name" yaml:"name"`
	Op     string   `toml:"op" yaml:"op"`
	Args   []string `toml:"args" yaml:"args"`
	Expect string   `toml:"expect" yaml:"expect"`
	Error  string   `toml:"error" yaml:"error"`
	Skip   string   `toml:"skip" yaml:"skip"`
}

// Label names the case for reports.
func (c *Case) Label(index int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("#%d %s(%s)", index+1, c.Op, strings.Join(c.Args, ", "))
}

// Validate checks the suite structure without evaluating anything.
func (s *Suite) Validate() error {
	seen := make(map[string]struct{}, len(s.Objects))
	for i, obj := range s.Objects {
		if obj.Name == "" {
			return fmt.Errorf("objects[%d]: missing name", i)
		}
		if _, dup := seen[obj.Name]; dup {
			return fmt.Errorf("objects[%d]: duplicate name %q", i, obj.Name)
		}
		seen[obj.Name] = struct{}{}
		kind, err := value.ParseObjectKind(obj.Kind)
		if err != nil {
			return fmt.Errorf("objects[%d] %q: %w", i, obj.Name, err)
		}
		if kind != value.ObjArray && len(obj.Elements) > 0 {
			return fmt.Errorf("objects[%d] %q: only arrays have elements", i, obj.Name)
		}
	}
	for i := range s.Cases {
		c := &s.Cases[i]
		spec, ok := LookupOp(c.Op)
		if !ok {
			return fmt.Errorf("cases[%d] %q: unknown op %q", i, c.Label(i), c.Op)
		}
		if len(c.Args) != spec.Arity {
			return fmt.Errorf("cases[%d] %q: %s takes %d argument(s), got %d", i, c.Label(i), c.Op, spec.Arity, len(c.Args))
		}
		if c.Skip != "" {
			continue
		}
		switch {
		case c.Expect == "" && c.Error == "":
			return fmt.Errorf("cases[%d] %q: needs expect or error", i, c.Label(i))
		case c.Expect != "" && c.Error != "":
			return fmt.Errorf("cases[%d] %q: expect and error are exclusive", i, c.Label(i))
		}
		if c.Error != "" {
			if _, err := coerce.ParseErrorCode(c.Error); err != nil {
				return fmt.Errorf("cases[%d] %q: %w", i, c.Label(i), err)
			}
		}
	}
	return nil
}
