package conformance

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"coerce/internal/heap"
	"coerce/internal/value"
)

func isCaseFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// ListFiles expands paths into a sorted, de-duplicated list of case files.
// Directories are walked recursively; files are taken as given.
func ListFiles(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(root)
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isCaseFile(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// LoadFile reads and validates one case file. The format follows the
// extension: .toml, or .yaml/.yml.
func LoadFile(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	suite, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return suite, nil
}

// Decode parses case-file content in the format named by ext.
func Decode(data []byte, ext string) (*Suite, error) {
	var suite Suite
	switch strings.ToLower(ext) {
	case ".toml":
		meta, err := toml.Decode(string(data), &suite)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown key %s", undecoded[0])
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&suite); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported case file extension %q", ext)
	}
	if err := suite.Validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

// Build allocates the suite's objects in a fresh heap. All objects exist
// before any elements are parsed, so arrays may reference each other and
// themselves.
func Build(s *Suite) (*heap.Heap, *Notation, error) {
	h := heap.New()
	named := make(map[string]value.Value, len(s.Objects))
	for _, obj := range s.Objects {
		kind, err := value.ParseObjectKind(obj.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("object %q: %w", obj.Name, err)
		}
		var v value.Value
		if kind == value.ObjFunction {
			v, err = h.NewFunction(obj.Name)
		} else {
			v, err = h.Alloc(kind)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("object %q: %w", obj.Name, err)
		}
		named[obj.Name] = v
	}

	n := &Notation{Heap: h, Objects: named}
	for _, obj := range s.Objects {
		if len(obj.Elements) == 0 {
			continue
		}
		elems, err := n.ParseAll(obj.Elements)
		if err != nil {
			return nil, nil, fmt.Errorf("object %q: %w", obj.Name, err)
		}
		r, _ := named[obj.Name].AsRef()
		if err := h.SetElements(r.Handle, elems...); err != nil {
			return nil, nil, fmt.Errorf("object %q: %w", obj.Name, err)
		}
	}
	return h, n, nil
}

// ObjectNames maps handles back to the object names known to n.
func ObjectNames(n *Notation) map[value.Handle]string {
	names := make(map[value.Handle]string, len(n.Objects))
	for name, v := range n.Objects {
		if r, ok := v.AsRef(); ok {
			names[r.Handle] = name
		}
	}
	return names
}
