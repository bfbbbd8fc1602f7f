// Package params implements the immutable parameter registry backing every
// calculation: emission factors, densities, default yields and logistics
// capacities.
//
// The registry is constructed once at process start (from the built-in
// catalog or a YAML parameter file) and passed by reference into the
// geometry, transport and scenario components. It is never mutated after
// construction, so it is safe to share across concurrent batch rows.
package params

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for registry construction and lookups.
// A missing parameter is fatal at startup: the application must abort rather
// than substitute a hidden default and silently produce wrong numbers.
var (
	ErrMissingParameter   = constError("missing parameter")
	ErrWrongType          = constError("parameter has wrong type")
	ErrDuplicateKey       = constError("duplicate parameter key")
	ErrSchemaIncompatible = constError("incompatible parameter file schema")
)

// SchemaVersion is the parameter file schema supported by this build.
// Files with a different major version are rejected at load time.
const SchemaVersion = "1.0.0"

// Param is one catalog entry: a named constant with its unit and provenance.
type Param struct {
	Key         string `yaml:"key"`
	Value       any    `yaml:"value"`
	Unit        string `yaml:"unit,omitempty"`
	Section     string `yaml:"section,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Catalog is the serialized form of a parameter file.
type Catalog struct {
	SchemaVersion string  `yaml:"schema_version"`
	Params        []Param `yaml:"params"`
}

// Registry is an immutable view over a Catalog with typed lookups.
type Registry struct {
	entries map[string]Param
	keys    []string
}

// NewRegistry builds a Registry from a catalog, rejecting duplicate keys and
// incompatible schema versions.
func NewRegistry(cat Catalog) (*Registry, error) {
	if err := checkSchema(cat.SchemaVersion); err != nil {
		return nil, err
	}

	entries := make(map[string]Param, len(cat.Params))
	keys := make([]string, 0, len(cat.Params))
	for _, p := range cat.Params {
		if _, exists := entries[p.Key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, p.Key)
		}
		entries[p.Key] = p
		keys = append(keys, p.Key)
	}
	sort.Strings(keys)

	return &Registry{entries: entries, keys: keys}, nil
}

// Load reads a YAML parameter file and builds a Registry from it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter file: %w", err)
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse parameter file %s: %w", path, err)
	}

	reg, err := NewRegistry(cat)
	if err != nil {
		return nil, fmt.Errorf("parameter file %s: %w", path, err)
	}
	return reg, nil
}

// checkSchema verifies the file's schema version against SchemaVersion.
// Minor/patch drift is tolerated; a major mismatch is not.
func checkSchema(version string) error {
	if version == "" {
		return fmt.Errorf("%w: schema_version missing", ErrSchemaIncompatible)
	}

	fileVer, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: bad schema_version %q: %v", ErrSchemaIncompatible, version, err)
	}
	supported := semver.MustParse(SchemaVersion)
	if fileVer.Major() != supported.Major() {
		return fmt.Errorf("%w: file schema %s, supported %s", ErrSchemaIncompatible, version, SchemaVersion)
	}
	return nil
}

// Keys returns all parameter keys in sorted order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Lookup returns the full catalog entry for key.
func (r *Registry) Lookup(key string) (Param, error) {
	p, ok := r.entries[key]
	if !ok {
		return Param{}, fmt.Errorf("%w: %q", ErrMissingParameter, key)
	}
	return p, nil
}

// Float returns a numeric parameter. Integer values stored in YAML are
// widened to float64.
func (r *Registry) Float(key string) (float64, error) {
	p, err := r.Lookup(key)
	if err != nil {
		return 0, err
	}
	switch v := p.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return 0, fmt.Errorf("%w: %q is not numeric (%q)", ErrWrongType, key, v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %q is %T, want number", ErrWrongType, key, p.Value)
	}
}

// Int returns an integer parameter. Float values are accepted only when they
// carry no fractional part.
func (r *Registry) Int(key string) (int, error) {
	f, err := r.Float(key)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if float64(n) != f {
		return 0, fmt.Errorf("%w: %q is not an integer (%v)", ErrWrongType, key, f)
	}
	return n, nil
}

// Bool returns a boolean parameter.
func (r *Registry) Bool(key string) (bool, error) {
	p, err := r.Lookup(key)
	if err != nil {
		return false, err
	}
	switch v := p.Value.(type) {
	case bool:
		return v, nil
	case string:
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return false, fmt.Errorf("%w: %q is not boolean (%q)", ErrWrongType, key, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %q is %T, want bool", ErrWrongType, key, p.Value)
	}
}

// String returns a string parameter.
func (r *Registry) String(key string) (string, error) {
	p, err := r.Lookup(key)
	if err != nil {
		return "", err
	}
	s, ok := p.Value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %q is %T, want string", ErrWrongType, key, p.Value)
	}
	return s, nil
}

// MustFloat is Float for keys guaranteed present by the default catalog.
// It panics on failure and exists for test fixtures, not production paths.
func (r *Registry) MustFloat(key string) float64 {
	f, err := r.Float(key)
	if err != nil {
		panic(err)
	}
	return f
}
