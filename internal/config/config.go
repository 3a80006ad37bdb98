package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/yololtest/internal/harness"
)

// FileNames are the project config files looked up in the test directory,
// in order of preference.
var FileNames = []string{"yololtest.yaml", "yololtest.yml", "yololtest.toml"}

// Layer is a partial set of options. Nil fields leave the lower layer alone.
type Layer struct {
	MaxLines        *int   `yaml:"max_lines" toml:"max_lines"`
	MaxStringLength *int   `yaml:"max_string_length" toml:"max_string_length"`
	MaxTicks        *int64 `yaml:"max_ticks" toml:"max_ticks"`
}

// Error reports a config file that could not be read or is invalid.
type Error struct {
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is a config *Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Find returns the path of the first project config file in dir, or "" if
// there is none.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", &Error{Path: path, Message: "cannot stat config file", Err: err}
		}
		if !info.IsDir() {
			return path, nil
		}
	}
	return "", nil
}

// LoadFile parses a config file. The format is chosen by extension.
// Unknown keys are rejected so that typos do not silently fall back to the
// defaults.
func LoadFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layer{}, &Error{Path: path, Message: "cannot read config file", Err: err}
	}

	var layer Layer
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&layer); err != nil && !errors.Is(err, io.EOF) {
			return Layer{}, &Error{Path: path, Message: "parse error", Err: err}
		}
	case ".toml":
		md, err := toml.Decode(string(data), &layer)
		if err != nil {
			return Layer{}, &Error{Path: path, Message: "parse error", Err: err}
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Layer{}, &Error{Path: path, Message: fmt.Sprintf("unknown keys: %s", strings.Join(keys, ", "))}
		}
	default:
		return Layer{}, &Error{Path: path, Message: fmt.Sprintf("unsupported config format %q", ext)}
	}
	return layer, nil
}

// Apply returns opts with every field set in l replaced.
func (l Layer) Apply(opts harness.Options) harness.Options {
	if l.MaxLines != nil {
		opts.MaxLines = *l.MaxLines
	}
	if l.MaxStringLength != nil {
		opts.MaxStringLength = *l.MaxStringLength
	}
	if l.MaxTicks != nil {
		opts.MaxTicks = *l.MaxTicks
	}
	return opts
}

// Resolved is the outcome of Resolve.
type Resolved struct {
	Options harness.Options
	// Source is the config file that was applied, or "" when none was.
	Source string
}

// Resolve layers the defaults, a config file and flags, then validates the
// result. When explicit is non-empty that file must exist; otherwise the
// first of FileNames in dir is used if present.
func Resolve(dir, explicit string, flags Layer) (Resolved, error) {
	path := explicit
	if path == "" {
		found, err := Find(dir)
		if err != nil {
			return Resolved{}, err
		}
		path = found
	}

	opts := harness.DefaultOptions()
	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return Resolved{}, err
		}
		opts = file.Apply(opts)
	}
	opts = flags.Apply(opts)

	if err := Validate(opts); err != nil {
		return Resolved{}, &Error{Path: path, Message: "invalid configuration", Err: err}
	}
	return Resolved{Options: opts, Source: path}, nil
}
