// Package config loads the settings of the bencode tool from YAML files.
//
// A file may extend another one:
//
//	strict.yaml:
//	extends: base.yaml
//	decoder:
//	  strict: true
//
// Files are applied from the root of the chain down, so later files override the
// fields they set and keep everything else. Relative extends paths are resolved
// against the directory of the file that names them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/oy3o/bencode"
	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v3"
)

// ErrCycleRef is returned when configuration files extend each other in a loop.
var ErrCycleRef = errors.New("cyclic reference in configuration extends detected")

// Config is the tool configuration.
type Config struct {
	LogLevel string        `yaml:"log_level" validate:"regexp=^(debug|info|warn|error)$"`
	Decoder  DecoderConfig `yaml:"decoder"`
	Output   OutputConfig  `yaml:"output"`
}

// DecoderConfig mirrors bencode.DecoderOptions. A MaxDepth of -1 turns the
// nesting check off.
type DecoderConfig struct {
	MaxDepth              int   `yaml:"max_depth" validate:"nonzero,min=-1"`
	MaxStringLength       int64 `yaml:"max_string_length" validate:"min=0"`
	Strict                bool  `yaml:"strict"`
	DisallowDuplicateKeys bool  `yaml:"disallow_duplicate_keys"`
	InternKeys            bool  `yaml:"intern_keys"`
}

// OutputConfig controls how decode renders values.
type OutputConfig struct {
	Format  string `yaml:"format" validate:"regexp=^(json|yaml|cbor)$"`
	Compact bool   `yaml:"compact"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Decoder:  DecoderConfig{MaxDepth: bencode.DefaultMaxDepth},
		Output:   OutputConfig{Format: "json"},
	}
}

// Options converts the decoder section to codec options.
func (c DecoderConfig) Options() bencode.DecoderOptions {
	return bencode.DecoderOptions{
		MaxDepth:              c.MaxDepth,
		MaxStringLength:       c.MaxStringLength,
		Strict:                c.Strict,
		DisallowDuplicateKeys: c.DisallowDuplicateKeys,
		InternKeys:            c.InternKeys,
	}
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		var errorMap validator.ErrorMap
		if errors.As(err, &errorMap) {
			return ValidationError{errorMap: errorMap}
		}
		return err
	}
	return nil
}

// ValidationError is returned when a configuration fails to pass validation.
type ValidationError struct {
	errorMap validator.ErrorMap
}

// ErrForField returns the validation error for the given field.
func (e ValidationError) ErrForField(name string) error {
	if errs, ok := e.errorMap[name]; ok {
		return errs
	}
	return nil
}

// Error implements the `error` interface.
func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e.errorMap))
	for f := range e.errorMap {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var w bytes.Buffer
	fmt.Fprintf(&w, "validation failed")
	for _, f := range fields {
		fmt.Fprintf(&w, "\n   %s: %v", f, e.errorMap[f])
	}
	return w.String()
}

type extends struct {
	Extends string `yaml:"extends"`
}

// Load applies filename, and every file it extends, on top of config and validates
// the result.
func Load(filename string, config *Config) error {
	filenames, err := resolveExtends(filename, readExtend)
	if err != nil {
		return err
	}
	return loadFiles(config, filenames)
}

type getExtend func(filename string) (extends string, err error)

// resolveExtends returns the chain of files that filename extends, root first.
func resolveExtends(filename string, extendReader getExtend) ([]string, error) {
	filenames := []string{filename}
	seen := map[string]struct{}{filename: {}}
	for {
		next, err := extendReader(filename)
		if err != nil {
			return nil, err
		} else if next == "" {
			break
		}

		if !filepath.IsAbs(next) {
			next = filepath.Join(filepath.Dir(filename), next)
		}

		if _, ok := seen[next]; ok {
			return nil, ErrCycleRef
		}

		filenames = append([]string{next}, filenames...)
		seen[next] = struct{}{}
		filename = next
	}
	return filenames, nil
}

func readExtend(configFile string) (string, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return "", err
	}

	var cfg extends
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return "", fmt.Errorf("unmarshal %s: %w", configFile, err)
	}
	return cfg.Extends, nil
}

// loadFiles loads a list of files in order, each overriding the fields it sets.
func loadFiles(config *Config, fnames []string) error {
	for _, fname := range fnames {
		data, err := os.ReadFile(fname)
		if err != nil {
			return err
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("unmarshal %s: %w", fname, err)
		}
	}

	// Validate on the merged config at the end.
	return config.Validate()
}
