package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"validgen/internal/gen"
	"validgen/internal/match"
	"validgen/internal/schema"
)

// LoadFile loads and parses a configuration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return f, nil
}

// LoadOptional loads path, or returns the defaults when path does not exist.
func LoadOptional(path string) (*File, error) {
	f, err := LoadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return f, err
}

// Parse parses YAML data into a File. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	var f File

	if len(doc.Content) > 0 {
		root := doc.Content[0]
		if err := checkKeys(root); err != nil {
			return nil, err
		}

		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

func checkKeys(root *yaml.Node) error {
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: config must be a mapping", root.Line)
	}

	var errs []error

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if isKey(key.Value) {
			continue
		}

		msg := fmt.Sprintf("line %d: unknown key %q", key.Line, key.Value)
		if s, ok := match.Suggest(key.Value, Keys); ok {
			msg += fmt.Sprintf("; did you mean %q?", s)
		}

		errs = append(errs, errors.New(msg))
	}

	return errors.Join(errs...)
}

func isKey(k string) bool {
	for _, known := range Keys {
		if k == known {
			return true
		}
	}

	return false
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = CurrentVersion
	}

	if f.RawPrefix == "" {
		f.RawPrefix = schema.DefaultRawPrefix
	}

	if f.Method == "" {
		f.Method = gen.DefaultMethodName
	}

	if f.Receiver == "" {
		f.Receiver = gen.DefaultReceiverName
	}

	if f.Suffix == "" {
		f.Suffix = gen.DefaultSuffix
	}

	if f.DefaultError == "" {
		f.DefaultError = schema.DefaultErrorType
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// WriteFile writes a File to the given path.
func WriteFile(f *File, path string) error {
	data, err := Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
