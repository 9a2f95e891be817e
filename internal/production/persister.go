// Package production provides diagnostic integrations: event publishing,
// trace persistence and trace visualization.
package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Persister saves and loads traces by name.
type Persister interface {
	Save(ctx context.Context, t Trace) error
	Load(ctx context.Context, name string) (Trace, error)
}

// Trace file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NewPersister returns a file persister for format rooted at dir.
func NewPersister(format, dir string) (Persister, error) {
	switch format {
	case FormatJSON:
		return NewJSONPersister(dir)
	case "", FormatYAML:
		return NewYAMLPersister(dir)
	default:
		return nil, fmt.Errorf("unknown trace format %q", format)
	}
}

func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid trace name %q", name)
	}
	return nil
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

// Path returns the file a trace named name is stored in.
func (p *JSONPersister) Path(name string) string {
	return filepath.Join(p.dir, name+".json")
}

func (p *JSONPersister) Save(_ context.Context, t Trace) error {
	if err := checkName(t.Name); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	fn := p.Path(t.Name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *JSONPersister) Load(_ context.Context, name string) (Trace, error) {
	if err := checkName(name); err != nil {
		return Trace{}, err
	}
	fn := p.Path(name)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Trace{}, fmt.Errorf("trace %q: %w", name, os.ErrNotExist)
		}
		return Trace{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var t Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return Trace{}, fmt.Errorf("json unmarshal: %w", err)
	}
	t.Name = name
	if err := t.Validate(); err != nil {
		return Trace{}, err
	}
	return t, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

// Path returns the file a trace named name is stored in.
func (p *YAMLPersister) Path(name string) string {
	return filepath.Join(p.dir, name+".yaml")
}

func (p *YAMLPersister) Save(_ context.Context, t Trace) error {
	if err := checkName(t.Name); err != nil {
		return err
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	fn := p.Path(t.Name)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func (p *YAMLPersister) Load(_ context.Context, name string) (Trace, error) {
	if err := checkName(name); err != nil {
		return Trace{}, err
	}
	fn := p.Path(name)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Trace{}, fmt.Errorf("trace %q: %w", name, os.ErrNotExist)
		}
		return Trace{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Trace{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	t.Name = name
	if err := t.Validate(); err != nil {
		return Trace{}, fmt.Errorf("validation after load: %w", err)
	}
	return t, nil
}
