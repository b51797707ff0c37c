// Package project reads and writes project files: a YAML or JSON document
// listing actors with their starting state and block programs. Documents
// are checked against an embedded JSON Schema before they are decoded.
package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema/project.schema.json
var schemaJSON []byte

const schemaURL = "project.schema.json"

// ErrInvalid is returned when a document does not match the schema.
var ErrInvalid = errors.New("project: invalid document")

// File is a decoded project document.
type File struct {
	Name   string      `yaml:"name,omitempty" json:"name,omitempty"`
	Actors []ActorSpec `yaml:"actors" json:"actors"`
}

// ActorSpec is one actor's starting state.
type ActorSpec struct {
	Name    string      `yaml:"name,omitempty" json:"name,omitempty"`
	X       float64     `yaml:"x" json:"x"`
	Y       float64     `yaml:"y" json:"y"`
	Heading float64     `yaml:"heading,omitempty" json:"heading,omitempty"`
	Size    float64     `yaml:"size,omitempty" json:"size,omitempty"`
	Color   string      `yaml:"color,omitempty" json:"color,omitempty"`
	Program []BlockSpec `yaml:"program,omitempty" json:"program,omitempty"`
}

// BlockSpec is one block of a program. Inputs hold numbers or text.
type BlockSpec struct {
	Block    string         `yaml:"block" json:"block"`
	Inputs   map[string]any `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Children []BlockSpec    `yaml:"children,omitempty" json:"children,omitempty"`
}

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Parse validates and decodes a YAML or JSON document.
func Parse(data []byte) (*File, error) {
	// Normalize through JSON so YAML and JSON validate identically
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("project: parse: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("project: parse: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("project: parse: %w", err)
	}

	schema, err := compiled()
	if err != nil {
		return nil, fmt.Errorf("project: compile schema: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("project: decode: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses a project file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// YAML encodes the file as YAML.
func (f *File) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("project: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("project: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// JSON encodes the file as compact JSON.
func (f *File) JSON() ([]byte, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("project: encode: %w", err)
	}
	return data, nil
}

// Save writes the file as YAML.
func (f *File) Save(path string) error {
	data, err := f.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("project: write %s: %w", path, err)
	}
	return nil
}
