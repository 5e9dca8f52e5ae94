// Package preset resolves named starting projects: a built-in default plus
// any listed in presets.yaml inside the preset directory.
package preset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFile is the catalog file name inside the preset directory.
const ManifestFile = "presets.yaml"

// DefaultID names the built-in preset.
const DefaultID = "default"

//go:embed default.csv
var defaultCSV []byte

// ErrNotFound is returned when no preset matches a selector.
var ErrNotFound = errors.New("preset not found")

// Preset is one catalog entry. Path is empty for the built-in preset.
type Preset struct {
	Index       int    `yaml:"-"`
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	File        string `yaml:"file"`
	Path        string `yaml:"-"`
}

type manifest struct {
	Presets []Preset `yaml:"presets"`
}

// Catalog lists presets from a directory.
type Catalog struct {
	dir string
}

// NewCatalog creates a catalog over dir. A missing directory or manifest
// leaves only the built-in preset.
func NewCatalog(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// List returns the built-in preset followed by the manifest entries, numbered
// from 1 in that order.
func (c *Catalog) List() ([]Preset, error) {
	out := []Preset{{
		Index:       1,
		ID:          DefaultID,
		Name:        "Sample site build",
		Description: "Built-in example with sections and unit-tracked scopes",
	}}

	if c.dir == "" {
		return out, nil
	}
	data, err := os.ReadFile(filepath.Join(c.dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preset manifest: %w", err)
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	for _, p := range m.Presets {
		if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.File) == "" {
			continue
		}
		if strings.EqualFold(p.ID, DefaultID) {
			continue
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		p.Path = filepath.Join(c.dir, p.File)
		p.Index = len(out) + 1
		out = append(out, p)
	}
	return out, nil
}

// Resolve finds a preset by ID, name, file stem or list number
// (case-insensitive).
func (c *Catalog) Resolve(selector string) (*Preset, error) {
	input := strings.TrimSpace(selector)
	if input == "" {
		return nil, fmt.Errorf("%w: empty selector", ErrNotFound)
	}
	presets, err := c.List()
	if err != nil {
		return nil, err
	}
	for i := range presets {
		p := &presets[i]
		stem := strings.TrimSuffix(p.File, filepath.Ext(p.File))
		if strings.EqualFold(p.ID, input) || strings.EqualFold(p.Name, input) ||
			(stem != "" && strings.EqualFold(stem, input)) {
			return p, nil
		}
	}
	if n, err := strconv.Atoi(input); err == nil {
		for i := range presets {
			if presets[i].Index == n {
				return &presets[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, selector)
}

// Read returns the preset's file content.
func (c *Catalog) Read(p *Preset) ([]byte, error) {
	if p.Path == "" {
		return append([]byte(nil), defaultCSV...), nil
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("reading preset %s: %w", p.ID, err)
	}
	return data, nil
}

// Default returns the built-in preset content.
func Default() []byte {
	return append([]byte(nil), defaultCSV...)
}
