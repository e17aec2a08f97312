// Package sounds loads the ambient sound catalog served to clients.
package sounds

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed sounds.yaml
var defaultCatalog []byte

// Sound is one ambient track
type Sound struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	URL      string `yaml:"url" json:"url"`
	Loop     bool   `yaml:"loop" json:"loop"`
}

// Catalog is an immutable, ordered set of sounds
type Catalog struct {
	sounds []Sound
	byID   map[string]Sound
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from disk, falling back to the embedded one when path is empty
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sound catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Sounds []Sound `yaml:"sounds"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sound catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]Sound, len(doc.Sounds))}
	for _, s := range doc.Sounds {
		if s.ID == "" {
			return nil, fmt.Errorf("sound %q has no id", s.Name)
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate sound id %q", s.ID)
		}
		c.byID[s.ID] = s
		c.sounds = append(c.sounds, s)
	}
	return c, nil
}

// All returns every sound in catalog order
func (c *Catalog) All() []Sound {
	out := make([]Sound, len(c.sounds))
	copy(out, c.sounds)
	return out
}

// Has reports whether id is a known sound
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Get looks up a sound by id
func (c *Catalog) Get(id string) (Sound, bool) {
	s, ok := c.byID[id]
	return s, ok
}
