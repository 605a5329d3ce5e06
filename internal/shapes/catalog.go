package shapes

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Detail is the copy shown in a shape's detail block.
type Detail struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Tips    []string `yaml:"tips"`
}

// Style is the copy shown in a hairstyle block.
type Style struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Catalog holds display text for every detail and hairstyle block.
type Catalog struct {
	Shapes     map[Shape]Detail    `yaml:"shapes"`
	Hairstyles map[Hairstyle]Style `yaml:"hairstyles"`
}

// DefaultCatalog parses the embedded catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a catalog file. An empty path selects the embedded one.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML and checks every shape and hairstyle is covered.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	for _, shape := range All {
		if _, ok := c.Shapes[shape]; !ok {
			return nil, fmt.Errorf("catalog missing shape %q", shape)
		}
	}
	for _, style := range Hairstyles {
		if _, ok := c.Hairstyles[style]; !ok {
			return nil, fmt.Errorf("catalog missing hairstyle %q", style)
		}
	}
	return &c, nil
}

// StyleName returns the display name of a hairstyle, falling back to its identifier.
func (c *Catalog) StyleName(style Hairstyle) string {
	if c != nil {
		if s, ok := c.Hairstyles[style]; ok && s.Name != "" {
			return s.Name
		}
	}
	return string(style)
}
