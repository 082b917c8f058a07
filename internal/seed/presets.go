package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yml
var defaultPresetsYAML []byte

// CatalogItem is a hand-written listing included verbatim in a preset.
type CatalogItem struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Price       string   `yaml:"price"`
	Images      []string `yaml:"images"`
}

// Preset describes how much data a seeding run creates.
type Preset struct {
	Users          int           `yaml:"users"`
	RandomProducts int           `yaml:"random_products"`
	Carts          int           `yaml:"carts"`
	Purchases      int           `yaml:"purchases"`
	Catalog        []CatalogItem `yaml:"catalog"`
	// IncludeCatalog copies the catalog of another preset by name.
	IncludeCatalog string `yaml:"include_catalog"`
}

type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

// LoadPresets decodes a presets document and resolves include_catalog references.
func LoadPresets(r io.Reader) (map[string]Preset, error) {
	var file presetFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode presets: %w", err)
	}

	for name, p := range file.Presets {
		if p.Users < 1 {
			return nil, fmt.Errorf("preset %q: users must be at least 1", name)
		}
		if p.IncludeCatalog == "" {
			continue
		}
		src, ok := file.Presets[p.IncludeCatalog]
		if !ok {
			return nil, fmt.Errorf("preset %q: unknown include_catalog %q", name, p.IncludeCatalog)
		}
		p.Catalog = append(append([]CatalogItem{}, src.Catalog...), p.Catalog...)
		file.Presets[name] = p
	}
	return file.Presets, nil
}

// DefaultPresets returns the presets bundled with the binary.
func DefaultPresets() (map[string]Preset, error) {
	return LoadPresets(bytes.NewReader(defaultPresetsYAML))
}

// PresetNames lists preset names in a stable order.
func PresetNames(presets map[string]Preset) []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
