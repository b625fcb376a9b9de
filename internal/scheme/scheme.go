// Package scheme parses base16 and base24 scheme definition files.
package scheme

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrParse is returned when a scheme file cannot be decoded into a Definition.
var ErrParse = errors.New("invalid scheme definition")

// System identifies the palette size of a scheme.
type System string

const (
	Base16 System = "base16"
	Base24 System = "base24"
)

// Systems lists the supported systems in catalog scan order.
var Systems = []System{Base16, Base24}

// Slots returns the palette slot names of the system in order.
func (s System) Slots() []string {
	n := 16
	if s == Base24 {
		n = 24
	}
	slots := make([]string, n)
	for i := range slots {
		slots[i] = fmt.Sprintf("base%02X", i)
	}
	return slots
}

// Variant tags.
const (
	VariantDark  = "dark"
	VariantLight = "light"
)

// DefaultColor fills palette slots that a definition leaves out.
const DefaultColor = "#000000"

// Definition is a parsed scheme file.
type Definition struct {
	System  string            `yaml:"system,omitempty" json:"system,omitempty"`
	Name    string            `yaml:"name" json:"name"`
	Author  string            `yaml:"author" json:"author"`
	Variant string            `yaml:"variant,omitempty" json:"variant,omitempty"`
	Palette map[string]string `yaml:"palette" json:"palette"`
}

// rawDefinition accepts both the current layout (name/palette) and the legacy
// flat layout (scheme plus top-level baseXX keys).
type rawDefinition struct {
	System  string               `yaml:"system"`
	Name    string               `yaml:"name"`
	Scheme  string               `yaml:"scheme"`
	Author  string               `yaml:"author"`
	Variant string               `yaml:"variant"`
	Palette map[string]string    `yaml:"palette"`
	Rest    map[string]yaml.Node `yaml:",inline"`
}

var slotKey = regexp.MustCompile(`^(?i)base([0-9a-f]{2})$`)

// NormalizeSlot returns the canonical form of a palette key ("base0a" becomes
// "base0A"). Keys that are not slot names are returned unchanged.
func NormalizeSlot(key string) string {
	m := slotKey.FindStringSubmatch(key)
	if m == nil {
		return key
	}
	return "base" + strings.ToUpper(m[1])
}

// Parse decodes a scheme definition from YAML source.
func Parse(src []byte) (Definition, error) {
	var raw rawDefinition
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return Definition{}, fmt.Errorf("%w: %w", ErrParse, err)
	}

	def := Definition{
		System:  raw.System,
		Name:    raw.Name,
		Author:  raw.Author,
		Variant: strings.ToLower(raw.Variant),
		Palette: make(map[string]string),
	}
	if def.Name == "" {
		def.Name = raw.Scheme
	}

	if raw.Palette != nil {
		for k, v := range raw.Palette {
			def.Palette[NormalizeSlot(k)] = v
		}
	} else {
		// Legacy files put the slots at the top level without a leading #.
		for k, node := range raw.Rest {
			if !slotKey.MatchString(k) || node.Kind != yaml.ScalarNode {
				continue
			}
			s := node.Value
			if !strings.HasPrefix(s, "#") {
				s = "#" + s
			}
			def.Palette[NormalizeSlot(k)] = s
		}
	}

	switch {
	case def.Name == "":
		return Definition{}, fmt.Errorf("%w: missing name", ErrParse)
	case def.Author == "":
		return Definition{}, fmt.Errorf("%w: missing author", ErrParse)
	case len(def.Palette) == 0:
		return Definition{}, fmt.Errorf("%w: missing palette", ErrParse)
	}

	return def, nil
}

// Load reads and parses the scheme file at path.
func Load(path string) (Definition, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("reading scheme file: %w", err)
	}
	def, err := Parse(src)
	if err != nil {
		return Definition{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return def, nil
}

// SystemOr returns the declared system, or fallback when the file omits it.
func (d Definition) SystemOr(fallback System) System {
	switch System(strings.ToLower(d.System)) {
	case Base16:
		return Base16
	case Base24:
		return Base24
	}
	return fallback
}

// WithDefaults returns a copy of d whose palette has every slot of system,
// missing ones set to DefaultColor.
func (d Definition) WithDefaults(system System) Definition {
	out := d
	out.Palette = make(map[string]string, len(d.Palette))
	for _, slot := range system.Slots() {
		out.Palette[slot] = DefaultColor
	}
	for k, v := range d.Palette {
		out.Palette[k] = v
	}
	if out.System == "" {
		out.System = string(system)
	}
	return out
}
