// Package variables expands a scheme definition into the flat set of named
// values that templates consume.
package variables

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jsvensson/base16sh/internal/color"
	"github.com/jsvensson/base16sh/internal/scheme"
)

// Vars maps template variable names to their values. The key set depends on
// which palette slots a scheme defines.
type Vars map[string]string

// Scalar variable names.
const (
	SchemeName           = "scheme-name"
	SchemeAuthor         = "scheme-author"
	SchemeSystem         = "scheme-system"
	SchemeSlug           = "scheme-slug"
	SchemeSlugUnderscore = "scheme-slug-underscored"
	SchemeVariant        = "scheme-variant"
	SchemeIsDark         = "scheme-is-dark-variant"
	SchemeIsLight        = "scheme-is-light-variant"
)

// Derive builds the variables for a scheme. Every palette slot yields
// "{slot}-hex"; slots holding a valid 6-digit color also yield the component,
// integer, 16-bit, decimal and byte-swapped forms. The result depends only on
// def.
func Derive(def scheme.Definition) Vars {
	vars := Vars{
		SchemeName:           def.Name,
		SchemeAuthor:         def.Author,
		SchemeSystem:         def.System,
		SchemeSlug:           Slug(def.Name),
		SchemeSlugUnderscore: strings.ReplaceAll(Slug(def.Name), "-", "_"),
	}

	if def.Variant != "" {
		vars[SchemeVariant] = def.Variant
		vars[SchemeIsDark] = strconv.FormatBool(def.Variant == scheme.VariantDark)
		vars[SchemeIsLight] = strconv.FormatBool(def.Variant == scheme.VariantLight)
	}

	for slot, value := range def.Palette {
		addSlot(vars, slot, value)
	}

	return vars
}

func addSlot(vars Vars, slot, value string) {
	hex := strings.TrimPrefix(value, "#")
	vars[slot+"-hex"] = hex

	c, err := color.ParseHex(hex)
	if err != nil {
		return
	}

	r, g, b := hex[0:2], hex[2:4], hex[4:6]
	vars[slot+"-hex-r"] = r
	vars[slot+"-hex-g"] = g
	vars[slot+"-hex-b"] = b
	vars[slot+"-hex-bgr"] = b + g + r

	for suffix, v := range map[string]uint8{"r": c.R, "g": c.G, "b": c.B} {
		vars[slot+"-rgb-"+suffix] = strconv.Itoa(int(v))
		vars[slot+"-rgb16-"+suffix] = strconv.Itoa(int(v) * 257)
		vars[slot+"-dec-"+suffix] = fmt.Sprintf("%.6f", float64(v)/255.0)
	}
}

// Slug lower-cases name and replaces spaces with hyphens.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// Keys returns the variable names in sorted order.
func (v Vars) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SlotSuffixes lists every per-slot suffix Derive can produce, in the order
// they are documented.
var SlotSuffixes = []string{
	"hex", "hex-r", "hex-g", "hex-b", "hex-bgr",
	"rgb-r", "rgb-g", "rgb-b",
	"rgb16-r", "rgb16-g", "rgb16-b",
	"dec-r", "dec-g", "dec-b",
}

// Names returns every variable name Derive can produce for a fully populated
// palette of the given system, sorted.
func Names(system scheme.System) []string {
	names := []string{
		SchemeName, SchemeAuthor, SchemeSystem, SchemeSlug,
		SchemeSlugUnderscore, SchemeVariant, SchemeIsDark, SchemeIsLight,
	}
	for _, slot := range system.Slots() {
		for _, suffix := range SlotSuffixes {
			names = append(names, slot+"-"+suffix)
		}
	}
	sort.Strings(names)
	return names
}
