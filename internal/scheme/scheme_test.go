package scheme

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const monokai = `system: "base16"
name: "Monokai"
author: "Wimer Hazenberg (http://www.monokai.nl)"
variant: "Dark"
palette:
  base00: "#272822"
  base01: "#383830"
  base0a: "#f4bf75"
  base0F: "#cc6633"
`

func TestParse(t *testing.T) {
	def, err := Parse([]byte(monokai))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.Name != "Monokai" {
		t.Errorf("Name = %q, want Monokai", def.Name)
	}
	if def.System != "base16" {
		t.Errorf("System = %q, want base16", def.System)
	}
	if def.Variant != VariantDark {
		t.Errorf("Variant = %q, want %q", def.Variant, VariantDark)
	}

	want := map[string]string{
		"base00": "#272822",
		"base01": "#383830",
		"base0A": "#f4bf75",
		"base0F": "#cc6633",
	}
	if !reflect.DeepEqual(def.Palette, want) {
		t.Errorf("Palette = %v, want %v", def.Palette, want)
	}
}

func TestParseLegacy(t *testing.T) {
	src := `scheme: "Old School"
author: "Someone"
base00: "1d1f21"
base0d: 81a2be
base01: 000000
`
	def, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "Old School" {
		t.Errorf("Name = %q, want Old School", def.Name)
	}
	want := map[string]string{
		"base00": "#1d1f21",
		"base0D": "#81a2be",
		"base01": "#000000",
	}
	if !reflect.DeepEqual(def.Palette, want) {
		t.Errorf("Palette = %v, want %v", def.Palette, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"not yaml", "name: [unterminated"},
		{"missing name", "author: a\npalette:\n  base00: \"#000000\"\n"},
		{"missing author", "name: a\npalette:\n  base00: \"#000000\"\n"},
		{"missing palette", "name: a\nauthor: b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			if !errors.Is(err, ErrParse) {
				t.Errorf("Parse() error = %v, want ErrParse", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "monokai.yaml")
	if err := os.WriteFile(path, []byte(monokai), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Author == "" {
		t.Error("expected author to be set")
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestNormalizeSlot(t *testing.T) {
	tests := map[string]string{
		"base0a": "base0A",
		"BASE0f": "base0F",
		"base10": "base10",
		"base17": "base17",
		"basexy": "basexy",
		"other":  "other",
	}
	for in, want := range tests {
		if got := NormalizeSlot(in); got != want {
			t.Errorf("NormalizeSlot(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSystemSlots(t *testing.T) {
	s16 := Base16.Slots()
	if len(s16) != 16 || s16[0] != "base00" || s16[15] != "base0F" {
		t.Errorf("base16 slots = %v", s16)
	}
	s24 := Base24.Slots()
	if len(s24) != 24 || s24[16] != "base10" || s24[23] != "base17" {
		t.Errorf("base24 slots = %v", s24)
	}
}

func TestWithDefaults(t *testing.T) {
	def := Definition{
		Name:    "Sparse",
		Author:  "a",
		Palette: map[string]string{"base00": "#111111"},
	}

	full := def.WithDefaults(Base24)
	if len(full.Palette) != 24 {
		t.Fatalf("palette size = %d, want 24", len(full.Palette))
	}
	if full.Palette["base00"] != "#111111" {
		t.Errorf("base00 = %q, want #111111", full.Palette["base00"])
	}
	if full.Palette["base17"] != DefaultColor {
		t.Errorf("base17 = %q, want %q", full.Palette["base17"], DefaultColor)
	}
	if full.System != "base24" {
		t.Errorf("System = %q, want base24", full.System)
	}
	if len(def.Palette) != 1 {
		t.Error("WithDefaults must not modify the receiver")
	}
}

func TestSystemOr(t *testing.T) {
	if got := (Definition{System: "BASE24"}).SystemOr(Base16); got != Base24 {
		t.Errorf("SystemOr = %q, want base24", got)
	}
	if got := (Definition{}).SystemOr(Base24); got != Base24 {
		t.Errorf("SystemOr fallback = %q, want base24", got)
	}
}
