package variables

import (
	"reflect"
	"testing"

	"github.com/jsvensson/base16sh/internal/scheme"
)

func TestDeriveSlot(t *testing.T) {
	vars := Derive(scheme.Definition{
		Name:    "Monokai",
		Author:  "Wimer Hazenberg",
		Palette: map[string]string{"base08": "#f92672"},
	})

	want := map[string]string{
		"base08-hex":     "f92672",
		"base08-hex-r":   "f9",
		"base08-hex-g":   "26",
		"base08-hex-b":   "72",
		"base08-hex-bgr": "7226f9",
		"base08-rgb-r":   "249",
		"base08-rgb-g":   "38",
		"base08-rgb-b":   "114",
		"base08-rgb16-r": "63993",
		"base08-rgb16-g": "9766",
		"base08-rgb16-b": "29298",
		"base08-dec-r":   "0.976471",
		"base08-dec-g":   "0.149020",
		"base08-dec-b":   "0.447059",
	}
	for k, v := range want {
		if got := vars[k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestDeriveExtremes(t *testing.T) {
	vars := Derive(scheme.Definition{
		Palette: map[string]string{"base00": "#000000", "base07": "#ffffff"},
	})

	tests := map[string]string{
		"base00-rgb16-r": "0",
		"base00-dec-g":   "0.000000",
		"base07-rgb16-r": "65535",
		"base07-dec-b":   "1.000000",
		"base07-hex-bgr": "ffffff",
	}
	for k, v := range tests {
		if got := vars[k]; got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestDeriveMalformed(t *testing.T) {
	vars := Derive(scheme.Definition{
		Palette: map[string]string{"base08": "#f92", "base09": "not-a-color"},
	})

	if got := vars["base08-hex"]; got != "f92" {
		t.Errorf("base08-hex = %q, want f92", got)
	}
	if got := vars["base09-hex"]; got != "not-a-color" {
		t.Errorf("base09-hex = %q, want not-a-color", got)
	}
	for _, suffix := range SlotSuffixes[1:] {
		for _, slot := range []string{"base08", "base09"} {
			if _, ok := vars[slot+"-"+suffix]; ok {
				t.Errorf("%s-%s should be absent for a malformed color", slot, suffix)
			}
		}
	}
}

func TestDeriveScalars(t *testing.T) {
	vars := Derive(scheme.Definition{
		System:  "base24",
		Name:    "Tomorrow Night-Eighties",
		Author:  "Chris Kempson",
		Variant: "dark",
	})

	want := Vars{
		SchemeName:           "Tomorrow Night-Eighties",
		SchemeAuthor:         "Chris Kempson",
		SchemeSystem:         "base24",
		SchemeSlug:           "tomorrow-night-eighties",
		SchemeSlugUnderscore: "tomorrow_night_eighties",
		SchemeVariant:        "dark",
		SchemeIsDark:         "true",
		SchemeIsLight:        "false",
	}
	if !reflect.DeepEqual(vars, want) {
		t.Errorf("Derive() = %v, want %v", vars, want)
	}
}

func TestDeriveNoVariant(t *testing.T) {
	vars := Derive(scheme.Definition{Name: "Plain"})
	for _, k := range []string{SchemeVariant, SchemeIsDark, SchemeIsLight} {
		if _, ok := vars[k]; ok {
			t.Errorf("%s should be absent without a variant", k)
		}
	}
}

func TestDeriveDeterministic(t *testing.T) {
	def := scheme.Definition{
		Name:   "Det",
		Author: "a",
		Palette: map[string]string{
			"base00": "#272822", "base01": "#383830", "base08": "#f92672",
			"base0A": "#f4bf75", "base0F": "#cc6633", "base10": "#bad",
		},
	}
	first := Derive(def)
	for i := 0; i < 20; i++ {
		if got := Derive(def); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestKeys(t *testing.T) {
	vars := Vars{"b": "1", "a": "2", "c": "3"}
	if got := vars.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Monokai":            "monokai",
		"Solarized Dark":     "solarized-dark",
		"Gruvbox dark, hard": "gruvbox-dark,-hard",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNames(t *testing.T) {
	def := scheme.Definition{Name: "Full", Author: "a", Variant: "dark", System: "base24"}
	def = def.WithDefaults(scheme.Base24)

	want := Derive(def).Keys()
	if got := Names(scheme.Base24); !reflect.DeepEqual(got, want) {
		t.Errorf("Names(base24) has %d names, Derive produced %d", len(got), len(want))
	}
	if got := len(Names(scheme.Base16)); got != 8+16*len(SlotSuffixes) {
		t.Errorf("len(Names(base16)) = %d", got)
	}
}
