package lsp

import (
	"strings"
	"testing"

	"github.com/jsvensson/base16sh/internal/variables"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func hoverText(t *testing.T, h *protocol.Hover) string {
	t.Helper()
	mc, ok := h.Contents.(protocol.MarkupContent)
	if !ok {
		t.Fatalf("expected MarkupContent, got %T", h.Contents)
	}
	if mc.Kind != protocol.MarkupKindMarkdown {
		t.Errorf("expected markdown kind, got %q", mc.Kind)
	}
	return mc.Value
}

func TestHover_PaletteVariableWithPreview(t *testing.T) {
	content := "fg = #{{base08-hex}}"
	preview := &Preview{Name: "Monokai", Vars: variables.Vars{"base08-hex": "f92672"}}
	result := Analyze(content, preview.Vars)

	h := hover(result, protocol.Position{Line: 0, Character: 10}, preview)
	if h == nil {
		t.Fatal("expected non-nil hover")
	}

	text := hoverText(t, h)
	for _, want := range []string{"**base08-hex**", "base08 hex value without #", "Monokai: `f92672`", "rgb(249, 38, 114)"} {
		if !strings.Contains(text, want) {
			t.Errorf("hover should contain %q, got:\n%s", want, text)
		}
	}

	wantRange := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 8},
		End:   protocol.Position{Line: 0, Character: 18},
	}
	if h.Range == nil || *h.Range != wantRange {
		t.Errorf("range = %v, want %v", h.Range, wantRange)
	}
}

func TestHover_WithoutPreview(t *testing.T) {
	content := "{{scheme-name}}"
	h := hover(Analyze(content, nil), protocol.Position{Line: 0, Character: 3}, nil)
	if h == nil {
		t.Fatal("expected non-nil hover")
	}

	text := hoverText(t, h)
	if !strings.Contains(text, "Scheme display name") {
		t.Errorf("hover should describe the variable, got:\n%s", text)
	}
	if strings.Contains(text, "`") {
		t.Errorf("hover without preview should show no value, got:\n%s", text)
	}
}

func TestHover_Section(t *testing.T) {
	content := "{{#scheme-is-dark-variant}}dark{{/scheme-is-dark-variant}}"
	result := Analyze(content, nil)

	if h := hover(result, protocol.Position{Line: 0, Character: 5}, nil); h == nil {
		t.Error("expected hover on section name")
	}
	// Closing tags repeat the section name and get no hover of their own.
	if h := hover(result, protocol.Position{Line: 0, Character: 36}, nil); h != nil {
		t.Error("expected nil hover on closing tag")
	}
}

func TestHover_NoResult(t *testing.T) {
	tests := []struct {
		name    string
		content string
		pos     protocol.Position
	}{
		{"unknown variable", "{{nope}}", protocol.Position{Line: 0, Character: 3}},
		{"on delimiters", "{{scheme-name}}", protocol.Position{Line: 0, Character: 0}},
		{"plain text", "hello {{scheme-name}}", protocol.Position{Line: 0, Character: 2}},
		{"partial", "{{> header}}", protocol.Position{Line: 0, Character: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h := hover(Analyze(tt.content, nil), tt.pos, nil); h != nil {
				t.Errorf("expected nil hover, got %v", h)
			}
		})
	}
}

func TestHover_NilResult(t *testing.T) {
	if h := hover(nil, protocol.Position{}, nil); h != nil {
		t.Errorf("expected nil hover for nil result, got %v", h)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"scheme-slug", "Lower-cased name with spaces replaced by hyphens"},
		{"scheme-order", "Ordering used for navigation, name or color"},
		{"base0A-rgb16-r", "base0A red component, 0-65535"},
		{"base0B-hex-bgr", "base0B hex value in blue-green-red order"},
		{"nope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.name); got != tt.want {
				t.Errorf("describe(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestPosInRange(t *testing.T) {
	r := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 4},
		End:   protocol.Position{Line: 1, Character: 10},
	}

	tests := []struct {
		name string
		pos  protocol.Position
		want bool
	}{
		{"start is inside", protocol.Position{Line: 1, Character: 4}, true},
		{"middle", protocol.Position{Line: 1, Character: 7}, true},
		{"end is exclusive", protocol.Position{Line: 1, Character: 10}, false},
		{"before start", protocol.Position{Line: 1, Character: 3}, false},
		{"other line", protocol.Position{Line: 2, Character: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := posInRange(tt.pos, r); got != tt.want {
				t.Errorf("posInRange(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}
