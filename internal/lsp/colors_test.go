package lsp

import (
	"testing"

	"github.com/jsvensson/base16sh/internal/color"
	"github.com/jsvensson/base16sh/internal/variables"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestColorToLSP(t *testing.T) {
	tests := []struct {
		name  string
		input color.Color
		want  protocol.Color
	}{
		{
			name:  "pure red",
			input: color.Color{R: 255},
			want:  protocol.Color{Red: 1.0, Alpha: 1.0},
		},
		{
			name:  "white",
			input: color.Color{R: 255, G: 255, B: 255},
			want:  protocol.Color{Red: 1.0, Green: 1.0, Blue: 1.0, Alpha: 1.0},
		},
		{
			name:  "black",
			input: color.Color{},
			want:  protocol.Color{Alpha: 1.0},
		},
		{
			name:  "mid gray",
			input: color.Color{R: 128, G: 128, B: 128},
			want:  protocol.Color{Red: float32(128) / 255.0, Green: float32(128) / 255.0, Blue: float32(128) / 255.0, Alpha: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := colorToLSP(tt.input); got != tt.want {
				t.Errorf("colorToLSP(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDocumentColors(t *testing.T) {
	content := "bg #{{base00-hex}}\nfg #{{base05-hex}}\naccent #ff0000\n"
	preview := variables.Vars{"base00-hex": "272822", "base05-hex": "f8f8f2"}

	infos := documentColors(Analyze(content, preview))
	if len(infos) != 3 {
		t.Fatalf("expected 3 colors, got %d", len(infos))
	}

	wantLines := []uint32{0, 1, 2}
	for i, info := range infos {
		if info.Range.Start.Line != wantLines[i] {
			t.Errorf("color %d on line %d, want %d", i, info.Range.Start.Line, wantLines[i])
		}
	}

	if infos[2].Color != (protocol.Color{Red: 1.0, Alpha: 1.0}) {
		t.Errorf("literal color = %+v, want red", infos[2].Color)
	}
	if want := colorToLSP(color.Color{R: 0x27, G: 0x28, B: 0x22}); infos[0].Color != want {
		t.Errorf("base00 color = %+v, want %+v", infos[0].Color, want)
	}
}

func TestDocumentColors_NilResult(t *testing.T) {
	infos := documentColors(nil)
	if infos == nil || len(infos) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", infos)
	}
}

func TestColorPresentation(t *testing.T) {
	content := "accent #ff0000\nfg #{{base05-hex}}\n"

	tests := []struct {
		name    string
		rng     protocol.Range
		color   protocol.Color
		edits   int
		newText string
	}{
		{
			name: "literal is replaced",
			rng: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 7},
				End:   protocol.Position{Line: 0, Character: 14},
			},
			color:   protocol.Color{Red: 0, Green: 1.0, Blue: 0, Alpha: 1.0},
			edits:   1,
			newText: "#00ff00",
		},
		{
			name: "rounding",
			rng: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 7},
				End:   protocol.Position{Line: 0, Character: 14},
			},
			color:   protocol.Color{Red: float32(128) / 255.0, Green: float32(64) / 255.0, Blue: float32(32) / 255.0, Alpha: 1.0},
			edits:   1,
			newText: "#804020",
		},
		{
			name: "variable tag is left alone",
			rng: protocol.Range{
				Start: protocol.Position{Line: 1, Character: 4},
				End:   protocol.Position{Line: 1, Character: 18},
			},
			color: protocol.Color{Red: 1.0, Alpha: 1.0},
			edits: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &protocol.ColorPresentationParams{Color: tt.color, Range: tt.rng}
			got := colorPresentation(content, params)
			if len(got) != tt.edits {
				t.Fatalf("expected %d presentations, got %d", tt.edits, len(got))
			}
			if tt.edits == 0 {
				return
			}
			if got[0].Label != tt.newText {
				t.Errorf("label = %q, want %q", got[0].Label, tt.newText)
			}
			if got[0].TextEdit == nil || got[0].TextEdit.NewText != tt.newText {
				t.Errorf("text edit = %v, want %q", got[0].TextEdit, tt.newText)
			}
			if got[0].TextEdit.Range != tt.rng {
				t.Errorf("edit range = %v, want %v", got[0].TextEdit.Range, tt.rng)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	content := "first line\nsecond line\nthird"

	tests := []struct {
		name string
		rng  protocol.Range
		want string
	}{
		{
			name: "single line",
			rng:  protocol.Range{Start: protocol.Position{Line: 1, Character: 0}, End: protocol.Position{Line: 1, Character: 6}},
			want: "second",
		},
		{
			name: "multi line",
			rng:  protocol.Range{Start: protocol.Position{Line: 0, Character: 6}, End: protocol.Position{Line: 1, Character: 6}},
			want: "line\nsecond",
		},
		{
			name: "clamped to line end",
			rng:  protocol.Range{Start: protocol.Position{Line: 2, Character: 0}, End: protocol.Position{Line: 2, Character: 99}},
			want: "third",
		},
		{
			name: "past end of document",
			rng:  protocol.Range{Start: protocol.Position{Line: 9, Character: 0}, End: protocol.Position{Line: 9, Character: 1}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractText(content, tt.rng); got != tt.want {
				t.Errorf("extractText() = %q, want %q", got, tt.want)
			}
		})
	}
}
