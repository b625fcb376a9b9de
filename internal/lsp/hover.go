package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/base16sh/internal/color"
	"github.com/jsvensson/base16sh/internal/engine"
	"github.com/jsvensson/base16sh/internal/variables"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var scalarDocs = map[string]string{
	variables.SchemeName:           "Scheme display name",
	variables.SchemeAuthor:         "Scheme author",
	variables.SchemeSystem:         "Palette system, base16 or base24",
	variables.SchemeSlug:           "Lower-cased name with spaces replaced by hyphens",
	variables.SchemeSlugUnderscore: "Lower-cased name with spaces and hyphens replaced by underscores",
	variables.SchemeVariant:        "Variant tag, usually dark or light",
	variables.SchemeIsDark:         "True for dark variants; usable as a section",
	variables.SchemeIsLight:        "True for light variants; usable as a section",
	engine.SchemePrev:              "Previous scheme in the requested order",
	engine.SchemeNext:              "Next scheme in the requested order",
	engine.SchemeOrder:             "Ordering used for navigation, name or color",
}

var suffixDocs = map[string]string{
	"hex":     "hex value without #",
	"hex-r":   "red component as two hex digits",
	"hex-g":   "green component as two hex digits",
	"hex-b":   "blue component as two hex digits",
	"hex-bgr": "hex value in blue-green-red order",
	"rgb-r":   "red component, 0-255",
	"rgb-g":   "green component, 0-255",
	"rgb-b":   "blue component, 0-255",
	"rgb16-r": "red component, 0-65535",
	"rgb16-g": "green component, 0-65535",
	"rgb16-b": "blue component, 0-65535",
	"dec-r":   "red component, 0.0-1.0",
	"dec-g":   "green component, 0.0-1.0",
	"dec-b":   "blue component, 0.0-1.0",
}

// describe returns a one-line description of a template variable, or "".
func describe(name string) string {
	if doc, ok := scalarDocs[name]; ok {
		return doc
	}
	if slot, suffix, ok := slotVariable(name); ok {
		return fmt.Sprintf("%s %s", slot, suffixDocs[suffix])
	}
	return ""
}

// posInRange returns true if pos is within the range [r.Start, r.End).
// The end position is exclusive.
func posInRange(pos protocol.Position, r protocol.Range) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// tagAt returns the index of the tag whose name is under pos, or -1.
func tagAt(result *AnalysisResult, pos protocol.Position) int {
	if result == nil {
		return -1
	}
	for i, tag := range result.Tags {
		if tag.Name != "" && posInRange(pos, tag.NameRange) {
			return i
		}
	}
	return -1
}

// hover produces a Hover response for the given cursor position: the
// variable's description and, with a preview scheme, its value.
// Returns nil if the cursor is not on a known variable.
func hover(result *AnalysisResult, pos protocol.Position, preview *Preview) *protocol.Hover {
	idx := tagAt(result, pos)
	if idx < 0 {
		return nil
	}
	tag := result.Tags[idx]
	if !tag.names() || !knownNames[tag.Name] {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", tag.Name)
	if doc := describe(tag.Name); doc != "" {
		fmt.Fprintf(&b, "\n\n%s", doc)
	}
	if v, ok := preview.value(tag.Name); ok {
		fmt.Fprintf(&b, "\n\n%s: `%s`", preview.Name, v)
		if hexVariable.MatchString(tag.Name) {
			c := color.FromHex(v)
			fmt.Fprintf(&b, " · `%s`", c.RGB())
		}
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &tag.NameRange,
	}
}

// textDocumentHover handles textDocument/hover requests.
func (s *Server) textDocumentHover(_ *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	return hover(s.getResult(string(params.TextDocument.URI)), params.Position, s.preview), nil
}
