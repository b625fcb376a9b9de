package lsp

import (
	"fmt"
	"strings"

	"github.com/jsvensson/base16sh/internal/color"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// colorToLSP converts an internal color.Color (uint8 RGB) to a protocol.Color (float32 0.0-1.0).
func colorToLSP(c color.Color) protocol.Color {
	return protocol.Color{
		Red:   float32(c.R) / 255.0,
		Green: float32(c.G) / 255.0,
		Blue:  float32(c.B) / 255.0,
		Alpha: 1.0,
	}
}

// documentColors converts the analysis result's color locations into LSP ColorInformation items.
func documentColors(result *AnalysisResult) []protocol.ColorInformation {
	if result == nil {
		return []protocol.ColorInformation{}
	}

	infos := make([]protocol.ColorInformation, 0, len(result.Colors))
	for _, cl := range result.Colors {
		infos = append(infos, protocol.ColorInformation{
			Range: cl.Range,
			Color: colorToLSP(cl.Color),
		})
	}
	return infos
}

// colorPresentation produces color presentation options for a given color and range.
// Hex literals in template text get a TextEdit replacing the old value. Palette
// variable tags are never replaced, since their value comes from the scheme.
func colorPresentation(content string, params *protocol.ColorPresentationParams) []protocol.ColorPresentation {
	r := uint8(params.Color.Red*255 + 0.5)
	g := uint8(params.Color.Green*255 + 0.5)
	b := uint8(params.Color.Blue*255 + 0.5)
	hexStr := fmt.Sprintf("#%02x%02x%02x", r, g, b)

	text := extractText(content, params.Range)
	if !strings.HasPrefix(text, "#") {
		return []protocol.ColorPresentation{}
	}

	return []protocol.ColorPresentation{
		{
			Label: hexStr,
			TextEdit: &protocol.TextEdit{
				Range:   params.Range,
				NewText: hexStr,
			},
		},
	}
}

// extractText extracts the source text at a given LSP range from document content.
func extractText(content string, r protocol.Range) string {
	lines := splitLines(content)

	startLine := int(r.Start.Line)
	endLine := int(r.End.Line)

	if startLine >= len(lines) {
		return ""
	}
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	if startLine == endLine {
		line := lines[startLine]
		startChar := min(int(r.Start.Character), len(line))
		endChar := min(int(r.End.Character), len(line))
		if startChar > endChar {
			return ""
		}
		return line[startChar:endChar]
	}

	var parts []string
	for i := startLine; i <= endLine; i++ {
		line := lines[i]
		switch i {
		case startLine:
			parts = append(parts, line[min(int(r.Start.Character), len(line)):])
		case endLine:
			parts = append(parts, line[:min(int(r.End.Character), len(line))])
		default:
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, "\n")
}

// textDocumentDocumentColor handles textDocument/documentColor requests.
func (s *Server) textDocumentDocumentColor(_ *glsp.Context, params *protocol.DocumentColorParams) ([]protocol.ColorInformation, error) {
	uri := string(params.TextDocument.URI)
	result := s.getResult(uri)
	return documentColors(result), nil
}

// textDocumentColorPresentation handles textDocument/colorPresentation requests.
func (s *Server) textDocumentColorPresentation(_ *glsp.Context, params *protocol.ColorPresentationParams) ([]protocol.ColorPresentation, error) {
	uri := string(params.TextDocument.URI)
	content, ok := s.docs.Get(uri)
	if !ok {
		return []protocol.ColorPresentation{}, nil
	}
	return colorPresentation(content, params), nil
}
