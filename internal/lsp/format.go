package lsp

import (
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// format rewrites every tag in a mustache template to canonical spacing:
// {{name}}, {{#name}}, {{{name}}} and {{> name}}. Comments and text are left
// untouched. Formatting stops at a delimiter change or an unclosed tag, so it
// is safe to run while the user is still typing.
func format(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	i := 0
	for {
		start := strings.Index(content[i:], "{{")
		if start < 0 {
			break
		}
		start += i

		closer := "}}"
		bodyStart := start + 2
		if strings.HasPrefix(content[start:], "{{{") {
			closer = "}}}"
			bodyStart = start + 3
		}
		rel := strings.Index(content[bodyStart:], closer)
		if rel < 0 {
			break
		}
		bodyEnd := bodyStart + rel
		end := bodyEnd + len(closer)

		body := content[bodyStart:bodyEnd]
		if strings.HasPrefix(body, "=") {
			break
		}

		b.WriteString(content[i:start])
		b.WriteString(formatTag(body, closer == "}}}"))
		i = end
	}

	b.WriteString(content[i:])
	return b.String()
}

func formatTag(body string, triple bool) string {
	if triple {
		return "{{{" + strings.TrimSpace(body) + "}}}"
	}

	trimmed := strings.TrimLeft(body, " \t")
	if trimmed == "" {
		return "{{" + body + "}}"
	}

	switch sigil := trimmed[0]; sigil {
	case '!':
		return "{{" + body + "}}"
	case '>':
		return "{{> " + strings.TrimSpace(trimmed[1:]) + "}}"
	case '#', '^', '/', '&':
		return "{{" + string(sigil) + strings.TrimSpace(trimmed[1:]) + "}}"
	}
	return "{{" + strings.TrimSpace(body) + "}}"
}

// fullRange covers the whole of content.
func fullRange(content string) protocol.Range {
	lines := splitLines(content)
	last := len(lines) - 1
	return protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: uint32(last), Character: uint32(len(lines[last]))},
	}
}

// textDocumentFormatting handles textDocument/formatting requests. The result
// is a single edit replacing the document, or no edits when it is already
// formatted.
func (s *Server) textDocumentFormatting(_ *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	content, ok := s.docs.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}

	formatted := format(content)
	if formatted == content {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range:   fullRange(content),
		NewText: formatted,
	}}, nil
}
