package lsp

import (
	"strings"

	"github.com/jsvensson/base16sh/internal/variables"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// splitLines splits content into lines, preserving empty trailing lines.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

// tagPrefix returns the sigil and partial name of an unterminated tag that
// ends at the cursor. ok is false when the cursor is not inside a tag.
func tagPrefix(textBeforeCursor string) (sigil byte, partial string, ok bool) {
	idx := strings.LastIndex(textBeforeCursor, "{{")
	if idx < 0 {
		return 0, "", false
	}
	inner := textBeforeCursor[idx+2:]
	if strings.Contains(inner, "}}") {
		return 0, "", false
	}

	inner = strings.TrimPrefix(inner, "{")
	if inner != "" && strings.ContainsRune("#^/>!&", rune(inner[0])) {
		sigil = inner[0]
		inner = inner[1:]
	}
	return sigil, strings.TrimLeft(inner, " \t"), true
}

// complete produces completion items given an analysis result, document content,
// and cursor position. This is the core logic, decoupled from the LSP protocol
// handler for testability.
func complete(result *AnalysisResult, content string, pos protocol.Position, preview *Preview) []protocol.CompletionItem {
	lines := splitLines(content)
	if int(pos.Line) >= len(lines) {
		return nil
	}

	line := lines[pos.Line]
	charPos := min(int(pos.Character), len(line))
	sigil, _, ok := tagPrefix(line[:charPos])
	if !ok {
		return nil
	}

	switch sigil {
	case '!', '>':
		return nil
	case '/':
		return closeCompletions(result, pos)
	}
	return variableCompletions(preview)
}

// variableCompletions offers every known variable. With a preview scheme the
// current value is shown as detail.
func variableCompletions(preview *Preview) []protocol.CompletionItem {
	names := KnownNames()
	items := make([]protocol.CompletionItem, 0, len(names))
	for _, name := range names {
		item := protocol.CompletionItem{
			Label: name,
			Kind:  completionKindPtr(protocol.CompletionItemKindVariable),
		}
		if hexVariable.MatchString(name) {
			item.Kind = completionKindPtr(protocol.CompletionItemKindColor)
		}
		if doc := describe(name); doc != "" {
			item.Documentation = doc
		}
		if v, ok := preview.value(name); ok {
			item.Detail = &v
		}
		items = append(items, item)
	}
	return items
}

// closeCompletions offers the innermost section still open at pos.
func closeCompletions(result *AnalysisResult, pos protocol.Position) []protocol.CompletionItem {
	if result == nil {
		return nil
	}
	var stack []string
	for _, tag := range result.Tags {
		if !posBefore(tag.Range.End, pos) && tag.Range.End != pos {
			break
		}
		switch tag.Kind {
		case TagSection, TagInverted:
			stack = append(stack, tag.Name)
		case TagClose:
			if len(stack) > 0 && stack[len(stack)-1] == tag.Name {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return nil
	}
	return []protocol.CompletionItem{{
		Label: stack[len(stack)-1],
		Kind:  completionKindPtr(protocol.CompletionItemKindKeyword),
	}}
}

func completionKindPtr(k protocol.CompletionItemKind) *protocol.CompletionItemKind {
	return &k
}

// textDocumentCompletion handles textDocument/completion requests.
func (s *Server) textDocumentCompletion(_ *glsp.Context, params *protocol.CompletionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	content, ok := s.docs.Get(uri)
	if !ok {
		return nil, nil
	}

	return complete(s.getResult(uri), content, params.Position, s.preview), nil
}

// slotVariable reports whether name is one of the per-slot variables.
func slotVariable(name string) (slot, suffix string, ok bool) {
	slot, suffix, ok = strings.Cut(name, "-")
	if !ok || !strings.HasPrefix(slot, "base") || len(slot) != 6 {
		return "", "", false
	}
	for _, s := range variables.SlotSuffixes {
		if s == suffix {
			return slot, suffix, true
		}
	}
	return "", "", false
}
