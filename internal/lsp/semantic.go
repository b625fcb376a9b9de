package lsp

import (
	"sort"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Semantic token types we'll use (indices 0-4)
var semanticTokenTypes = []string{
	"keyword",   // 0: section, inverted and closing tag names
	"variable",  // 1: variable tag names
	"namespace", // 2: partial names
	"comment",   // 3: comment tags
	"string",    // 4: hex color literals in template text
}

// Semantic token modifiers (bit flags)
var semanticTokenModifiers = []string{
	"defaultLibrary", // bit 0: variables supplied by the renderer
}

// tokenTypeIndices maps type names to their indices for fast lookup
var tokenTypeIndices map[string]uint32

func init() {
	tokenTypeIndices = make(map[string]uint32, len(semanticTokenTypes))
	for i, t := range semanticTokenTypes {
		tokenTypeIndices[t] = uint32(i)
	}
}

// SemanticToken represents a single token with its metadata
type SemanticToken struct {
	Line      uint32 // 0-based line number
	StartChar uint32 // 0-based character offset
	Length    uint32
	Type      uint32 // index into semanticTokenTypes
	Modifiers uint32 // bit flags
}

// encodeTokens converts tokens to LSP format (5 integers per token)
// Uses delta encoding for line numbers and character positions
func encodeTokens(tokens []SemanticToken) []uint32 {
	if len(tokens) == 0 {
		return []uint32{}
	}

	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].Line != tokens[j].Line {
			return tokens[i].Line < tokens[j].Line
		}
		return tokens[i].StartChar < tokens[j].StartChar
	})

	data := make([]uint32, 0, len(tokens)*5)

	var prevLine uint32 = 0
	var prevChar uint32 = 0

	for _, tok := range tokens {
		deltaLine := tok.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = tok.StartChar - prevChar
		} else {
			deltaStart = tok.StartChar
		}

		data = append(data,
			deltaLine,
			deltaStart,
			tok.Length,
			tok.Type,
			tok.Modifiers,
		)

		prevLine = tok.Line
		prevChar = tok.StartChar
	}

	return data
}

// rangeToken builds a token for a single-line range. Multi-line ranges are
// skipped since LSP tokens cannot span lines.
func rangeToken(r protocol.Range, tokenType string, modifiers uint32) (SemanticToken, bool) {
	if r.Start.Line != r.End.Line || r.End.Character <= r.Start.Character {
		return SemanticToken{}, false
	}
	return SemanticToken{
		Line:      r.Start.Line,
		StartChar: r.Start.Character,
		Length:    r.End.Character - r.Start.Character,
		Type:      tokenTypeIndices[tokenType],
		Modifiers: modifiers,
	}, true
}

// semanticTokensFull generates semantic tokens for the entire document
func semanticTokensFull(result *AnalysisResult) []uint32 {
	if result == nil {
		return []uint32{}
	}

	var tokens []SemanticToken
	add := func(r protocol.Range, tokenType string, modifiers uint32) {
		if tok, ok := rangeToken(r, tokenType, modifiers); ok {
			tokens = append(tokens, tok)
		}
	}

	for _, tag := range result.Tags {
		switch tag.Kind {
		case TagVariable, TagUnescaped:
			var mods uint32
			if knownNames[tag.Name] {
				mods = 1
			}
			add(tag.NameRange, "variable", mods)
		case TagSection, TagInverted, TagClose:
			add(tag.NameRange, "keyword", 0)
		case TagPartial:
			add(tag.NameRange, "namespace", 0)
		case TagComment:
			add(tag.Range, "comment", 0)
		}
	}

	for _, cl := range result.Colors {
		if !cl.IsRef {
			add(cl.Range, "string", 0)
		}
	}

	return encodeTokens(tokens)
}

// textDocumentSemanticTokensFull handles textDocument/semanticTokens/full requests.
func (s *Server) textDocumentSemanticTokensFull(_ *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	data := semanticTokensFull(s.getResult(string(params.TextDocument.URI)))
	return &protocol.SemanticTokens{Data: data}, nil
}
