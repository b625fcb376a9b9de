package lsp

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/jsvensson/base16sh/internal/color"
	"github.com/jsvensson/base16sh/internal/engine"
	"github.com/jsvensson/base16sh/internal/scheme"
	"github.com/jsvensson/base16sh/internal/variables"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var (
	DiagError   = protocol.DiagnosticSeverityError
	DiagWarning = protocol.DiagnosticSeverityWarning
	DiagInfo    = protocol.DiagnosticSeverityInformation
)

// TagKind classifies a mustache tag by its sigil.
type TagKind int

const (
	TagVariable   TagKind = iota // {{name}}
	TagUnescaped                 // {{{name}}} or {{&name}}
	TagSection                   // {{#name}}
	TagInverted                  // {{^name}}
	TagClose                     // {{/name}}
	TagPartial                   // {{> name}}
	TagComment                   // {{! text}}
	TagDelimiters                // {{=<% %>=}}
)

// Tag is one mustache tag found in a template.
type Tag struct {
	Kind      TagKind
	Name      string
	Range     protocol.Range // the whole tag, delimiters included
	NameRange protocol.Range
	// Match is the index of the paired section tag, or -1.
	Match int
}

// names reports whether the tag refers to a context variable.
func (t Tag) names() bool {
	switch t.Kind {
	case TagVariable, TagUnescaped, TagSection, TagInverted:
		return true
	}
	return false
}

// AnalysisResult holds all information produced by analyzing a template.
type AnalysisResult struct {
	Diagnostics []protocol.Diagnostic
	Tags        []Tag
	Colors      []ColorLocation
}

// ColorLocation records a resolved color at a specific source position.
type ColorLocation struct {
	Range protocol.Range
	Color color.Color
	IsRef bool // true for a palette variable tag, false for a hex literal
}

// knownNames is every variable a rendered template can see.
var knownNames = func() map[string]bool {
	m := make(map[string]bool)
	for _, name := range variables.Names(scheme.Base24) {
		m[name] = true
	}
	for _, name := range []string{engine.SchemePrev, engine.SchemeNext, engine.SchemeOrder} {
		m[name] = true
	}
	return m
}()

// KnownNames returns the sorted list of variables available to templates.
func KnownNames() []string {
	names := make([]string, 0, len(knownNames))
	for name := range knownNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	hexVariable = regexp.MustCompile(`^(base[0-9A-F]{2})-hex$`)
	hexLiteral  = regexp.MustCompile(`#[0-9a-fA-F]{6}\b`)
)

// lineIndex converts byte offsets into LSP positions.
type lineIndex []int

func newLineIndex(content string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (l lineIndex) pos(offset int) protocol.Position {
	line := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(offset - l[line]),
	}
}

func (l lineIndex) rng(start, end int) protocol.Range {
	return protocol.Range{Start: l.pos(start), End: l.pos(end)}
}

// Analyze scans a mustache template and produces diagnostics, the tag list
// and color locations. preview supplies values for palette variables and may
// be nil. It collects all problems rather than stopping at the first.
func Analyze(content string, preview variables.Vars) *AnalysisResult {
	result := &AnalysisResult{}
	lines := newLineIndex(content)

	type span struct{ start, end int }
	var spans []span
	var open []int

	for i := 0; i < len(content); {
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
			result.addError(lines.rng(start, bodyStart), "unclosed tag")
			break
		}
		bodyEnd := bodyStart + rel
		end := bodyEnd + len(closer)
		spans = append(spans, span{start, end})
		i = end

		tag := parseTag(content, start, bodyStart, bodyEnd, end, closer == "}}}", lines)
		if tag.Kind == TagDelimiters {
			result.addDiagnostic(tag.Range, DiagInfo, "custom delimiters are not analyzed past this point")
			result.Tags = append(result.Tags, tag)
			break
		}
		if tag.Kind != TagComment && tag.Name == "" {
			result.addError(tag.Range, "empty tag")
			continue
		}

		idx := len(result.Tags)
		switch tag.Kind {
		case TagSection, TagInverted:
			open = append(open, idx)
		case TagClose:
			if len(open) == 0 {
				result.addError(tag.NameRange, fmt.Sprintf("closing tag %q has no open section", tag.Name))
				break
			}
			top := open[len(open)-1]
			if result.Tags[top].Name != tag.Name {
				result.addError(tag.NameRange, fmt.Sprintf("closing tag %q does not match open section %q", tag.Name, result.Tags[top].Name))
				break
			}
			open = open[:len(open)-1]
			tag.Match = top
			result.Tags[top].Match = idx
		}

		if tag.names() && tag.Name != "." && !knownNames[tag.Name] {
			result.addWarning(tag.NameRange, fmt.Sprintf("unknown variable %q", tag.Name))
		}

		if tag.Kind == TagVariable || tag.Kind == TagUnescaped {
			if m := hexVariable.FindStringSubmatch(tag.Name); m != nil && preview != nil {
				if c, err := color.ParseHex(preview[tag.Name]); err == nil {
					result.Colors = append(result.Colors, ColorLocation{Range: tag.Range, Color: c, IsRef: true})
				}
			}
		}

		result.Tags = append(result.Tags, tag)
	}

	for _, idx := range open {
		t := result.Tags[idx]
		result.addError(t.NameRange, fmt.Sprintf("section %q is never closed", t.Name))
	}

	for _, m := range hexLiteral.FindAllStringIndex(content, -1) {
		inTag := slices.ContainsFunc(spans, func(s span) bool { return m[0] >= s.start && m[0] < s.end })
		if inTag {
			continue
		}
		c, err := color.ParseHex(content[m[0]:m[1]])
		if err != nil {
			continue
		}
		result.Colors = append(result.Colors, ColorLocation{Range: lines.rng(m[0], m[1]), Color: c})
	}
	sort.SliceStable(result.Colors, func(i, j int) bool {
		return posBefore(result.Colors[i].Range.Start, result.Colors[j].Range.Start)
	})

	return result
}

// parseTag classifies the tag whose body is content[bodyStart:bodyEnd].
func parseTag(content string, start, bodyStart, bodyEnd, end int, triple bool, lines lineIndex) Tag {
	body := content[bodyStart:bodyEnd]
	kind := TagVariable
	offset := 0

	if triple {
		kind = TagUnescaped
	} else if len(body) > 0 {
		switch body[0] {
		case '#':
			kind = TagSection
		case '^':
			kind = TagInverted
		case '/':
			kind = TagClose
		case '>':
			kind = TagPartial
		case '!':
			kind = TagComment
		case '&':
			kind = TagUnescaped
		case '=':
			kind = TagDelimiters
		}
		if kind != TagVariable {
			offset = 1
		}
	}

	rest := body[offset:]
	lead := len(rest) - len(strings.TrimLeft(rest, " \t"))
	name := strings.TrimSpace(rest)
	nameStart := bodyStart + offset + lead
	if kind == TagComment || kind == TagDelimiters {
		name = ""
		nameStart = bodyStart
	}

	return Tag{
		Kind:      kind,
		Name:      name,
		Range:     lines.rng(start, end),
		NameRange: lines.rng(nameStart, nameStart+len(name)),
		Match:     -1,
	}
}

// posBefore reports whether a comes strictly before b.
func posBefore(a, b protocol.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Character < b.Character
}

func (r *AnalysisResult) addDiagnostic(rng protocol.Range, severity protocol.DiagnosticSeverity, msg string) {
	sev := severity
	r.Diagnostics = append(r.Diagnostics, protocol.Diagnostic{
		Range:    rng,
		Severity: &sev,
		Source:   strPtr(serverName),
		Message:  msg,
	})
}

func (r *AnalysisResult) addError(rng protocol.Range, msg string) {
	r.addDiagnostic(rng, DiagError, msg)
}

func (r *AnalysisResult) addWarning(rng protocol.Range, msg string) {
	r.addDiagnostic(rng, DiagWarning, msg)
}

func strPtr(s string) *string {
	return &s
}
