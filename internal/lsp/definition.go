package lsp

import (
	"net/url"
	"os"
	"path/filepath"

	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// uriToPath converts a file:// URI to a local path. Other schemes yield "".
func uriToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

func pathToURI(path string) protocol.DocumentUri {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return protocol.DocumentUri(u.String())
}

// definition returns the target of the tag under the cursor. A partial
// resolves to the .mustache file next to the document; a section tag resolves
// to its partner. Returns nil when there is nothing to jump to.
func definition(result *AnalysisResult, uri string, pos protocol.Position) *protocol.Location {
	idx := tagAt(result, pos)
	if idx < 0 {
		return nil
	}
	tag := result.Tags[idx]

	switch tag.Kind {
	case TagPartial:
		dir := filepath.Dir(uriToPath(uri))
		if dir == "." {
			return nil
		}
		path := filepath.Join(dir, tag.Name+catalog.TemplateExt)
		if _, err := os.Stat(path); err != nil {
			return nil
		}
		return &protocol.Location{URI: pathToURI(path)}

	case TagSection, TagInverted, TagClose:
		if tag.Match < 0 {
			return nil
		}
		return &protocol.Location{
			URI:   protocol.DocumentUri(uri),
			Range: result.Tags[tag.Match].NameRange,
		}
	}
	return nil
}

// textDocumentDefinition handles textDocument/definition requests.
func (s *Server) textDocumentDefinition(_ *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := string(params.TextDocument.URI)

	result := s.getResult(uri)
	if result == nil {
		return nil, nil
	}

	if loc := definition(result, uri, params.Position); loc != nil {
		return loc, nil
	}
	return nil, nil
}
