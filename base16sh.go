// Package base16sh indexes base16/base24 color schemes and community
// templates and answers lookups against them.
package base16sh

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/jsvensson/base16sh/internal/config"
	"github.com/jsvensson/base16sh/internal/engine"
	"github.com/jsvensson/base16sh/internal/scheme"
	"github.com/jsvensson/base16sh/internal/variables"
	"github.com/tliron/commonlog"
)

// ErrNotFound is returned when a scheme or template name matches nothing.
var ErrNotFound = catalog.ErrNotFound

var log = commonlog.GetLogger("base16sh")

// Service answers queries against one pair of catalogs. It is safe for
// concurrent use.
type Service struct {
	schemes   *catalog.Schemes
	templates *catalog.Templates
	threshold float64
}

// Resolution is the outcome of resolving a scheme name.
type Resolution struct {
	Record catalog.SchemeRecord
	// Redirect is true when the query differs from the canonical name.
	Redirect bool
}

// Open builds both catalogs from the directories named in cfg.
func Open(cfg config.Config) (*Service, error) {
	schemes, err := catalog.BuildSchemes(cfg.Data.Schemes)
	if err != nil {
		return nil, fmt.Errorf("building scheme catalog: %w", err)
	}
	templates, err := catalog.BuildTemplates(cfg.Data.Templates)
	if err != nil {
		return nil, fmt.Errorf("building template catalog: %w", err)
	}
	return New(schemes, templates, cfg.Resolver.Threshold), nil
}

// New wraps existing catalogs. A non-positive threshold selects
// catalog.DefaultThreshold.
func New(schemes *catalog.Schemes, templates *catalog.Templates, threshold float64) *Service {
	if threshold <= 0 {
		threshold = catalog.DefaultThreshold
	}
	return &Service{schemes: schemes, templates: templates, threshold: threshold}
}

// Schemes returns the scheme catalog.
func (s *Service) Schemes() *catalog.Schemes {
	return s.schemes
}

// Templates returns the template catalog.
func (s *Service) Templates() *catalog.Templates {
	return s.templates
}

// ResolveScheme finds the scheme a user-supplied name refers to, allowing for
// case differences and misspellings.
func (s *Service) ResolveScheme(name string) (Resolution, error) {
	rec, match, err := s.schemes.Resolve(name, s.threshold)
	if err != nil {
		return Resolution{}, err
	}
	if match == catalog.MatchRedirect {
		log.Debugf("resolved %q to %q", name, rec.Name)
	}
	return Resolution{Record: rec, Redirect: match == catalog.MatchRedirect}, nil
}

// ResolveTemplate looks up a template by key. There is no fuzzy matching.
func (s *Service) ResolveTemplate(name string) (catalog.TemplateRecord, error) {
	return s.templates.Lookup(name)
}

// ListSchemeNames returns every scheme name in the given order.
func (s *Service) ListSchemeNames(order catalog.Order) []string {
	return s.schemes.List(order)
}

// ListTemplateNames returns every template key in lexicographic order.
func (s *Service) ListTemplateNames() []string {
	return s.templates.Names()
}

// DeriveVariables returns the template variables for def exactly as it was
// parsed. Slots the definition leaves out are absent.
func (s *Service) DeriveVariables(def scheme.Definition) variables.Vars {
	return variables.Derive(def)
}

// Neighbors returns the schemes before and after name in the given order.
func (s *Service) Neighbors(name string, order catalog.Order) (prev, next string, err error) {
	return s.schemes.Neighbors(name, order)
}

// LoadScheme parses the definition behind rec.
func (s *Service) LoadScheme(rec catalog.SchemeRecord) (scheme.Definition, error) {
	return rec.Load()
}

// RawScheme returns the definition file behind rec byte for byte.
func (s *Service) RawScheme(rec catalog.SchemeRecord) ([]byte, error) {
	data, err := os.ReadFile(rec.Path)
	if err != nil {
		return nil, fmt.Errorf("reading scheme %s: %w", rec.Name, err)
	}
	return data, nil
}

// Render renders the template tmpl for the scheme rec. Navigation variables
// refer to the neighbours of rec in order.
func (s *Service) Render(rec catalog.SchemeRecord, tmpl catalog.TemplateRecord, order catalog.Order) (string, error) {
	def, err := rec.Load()
	if err != nil {
		return "", err
	}
	src, err := tmpl.Source()
	if err != nil {
		return "", err
	}

	out, err := engine.ForTemplate(tmpl).Render(src, def, rec.System, s.navigation(rec.Name, order))
	if err != nil {
		return "", fmt.Errorf("template %s for scheme %s: %w", tmpl.Key, rec.Name, err)
	}
	return out, nil
}

func (s *Service) navigation(name string, order catalog.Order) *engine.Navigation {
	prev, next, err := s.schemes.Neighbors(name, order)
	if err != nil && !errors.Is(err, catalog.ErrNotFound) {
		log.Warningf("navigation for %s: %v", name, err)
	}
	return &engine.Navigation{Prev: prev, Next: next, Order: order}
}

// Generator renders a scheme through many templates into a directory tree.
type Generator struct {
	OutputDir string
	Apps      []string // if non-empty, only render these template keys
	Order     catalog.Order
}

// Generate renders rec through every selected template and writes
// OutputDir/{key}/{scheme}{extension}. It returns the written paths.
func (s *Service) Generate(g Generator, rec catalog.SchemeRecord) ([]string, error) {
	var selected []catalog.TemplateRecord
	for _, key := range s.templates.Names() {
		if !g.shouldRender(key) {
			continue
		}
		tmpl, err := s.templates.Lookup(key)
		if err != nil {
			return nil, err
		}
		selected = append(selected, tmpl)
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no templates selected for rendering")
	}

	var written []string
	for _, tmpl := range selected {
		out, err := s.Render(rec, tmpl, g.Order)
		if err != nil {
			return written, err
		}

		dir := filepath.Join(g.OutputDir, tmpl.Key)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return written, fmt.Errorf("creating output directory: %w", err)
		}
		path := filepath.Join(dir, rec.Name+tmpl.Extension)
		if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}

	log.Infof("rendered %s through %d templates into %s", rec.Name, len(written), g.OutputDir)
	return written, nil
}

func (g Generator) shouldRender(key string) bool {
	// If no apps are specified, render all.
	if len(g.Apps) == 0 {
		return true
	}

	return slices.Contains(g.Apps, key)
}
