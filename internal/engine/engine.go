// Package engine renders mustache template sources against scheme definitions.
package engine

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cbroglie/mustache"
	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/jsvensson/base16sh/internal/scheme"
	"github.com/jsvensson/base16sh/internal/variables"
)

// ErrRender wraps template compile and execution failures.
var ErrRender = errors.New("rendering template")

// Navigation variable names.
const (
	SchemePrev  = "scheme-prev"
	SchemeNext  = "scheme-next"
	SchemeOrder = "scheme-order"
)

// boolVars are rendered as mustache booleans so that sections like
// {{#scheme-is-dark-variant}} behave as expected.
var boolVars = []string{variables.SchemeIsDark, variables.SchemeIsLight}

// Navigation carries the neighbours of the rendered scheme in some ordering.
// Empty fields are omitted from the template context.
type Navigation struct {
	Prev  string
	Next  string
	Order catalog.Order
}

// Engine renders template sources. The zero value renders without partials.
type Engine struct {
	// Partials resolves {{> name}} tags. Nil disables partials.
	Partials mustache.PartialProvider
}

// ForTemplate returns an Engine that resolves partials next to the template's
// render source.
func ForTemplate(rec catalog.TemplateRecord) *Engine {
	return &Engine{
		Partials: &mustache.FileProvider{
			Paths:      []string{filepath.Dir(rec.Path)},
			Extensions: []string{catalog.TemplateExt},
		},
	}
}

// Context builds the template context for def. Palette slots missing for the
// scheme's system are filled with black before variables are derived.
func Context(def scheme.Definition, fallback scheme.System, nav *Navigation) map[string]any {
	full := def.WithDefaults(def.SystemOr(fallback))
	vars := variables.Derive(full)

	ctx := make(map[string]any, len(vars)+3)
	for k, v := range vars {
		ctx[k] = v
	}
	for _, k := range boolVars {
		if v, ok := vars[k]; ok {
			ctx[k] = v == "true"
		}
	}

	if nav != nil {
		if nav.Prev != "" {
			ctx[SchemePrev] = nav.Prev
		}
		if nav.Next != "" {
			ctx[SchemeNext] = nav.Next
		}
		ctx[SchemeOrder] = nav.Order.String()
	}
	return ctx
}

// Render compiles source and executes it against the context for def.
func (e *Engine) Render(source string, def scheme.Definition, fallback scheme.System, nav *Navigation) (string, error) {
	var partials mustache.PartialProvider = &mustache.StaticProvider{}
	if e != nil && e.Partials != nil {
		partials = e.Partials
	}

	tmpl, err := mustache.ParseStringPartials(source, partials)
	if err != nil {
		return "", fmt.Errorf("%w: parsing: %w", ErrRender, err)
	}

	out, err := tmpl.Render(Context(def, fallback, nav))
	if err != nil {
		return "", fmt.Errorf("%w: executing: %w", ErrRender, err)
	}
	return out, nil
}
