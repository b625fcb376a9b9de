package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/jsvensson/base16sh/internal/scheme"
)

// SchemeExt is the extension of scheme definition files.
const SchemeExt = ".yaml"

// SchemeRecord locates one scheme definition file.
type SchemeRecord struct {
	Name   string        `json:"name"`
	Path   string        `json:"-"`
	System scheme.System `json:"system"`
}

// Load parses the definition file behind the record. The file is read on
// every call.
func (r SchemeRecord) Load() (scheme.Definition, error) {
	return scheme.Load(r.Path)
}

// Schemes is the immutable index of scheme definitions.
type Schemes struct {
	records    map[string]SchemeRecord
	names      []string
	colorOrder []string
	greyscale  map[string]bool
	index      [2]map[string]int
}

// BuildSchemes scans root/base16 and root/base24 for scheme files and builds
// the catalog, including the perceptual ordering. A missing system directory
// contributes no schemes; only an inaccessible root is an error.
func BuildSchemes(root string) (*Schemes, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("reading schemes root: %w", err)
	}

	records := make(map[string]SchemeRecord)
	for _, system := range scheme.Systems {
		for _, rec := range scanSystem(root, system) {
			if prev, ok := records[rec.Name]; ok {
				log.Warningf("scheme %q in %s replaces %s", rec.Name, rec.System, prev.System)
			}
			records[rec.Name] = rec
		}
	}

	return newSchemes(records), nil
}

func newSchemes(records map[string]SchemeRecord) *Schemes {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	order, grey := colorOrder(records, names)

	s := &Schemes{
		records:    records,
		names:      names,
		colorOrder: order,
		greyscale:  grey,
		index: [2]map[string]int{
			OrderAlphabetical: positions(names),
			OrderColor:        positions(order),
		},
	}

	log.Infof("loaded %d schemes (%d in color order)", len(names), len(order))
	return s
}

func scanSystem(root string, system scheme.System) []SchemeRecord {
	dir := filepath.Join(root, string(system))
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debugf("skipping %s: %v", dir, err)
		return nil
	}

	var records []SchemeRecord
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != SchemeExt {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), SchemeExt)
		name := canonical(stem)
		if name == "" {
			log.Debugf("skipping %s: empty name after sanitizing", entry.Name())
			continue
		}
		records = append(records, SchemeRecord{
			Name:   name,
			Path:   filepath.Join(dir, entry.Name()),
			System: system,
		})
	}
	return records
}

// Len returns the number of schemes.
func (s *Schemes) Len() int {
	return len(s.names)
}

// Names returns all canonical names in lexicographic order.
func (s *Schemes) Names() []string {
	return slices.Clone(s.names)
}

// ColorOrder returns the names in perceptual order. Schemes whose definitions
// could not be parsed are absent.
func (s *Schemes) ColorOrder() []string {
	return slices.Clone(s.colorOrder)
}

// List returns the names in the requested order.
func (s *Schemes) List(order Order) []string {
	if order == OrderColor {
		return s.ColorOrder()
	}
	return s.Names()
}

// IsGreyscale reports whether the named scheme was classified as greyscale
// while computing the color order.
func (s *Schemes) IsGreyscale(name string) bool {
	return s.greyscale[name]
}

// Get returns the record stored under the exact canonical name.
func (s *Schemes) Get(name string) (SchemeRecord, bool) {
	rec, ok := s.records[name]
	return rec, ok
}

// Neighbors returns the names before and after name in the chosen ordering.
// Either is empty at a boundary of the list.
func (s *Schemes) Neighbors(name string, order Order) (prev, next string, err error) {
	list, index := s.names, s.index[OrderAlphabetical]
	if order == OrderColor {
		list, index = s.colorOrder, s.index[OrderColor]
	}
	pos, ok := index[name]
	if !ok {
		return "", "", fmt.Errorf("scheme %q in %s order: %w", name, order, ErrNotFound)
	}
	prev, next = neighbors(list, pos)
	return prev, next, nil
}
