package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// ManifestPath is where a template repository declares its templates.
	ManifestPath = "templates/config.yaml"
	// TemplateExt is the extension of template render sources.
	TemplateExt = ".mustache"
)

// systemPrefixes are stripped from repository names when deriving keys.
var systemPrefixes = []string{"base16-", "base24-"}

// TemplateRecord locates one template render source.
type TemplateRecord struct {
	Key       string `json:"key"`
	Name      string `json:"template"`
	Repo      string `json:"repo"`
	Extension string `json:"extension,omitempty"`
	Path      string `json:"-"`
}

// Source reads the template's render source. The file is read on every call.
func (r TemplateRecord) Source() (string, error) {
	src, err := os.ReadFile(r.Path)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", r.Key, err)
	}
	return string(src), nil
}

// manifestEntry is the part of a manifest entry we keep. Other fields are
// ignored.
type manifestEntry struct {
	Extension string `yaml:"extension"`
}

// Templates is the immutable index of template render sources.
type Templates struct {
	records map[string]TemplateRecord
	names   []string
}

// TemplateKey derives the catalog key of a template. count is the number of
// templates the repository declares.
func TemplateKey(repo, template string, count int) string {
	base := repo
	for _, prefix := range systemPrefixes {
		if trimmed, ok := strings.CutPrefix(base, prefix); ok {
			base = trimmed
			break
		}
	}
	if count == 1 || template == "default" {
		return canonical(base)
	}
	return canonical(base + "-" + template)
}

// BuildTemplates scans every sub-directory of root as a template repository.
// Repositories without a readable manifest are skipped, as are declared
// templates whose render source is missing.
func BuildTemplates(root string) (*Templates, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading templates root: %w", err)
	}

	records := make(map[string]TemplateRecord)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		recs, err := scanRepo(filepath.Join(root, entry.Name()))
		if err != nil {
			log.Warningf("skipping template repository %s: %v", entry.Name(), err)
			continue
		}
		for _, rec := range recs {
			if prev, ok := records[rec.Key]; ok {
				log.Warningf("template %q from %s replaces the one from %s", rec.Key, rec.Repo, prev.Repo)
			}
			records[rec.Key] = rec
		}
	}

	names := make([]string, 0, len(records))
	for key := range records {
		names = append(names, key)
	}
	sort.Strings(names)

	log.Infof("loaded %d templates", len(names))
	return &Templates{records: records, names: names}, nil
}

func readManifest(path string) (map[string]yaml.Node, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var manifest map[string]yaml.Node
	if err := yaml.Unmarshal(src, &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestPath, err)
	}
	return manifest, nil
}

func scanRepo(dir string) ([]TemplateRecord, error) {
	manifest, err := readManifest(filepath.Join(dir, ManifestPath))
	if err != nil {
		return nil, err
	}

	declared := make([]string, 0, len(manifest))
	for name := range manifest {
		declared = append(declared, name)
	}
	sort.Strings(declared)

	repo := filepath.Base(dir)
	var records []TemplateRecord
	for _, name := range declared {
		path := filepath.Join(dir, "templates", name+TemplateExt)
		if _, err := os.Stat(path); err != nil {
			log.Debugf("%s declares %q but %s is missing", repo, name, path)
			continue
		}

		var meta manifestEntry
		node := manifest[name]
		_ = node.Decode(&meta)

		records = append(records, TemplateRecord{
			Key:       TemplateKey(repo, name, len(declared)),
			Name:      name,
			Repo:      repo,
			Extension: meta.Extension,
			Path:      path,
		})
	}
	return records, nil
}

// Len returns the number of templates.
func (t *Templates) Len() int {
	return len(t.names)
}

// Names returns all template keys in lexicographic order.
func (t *Templates) Names() []string {
	return slices.Clone(t.names)
}

// Lookup finds a template by key. The name is sanitized and lower-cased
// first; there is no fuzzy matching for templates.
func (t *Templates) Lookup(name string) (TemplateRecord, error) {
	rec, ok := t.records[canonical(name)]
	if !ok {
		return TemplateRecord{}, fmt.Errorf("template %q: %w", name, ErrNotFound)
	}
	return rec, nil
}
