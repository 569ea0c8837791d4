// Package laws holds the statute references shown before a report is sent
// and the searchable directory of child-protection laws.
package laws

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NoLawsFound is the description of the placeholder entry returned for
// categories without a mapping.
const NoLawsFound = "No specific laws found"

//go:embed laws.yaml
var defaultTable []byte

// Statute is one legal reference for an abuse category.
type Statute struct {
	ID          string `yaml:"id" json:"id"`
	Description string `yaml:"description" json:"description"`
}

// Resource is an entry of the law directory.
type Resource struct {
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle" json:"subtitle"`
	Link     string `yaml:"link" json:"link"`
}

type document struct {
	Statutes  map[string][]Statute `yaml:"statutes"`
	Resources []Resource           `yaml:"resources"`
}

// Table maps categories to statutes and keeps the resource directory.
type Table struct {
	statutes  map[string][]Statute
	resources []Resource
}

// Parse reads a table from YAML.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("laws: parse table: %w", err)
	}
	if doc.Statutes == nil {
		doc.Statutes = map[string][]Statute{}
	}
	return &Table{statutes: doc.Statutes, resources: doc.Resources}, nil
}

// Default returns the embedded Philippine statute table.
func Default() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the statutes for category in display order. Unknown
// categories yield a single placeholder entry.
func (t *Table) Lookup(category string) []Statute {
	list, ok := t.statutes[category]
	if !ok || len(list) == 0 {
		return []Statute{{Description: NoLawsFound}}
	}
	out := make([]Statute, len(list))
	copy(out, list)
	return out
}

// Mapped reports whether category has its own statutes.
func (t *Table) Mapped(category string) bool {
	return len(t.statutes[category]) > 0
}

// Resources returns the directory entries whose title or subtitle contains q,
// ignoring case. An empty query returns everything.
func (t *Table) Resources(q string) []Resource {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Resource, 0, len(t.resources))
	for _, r := range t.resources {
		if q == "" ||
			strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(strings.ToLower(r.Subtitle), q) {
			out = append(out, r)
		}
	}
	return out
}
