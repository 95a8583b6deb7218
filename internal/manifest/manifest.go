package manifest

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Manifest is the ordered list of section files making up the guide.
// Order is significant: it defines the reading sequence of the output.
type Manifest struct {
	Sections []string
}

// Default returns the built-in section order for the guide.
func Default() Manifest {
	return Manifest{Sections: []string{
		"01-introduction.md",
		"02-architecture.md",
		"03-static-hosting.md",
		"04-workers.md",
		"05-d1-database.md",
		"06-kv-storage.md",
		"07-r2-objects.md",
		"08-vectorize.md",
		"09-workers-ai.md",
		"10-integration.md",
		"11-free-tier.md",
		"12-deployment.md",
		"13-troubleshooting.md",
	}}
}

// New builds a manifest from an explicit section list, preserving order.
func New(sections []string) Manifest {
	m := Manifest{Sections: make([]string, len(sections))}
	copy(m.Sections, sections)
	return m
}

func (m Manifest) Len() int {
	return len(m.Sections)
}

// Sentinel is the first section, used to check the tool runs from the
// right directory before anything is written.
func (m Manifest) Sentinel() string {
	if len(m.Sections) == 0 {
		return ""
	}
	return m.Sections[0]
}

func (m Manifest) Contains(name string) bool {
	for _, s := range m.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// Status is the on-disk state of one manifest entry.
type Status struct {
	Name  string
	Found bool
	Size  int64
}

// Verify stats every entry against dir, in manifest order.
func (m Manifest) Verify(dir string) []Status {
	statuses := make([]Status, 0, len(m.Sections))
	for _, name := range m.Sections {
		st := Status{Name: name}
		if info, err := os.Stat(filepath.Join(dir, name)); err == nil && !info.IsDir() {
			st.Found = true
			st.Size = info.Size()
		}
		statuses = append(statuses, st)
	}
	return statuses
}

var ignoredDirs = []string{".git", "vendor", "node_modules", "testdata"}

// Discover walks dir and returns markdown files that are not part of the
// manifest, sorted by path. Useful for spotting sections that were written
// but never added to the build order. Paths listed in skip (typically the
// assembled output itself) are ignored.
func Discover(dir string, m Manifest, skip ...string) ([]string, error) {
	var orphans []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, ignored := range ignoredDirs {
				if d.Name() == ignored {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if m.Contains(rel) {
			return nil
		}
		for _, s := range skip {
			if rel == s {
				return nil
			}
		}
		orphans = append(orphans, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(orphans)
	return orphans, nil
}
