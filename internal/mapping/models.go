package mapping

import (
	"fmt"
	"path/filepath"
)

// Entry associates a logical asset id with a source folder name
type Entry struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
}

// Category is a named group of entries, also used as the destination subdirectory
type Category struct {
	Name    string
	Entries []Entry
}

// Mapping is the parsed mapping document. Categories keep the order they were stored in.
type Mapping struct {
	Categories []Category
}

// Len returns the total number of entries across all categories
func (m *Mapping) Len() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Entries)
	}
	return n
}

// FileName returns the destination file name for an entry
func (e Entry) FileName() string {
	return e.ID + ".png"
}

func (m *Mapping) add(name string, entries []Entry) error {
	for _, c := range m.Categories {
		if c.Name == name {
			return fmt.Errorf("duplicate category %q", name)
		}
	}
	for i, e := range entries {
		if e.ID == "" {
			return fmt.Errorf("category %q entry %d: missing id", name, i)
		}
		if e.Source == "" {
			return fmt.Errorf("category %q entry %d: missing source", name, i)
		}
		if dest := filepath.Join(name, e.FileName()); !filepath.IsLocal(dest) {
			return fmt.Errorf("category %q entry %d: destination %s is outside the target directory", name, i, dest)
		}
	}
	m.Categories = append(m.Categories, Category{Name: name, Entries: entries})
	return nil
}
