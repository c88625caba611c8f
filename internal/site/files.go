// Package site models the virtual file collection a build operates on.
// Entries are either backed by an on-disk source file or carry generated
// in-memory content (pages synthesized by plugins).
package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a single entry in the collection, keyed by its site-relative
// source path (forward slashes, e.g. "guide/intro.md").
type File struct {
	SrcPath string // site-relative source path
	AbsPath string // absolute filesystem path; empty for generated files

	content   []byte
	generated bool
	loaded    bool
}

// NewFile creates a disk-backed entry.
func NewFile(srcPath, absPath string) *File {
	return &File{SrcPath: filepath.ToSlash(srcPath), AbsPath: absPath}
}

// NewGeneratedFile creates an entry whose content is supplied in memory
// rather than read from disk.
func NewGeneratedFile(srcPath, content string) *File {
	return &File{
		SrcPath:   filepath.ToSlash(srcPath),
		content:   []byte(content),
		generated: true,
		loaded:    true,
	}
}

// IsGenerated reports whether the entry carries in-memory content.
func (f *File) IsGenerated() bool { return f.generated }

// IsMarkdown reports whether the entry is a Markdown page source.
func (f *File) IsMarkdown() bool { return strings.HasSuffix(f.SrcPath, ".md") }

// PagePath returns the site-relative page path without the source
// extension ("guide/intro.md" -> "guide/intro").
func (f *File) PagePath() string { return strings.TrimSuffix(f.SrcPath, ".md") }

// Content returns the entry's content, reading disk-backed entries lazily
// and caching the result.
func (f *File) Content() ([]byte, error) {
	if f.loaded {
		return f.content, nil
	}
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("read source file %s: %w", f.AbsPath, err)
	}
	f.content = data
	f.loaded = true
	return f.content, nil
}

// ContentString is Content as a string.
func (f *File) ContentString() (string, error) {
	data, err := f.Content()
	return string(data), err
}

// Files is an ordered collection of entries with at most one entry per
// source path. It is an ordered map, not an append-then-dedup list:
// inserting at an existing path replaces the prior entry in place.
type Files struct {
	entries []*File
	index   map[string]int
}

// NewFiles creates an empty collection.
func NewFiles() *Files {
	return &Files{index: make(map[string]int)}
}

// Len returns the number of entries.
func (fs *Files) Len() int { return len(fs.entries) }

// Get returns the entry at the given source path, or nil.
func (fs *Files) Get(srcPath string) *File {
	if i, ok := fs.index[filepath.ToSlash(srcPath)]; ok {
		return fs.entries[i]
	}
	return nil
}

// Contains reports whether an entry exists at the given source path.
func (fs *Files) Contains(srcPath string) bool {
	_, ok := fs.index[filepath.ToSlash(srcPath)]
	return ok
}

// Put inserts the file, replacing any prior entry at the same source path.
// A replaced entry keeps its original position in the iteration order; new
// paths append.
func (fs *Files) Put(f *File) {
	if i, ok := fs.index[f.SrcPath]; ok {
		fs.entries[i] = f
		return
	}
	fs.index[f.SrcPath] = len(fs.entries)
	fs.entries = append(fs.entries, f)
}

// Remove deletes the entry at the given source path, if present.
func (fs *Files) Remove(srcPath string) {
	key := filepath.ToSlash(srcPath)
	i, ok := fs.index[key]
	if !ok {
		return
	}
	fs.entries = append(fs.entries[:i], fs.entries[i+1:]...)
	delete(fs.index, key)
	for j := i; j < len(fs.entries); j++ {
		fs.index[fs.entries[j].SrcPath] = j
	}
}

// All returns the entries in insertion order. The returned slice is a copy;
// the entries themselves are shared.
func (fs *Files) All() []*File {
	out := make([]*File, len(fs.entries))
	copy(out, fs.entries)
	return out
}

// Markdown returns the Markdown page entries in insertion order.
func (fs *Files) Markdown() []*File {
	var out []*File
	for _, f := range fs.entries {
		if f.IsMarkdown() {
			out = append(out, f)
		}
	}
	return out
}
