package site

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPutReplacesExistingPath(t *testing.T) {
	fs := NewFiles()
	fs.Put(NewGeneratedFile("coverage.md", "first"))
	fs.Put(NewGeneratedFile("other.md", "other"))
	fs.Put(NewGeneratedFile("coverage.md", "second"))

	if fs.Len() != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", fs.Len())
	}
	got, err := fs.Get("coverage.md").ContentString()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if got != "second" {
		t.Fatalf("replace did not win: got %q", got)
	}
	// Replaced entry keeps its position.
	if all := fs.All(); all[0].SrcPath != "coverage.md" || all[1].SrcPath != "other.md" {
		t.Fatalf("unexpected order: %s, %s", all[0].SrcPath, all[1].SrcPath)
	}
}

func TestRemoveReindexes(t *testing.T) {
	fs := NewFiles()
	fs.Put(NewGeneratedFile("a.md", "a"))
	fs.Put(NewGeneratedFile("b.md", "b"))
	fs.Put(NewGeneratedFile("c.md", "c"))
	fs.Remove("b.md")

	if fs.Contains("b.md") {
		t.Fatal("b.md still present after remove")
	}
	if f := fs.Get("c.md"); f == nil || f.SrcPath != "c.md" {
		t.Fatal("index stale after remove")
	}
	if fs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", fs.Len())
	}
	fs.Remove("b.md") // second remove is a no-op
	if fs.Len() != 2 {
		t.Fatalf("repeat remove changed length: %d", fs.Len())
	}
}

func TestDiskBackedContentIsLazyAndCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.md")
	if err := os.WriteFile(path, []byte("# Hello"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := NewFile("page.md", path)
	got, err := f.ContentString()
	if err != nil {
		t.Fatalf("content: %v", err)
	}
	if got != "# Hello" {
		t.Fatalf("unexpected content %q", got)
	}

	// Cached: deleting the backing file must not affect subsequent reads.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got, err = f.ContentString(); err != nil || got != "# Hello" {
		t.Fatalf("cached content: %q, %v", got, err)
	}
}

func TestPagePathAndMarkdown(t *testing.T) {
	f := NewGeneratedFile("guide/intro.md", "")
	if f.PagePath() != "guide/intro" {
		t.Fatalf("page path: %s", f.PagePath())
	}
	fs := NewFiles()
	fs.Put(f)
	fs.Put(NewFile("logo.png", "/tmp/logo.png"))
	if md := fs.Markdown(); len(md) != 1 || md[0].SrcPath != "guide/intro.md" {
		t.Fatalf("markdown filter: %v", md)
	}
}
