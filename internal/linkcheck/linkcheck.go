// Package linkcheck verifies the merged coverage subtree after a build:
// it parses every HTML file and reports links that still point at the
// report's pre-merge root name or at targets missing from disk.
package linkcheck

import (
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// IssueKind classifies a reported link problem.
type IssueKind string

const (
	// IssueStaleIndex marks a link still pointing at index.html inside the
	// merged report subtree; after the merge that slot serves the
	// synthesized page, not the report root.
	IssueStaleIndex IssueKind = "stale_index"
	// IssueMissingTarget marks a relative link whose target does not exist.
	IssueMissingTarget IssueKind = "missing_target"
)

// Issue is one flagged link.
type Issue struct {
	File string // path of the HTML file containing the link
	URL  string // the link as written
	Kind IssueKind
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.File, i.URL, i.Kind)
}

// CheckDir walks dir recursively and checks every .html file. The
// directory is expected to be a merged coverage subtree, where the report
// root lives at covindex.html and index.html serves the synthesized page.
func CheckDir(dir string) ([]Issue, error) {
	var issues []Issue
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		fileIssues, err := checkFile(dir, path)
		if err != nil {
			return err
		}
		issues = append(issues, fileIssues...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", dir, err)
	}
	return issues, nil
}

func checkFile(root, path string) ([]Issue, error) {
	// #nosec G304 -- path comes from walking the caller-supplied directory
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	links, err := extractLinks(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	isCanonicalPage := filepath.Base(path) == "index.html" && filepath.Dir(path) == filepath.Clean(root)

	var issues []Issue
	for _, link := range links {
		target, ok := relativeTarget(link)
		if !ok {
			continue
		}
		// The synthesized page may legitimately link wherever it wants;
		// only report-authored pages carry stale root references.
		if target == "index.html" && !isCanonicalPage {
			issues = append(issues, Issue{File: path, URL: link, Kind: IssueStaleIndex})
			continue
		}
		resolved := filepath.Join(filepath.Dir(path), filepath.FromSlash(target))
		if _, err := os.Stat(resolved); os.IsNotExist(err) {
			issues = append(issues, Issue{File: path, URL: link, Kind: IssueMissingTarget})
		}
	}
	return issues, nil
}

// extractLinks returns every href and src attribute value in document
// order.
func extractLinks(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key == "href" || attr.Key == "src" {
					links = append(links, attr.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// relativeTarget reduces a link to its site-relative file target, or
// reports false for links that cannot dangle (external URLs, anchors,
// mailto, absolute paths).
func relativeTarget(link string) (string, bool) {
	u, err := url.Parse(link)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || strings.HasPrefix(link, "/") {
		return "", false
	}
	if u.Path == "" { // pure fragment or query
		return "", false
	}
	return u.Path, true
}
