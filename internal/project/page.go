package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/pagecraft/internal/tree"
)

var (
	ErrLastPage      = errors.New("cannot delete the last remaining page")
	ErrPageNotFound  = errors.New("page not found")
	ErrNoPages       = errors.New("document has no pages")
	ErrEmptyType     = errors.New("component type is empty")
	ErrDuplicatePage = errors.New("duplicate page id")
)

// Page is a named, routable container for one component tree. Older
// documents carry only Slug; newer ones also carry Path.
type Page struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Slug       string      `json:"slug,omitempty"`
	Path       string      `json:"path,omitempty"`
	Components []tree.Node `json:"components"`
}

// Snapshot is the persisted form of a document.
type Snapshot struct {
	Name  string `json:"name"`
	Pages []Page `json:"pages"`
}

// PathForSlug returns the route of a page with the given slug.
func PathForSlug(slug string) string {
	return "/" + strings.Trim(slug, "/")
}

// PagesEqual reports whether two page lists are structurally equal.
func PagesEqual(a, b []Page) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Name != b[i].Name || a[i].Slug != b[i].Slug || a[i].Path != b[i].Path {
			return false
		}
		if !tree.Equal(a[i].Components, b[i].Components) {
			return false
		}
	}
	return true
}

// ClonePages deep-copies a page list.
func ClonePages(pages []Page) []Page {
	if pages == nil {
		return nil
	}
	out := make([]Page, len(pages))
	for i, p := range pages {
		p.Components = tree.Clone(p.Components)
		out[i] = p
	}
	return out
}

// ValidatePages checks that there is at least one page, that non-empty page
// ids are unique and that component ids are unique across all pages.
func ValidatePages(pages []Page) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	seen := make(map[string]bool)
	pageIDs := make(map[string]bool, len(pages))
	for _, p := range pages {
		if p.ID != "" {
			if pageIDs[p.ID] {
				return fmt.Errorf("%w: %s", ErrDuplicatePage, p.ID)
			}
			pageIDs[p.ID] = true
		}
		if err := tree.Validate(p.Components, seen); err != nil {
			return fmt.Errorf("page %q: %w", p.Name, err)
		}
	}
	return nil
}

// Slugify turns a page name into a URL slug: lowercase letters and digits
// with single dashes between words. It returns "" when nothing is left.
func Slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
		default:
			dash = true
		}
	}
	return b.String()
}

func indexOfPage(pages []Page, id string) int {
	for i, p := range pages {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func replacePage(pages []Page, i int, p Page) []Page {
	out := make([]Page, len(pages))
	copy(out, pages)
	out[i] = p
	return out
}
