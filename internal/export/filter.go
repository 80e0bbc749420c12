package export

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ziadkadry99/pagecraft/internal/project"
)

// FilterPages keeps the pages matching any of the glob patterns. A pattern is
// matched against the page's route (its path, or "/"+slug) and against its
// key, so both "/docs/**" and "docs-*" work. With no patterns every page is
// kept.
func FilterPages(pages []project.Page, patterns []string) ([]project.Page, error) {
	if len(patterns) == 0 {
		return pages, nil
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid page pattern %q", p)
		}
	}

	var out []project.Page
	for _, p := range pages {
		if matchesAny(p, patterns) {
			out = append(out, p)
		}
	}
	return out, nil
}

func matchesAny(p project.Page, patterns []string) bool {
	route := p.Path
	if route == "" && p.Slug != "" {
		route = project.PathForSlug(p.Slug)
	}
	key := PageKey(p)
	for _, pattern := range patterns {
		if route != "" {
			if ok, _ := doublestar.Match(pattern, route); ok {
				return true
			}
			if ok, _ := doublestar.Match(pattern, strings.TrimPrefix(route, "/")); ok {
				return true
			}
		}
		if ok, _ := doublestar.Match(pattern, key); ok {
			return true
		}
	}
	return false
}
