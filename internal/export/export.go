// Package export packages generated pages into a downloadable site: one HTML
// file per page plus a shared stylesheet and script.
package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ziadkadry99/pagecraft/internal/codegen"
	"github.com/ziadkadry99/pagecraft/internal/progress"
	"github.com/ziadkadry99/pagecraft/internal/project"
)

const (
	ContentType     = "application/zip"
	DefaultFilename = "website-export.zip"
	StylesheetName  = "styles.css"
	ScriptName      = "script.js"
)

var ErrMalformedInput = errors.New("malformed export input")

// File is one entry of an exported site.
type File struct {
	Name    string
	Content []byte
}

// Assembler turns page lists into site files.
type Assembler struct {
	gen *codegen.Generator
}

// New creates an Assembler rendering with gen, or with the default generator
// when gen is nil.
func New(gen *codegen.Generator) *Assembler {
	if gen == nil {
		gen = codegen.New()
	}
	return &Assembler{gen: gen}
}

var defaultAssembler = New(nil)

// Files renders pages with the default assembler.
func Files(pages []project.Page) ([]File, error) {
	return defaultAssembler.Files(pages)
}

// Archive renders pages into zip bytes with the default assembler.
func Archive(pages []project.Page) ([]byte, error) {
	return defaultAssembler.Archive(pages)
}

// PageKey derives the file name stem of a page: "index" for the root path,
// the flattened path otherwise, then the slug, then the id.
func PageKey(p project.Page) string {
	if p.Path != "" {
		trimmed := strings.Trim(p.Path, "/")
		if trimmed == "" {
			return "index"
		}
		return strings.ReplaceAll(trimmed, "/", "-")
	}
	if slug := strings.Trim(p.Slug, "/"); slug != "" {
		return strings.ReplaceAll(slug, "/", "-")
	}
	if p.ID != "" {
		return p.ID
	}
	return "page"
}

// Keys returns the page keys of pages in order. Repeated keys get -2, -3, ...
// suffixes so every page maps to its own file.
func Keys(pages []project.Page) []string {
	keys := make([]string, len(pages))
	used := make(map[string]bool, len(pages))
	for i, p := range pages {
		base := PageKey(p)
		key := base
		for n := 2; used[key]; n++ {
			key = base + "-" + strconv.Itoa(n)
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}

// Files renders one HTML document per page followed by the shared stylesheet
// and script.
func (a *Assembler) Files(pages []project.Page) ([]File, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: no pages", ErrMalformedInput)
	}
	keys := Keys(pages)
	files := make([]File, 0, len(pages)+2)
	for i, p := range pages {
		title := p.Name
		if title == "" {
			title = keys[i]
		}
		doc, err := a.gen.GenerateDocument(title, p.Components)
		if err != nil {
			return nil, fmt.Errorf("rendering page %s: %w", keys[i], err)
		}
		files = append(files, File{Name: keys[i] + ".html", Content: []byte(doc)})
	}
	files = append(files,
		File{Name: StylesheetName, Content: []byte(codegen.GenerateStylesheet())},
		File{Name: ScriptName, Content: []byte(codegen.GenerateScript())},
	)
	return files, nil
}

// Archive renders pages into zip bytes. Nothing is returned on error.
func (a *Assembler) Archive(pages []project.Page) ([]byte, error) {
	var buf bytes.Buffer
	if err := a.WriteArchive(&buf, pages); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteArchive renders pages and streams them to w as a zip archive. Entries
// carry a fixed modification time so identical input yields identical bytes.
func (a *Assembler) WriteArchive(w io.Writer, pages []project.Page) error {
	files, err := a.Files(pages)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: archiveTime,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("adding %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

var archiveTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// WriteDir renders pages into dir, reporting each written file. It returns the
// number of files written.
func (a *Assembler) WriteDir(dir string, pages []project.Page, reporter progress.Reporter) (int, error) {
	if reporter == nil {
		reporter = progress.Nop{}
	}
	files, err := a.Files(pages)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}

	reporter.Start(len(files))
	defer reporter.Finish()
	for i, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
			return i, fmt.Errorf("writing %s: %w", f.Name, err)
		}
		reporter.Update(i+1, f.Name)
	}
	return len(files), nil
}

// DecodePages reads a page list from JSON: an object with a "pages" array or a
// bare array.
func DecodePages(data []byte) ([]project.Page, error) {
	s, err := project.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return s.Pages, nil
}
