package cmd

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/pagecraft/internal/codegen"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/logging"
	"github.com/ziadkadry99/pagecraft/internal/project"
)

func writeProject(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "site.json")
	snap := project.Snapshot{
		Name: "Demo",
		Pages: []project.Page{
			{ID: "p1", Name: "Home", Path: "/"},
			{ID: "p2", Name: "About", Slug: "about"},
			{ID: "p3", Name: "Guide", Path: "/docs/guide"},
		},
	}
	require.NoError(t, project.WriteFile(path, snap))
	return path
}

func newTestBuilder(source string) *siteBuilder {
	return &siteBuilder{
		source:    source,
		assembler: export.New(codegen.New()),
		logger:    logging.Discard(),
	}
}

func zipNames(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestSiteBuilderArchive(t *testing.T) {
	dir := t.TempDir()
	b := newTestBuilder(writeProject(t, dir))
	b.output = filepath.Join(dir, "out.zip")

	require.NoError(t, b.build())
	assert.ElementsMatch(t,
		[]string{"index.html", "about.html", "docs-guide.html", export.StylesheetName, export.ScriptName},
		zipNames(t, b.output))
}

func TestSiteBuilderPageFilter(t *testing.T) {
	dir := t.TempDir()
	b := newTestBuilder(writeProject(t, dir))
	b.output = filepath.Join(dir, "docs.zip")
	b.patterns = []string{"/docs/**"}

	require.NoError(t, b.build())
	assert.ElementsMatch(t,
		[]string{"docs-guide.html", export.StylesheetName, export.ScriptName},
		zipNames(t, b.output))

	b.patterns = []string{"about"}
	require.NoError(t, b.build())
	assert.ElementsMatch(t,
		[]string{"about.html", export.StylesheetName, export.ScriptName},
		zipNames(t, b.output))

	// Page names are not matched.
	b.patterns = []string{"Guide"}
	assert.ErrorIs(t, b.build(), export.ErrMalformedInput)

	b.patterns = []string{"/nothing/*"}
	err := b.build()
	assert.ErrorIs(t, err, export.ErrMalformedInput)
}

func TestSiteBuilderDir(t *testing.T) {
	t.Setenv("CI", "1")
	dir := t.TempDir()
	b := newTestBuilder(writeProject(t, dir))
	b.dir = filepath.Join(dir, "site")

	require.NoError(t, b.build())
	for _, name := range []string{"index.html", "about.html", "docs-guide.html", export.StylesheetName} {
		_, err := os.Stat(filepath.Join(b.dir, name))
		assert.NoError(t, err, name)
	}
}

func TestSiteBuilderMissingSource(t *testing.T) {
	b := newTestBuilder(filepath.Join(t.TempDir(), "missing.json"))
	b.output = filepath.Join(t.TempDir(), "out.zip")
	assert.ErrorIs(t, b.build(), os.ErrNotExist)
}

func TestExportPagesFlagHelp(t *testing.T) {
	usage := exportCmd.Flags().Lookup("pages").Usage
	assert.Contains(t, usage, "route")
	assert.NotContains(t, usage, "slug or name")
	assert.NotContains(t, exportCmd.Long, "slug or name")
}
