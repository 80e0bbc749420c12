// Package codegen turns component trees into static HTML, plus the shared
// stylesheet and script every exported site uses.
package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ziadkadry99/pagecraft/internal/components"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

// Generator renders component trees. Its output is a pure function of the
// input tree and its options.
type Generator struct {
	escape bool
	md     goldmark.Markdown
	tmpl   *template.Template
}

// Option configures a Generator.
type Option func(*Generator)

// WithEscaping controls whether prop values are HTML-escaped. With escaping
// off, text is inserted verbatim and attribute values only have their quotes
// encoded. Escaping is on by default.
func WithEscaping(on bool) Option {
	return func(g *Generator) { g.escape = on }
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{escape: true}
	for _, opt := range opts {
		opt(g)
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	}
	if !g.escape {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(gmhtml.WithUnsafe()))
	}
	g.md = goldmark.New(rendererOpts...)
	g.tmpl = template.Must(template.New("document").Parse(documentTemplate))
	return g
}

var defaultGenerator = New()

// GenerateMarkup renders nodes with the default generator.
func GenerateMarkup(nodes []tree.Node) string {
	return defaultGenerator.GenerateMarkup(nodes)
}

// GenerateDocument renders a full page with the default generator.
func GenerateDocument(title string, nodes []tree.Node) (string, error) {
	return defaultGenerator.GenerateDocument(title, nodes)
}

// GenerateStylesheet returns the stylesheet shared by every page.
func GenerateStylesheet() string { return stylesheetContent }

// GenerateScript returns the script shared by every page.
func GenerateScript() string { return scriptContent }

// GenerateMarkup renders a forest to HTML, one root node per line.
func (g *Generator) GenerateMarkup(nodes []tree.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		g.renderNode(&b, n)
		b.WriteString("\n")
	}
	return b.String()
}

type documentData struct {
	Title string
	Body  template.HTML
}

// GenerateDocument renders a complete HTML5 document linking styles.css and
// script.js around the markup of nodes.
func (g *Generator) GenerateDocument(title string, nodes []tree.Node) (string, error) {
	var buf bytes.Buffer
	data := documentData{
		Title: title,
		Body:  template.HTML(g.GenerateMarkup(nodes)),
	}
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering document %q: %w", title, err)
	}
	return buf.String(), nil
}

func (g *Generator) renderChildren(b *strings.Builder, n tree.Node) {
	for _, c := range n.Children {
		g.renderNode(b, c)
	}
}

// text returns a prop for a text position.
func (g *Generator) text(v string) string {
	if g.escape {
		return html.EscapeString(v)
	}
	return v
}

// attr returns a prop for a double-quoted attribute value.
func (g *Generator) attr(v string) string {
	if g.escape {
		return html.EscapeString(v)
	}
	return strings.ReplaceAll(v, `"`, "&quot;")
}

// prop returns the string form of a prop, falling back to the catalog default.
func prop(n tree.Node, key string) string {
	if v, ok := n.Props[key]; ok {
		return stringify(v)
	}
	if v, ok := components.Default(n.Type, key); ok {
		return stringify(v)
	}
	return ""
}

func propInt(n tree.Node, key string, def int) int {
	s := prop(n, key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return int(f)
}

// propList returns a list-of-objects prop, falling back to the catalog default.
func propList(n tree.Node, key string) []map[string]any {
	v, ok := n.Props[key]
	if !ok {
		v, _ = components.Default(n.Type, key)
	}
	switch items := v.(type) {
	case []map[string]any:
		return items
	case []any:
		out := make([]map[string]any, 0, len(items))
		for _, item := range items {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

func field(m map[string]any, key string) string {
	return stringify(m[key])
}

func stringList(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			out = append(out, stringify(item))
		}
		return out
	default:
		return nil
	}
}

// stringify formats a JSON-shaped value. Composite values go through
// encoding/json, which writes map keys in sorted order.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
