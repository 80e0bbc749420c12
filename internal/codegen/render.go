package codegen

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ziadkadry99/pagecraft/internal/components"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

// renderNode writes the markup of one node. Leaf types ignore their children;
// unknown types render as a generic wrapper around their children.
func (g *Generator) renderNode(b *strings.Builder, n tree.Node) {
	switch n.Type {
	case components.Navbar:
		g.renderNavbar(b, n)
	case components.Hero:
		fmt.Fprintf(b, `<section class="hero"><div class="hero-content"><h1 class="hero-title">%s</h1><p class="hero-description">%s</p>`,
			g.text(prop(n, "title")), g.text(prop(n, "description")))
		if label := prop(n, "buttonText"); label != "" {
			fmt.Fprintf(b, `<a href="%s" class="btn btn-primary">%s</a>`, g.attr(prop(n, "buttonLink")), g.text(label))
		}
		b.WriteString(`</div></section>`)
	case components.Section:
		b.WriteString(`<section class="section"`)
		if id := prop(n, "id"); id != "" {
			fmt.Fprintf(b, ` id="%s"`, g.attr(id))
		}
		b.WriteString(`>`)
		g.renderChildren(b, n)
		b.WriteString(`</section>`)
	case components.Container:
		b.WriteString(`<div class="container">`)
		g.renderChildren(b, n)
		b.WriteString(`</div>`)
	case components.Grid:
		fmt.Fprintf(b, `<div class="grid grid-cols-%d">`, clamp(propInt(n, "columns", 3), 1, 6))
		g.renderChildren(b, n)
		b.WriteString(`</div>`)
	case components.Column:
		b.WriteString(`<div class="column">`)
		g.renderChildren(b, n)
		b.WriteString(`</div>`)
	case components.Card:
		b.WriteString(`<div class="card">`)
		if img := prop(n, "image"); img != "" {
			fmt.Fprintf(b, `<img class="card-image" src="%s" alt="%s">`, g.attr(img), g.attr(prop(n, "title")))
		}
		fmt.Fprintf(b, `<div class="card-body"><h3 class="card-title">%s</h3><p class="card-text">%s</p>`,
			g.text(prop(n, "title")), g.text(prop(n, "description")))
		g.renderChildren(b, n)
		b.WriteString(`</div></div>`)
	case components.Heading:
		level := clamp(propInt(n, "level", 2), 1, 6)
		fmt.Fprintf(b, `<h%d class="heading">%s</h%d>`, level, g.text(prop(n, "text")), level)
	case components.Text:
		fmt.Fprintf(b, `<p class="text">%s</p>`, g.text(prop(n, "text")))
	case components.Markdown:
		g.renderMarkdown(b, n)
	case components.Image:
		fmt.Fprintf(b, `<img class="image" src="%s" alt="%s">`, g.attr(prop(n, "src")), g.attr(prop(n, "alt")))
	case components.Button:
		fmt.Fprintf(b, `<a href="%s" class="btn btn-%s">%s</a>`,
			g.attr(prop(n, "href")), g.attr(prop(n, "variant")), g.text(prop(n, "text")))
	case components.Link:
		fmt.Fprintf(b, `<a href="%s" class="link">%s</a>`, g.attr(prop(n, "href")), g.text(prop(n, "text")))
	case components.Divider:
		b.WriteString(`<hr class="divider">`)
	case components.Spacer:
		fmt.Fprintf(b, `<div class="spacer" style="height: %dpx"></div>`, propInt(n, "height", 40))
	case components.Features:
		fmt.Fprintf(b, `<section class="features"><h2 class="features-title">%s</h2><div class="features-grid">`, g.text(prop(n, "title")))
		for _, item := range propList(n, "items") {
			fmt.Fprintf(b, `<div class="feature-item"><h3 class="feature-title">%s</h3><p class="feature-description">%s</p></div>`,
				g.text(field(item, "title")), g.text(field(item, "description")))
		}
		b.WriteString(`</div></section>`)
	case components.Testimonial:
		fmt.Fprintf(b, `<section class="testimonial"><blockquote class="testimonial-quote">%s</blockquote><p class="testimonial-author"><strong>%s</strong>`,
			g.text(prop(n, "quote")), g.text(prop(n, "author")))
		if role := prop(n, "role"); role != "" {
			fmt.Fprintf(b, `, <span>%s</span>`, g.text(role))
		}
		b.WriteString(`</p></section>`)
	case components.Pricing:
		g.renderPricing(b, n)
	case components.CallToAction:
		fmt.Fprintf(b, `<section class="cta"><h2 class="cta-title">%s</h2><p class="cta-description">%s</p><a href="%s" class="btn btn-primary">%s</a></section>`,
			g.text(prop(n, "title")), g.text(prop(n, "description")), g.attr(prop(n, "buttonLink")), g.text(prop(n, "buttonText")))
	case components.Form:
		b.WriteString(`<form class="form">`)
		if title := prop(n, "title"); title != "" {
			fmt.Fprintf(b, `<h3 class="form-title">%s</h3>`, g.text(title))
		}
		g.renderChildren(b, n)
		fmt.Fprintf(b, `<button type="submit" class="btn btn-primary">%s</button></form>`, g.text(prop(n, "submitText")))
	case components.Input:
		name := g.attr(prop(n, "name"))
		fmt.Fprintf(b, `<div class="form-group"><label for="%s">%s</label><input type="%s" id="%s" name="%s" placeholder="%s"></div>`,
			name, g.text(prop(n, "label")), g.attr(prop(n, "inputType")), name, name, g.attr(prop(n, "placeholder")))
	case components.Textarea:
		name := g.attr(prop(n, "name"))
		fmt.Fprintf(b, `<div class="form-group"><label for="%s">%s</label><textarea id="%s" name="%s" rows="%d" placeholder="%s"></textarea></div>`,
			name, g.text(prop(n, "label")), name, name, propInt(n, "rows", 4), g.attr(prop(n, "placeholder")))
	case components.Video:
		fmt.Fprintf(b, `<div class="video"><iframe src="%s" title="%s" allowfullscreen></iframe></div>`,
			g.attr(prop(n, "src")), g.attr(prop(n, "title")))
	case components.Footer:
		fmt.Fprintf(b, `<footer class="footer"><div class="footer-container"><p class="footer-text">%s</p>`, g.text(prop(n, "text")))
		g.renderLinks(b, "footer-links", propList(n, "links"))
		b.WriteString(`</div></footer>`)
	default:
		b.WriteString(`<div class="component">`)
		g.renderChildren(b, n)
		b.WriteString(`</div>`)
	}
}

func (g *Generator) renderNavbar(b *strings.Builder, n tree.Node) {
	fmt.Fprintf(b, `<nav class="navbar"><div class="navbar-container"><a href="index.html" class="navbar-brand">%s</a>`, g.text(prop(n, "brand")))
	b.WriteString(`<button class="navbar-toggle" aria-label="Toggle menu">&#9776;</button>`)
	g.renderLinks(b, "navbar-links", propList(n, "links"))
	b.WriteString(`</div></nav>`)
}

func (g *Generator) renderLinks(b *strings.Builder, class string, links []map[string]any) {
	fmt.Fprintf(b, `<ul class="%s">`, class)
	for _, l := range links {
		fmt.Fprintf(b, `<li><a href="%s">%s</a></li>`, g.attr(field(l, "href")), g.text(field(l, "label")))
	}
	b.WriteString(`</ul>`)
}

func (g *Generator) renderPricing(b *strings.Builder, n tree.Node) {
	fmt.Fprintf(b, `<section class="pricing"><h2 class="pricing-title">%s</h2><div class="pricing-grid">`, g.text(prop(n, "title")))
	for _, plan := range propList(n, "plans") {
		fmt.Fprintf(b, `<div class="pricing-plan"><h3 class="pricing-name">%s</h3><p class="pricing-price">%s</p><ul class="pricing-features">`,
			g.text(field(plan, "name")), g.text(field(plan, "price")))
		for _, f := range stringList(plan["features"]) {
			fmt.Fprintf(b, `<li>%s</li>`, g.text(f))
		}
		b.WriteString(`</ul></div>`)
	}
	b.WriteString(`</div></section>`)
}

func (g *Generator) renderMarkdown(b *strings.Builder, n tree.Node) {
	var buf bytes.Buffer
	b.WriteString(`<div class="markdown">`)
	if err := g.md.Convert([]byte(prop(n, "content")), &buf); err != nil {
		// Fall back to the raw text.
		b.WriteString(g.text(prop(n, "content")))
	} else {
		b.Write(bytes.TrimSpace(buf.Bytes()))
	}
	b.WriteString(`</div>`)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
