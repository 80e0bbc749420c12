// Package components is the catalog of component kinds the builder knows:
// their type names, whether they hold children, and their default props.
package components

import "sort"

// Known component types.
const (
	Navbar       = "Navbar"
	Hero         = "Hero"
	Section      = "Section"
	Container    = "Container"
	Grid         = "Grid"
	Column       = "Column"
	Card         = "Card"
	Heading      = "Heading"
	Text         = "Text"
	Markdown     = "Markdown"
	Image        = "Image"
	Button       = "Button"
	Link         = "Link"
	Divider      = "Divider"
	Spacer       = "Spacer"
	Features     = "Features"
	Testimonial  = "Testimonial"
	Pricing      = "Pricing"
	CallToAction = "CallToAction"
	Form         = "Form"
	Input        = "Input"
	Textarea     = "Textarea"
	Video        = "Video"
	Footer       = "Footer"
)

// Definition describes one component kind.
type Definition struct {
	Type      string         `json:"type"`
	Label     string         `json:"label"`
	Category  string         `json:"category"`
	Container bool           `json:"container"`
	Singleton bool           `json:"singleton"`
	Defaults  map[string]any `json:"defaults"`
}

var definitions = map[string]Definition{
	Navbar: {Type: Navbar, Label: "Navigation Bar", Category: "layout", Singleton: true, Defaults: map[string]any{
		"brand": "My Website",
		"links": []any{
			map[string]any{"label": "Home", "href": "index.html"},
			map[string]any{"label": "About", "href": "about.html"},
			map[string]any{"label": "Contact", "href": "contact.html"},
		},
	}},
	Hero: {Type: Hero, Label: "Hero", Category: "sections", Defaults: map[string]any{
		"title":       "Welcome to My Website",
		"description": "Build amazing websites with our drag and drop editor",
		"buttonText":  "Get Started",
		"buttonLink":  "#",
	}},
	Section:   {Type: Section, Label: "Section", Category: "layout", Container: true, Defaults: map[string]any{"id": ""}},
	Container: {Type: Container, Label: "Container", Category: "layout", Container: true, Defaults: map[string]any{}},
	Grid:      {Type: Grid, Label: "Grid", Category: "layout", Container: true, Defaults: map[string]any{"columns": 3.0}},
	Column:    {Type: Column, Label: "Column", Category: "layout", Container: true, Defaults: map[string]any{}},
	Card: {Type: Card, Label: "Card", Category: "content", Container: true, Defaults: map[string]any{
		"title":       "Card Title",
		"description": "Card description goes here.",
		"image":       "",
	}},
	Heading: {Type: Heading, Label: "Heading", Category: "content", Defaults: map[string]any{
		"text":  "Heading",
		"level": 2.0,
	}},
	Text: {Type: Text, Label: "Text", Category: "content", Defaults: map[string]any{
		"text": "Add your text here.",
	}},
	Markdown: {Type: Markdown, Label: "Markdown", Category: "content", Defaults: map[string]any{
		"content": "## Markdown\n\nWrite **rich** text here.",
	}},
	Image: {Type: Image, Label: "Image", Category: "media", Defaults: map[string]any{
		"src": "https://placehold.co/800x400",
		"alt": "Image",
	}},
	Button: {Type: Button, Label: "Button", Category: "content", Defaults: map[string]any{
		"text":    "Click Me",
		"href":    "#",
		"variant": "primary",
	}},
	Link: {Type: Link, Label: "Link", Category: "content", Defaults: map[string]any{
		"text": "Learn more",
		"href": "#",
	}},
	Divider: {Type: Divider, Label: "Divider", Category: "layout", Defaults: map[string]any{}},
	Spacer:  {Type: Spacer, Label: "Spacer", Category: "layout", Defaults: map[string]any{"height": 40.0}},
	Features: {Type: Features, Label: "Features", Category: "sections", Defaults: map[string]any{
		"title": "Our Features",
		"items": []any{
			map[string]any{"title": "Fast", "description": "Pages load in the blink of an eye."},
			map[string]any{"title": "Responsive", "description": "Looks great on every screen."},
			map[string]any{"title": "Simple", "description": "Drag, drop and publish."},
		},
	}},
	Testimonial: {Type: Testimonial, Label: "Testimonial", Category: "sections", Defaults: map[string]any{
		"quote":  "This builder changed how we ship landing pages.",
		"author": "Jane Doe",
		"role":   "Marketing Lead",
	}},
	Pricing: {Type: Pricing, Label: "Pricing", Category: "sections", Defaults: map[string]any{
		"title": "Pricing",
		"plans": []any{
			map[string]any{"name": "Basic", "price": "$9/mo", "features": []any{"1 site", "Email support"}},
			map[string]any{"name": "Pro", "price": "$29/mo", "features": []any{"10 sites", "Priority support"}},
		},
	}},
	CallToAction: {Type: CallToAction, Label: "Call to Action", Category: "sections", Defaults: map[string]any{
		"title":       "Ready to get started?",
		"description": "Join thousands of happy customers today.",
		"buttonText":  "Sign Up",
		"buttonLink":  "#",
	}},
	Form: {Type: Form, Label: "Form", Category: "forms", Container: true, Defaults: map[string]any{
		"title":      "Contact Us",
		"submitText": "Submit",
	}},
	Input: {Type: Input, Label: "Input", Category: "forms", Defaults: map[string]any{
		"label":       "Name",
		"name":        "name",
		"inputType":   "text",
		"placeholder": "Your name",
	}},
	Textarea: {Type: Textarea, Label: "Text Area", Category: "forms", Defaults: map[string]any{
		"label":       "Message",
		"name":        "message",
		"placeholder": "Your message",
		"rows":        4.0,
	}},
	Video: {Type: Video, Label: "Video", Category: "media", Defaults: map[string]any{
		"src":   "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"title": "Video",
	}},
	Footer: {Type: Footer, Label: "Footer", Category: "layout", Singleton: true, Defaults: map[string]any{
		"text": "© 2024 My Website. All rights reserved.",
		"links": []any{
			map[string]any{"label": "Privacy", "href": "#"},
			map[string]any{"label": "Terms", "href": "#"},
		},
	}},
}

// Lookup returns the definition for typ.
func Lookup(typ string) (Definition, bool) {
	d, ok := definitions[typ]
	return d, ok
}

// Known reports whether typ is a catalog type.
func Known(typ string) bool {
	_, ok := definitions[typ]
	return ok
}

// IsContainer reports whether typ renders its children. Unknown types are
// treated as containers, matching the generic wrapper they render as.
func IsContainer(typ string) bool {
	d, ok := definitions[typ]
	return !ok || d.Container
}

// IsSingleton reports whether typ is kept in sync across pages.
func IsSingleton(typ string) bool {
	return definitions[typ].Singleton
}

// Types returns every catalog type, sorted by name.
func Types() []string {
	types := make([]string, 0, len(definitions))
	for t := range definitions {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// All returns every definition, sorted by type.
func All() []Definition {
	defs := make([]Definition, 0, len(definitions))
	for _, t := range Types() {
		defs = append(defs, definitions[t])
	}
	return defs
}

// DefaultProps returns a fresh deep copy of the default props for typ, or an
// empty map for unknown types.
func DefaultProps(typ string) map[string]any {
	d, ok := definitions[typ]
	if !ok {
		return map[string]any{}
	}
	return copyMap(d.Defaults)
}

// Default returns the default value of one prop of typ.
func Default(typ, key string) (any, bool) {
	v, ok := definitions[typ].Defaults[key]
	return v, ok
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
