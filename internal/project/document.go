// Package project manages a multi-page website document: its versioned page
// collection, the current page selection, the project name, and the
// cross-page sync of navigation bars and footers.
//
// A Document is not safe for concurrent use.
package project

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/pagecraft/internal/components"
	"github.com/ziadkadry99/pagecraft/internal/history"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

// DefaultName is the name of a freshly created project.
const DefaultName = "Untitled Project"

// Document owns the page collection, wrapped by one undo/redo history. Only
// the pages are versioned; the current page and the name are not.
type Document struct {
	name      string
	current   string
	hist      *history.History[[]Page]
	newID     tree.IDFunc
	limit     int
	listeners []func(Snapshot)
}

// Option configures a Document.
type Option func(*Document)

// WithHistoryLimit bounds the number of undo steps.
func WithHistoryLimit(n int) Option {
	return func(d *Document) { d.limit = n }
}

// WithIDFunc sets the generator used for new component and page ids.
func WithIDFunc(fn tree.IDFunc) Option {
	return func(d *Document) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// WithName sets the project name.
func WithName(name string) Option {
	return func(d *Document) { d.name = name }
}

// New creates a document with a single empty home page.
func New(opts ...Option) *Document {
	d := &Document{
		name:  DefaultName,
		newID: tree.NewID,
		limit: history.DefaultLimit,
	}
	for _, opt := range opts {
		opt(d)
	}
	home := Page{
		ID:         d.newID(),
		Name:       "Home",
		Slug:       "home",
		Path:       "/",
		Components: []tree.Node{},
	}
	d.hist = history.New([]Page{home},
		history.WithLimit[[]Page](d.limit),
		history.WithEqual(PagesEqual),
	)
	d.current = home.ID
	return d
}

// Load creates a document hydrated from a snapshot.
func Load(s Snapshot, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.Hydrate(s); err != nil {
		return nil, err
	}
	return d, nil
}

// Hydrate replaces the document contents with s. The load is not an undo
// step, and the history is empty afterwards. Pages without an id get one.
func (d *Document) Hydrate(s Snapshot) error {
	if err := ValidatePages(s.Pages); err != nil {
		return fmt.Errorf("hydrating document: %w", err)
	}
	pages := ClonePages(s.Pages)
	for i := range pages {
		if pages[i].ID == "" {
			pages[i].ID = d.newID()
		}
		if pages[i].Components == nil {
			pages[i].Components = []tree.Node{}
		}
	}
	d.hist.SetState(pages, false)
	d.hist.Clear()
	d.current = pages[0].ID
	if s.Name != "" {
		d.name = s.Name
	}
	return nil
}

// OnChange registers fn to be called with a snapshot after every applied
// edit, undo, redo or rename. Hydration and no-op edits do not notify.
func (d *Document) OnChange(fn func(Snapshot)) {
	d.listeners = append(d.listeners, fn)
}

func (d *Document) notify() {
	if len(d.listeners) == 0 {
		return
	}
	s := d.Snapshot()
	for _, fn := range d.listeners {
		fn(s)
	}
}

func (d *Document) commit(pages []Page) bool {
	if !d.hist.SetState(pages, true) {
		return false
	}
	d.notify()
	return true
}

// Name returns the project name.
func (d *Document) Name() string { return d.name }

// RenameProject sets the project name. The name is not versioned.
func (d *Document) RenameProject(name string) {
	if name == d.name {
		return
	}
	d.name = name
	d.notify()
}

// Pages returns the current page collection. Callers must not mutate it.
func (d *Document) Pages() []Page { return d.hist.Present() }

// CurrentPageID returns the id of the selected page.
func (d *Document) CurrentPageID() string { return d.current }

// CurrentPage returns the selected page.
func (d *Document) CurrentPage() Page {
	pages := d.hist.Present()
	if i := indexOfPage(pages, d.current); i >= 0 {
		return pages[i]
	}
	return pages[0]
}

// CurrentTree returns the component forest of the selected page.
func (d *Document) CurrentTree() []tree.Node {
	return d.CurrentPage().Components
}

// CollectIDs lists every component id on the current page in pre-order.
func (d *Document) CollectIDs() []string {
	return tree.CollectIDs(d.CurrentTree())
}

// FindByID looks up a component on the current page.
func (d *Document) FindByID(id string) (tree.Node, bool) {
	return tree.FindByID(d.CurrentTree(), id)
}

// Snapshot returns a deep copy of the persisted state.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{Name: d.name, Pages: ClonePages(d.hist.Present())}
}

// UpdateCurrentPageComponents replaces the current page's forest with
// fn(forest) as one undo step. It reports whether anything changed.
func (d *Document) UpdateCurrentPageComponents(fn func([]tree.Node) []tree.Node) bool {
	pages := d.hist.Present()
	i := indexOfPage(pages, d.current)
	if i < 0 {
		return false
	}
	p := pages[i]
	p.Components = fn(p.Components)
	return d.commit(replacePage(pages, i, p))
}

// InsertComponent creates a component of typ with a fresh id and the catalog
// defaults, and inserts it relative to targetID on the current page.
func (d *Document) InsertComponent(typ, targetID string, pos tree.Position) (tree.Node, error) {
	if typ == "" {
		return tree.Node{}, ErrEmptyType
	}
	n := tree.Node{
		ID:    d.newID(),
		Type:  typ,
		Props: components.DefaultProps(typ),
	}
	if err := d.Insert(n, targetID, pos); err != nil {
		return tree.Node{}, err
	}
	return n, nil
}

// Insert places an existing node on the current page. The node's ids must not
// already be used anywhere in the document.
func (d *Document) Insert(n tree.Node, targetID string, pos tree.Position) error {
	seen := make(map[string]bool)
	for _, p := range d.hist.Present() {
		for _, id := range tree.CollectIDs(p.Components) {
			seen[id] = true
		}
	}
	if err := tree.Validate([]tree.Node{n}, seen); err != nil {
		return err
	}
	d.UpdateCurrentPageComponents(func(nodes []tree.Node) []tree.Node {
		return tree.Insert(nodes, n, targetID, pos)
	})
	return nil
}

// UpdateComponent merges patch into the props of the component with the given
// id on the current page. When that component is a navigation bar or footer,
// the first component of the same type on every other page receives the same
// patch. The whole change is one undo step. A missing id is a no-op.
func (d *Document) UpdateComponent(id string, patch map[string]any) bool {
	pages := d.hist.Present()
	i := indexOfPage(pages, d.current)
	if i < 0 {
		return false
	}
	target, ok := tree.FindByID(pages[i].Components, id)
	if !ok {
		return false
	}

	out := make([]Page, len(pages))
	copy(out, pages)
	out[i].Components = tree.Update(pages[i].Components, id, patch)

	if components.IsSingleton(target.Type) {
		for j := range out {
			if j == i {
				continue
			}
			if peer, ok := tree.FindFirstByType(out[j].Components, target.Type); ok {
				out[j].Components = tree.Update(out[j].Components, peer.ID, patch)
			}
		}
	}
	return d.commit(out)
}

// RemoveComponent deletes the component with the given id from the current
// page. A missing id is a no-op.
func (d *Document) RemoveComponent(id string) bool {
	return d.UpdateCurrentPageComponents(func(nodes []tree.Node) []tree.Node {
		return tree.Remove(nodes, id)
	})
}

// DuplicateComponent copies the component with the given id, with fresh ids
// throughout, right after the original. It returns the copy.
func (d *Document) DuplicateComponent(id string) (tree.Node, bool) {
	var copyID string
	mint := func() string {
		next := d.newID()
		if copyID == "" {
			copyID = next
		}
		return next
	}
	changed := d.UpdateCurrentPageComponents(func(nodes []tree.Node) []tree.Node {
		return tree.Duplicate(nodes, id, mint)
	})
	if !changed {
		return tree.Node{}, false
	}
	return d.FindByID(copyID)
}

// AddPage appends an empty page and makes it current. Duplicate slugs are
// allowed. An empty slug is derived from the name, or from the page id when
// the name has no letters or digits.
func (d *Document) AddPage(name, slug string) Page {
	id := d.newID()
	slug = strings.Trim(slug, "/")
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		slug = id
	}
	p := Page{
		ID:         id,
		Name:       name,
		Slug:       slug,
		Path:       PathForSlug(slug),
		Components: []tree.Node{},
	}
	pages := d.hist.Present()
	out := make([]Page, 0, len(pages)+1)
	out = append(out, pages...)
	out = append(out, p)
	d.current = p.ID
	d.commit(out)
	return p
}

// DeletePage removes a page. The last remaining page cannot be deleted. An
// unknown id is a no-op. Deleting the current page selects the first page.
func (d *Document) DeletePage(id string) error {
	pages := d.hist.Present()
	i := indexOfPage(pages, id)
	if i < 0 {
		return nil
	}
	if len(pages) == 1 {
		return ErrLastPage
	}
	out := make([]Page, 0, len(pages)-1)
	out = append(out, pages[:i]...)
	out = append(out, pages[i+1:]...)
	if d.current == id {
		d.current = out[0].ID
	}
	d.commit(out)
	return nil
}

// UpdatePage renames a page and changes its slug and path. An empty slug
// keeps the current slug and path.
func (d *Document) UpdatePage(id, name, slug string) error {
	pages := d.hist.Present()
	i := indexOfPage(pages, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	p := pages[i]
	p.Name = name
	if slug = strings.Trim(slug, "/"); slug != "" && slug != p.Slug {
		p.Slug = slug
		if p.Path != "/" {
			p.Path = PathForSlug(slug)
		}
	}
	d.commit(replacePage(pages, i, p))
	return nil
}

// SelectPage makes the page with the given id current.
func (d *Document) SelectPage(id string) error {
	if indexOfPage(d.hist.Present(), id) < 0 {
		return fmt.Errorf("%w: %s", ErrPageNotFound, id)
	}
	d.current = id
	return nil
}

func (d *Document) CanUndo() bool { return d.hist.CanUndo() }
func (d *Document) CanRedo() bool { return d.hist.CanRedo() }

// Undo reverts the most recent page edit.
func (d *Document) Undo() bool {
	if !d.hist.Undo() {
		return false
	}
	d.fixCurrent()
	d.notify()
	return true
}

// Redo reapplies the most recently undone page edit.
func (d *Document) Redo() bool {
	if !d.hist.Redo() {
		return false
	}
	d.fixCurrent()
	d.notify()
	return true
}

func (d *Document) fixCurrent() {
	pages := d.hist.Present()
	if indexOfPage(pages, d.current) < 0 {
		d.current = pages[0].ID
	}
}
