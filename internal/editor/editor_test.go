package editor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pagecraft/internal/audit"
	"github.com/ziadkadry99/pagecraft/internal/auth"
	"github.com/ziadkadry99/pagecraft/internal/db"
	"github.com/ziadkadry99/pagecraft/internal/logging"
	"github.com/ziadkadry99/pagecraft/internal/projects"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

type staticResolver map[string]string

func (s staticResolver) Resolve(_ context.Context, token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", auth.ErrInvalidToken
}

type fixture struct {
	repo    *projects.Store
	audit   *audit.Store
	manager *Manager
	router  chi.Router
}

func setup(t *testing.T) *fixture {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	f := &fixture{
		repo:  projects.NewStore(database),
		audit: audit.NewStore(database),
	}
	f.manager = NewManager(f.repo, f.audit, nil, logging.Discard(), Options{AutosaveDelay: 10 * time.Millisecond})
	t.Cleanup(func() { f.manager.Close(context.Background()) })

	r := chi.NewRouter()
	r.Use(auth.Middleware(staticResolver{"alice-token": "alice", "bob-token": "bob"}, logging.Discard()))
	RegisterRoutes(r, f.manager, f.audit)
	RegisterSocket(r, f.manager)
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) State {
	t.Helper()
	var st State
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decoding state: %v (%s)", err, w.Body.String())
	}
	return st
}

func (f *fixture) create(t *testing.T, token string) State {
	t.Helper()
	w := f.do(t, "POST", "/api/projects", token, map[string]string{"name": "Site"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return decodeState(t, w)
}

func TestCreateAndInsertAnonymous(t *testing.T) {
	f := setup(t)
	st := f.create(t, "")
	if len(st.Pages) != 1 || st.Pages[0].Name != "Home" || st.Pages[0].Path != "/" {
		t.Fatalf("unexpected initial pages: %+v", st.Pages)
	}
	if st.Name != "Site" {
		t.Errorf("name = %q, want Site", st.Name)
	}

	w := f.do(t, "POST", "/api/projects/"+st.ID+"/components", "", map[string]string{"type": "Hero"})
	if w.Code != http.StatusCreated {
		t.Fatalf("insert: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var hero tree.Node
	json.Unmarshal(w.Body.Bytes(), &hero)
	if hero.Props["title"] != "Welcome to My Website" {
		t.Errorf("hero title = %v", hero.Props["title"])
	}

	w = f.do(t, "GET", "/api/projects/"+st.ID, "", nil)
	got := decodeState(t, w)
	if len(got.Pages[0].Components) != 1 || !got.CanUndo {
		t.Errorf("state after insert = %+v", got)
	}

	list := f.do(t, "GET", "/api/projects", "", nil)
	if strings.TrimSpace(list.Body.String()) != "[]" {
		t.Errorf("anonymous projects should not be listed, got %s", list.Body.String())
	}
}

func TestOwnership(t *testing.T) {
	f := setup(t)
	st := f.create(t, "alice-token")

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"owner", "/api/projects/" + st.ID, "alice-token", http.StatusOK},
		{"other user", "/api/projects/" + st.ID, "bob-token", http.StatusForbidden},
		{"anonymous", "/api/projects/" + st.ID, "", http.StatusForbidden},
		{"missing", "/api/projects/nope", "alice-token", http.StatusNotFound},
		{"bad token", "/api/projects/" + st.ID, "forged", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, "GET", tt.path, tt.token, nil)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}

	list := f.do(t, "GET", "/api/projects", "alice-token", nil)
	var summaries []projects.Summary
	json.Unmarshal(list.Body.Bytes(), &summaries)
	if len(summaries) != 1 || summaries[0].ID != st.ID {
		t.Errorf("alice's projects = %+v", summaries)
	}
}

func TestErrorMapping(t *testing.T) {
	f := setup(t)
	st := f.create(t, "")
	base := "/api/projects/" + st.ID

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"delete last page", "DELETE", base + "/pages/" + st.Pages[0].ID, nil, http.StatusConflict},
		{"update unknown page", "PUT", base + "/pages/nope", map[string]string{"name": "x"}, http.StatusNotFound},
		{"select unknown page", "POST", base + "/pages/nope/select", nil, http.StatusNotFound},
		{"update missing component", "PATCH", base + "/components/nope", map[string]any{"a": 1}, http.StatusNotFound},
		{"remove missing component", "DELETE", base + "/components/nope", nil, http.StatusNotFound},
		{"duplicate missing component", "POST", base + "/components/nope/duplicate", nil, http.StatusNotFound},
		{"find missing component", "GET", base + "/components/nope", nil, http.StatusNotFound},
		{"insert without type", "POST", base + "/components", map[string]string{}, http.StatusBadRequest},
		{"malformed body", "POST", base + "/components", "{", http.StatusBadRequest},
		{"anonymous save", "POST", base + "/save", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, "", tt.body)
			if w.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body["error"] == "" {
				t.Errorf("expected JSON error body, got %s", w.Body.String())
			}
		})
	}
}

func TestPagesAndHistory(t *testing.T) {
	f := setup(t)
	st := f.create(t, "")
	base := "/api/projects/" + st.ID

	w := f.do(t, "POST", base+"/pages", "", map[string]string{"name": "About", "slug": "about"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add page: %d %s", w.Code, w.Body.String())
	}

	w = f.do(t, "GET", base, "", nil)
	got := decodeState(t, w)
	if len(got.Pages) != 2 || got.CurrentPageID != got.Pages[1].ID {
		t.Fatalf("expected new page selected, got %+v", got)
	}
	if got.Pages[1].Path != "/about" {
		t.Errorf("path = %q, want /about", got.Pages[1].Path)
	}

	got = decodeState(t, f.do(t, "POST", base+"/undo", "", nil))
	if len(got.Pages) != 1 || got.CurrentPageID != got.Pages[0].ID || !got.CanRedo {
		t.Errorf("after undo: %+v", got)
	}
	got = decodeState(t, f.do(t, "POST", base+"/redo", "", nil))
	if len(got.Pages) != 2 {
		t.Errorf("after redo: %+v", got)
	}

	got = decodeState(t, f.do(t, "POST", base+"/redo", "", nil))
	if len(got.Pages) != 2 {
		t.Errorf("redo with empty future changed state: %+v", got)
	}

	got = decodeState(t, f.do(t, "PUT", base+"/name", "", map[string]string{"name": "Renamed"}))
	if got.Name != "Renamed" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestComponentRoutes(t *testing.T) {
	f := setup(t)
	st := f.create(t, "")
	base := "/api/projects/" + st.ID

	var section, text tree.Node
	json.Unmarshal(f.do(t, "POST", base+"/components", "", map[string]string{"type": "Section"}).Body.Bytes(), &section)
	json.Unmarshal(f.do(t, "POST", base+"/components", "", map[string]string{
		"type": "Text", "target_id": section.ID, "position": "inside",
	}).Body.Bytes(), &text)

	w := f.do(t, "PATCH", base+"/components/"+text.ID, "", map[string]any{"text": "hello"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var updated tree.Node
	json.Unmarshal(w.Body.Bytes(), &updated)
	if updated.Props["text"] != "hello" {
		t.Errorf("updated props = %v", updated.Props)
	}

	w = f.do(t, "POST", base+"/components/"+section.ID+"/duplicate", "", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("duplicate: %d %s", w.Code, w.Body.String())
	}

	var ids struct{ IDs []string }
	json.Unmarshal(f.do(t, "GET", base+"/ids", "", nil).Body.Bytes(), &ids)
	if len(ids.IDs) != 4 {
		t.Errorf("expected 4 ids after duplicating a section with one child, got %v", ids.IDs)
	}

	got := decodeState(t, f.do(t, "DELETE", base+"/components/"+section.ID, "", nil))
	if tree.Count(got.Pages[0].Components) != 2 {
		t.Errorf("expected the copy to remain, got %+v", got.Pages[0].Components)
	}
}

func TestComponentCatalogRoute(t *testing.T) {
	f := setup(t)
	w := f.do(t, "GET", "/api/components", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var defs []struct {
		Type      string `json:"type"`
		Container bool   `json:"container"`
	}
	json.Unmarshal(w.Body.Bytes(), &defs)
	if len(defs) != 24 || defs[0].Type != "Button" {
		t.Errorf("catalog = %+v", defs)
	}
}

func readZip(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestExportRoutes(t *testing.T) {
	f := setup(t)
	st := f.create(t, "")
	f.do(t, "POST", "/api/projects/"+st.ID+"/components", "", map[string]string{"type": "Hero"})

	w := f.do(t, "GET", "/api/projects/"+st.ID+"/export", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("export: %d %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="website-export.zip"` {
		t.Errorf("content disposition = %q", cd)
	}
	if names := readZip(t, w.Body.Bytes()); len(names) != 3 {
		t.Errorf("entries = %v", names)
	}

	body := `{"pages":[{"id":"a","name":"Home","path":"/"},{"id":"b","name":"About","path":"/about"}]}`
	w = f.do(t, "POST", "/api/export", "", body)
	if w.Code != http.StatusOK {
		t.Fatalf("stateless export: %d %s", w.Code, w.Body.String())
	}
	if names := readZip(t, w.Body.Bytes()); len(names) != 4 {
		t.Errorf("entries = %v", names)
	}

	w = f.do(t, "POST", "/api/export?pages=/about", "", body)
	if names := readZip(t, w.Body.Bytes()); len(names) != 3 {
		t.Errorf("filtered entries = %v", names)
	}

	for _, bad := range []string{`{}`, `{"pages":5}`, `nope`, `[]`} {
		w := f.do(t, "POST", "/api/export", "", bad)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", bad, w.Code)
		}
	}
	w = f.do(t, "POST", "/api/export?pages=[", "", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad pattern: expected 400, got %d", w.Code)
	}
}

func TestAutosaveAndReopen(t *testing.T) {
	f := setup(t)
	st := f.create(t, "alice-token")
	f.do(t, "POST", "/api/projects/"+st.ID+"/components", "alice-token", map[string]string{"type": "Navbar"})

	deadline := time.Now().Add(2 * time.Second)
	for {
		snap, err := f.repo.Load(context.Background(), st.ID, "alice")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(snap.Pages[0].Components) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("autosave never wrote the inserted component")
		}
		time.Sleep(10 * time.Millisecond)
	}

	// A fresh manager hydrates from the repository.
	fresh := NewManager(f.repo, nil, nil, logging.Discard(), Options{})
	s, err := fresh.Open(context.Background(), st.ID, "alice")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got := s.State()
	if len(got.Pages[0].Components) != 1 || got.CanUndo {
		t.Errorf("hydrated state = %+v", got)
	}
	if _, err := fresh.Open(context.Background(), st.ID, "bob"); !errors.Is(err, projects.ErrForbidden) {
		t.Errorf("bob Open: err = %v, want ErrForbidden", err)
	}
}

func TestSaveAndAudit(t *testing.T) {
	f := setup(t)
	st := f.create(t, "alice-token")
	base := "/api/projects/" + st.ID
	f.do(t, "POST", base+"/components", "alice-token", map[string]string{"type": "Footer"})

	w := f.do(t, "POST", base+"/save", "alice-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d %s", w.Code, w.Body.String())
	}
	snap, err := f.repo.Load(context.Background(), st.ID, "alice")
	if err != nil || len(snap.Pages[0].Components) != 1 {
		t.Fatalf("saved snapshot = %+v, err %v", snap, err)
	}

	w = f.do(t, "GET", base+"/audit", "alice-token", nil)
	var entries []audit.Entry
	json.Unmarshal(w.Body.Bytes(), &entries)
	actions := map[audit.Action]bool{}
	for _, e := range entries {
		actions[e.Action] = true
		if e.ProjectID != st.ID || e.ActorID != "alice" {
			t.Errorf("unexpected entry %+v", e)
		}
	}
	for _, want := range []audit.Action{audit.ActionProjectCreated, audit.ActionComponentInserted, audit.ActionProjectSaved} {
		if !actions[want] {
			t.Errorf("missing audit action %s in %v", want, actions)
		}
	}

	if w := f.do(t, "GET", base+"/audit", "bob-token", nil); w.Code != http.StatusForbidden {
		t.Errorf("bob reading audit: expected 403, got %d", w.Code)
	}
}

func TestDeleteProject(t *testing.T) {
	f := setup(t)
	st := f.create(t, "alice-token")

	if w := f.do(t, "DELETE", "/api/projects/"+st.ID, "bob-token", nil); w.Code != http.StatusForbidden {
		t.Errorf("bob delete: expected 403, got %d", w.Code)
	}
	if w := f.do(t, "DELETE", "/api/projects/"+st.ID, "alice-token", nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := f.do(t, "GET", "/api/projects/"+st.ID, "alice-token", nil); w.Code != http.StatusNotFound {
		t.Errorf("after delete: expected 404, got %d", w.Code)
	}
}

func TestApplyCommands(t *testing.T) {
	m := NewManager(nil, nil, nil, logging.Discard(), Options{})
	s, err := m.Create(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ctx := context.Background()

	updates, cancel := s.Subscribe()
	defer cancel()

	if err := s.Apply(ctx, Command{Type: "insert", ComponentType: "Text"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	select {
	case st := <-updates:
		if len(st.Pages[0].Components) != 1 {
			t.Errorf("update state = %+v", st)
		}
	case <-time.After(time.Second):
		t.Fatal("no update after insert")
	}

	if err := s.Apply(ctx, Command{Type: "explode"}); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command: err = %v", err)
	}
	if err := s.Apply(ctx, Command{Type: "remove", ID: "nope"}); !errors.Is(err, ErrComponentNotFound) {
		t.Errorf("remove missing: err = %v", err)
	}

	before := s.Version()
	if err := s.Apply(ctx, Command{Type: "undo"}); err != nil {
		t.Fatal(err)
	}
	if s.Version() != before+1 {
		t.Errorf("undo should bump the version")
	}
	if err := s.Apply(ctx, Command{Type: "undo"}); err != nil {
		t.Fatal(err)
	}
	if s.Version() != before+1 {
		t.Errorf("no-op undo should not bump the version")
	}
}

func TestWebSocket(t *testing.T) {
	f := setup(t)
	st := f.create(t, "")

	server := httptest.NewServer(f.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/projects/" + st.ID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	read := func() socketMessage {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if msg := read(); msg.Type != "state" || msg.State.ID != st.ID {
		t.Fatalf("initial message = %+v", msg)
	}

	conn.WriteJSON(Command{Type: "insert", ComponentType: "Hero"})
	msg := read()
	if msg.Type != "state" || len(msg.State.Pages[0].Components) != 1 {
		t.Fatalf("after insert = %+v", msg)
	}

	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	if msg := read(); msg.Type != "error" || msg.Error != "invalid message format" {
		t.Errorf("bad message reply = %+v", msg)
	}

	conn.WriteJSON(Command{Type: "delete_page", PageID: st.Pages[0].ID})
	if msg := read(); msg.Type != "error" {
		t.Errorf("deleting the last page should fail, got %+v", msg)
	}

	conn.WriteJSON(Command{Type: "redo"})
	if msg := read(); msg.Type != "state" || msg.State.CanRedo {
		t.Errorf("no-op redo reply = %+v", msg)
	}
}

func TestWebSocketForbidden(t *testing.T) {
	f := setup(t)
	st := f.create(t, "alice-token")

	server := httptest.NewServer(f.router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/projects/" + st.ID + "?token=bob-token"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 response, got %+v", resp)
	}
}

func TestAnonymousSessionCap(t *testing.T) {
	m := NewManager(nil, nil, nil, logging.Discard(), Options{MaxAnonymous: 2})
	clock := time.Unix(1000, 0)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	first, err := m.Create(ctx, "", "")
	if err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(time.Second)
	second, _ := m.Create(ctx, "", "")
	clock = clock.Add(time.Second)
	if _, err := m.Open(ctx, first.ID(), ""); err != nil {
		t.Fatalf("reopen first: %v", err)
	}

	clock = clock.Add(time.Second)
	if _, err := m.Create(ctx, "", ""); err != nil {
		t.Fatalf("create over the cap: %v", err)
	}
	if _, err := m.Open(ctx, second.ID(), ""); !errors.Is(err, projects.ErrNotFound) {
		t.Errorf("least recently used session should be evicted, got %v", err)
	}
	if _, err := m.Open(ctx, first.ID(), ""); err != nil {
		t.Errorf("recently used session was evicted: %v", err)
	}
}

func TestAnonymousSessionCapKeepsConnected(t *testing.T) {
	m := NewManager(nil, nil, nil, logging.Discard(), Options{MaxAnonymous: 1})
	ctx := context.Background()
	s, _ := m.Create(ctx, "", "")
	_, cancel := s.Subscribe()
	defer cancel()

	if _, err := m.Create(ctx, "", ""); !errors.Is(err, ErrTooManySessions) {
		t.Fatalf("err = %v, want ErrTooManySessions", err)
	}
	if statusFor(ErrTooManySessions) != http.StatusServiceUnavailable {
		t.Errorf("status = %d", statusFor(ErrTooManySessions))
	}
}

func TestSweepIdleSessions(t *testing.T) {
	f := setup(t)
	f.manager.opts.IdleTimeout = time.Minute
	clock := time.Unix(1000, 0)
	f.manager.now = func() time.Time { return clock }
	ctx := context.Background()

	anon, _ := f.manager.Create(ctx, "", "")
	owned, _ := f.manager.Create(ctx, "alice", "")
	if _, err := owned.Insert(ctx, "Hero", "", tree.Inside); err != nil {
		t.Fatal(err)
	}
	watched, _ := f.manager.Create(ctx, "", "")
	_, cancel := watched.Subscribe()
	defer cancel()

	clock = clock.Add(30 * time.Second)
	if n := f.manager.Sweep(ctx); n != 0 {
		t.Fatalf("swept %d sessions before the idle timeout", n)
	}

	clock = clock.Add(time.Minute)
	if n := f.manager.Sweep(ctx); n != 2 {
		t.Fatalf("swept %d sessions, want 2", n)
	}
	if _, err := f.manager.Open(ctx, anon.ID(), ""); !errors.Is(err, projects.ErrNotFound) {
		t.Errorf("idle anonymous session still open: %v", err)
	}
	if _, err := f.manager.Open(ctx, watched.ID(), ""); err != nil {
		t.Errorf("connected session was evicted: %v", err)
	}

	// The owned project was flushed on eviction and reloads from storage.
	reopened, err := f.manager.Open(ctx, owned.ID(), "alice")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened == owned {
		t.Error("expected a fresh session after eviction")
	}
	if got := tree.Count(reopened.State().Pages[0].Components); got != 1 {
		t.Errorf("reloaded components = %d, want 1", got)
	}
}
