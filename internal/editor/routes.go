package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/pagecraft/internal/audit"
	"github.com/ziadkadry99/pagecraft/internal/auth"
	"github.com/ziadkadry99/pagecraft/internal/components"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/project"
	"github.com/ziadkadry99/pagecraft/internal/projects"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 8 << 20

// RegisterRoutes mounts the project editing endpoints on the given router.
// auditStore may be nil, which disables the per-project audit endpoint.
func RegisterRoutes(r chi.Router, m *Manager, auditStore *audit.Store) {
	r.Post("/api/export", handleExportPages(m))
	r.Get("/api/components", handleComponents)

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", handleList(m))
		r.Post("/", handleCreate(m))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", handleState(m))
			r.Delete("/", handleDelete(m))
			r.Put("/name", handleRename(m))
			r.Post("/save", handleSave(m))
			r.Get("/ids", handleIDs(m))

			r.Post("/components", handleInsert(m))
			r.Get("/components/{nodeID}", handleFind(m))
			r.Patch("/components/{nodeID}", handleUpdate(m))
			r.Delete("/components/{nodeID}", handleRemove(m))
			r.Post("/components/{nodeID}/duplicate", handleDuplicate(m))

			r.Post("/pages", handleAddPage(m))
			r.Put("/pages/{pageID}", handleUpdatePage(m))
			r.Delete("/pages/{pageID}", handleDeletePage(m))
			r.Post("/pages/{pageID}/select", handleSelectPage(m))

			r.Post("/undo", handleUndo(m))
			r.Post("/redo", handleRedo(m))
			r.Get("/export", handleExport(m))
			if auditStore != nil {
				r.Get("/audit", handleAudit(m, auditStore))
			}
		})
	})
}

// handleComponents lists the catalog for the drag palette.
func handleComponents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, components.All())
}

func handleList(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := m.List(r.Context(), auth.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

type createRequest struct {
	Name string `json:"name"`
}

func handleCreate(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if !decodeOptional(w, r, &req) {
			return
		}
		s, err := m.Create(r.Context(), auth.UserID(r.Context()), req.Name)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, s.State())
	}
}

func handleState(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleDelete(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Delete(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context())); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRename(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var req createRequest
		if !decode(w, r, &req) {
			return
		}
		s.Rename(r.Context(), req.Name)
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleSave(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		if err := s.Save(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
	})
}

func handleIDs(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		ids := s.IDs()
		if ids == nil {
			ids = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"ids": ids})
	})
}

type insertRequest struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	Position string `json:"position"`
}

func handleInsert(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var req insertRequest
		if !decode(w, r, &req) {
			return
		}
		n, err := s.Insert(r.Context(), req.Type, req.TargetID, tree.ParsePosition(req.Position))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, n)
	})
}

func handleFind(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		n, err := s.Find(chi.URLParam(r, "nodeID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})
}

func handleUpdate(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var patch map[string]any
		if !decode(w, r, &patch) {
			return
		}
		n, err := s.Update(r.Context(), chi.URLParam(r, "nodeID"), patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	})
}

func handleRemove(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		if err := s.Remove(r.Context(), chi.URLParam(r, "nodeID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleDuplicate(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		n, err := s.Duplicate(r.Context(), chi.URLParam(r, "nodeID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, n)
	})
}

type pageRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func handleAddPage(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var req pageRequest
		if !decode(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusCreated, s.AddPage(r.Context(), req.Name, req.Slug))
	})
}

func handleUpdatePage(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var req pageRequest
		if !decode(w, r, &req) {
			return
		}
		if err := s.UpdatePage(r.Context(), chi.URLParam(r, "pageID"), req.Name, req.Slug); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleDeletePage(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		if err := s.DeletePage(r.Context(), chi.URLParam(r, "pageID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleSelectPage(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		if err := s.SelectPage(chi.URLParam(r, "pageID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleUndo(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		s.Undo(r.Context())
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleRedo(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		s.Redo(r.Context())
		writeJSON(w, http.StatusOK, s.State())
	})
}

func handleExport(m *Manager) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		var buf bytes.Buffer
		if err := s.Export(r.Context(), &buf, pagePatterns(r)); err != nil {
			writeError(w, err)
			return
		}
		writeArchive(w, m.ExportFilename(), buf.Bytes())
	})
}

// handleExportPages exports a page list posted by the client without any
// session state.
func handleExportPages(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reading body: " + err.Error()})
			return
		}
		pages, err := export.DecodePages(body)
		if err != nil {
			writeError(w, err)
			return
		}
		pages, err = export.FilterPages(pages, pagePatterns(r))
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", export.ErrMalformedInput, err))
			return
		}
		data, err := m.exporter.Archive(pages)
		if err != nil {
			writeError(w, err)
			return
		}
		writeArchive(w, m.ExportFilename(), data)
	}
}

func handleAudit(m *Manager, store *audit.Store) http.HandlerFunc {
	return withSession(m, func(w http.ResponseWriter, r *http.Request, s *Session) {
		filter := audit.FilterFromQuery(r)
		filter.ProjectID = s.ID()
		entries, err := store.Query(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	})
}

// withSession resolves the {id} route parameter to a session the caller may
// edit.
func withSession(m *Manager, fn func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := m.Open(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
		if err != nil {
			writeError(w, err)
			return
		}
		fn(w, r, s)
	}
}

// pagePatterns reads ?pages= glob filters, repeated or comma-separated.
func pagePatterns(r *http.Request) []string {
	var out []string
	for _, v := range r.URL.Query()["pages"] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// decodeOptional is decode for endpoints whose body may be empty.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, projects.ErrNotFound),
		errors.Is(err, project.ErrPageNotFound),
		errors.Is(err, ErrComponentNotFound):
		return http.StatusNotFound
	case errors.Is(err, projects.ErrForbidden),
		errors.Is(err, ErrNotPersisted):
		return http.StatusForbidden
	case errors.Is(err, project.ErrLastPage):
		return http.StatusConflict
	case errors.Is(err, ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, export.ErrMalformedInput),
		errors.Is(err, project.ErrEmptyType),
		errors.Is(err, tree.ErrDuplicateID),
		errors.Is(err, ErrUnknownCommand):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeArchive(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
