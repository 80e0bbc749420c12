package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/pagecraft/internal/components"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/progress"
	"github.com/ziadkadry99/pagecraft/internal/project"
	"github.com/ziadkadry99/pagecraft/internal/tree"
)

type projectState struct {
	Name          string         `json:"name"`
	Pages         []project.Page `json:"pages"`
	CurrentPageID string         `json:"current_page_id"`
	CanUndo       bool           `json:"can_undo"`
	CanRedo       bool           `json:"can_redo"`
}

// handleGetProject returns the project state or the current page markup.
func (s *Server) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if request.GetString("format", "json") == "html" {
		return mcp.NewToolResultText(s.gen.GenerateMarkup(s.doc.CurrentTree())), nil
	}
	snap := s.doc.Snapshot()
	return jsonResult(projectState{
		Name:          snap.Name,
		Pages:         snap.Pages,
		CurrentPageID: s.doc.CurrentPageID(),
		CanUndo:       s.doc.CanUndo(),
		CanRedo:       s.doc.CanRedo(),
	})
}

func (s *Server) handleListComponents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(components.All())
}

func (s *Server) handleInsertComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	typ, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: type"), nil
	}
	targetID := request.GetString("target_id", "")
	pos := tree.ParsePosition(request.GetString("position", ""))

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.doc.InsertComponent(typ, targetID, pos)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("insert failed: %v", err)), nil
	}
	return s.saved(n)
}

func (s *Server) handleUpdateComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}
	patch, err := propsArgument(request.GetArguments()["props"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.doc.FindByID(id); !ok {
		return notFound(id), nil
	}
	s.doc.UpdateComponent(id, patch)
	n, _ := s.doc.FindByID(id)
	return s.saved(n)
}

func (s *Server) handleRemoveComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.RemoveComponent(id) {
		return notFound(id), nil
	}
	return s.saved(map[string]string{"removed": id})
}

func (s *Server) handleDuplicateComponent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: id"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.doc.DuplicateComponent(id)
	if !ok {
		return notFound(id), nil
	}
	return s.saved(n)
}

func (s *Server) handleAddPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved(s.doc.AddPage(name, request.GetString("slug", "")))
}

func (s *Server) handleUpdatePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := request.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page_id"), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: name"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.UpdatePage(pageID, name, request.GetString("slug", "")); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.saved(s.doc.Pages())
}

func (s *Server) handleDeletePage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := request.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page_id"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.DeletePage(pageID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return s.saved(s.doc.Pages())
}

func (s *Server) handleSelectPage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pageID, err := request.RequireString("page_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: page_id"), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.doc.SelectPage(pageID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.doc.CurrentPage())
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Undo() {
		return mcp.NewToolResultText("Nothing to undo."), nil
	}
	return s.saved(s.doc.Pages())
}

func (s *Server) handleRedo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Redo() {
		return mcp.NewToolResultText("Nothing to redo."), nil
	}
	return s.saved(s.doc.Pages())
}

func (s *Server) handleExportSite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	output, err := request.RequireString("output")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: output"), nil
	}

	s.mu.Lock()
	pages := s.doc.Snapshot().Pages
	s.mu.Unlock()

	pages, err = export.FilterPages(pages, splitPatterns(request.GetString("pages", "")))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid page pattern: %v", err)), nil
	}

	if strings.EqualFold(filepath.Ext(output), ".zip") {
		data, err := s.exporter.Archive(pages)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
		}
		if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("creating output dir: %v", err)), nil
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("writing archive: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Exported %d page(s) to %s (%d bytes).", len(pages), output, len(data))), nil
	}

	n, err := s.exporter.WriteDir(output, pages, progress.Nop{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Exported %d page(s) to %s (%d files).", len(pages), output, n)), nil
}

// saved writes the project file and returns v as the tool result. Callers
// hold s.mu.
func (s *Server) saved(v any) (*mcp.CallToolResult, error) {
	if err := s.save(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("saving project: %v", err)), nil
	}
	return jsonResult(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func notFound(id string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("no component with id %q on the current page", id))
}

// propsArgument accepts props as an object or as a JSON object string.
func propsArgument(v any) (map[string]any, error) {
	switch p := v.(type) {
	case map[string]any:
		return p, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(p), &m); err != nil {
			return nil, fmt.Errorf("props must be a JSON object: %v", err)
		}
		return m, nil
	case nil:
		return nil, fmt.Errorf("missing required parameter: props")
	default:
		return nil, fmt.Errorf("props must be an object")
	}
}

func splitPatterns(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
