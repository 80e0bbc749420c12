package mcp

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/pagecraft/internal/codegen"
	"github.com/ziadkadry99/pagecraft/internal/export"
	"github.com/ziadkadry99/pagecraft/internal/project"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes page editing tools over one
// project file. Edits are written back to the file; undo history lives for
// the lifetime of the process.
type Server struct {
	path     string
	gen      *codegen.Generator
	exporter *export.Assembler

	mu  sync.Mutex
	doc *project.Document

	mcp *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithGenerator renders previews and exports with gen.
func WithGenerator(gen *codegen.Generator) Option {
	return func(s *Server) { s.gen = gen }
}

// NewServer opens the project file at path, starting a fresh project when it
// does not exist yet.
func NewServer(path string, historyLimit int, opts ...Option) (*Server, error) {
	s := &Server{path: path}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = codegen.New()
	}
	s.exporter = export.New(s.gen)

	var docOpts []project.Option
	if historyLimit > 0 {
		docOpts = append(docOpts, project.WithHistoryLimit(historyLimit))
	}
	snap, err := project.ReadFile(path)
	switch {
	case err == nil:
		s.doc, err = project.Load(snap, docOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		s.doc = project.New(docOpts...)
	default:
		return nil, err
	}

	s.mcp = server.NewMCPServer(
		"pagecraft",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s, nil
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getProjectTool, s.handleGetProject)
	s.mcp.AddTool(listComponentsTool, s.handleListComponents)
	s.mcp.AddTool(insertComponentTool, s.handleInsertComponent)
	s.mcp.AddTool(updateComponentTool, s.handleUpdateComponent)
	s.mcp.AddTool(removeComponentTool, s.handleRemoveComponent)
	s.mcp.AddTool(duplicateComponentTool, s.handleDuplicateComponent)
	s.mcp.AddTool(addPageTool, s.handleAddPage)
	s.mcp.AddTool(updatePageTool, s.handleUpdatePage)
	s.mcp.AddTool(deletePageTool, s.handleDeletePage)
	s.mcp.AddTool(selectPageTool, s.handleSelectPage)
	s.mcp.AddTool(undoTool, s.handleUndo)
	s.mcp.AddTool(redoTool, s.handleRedo)
	s.mcp.AddTool(exportSiteTool, s.handleExportSite)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

// save writes the document back to the project file. Callers hold s.mu.
func (s *Server) save() error {
	return project.WriteFile(s.path, s.doc.Snapshot())
}
