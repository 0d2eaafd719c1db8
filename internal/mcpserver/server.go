// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Lectern workspace tools for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/raudvere/lectern/internal/apperr"
	"github.com/raudvere/lectern/internal/linkintent"
	"github.com/raudvere/lectern/internal/loadcoord"
	"github.com/raudvere/lectern/internal/loader"
	"github.com/raudvere/lectern/internal/workspace"
)

// Server wraps the MCP server with Lectern tools.
type Server struct {
	mcp    *server.MCPServer
	ctrl   *workspace.Controller
	loader *loader.Loader
}

// New creates a new MCP server with all Lectern tools registered.
func New(ctrl *workspace.Controller, ld *loader.Loader) *Server {
	s := &Server{ctrl: ctrl, loader: ld}

	s.mcp = server.NewMCPServer(
		"Lectern",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("open_document",
		mcp.WithDescription("Open a Markdown document in a workspace tab and make it active."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path or file:// URL of the document")),
	), s.openDocument)

	s.mcp.AddTool(mcp.NewTool("close_tab",
		mcp.WithDescription("Close the tab for the given document path."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path of the tab to close")),
	), s.closeTab)

	s.mcp.AddTool(mcp.NewTool("list_tabs",
		mcp.WithDescription("List the open workspace tabs and the active path."),
	), s.listTabs)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the raw Markdown source of a document without opening a tab."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path or file:// URL of the document")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("recent_documents",
		mcp.WithDescription("List recently opened documents, most recent first."),
	), s.recentDocuments)

	s.mcp.AddTool(mcp.NewTool("resolve_link",
		mcp.WithDescription("Resolve a link href from a document into a navigation intent "+
			"(scroll to anchor, open a Markdown file, open an external URL, or blocked)."),
		mcp.WithString("href", mcp.Required(), mcp.Description("The link href as written in the document")),
		mcp.WithString("document_path", mcp.Description("Source document path (defaults to the active document)")),
	), s.resolveLink)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) openDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := s.ctrl.OpenInTab(path, workspace.OpenOptions{
		ActivateTab:   true,
		RestartWatch:  true,
		RestoreScroll: true,
	})
	if res == loadcoord.FailedBeforeLoad {
		msg := s.ctrl.LastError()
		if msg == "" {
			msg = fmt.Sprintf("could not open: %s", path)
		}
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s: %s", res, path)), nil
}

func (s *Server) closeTab(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outcome := s.ctrl.CloseTab(path)
	return mcp.NewToolResultText(string(outcome)), nil
}

func (s *Server) listTabs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts := s.ctrl.Tabs()
	out, _ := json.MarshalIndent(map[string]any{
		"tabs":       ts.Tabs,
		"activePath": ts.ActivePath,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.loader.Load(path, s.ctrl.Preferences())
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(doc.Source), nil
}

func (s *Server) recentDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.ctrl.Recents().Entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	href, err := req.RequireString("href")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	docPath := req.GetString("document_path", "")
	if docPath == "" {
		if doc := s.ctrl.CurrentDocument(); doc != nil {
			docPath = doc.Path
		}
	}
	if docPath == "" {
		return mcp.NewToolResultError("no document to resolve against"), nil
	}

	intent := linkintent.Resolve(href, docPath)
	result := map[string]any{"intent": intent}
	switch intent.Kind {
	case linkintent.KindOpenMarkdownFile, linkintent.KindOpenLocalFile:
		resolved, err := s.loader.ResolveLinkedFile(intent.Path, docPath)
		switch {
		case err == nil:
			result["resolvedPath"] = resolved
		case errors.Is(err, apperr.ErrOutsideWorkspace):
			result["error"] = fmt.Sprintf("Cannot open %s: it is outside the current document's folder.", intent.Path)
		case errors.Is(err, apperr.ErrNotFound):
			result["error"] = fmt.Sprintf("File not found: %s", intent.Path)
		default:
			result["error"] = err.Error()
		}
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
