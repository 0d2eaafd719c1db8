package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/raudvere/lectern/internal/document"
	"github.com/raudvere/lectern/internal/loader"
	"github.com/raudvere/lectern/internal/testutil"
	"github.com/raudvere/lectern/internal/workspace"
)

type nopWatcher struct{}

func (nopWatcher) Start(string) error { return nil }
func (nopWatcher) Stop()              {}

type nopEvents struct{}

func (nopEvents) Publish(string, any) {}

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	docsDir := testutil.TestDocsDir(t)
	db := testutil.TestStateDB(t)

	ld := loader.New()
	ctrl := workspace.New(workspace.Config{
		Loader:      ld,
		Watcher:     nopWatcher{},
		Store:       db,
		Events:      nopEvents{},
		Logger:      testutil.TestLogger(),
		Preferences: document.DefaultRenderPreferences(),
	})
	t.Cleanup(ctrl.Close)

	return New(ctrl, ld), docsDir
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var result *mcp.CallToolResult
	var err error

	switch name {
	case "open_document":
		result, err = srv.openDocument(ctx, req)
	case "close_tab":
		result, err = srv.closeTab(ctx, req)
	case "list_tabs":
		result, err = srv.listTabs(ctx, req)
	case "read_document":
		result, err = srv.readDocument(ctx, req)
	case "recent_documents":
		result, err = srv.recentDocuments(ctx, req)
	case "resolve_link":
		result, err = srv.resolveLink(ctx, req)
	default:
		t.Fatalf("unknown tool %q", name)
	}
	if err != nil {
		t.Fatalf("tool %q returned error: %v", name, err)
	}
	return result
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return tc.Text
}

func TestOpenListCloseTabs(t *testing.T) {
	srv, docsDir := testServer(t)
	path := testutil.WriteDoc(t, docsDir, "guide.md", "---\ntitle: Guide\n---\n# Intro\n")

	res := callTool(t, srv, "open_document", map[string]interface{}{"path": path})
	if res.IsError {
		t.Fatalf("open failed: %s", textOf(t, res))
	}
	if !strings.Contains(textOf(t, res), "success") {
		t.Errorf("open text = %q", textOf(t, res))
	}

	res = callTool(t, srv, "list_tabs", nil)
	if !strings.Contains(textOf(t, res), path) {
		t.Errorf("list text = %q", textOf(t, res))
	}

	res = callTool(t, srv, "close_tab", map[string]interface{}{"path": path})
	if textOf(t, res) != "workspace-empty" {
		t.Errorf("close text = %q", textOf(t, res))
	}
}

func TestOpenDocumentMissing(t *testing.T) {
	srv, docsDir := testServer(t)

	res := callTool(t, srv, "open_document", map[string]interface{}{"path": docsDir + "/gone.md"})
	if !res.IsError {
		t.Fatal("expected error result")
	}
}

func TestReadDocument(t *testing.T) {
	srv, docsDir := testServer(t)
	path := testutil.WriteDoc(t, docsDir, "doc.md", "# Doc\n\nbody\n")

	res := callTool(t, srv, "read_document", map[string]interface{}{"path": path})
	if res.IsError {
		t.Fatalf("read failed: %s", textOf(t, res))
	}
	if textOf(t, res) != "# Doc\n\nbody\n" {
		t.Errorf("source = %q", textOf(t, res))
	}

	res = callTool(t, srv, "read_document", map[string]interface{}{"path": docsDir + "/gone.md"})
	if !res.IsError {
		t.Fatal("expected error for missing document")
	}
}

func TestRecentDocuments(t *testing.T) {
	srv, docsDir := testServer(t)
	path := testutil.WriteDoc(t, docsDir, "doc.md", "# Doc\n")

	callTool(t, srv, "open_document", map[string]interface{}{"path": path})

	res := callTool(t, srv, "recent_documents", nil)
	if !strings.Contains(textOf(t, res), path) {
		t.Errorf("recent = %q", textOf(t, res))
	}
}

func TestResolveLink(t *testing.T) {
	srv, docsDir := testServer(t)
	source := testutil.WriteDoc(t, docsDir, "docs/readme.md", "# R\n")
	testutil.WriteDoc(t, docsDir, "docs/other.md", "# O\n")
	testutil.WriteDoc(t, docsDir, "secret.md", "# S\n")

	callTool(t, srv, "open_document", map[string]interface{}{"path": source})

	res := callTool(t, srv, "resolve_link", map[string]interface{}{"href": "./other.md"})
	text := textOf(t, res)
	if !strings.Contains(text, "open-markdown-file") || !strings.Contains(text, "resolvedPath") {
		t.Errorf("in-scope = %q", text)
	}

	res = callTool(t, srv, "resolve_link", map[string]interface{}{"href": "../secret.md"})
	text = textOf(t, res)
	if !strings.Contains(text, "outside the current document's folder") {
		t.Errorf("out-of-scope = %q", text)
	}

	res = callTool(t, srv, "resolve_link", map[string]interface{}{"href": "#top"})
	if !strings.Contains(textOf(t, res), "scroll-to-anchor") {
		t.Errorf("anchor = %q", textOf(t, res))
	}
}

func TestResolveLinkExplicitDocumentPath(t *testing.T) {
	srv, docsDir := testServer(t)
	source := testutil.WriteDoc(t, docsDir, "docs/readme.md", "# R\n")
	testutil.WriteDoc(t, docsDir, "docs/other.md", "# O\n")

	// No tab open; the optional document_path argument carries the source.
	res := callTool(t, srv, "resolve_link", map[string]interface{}{
		"href": "./other.md", "document_path": source,
	})
	if res.IsError {
		t.Fatalf("resolve failed: %s", textOf(t, res))
	}
	if !strings.Contains(textOf(t, res), "resolvedPath") {
		t.Errorf("explicit document_path = %q", textOf(t, res))
	}
}

func TestResolveLinkWithoutDocument(t *testing.T) {
	srv, _ := testServer(t)
	res := callTool(t, srv, "resolve_link", map[string]interface{}{"href": "./x.md"})
	if !res.IsError {
		t.Fatal("expected error without a document")
	}
}
