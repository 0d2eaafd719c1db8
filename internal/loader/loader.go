// Package loader reads markdown files from the local file system and
// produces rendered Documents. It accepts plain paths and file: URLs and
// always serves the canonical path, so the path handed back may differ
// from the one requested (symlinks, case resolution).
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/raudvere/lectern/internal/apperr"
	"github.com/raudvere/lectern/internal/document"
	"github.com/raudvere/lectern/internal/markdown"
	"github.com/raudvere/lectern/internal/pathutil"
)

// Loader implements the document load collaborator.
type Loader struct{}

// New creates a Loader.
func New() *Loader {
	return &Loader{}
}

// Load resolves pathInput, reads the markdown file, and renders it.
func (l *Loader) Load(pathInput string, prefs document.RenderPreferences) (*document.Document, error) {
	path, err := ResolvePathInput(pathInput)
	if err != nil {
		return nil, err
	}
	if !pathutil.IsMarkdownPath(path) {
		return nil, fmt.Errorf("loader: %s: %w", path, apperr.ErrNotMarkdown)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	source := string(data)

	r := markdown.Render(source, prefs)
	title := r.Title
	if title == "" {
		title = pathutil.StemTitle(path)
	}

	return &document.Document{
		Path:               path,
		Title:              title,
		Source:             source,
		HTML:               r.HTML,
		Toc:                r.Toc,
		WordCount:          r.WordCount,
		ReadingTimeMinutes: r.ReadingTimeMinutes,
	}, nil
}

// ResolvePathInput accepts a filesystem path or a file: URL and returns the
// canonical absolute path of an existing regular file.
func ResolvePathInput(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("loader: empty path: %w", apperr.ErrNotFound)
	}
	p := input
	if u, err := url.Parse(input); err == nil && u.Scheme == "file" {
		p = pathutil.FromFileURL(u)
	}
	return canonicalize(p)
}

// ResolveLinkedFile canonicalizes a local link target and verifies it stays
// inside the source document's directory tree. Targets escaping the tree
// fail with apperr.ErrOutsideWorkspace.
func (l *Loader) ResolveLinkedFile(target, sourceDocumentPath string) (string, error) {
	sourceDir := filepath.Dir(filepath.FromSlash(sourceDocumentPath))
	canonicalDir, err := filepath.EvalSymlinks(sourceDir)
	if err != nil {
		return "", fmt.Errorf("loader: resolve source dir %s: %w", sourceDir, err)
	}
	canonicalTarget, err := canonicalize(filepath.FromSlash(target))
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(canonicalDir, canonicalTarget)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("loader: %s not under %s: %w", canonicalTarget, canonicalDir, apperr.ErrOutsideWorkspace)
	}
	return canonicalTarget, nil
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("loader: resolve %s: %w", p, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("loader: %s: %w", p, apperr.ErrNotFound)
		}
		return "", fmt.Errorf("loader: resolve %s: %w", p, err)
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return "", fmt.Errorf("loader: %s: %w", p, apperr.ErrNotFound)
	}
	return resolved, nil
}
