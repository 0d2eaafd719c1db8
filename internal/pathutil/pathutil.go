// Package pathutil provides platform-aware path and file-URL helpers shared
// by the tab, link, and loader layers.
package pathutil

import (
	"net/url"
	"path"
	"strings"
)

// markdownExtensions is the set of file extensions treated as markdown.
var markdownExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".mdown":    {},
	".mkd":      {},
	".mkdn":     {},
}

// NormalizeForCompare converts backslashes to forward slashes and
// lower-cases Windows-style paths (drive letter or UNC), since those file
// systems are case-insensitive. POSIX paths keep their case.
func NormalizeForCompare(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	if isWindowsStyle(s) {
		return strings.ToLower(s)
	}
	return s
}

func isWindowsStyle(s string) bool {
	if len(s) >= 2 && isDriveLetter(s[0]) && s[1] == ':' {
		return true
	}
	return len(s) > 2 && strings.HasPrefix(s, "//")
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsMarkdownPath reports whether the path (possibly carrying a trailing
// #fragment or ?query) has a markdown extension.
func IsMarkdownPath(p string) bool {
	s := p
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	s = strings.ToLower(strings.ReplaceAll(s, `\`, "/"))
	_, ok := markdownExtensions[path.Ext(s)]
	return ok
}

// FileURL converts a filesystem path to a file: URL. Drive-letter paths
// become file:///C:/..., UNC paths keep their host, and absolute POSIX
// paths map directly.
func FileURL(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	if len(s) >= 2 && isDriveLetter(s[0]) && s[1] == ':' {
		u := url.URL{Scheme: "file", Path: "/" + s}
		return u.String()
	}
	if strings.HasPrefix(s, "//") {
		rest := strings.TrimPrefix(s, "//")
		host, sharePath, _ := strings.Cut(rest, "/")
		u := url.URL{Scheme: "file", Host: host, Path: "/" + sharePath}
		return u.String()
	}
	if !strings.HasPrefix(s, "/") {
		s = "/" + s
	}
	u := url.URL{Scheme: "file", Path: s}
	return u.String()
}

// DirectoryFileURL returns the file: URL of the path's parent directory
// with a trailing slash, suitable as a base for relative link resolution.
func DirectoryFileURL(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	u := FileURL(path.Dir(s))
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// WithoutFragment returns the URL up to (excluding) the first '#'.
func WithoutFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}

// FromFileURL converts a parsed file: URL back to a filesystem path,
// restoring UNC hosts and drive-letter forms. The URL's path component is
// already percent-decoded by net/url.
func FromFileURL(u *url.URL) string {
	p := u.Path
	if u.Host != "" && u.Host != "localhost" {
		return "//" + u.Host + p
	}
	if len(p) >= 3 && p[0] == '/' && isDriveLetter(p[1]) && p[2] == ':' {
		return p[1:]
	}
	return p
}

// Title derives a display title from the path's final segment.
func Title(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	base := path.Base(s)
	if base == "/" || base == "." {
		return s
	}
	return base
}

// StemTitle derives a human-readable title from the file stem, turning
// underscores and hyphens into spaces.
func StemTitle(p string) string {
	base := Title(p)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if stem == "" {
		return "Markdown"
	}
	return strings.NewReplacer("_", " ", "-", " ").Replace(stem)
}
