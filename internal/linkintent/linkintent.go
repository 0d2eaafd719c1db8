// Package linkintent classifies hyperlink references relative to the
// current document into workspace actions.
package linkintent

import (
	"net/url"
	"strings"

	"github.com/raudvere/lectern/internal/pathutil"
)

// Kind is the closed set of actions a link can resolve to.
type Kind string

const (
	KindNone                    Kind = "none"
	KindBlockedExternalProtocol Kind = "blocked-external-protocol"
	KindScrollToAnchor          Kind = "scroll-to-anchor"
	KindOpenExternalURL         Kind = "open-external-url"
	KindOpenMarkdownFile        Kind = "open-markdown-file"
	KindOpenLocalFile           Kind = "open-local-file"
)

// Intent is the resolved action with its kind-specific payload.
type Intent struct {
	Kind     Kind   `json:"action"`
	Fragment string `json:"fragment,omitempty"`
	URL      string `json:"url,omitempty"`
	Path     string `json:"path,omitempty"`
	Protocol string `json:"protocol,omitempty"`
}

// allowedExternalSchemes are the only non-file schemes handed to the host.
var allowedExternalSchemes = map[string]struct{}{
	"http":   {},
	"https":  {},
	"mailto": {},
	"tel":    {},
}

// Resolve classifies href against the document at documentPath. It never
// fails; anything malformed resolves to KindNone.
func Resolve(href, documentPath string) Intent {
	href = strings.TrimSpace(href)
	if href == "" {
		return Intent{Kind: KindNone}
	}
	if strings.HasPrefix(href, "#") {
		return Intent{Kind: KindScrollToAnchor, Fragment: strings.TrimPrefix(href, "#")}
	}

	base, err := url.Parse(pathutil.DirectoryFileURL(documentPath))
	if err != nil {
		return Intent{Kind: KindNone}
	}
	resolved, err := base.Parse(href)
	if err != nil {
		return Intent{Kind: KindNone}
	}

	if resolved.Scheme != "file" {
		if _, ok := allowedExternalSchemes[resolved.Scheme]; ok {
			return Intent{Kind: KindOpenExternalURL, URL: resolved.String()}
		}
		return Intent{Kind: KindBlockedExternalProtocol, Protocol: resolved.Scheme + ":"}
	}

	target := pathutil.FromFileURL(resolved)

	// A link that resolves back to the current document is an in-document
	// scroll, whether it was written as "#x" or "./self.md#x".
	if resolved.Fragment != "" &&
		pathutil.NormalizeForCompare(target) == pathutil.NormalizeForCompare(documentPath) {
		return Intent{Kind: KindScrollToAnchor, Fragment: resolved.Fragment}
	}

	if pathutil.IsMarkdownPath(target) {
		return Intent{Kind: KindOpenMarkdownFile, Path: target}
	}
	return Intent{Kind: KindOpenLocalFile, Path: target}
}
