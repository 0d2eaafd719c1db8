// Package markdown renders a document's source into HTML plus the outline
// and reading metadata the workspace needs: a table of contents with stable
// anchor ids, a rule-driven word count, and an estimated reading time.
package markdown

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/raudvere/lectern/internal/document"
)

const (
	headingIDPrefix = "mdv-"
	wordsPerMinute  = 225
)

var (
	headingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	linkRe     = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
	codeSpanRe = regexp.MustCompile("`([^`]+)`")
	boldRe     = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	emRe       = regexp.MustCompile(`\*([^*]+)\*`)
	anchorRe   = regexp.MustCompile(`[^a-z0-9 _-]`)
)

// Rendered is the output of one render pass.
type Rendered struct {
	HTML               string
	Toc                []document.TocEntry
	WordCount          int
	ReadingTimeMinutes int
	Title              string
}

// Render converts markdown source into HTML with outline and metadata.
// Performance mode skips the smart punctuation pass.
func Render(source string, prefs document.RenderPreferences) *Rendered {
	fm, fmRaw, body := splitFrontmatter(source)

	htmlOut, toc := buildHTML(body, !prefs.PerformanceMode)

	count := countWords(body, prefs.WordCountRules)
	if prefs.WordCountRules.IncludeFrontMatter {
		count += len(strings.Fields(fmRaw))
	}

	minutes := (count + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}

	return &Rendered{
		HTML:               htmlOut,
		Toc:                toc,
		WordCount:          count,
		ReadingTimeMinutes: minutes,
		Title:              deriveTitle(fm, toc),
	}
}

// splitFrontmatter separates YAML frontmatter (between leading ---
// delimiters) from the body. Invalid YAML falls back to body-only.
func splitFrontmatter(source string) (map[string]any, string, string) {
	const delim = "---"
	trimmed := strings.TrimLeft(source, "\n\r")
	if !strings.HasPrefix(trimmed, delim) {
		return nil, "", source
	}

	rest := trimmed[len(delim):]
	idx := strings.Index(rest, "\n"+delim)
	if idx < 0 {
		return nil, "", source
	}

	yamlBlock := rest[:idx]
	body := strings.TrimLeft(rest[idx+1+len(delim):], "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, "", source
	}
	return fm, yamlBlock, body
}

func deriveTitle(fm map[string]any, toc []document.TocEntry) string {
	if fm != nil {
		if t, ok := fm["title"].(string); ok && t != "" {
			return t
		}
	}
	if len(toc) > 0 {
		return toc[0].Text
	}
	return ""
}

// anchorize turns heading text into a URL-safe anchor fragment.
func anchorize(text string) string {
	s := strings.ToLower(text)
	s = anchorRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), "-")
	return s
}

// buildHTML walks the body line by line, emitting headings, fenced code
// blocks, and paragraphs, and collecting the table of contents. Duplicate
// heading anchors get -1, -2 suffixes.
func buildHTML(body string, smart bool) (string, []document.TocEntry) {
	var (
		out       strings.Builder
		toc       []document.TocEntry
		paragraph []string
		codeLines []string
		codeLang  string
		inCode    bool
		anchors   = make(map[string]int)
	)

	flushParagraph := func() {
		if len(paragraph) == 0 {
			return
		}
		out.WriteString("<p>")
		out.WriteString(renderInline(strings.Join(paragraph, "\n"), smart))
		out.WriteString("</p>\n")
		paragraph = nil
	}

	flushCode := func() {
		class := ""
		if codeLang != "" {
			class = fmt.Sprintf(` class="language-%s"`, html.EscapeString(codeLang))
		}
		out.WriteString("<pre><code" + class + ">")
		out.WriteString(html.EscapeString(strings.Join(codeLines, "\n")))
		out.WriteString("</code></pre>\n")
		codeLines = nil
		codeLang = ""
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flushCode()
				inCode = false
			} else {
				flushParagraph()
				codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
				inCode = true
			}
			continue
		}
		if inCode {
			codeLines = append(codeLines, line)
			continue
		}

		if m := headingRe.FindStringSubmatch(trimmed); m != nil {
			flushParagraph()
			level := len(m[1])
			text := strings.TrimSpace(m[2])
			if text == "" {
				continue
			}
			anchor := anchorize(text)
			if n := anchors[anchor]; n > 0 {
				anchors[anchor] = n + 1
				anchor = fmt.Sprintf("%s-%d", anchor, n)
			} else {
				anchors[anchor] = 1
			}
			id := headingIDPrefix + anchor
			toc = append(toc, document.TocEntry{Level: level, ID: id, Text: text})
			fmt.Fprintf(&out, "<h%d id=%q>%s</h%d>\n", level, id, renderInline(text, smart), level)
			continue
		}

		if trimmed == "" {
			flushParagraph()
			continue
		}
		paragraph = append(paragraph, line)
	}

	if inCode {
		flushCode()
	}
	flushParagraph()

	return out.String(), toc
}

// renderInline escapes text and applies inline markdown: code spans,
// links, bold, emphasis, and (outside performance mode) smart punctuation.
func renderInline(text string, smart bool) string {
	s := html.EscapeString(text)
	if smart {
		s = strings.NewReplacer("---", "—", "--", "–", "...", "…").Replace(s)
	}
	s = codeSpanRe.ReplaceAllString(s, "<code>$1</code>")
	s = linkRe.ReplaceAllString(s, `<a href="$2">$1</a>`)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = emRe.ReplaceAllString(s, "<em>$1</em>")
	return s
}

// countWords counts the body's words subject to the configured rules.
func countWords(body string, rules document.WordCountRules) int {
	count := 0
	inCode := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			if rules.IncludeCode {
				count += len(strings.Fields(line))
			}
			continue
		}

		text := codeSpanRe.ReplaceAllStringFunc(line, func(m string) string {
			if rules.IncludeCode {
				return strings.Trim(m, "`")
			}
			return " "
		})
		text = linkRe.ReplaceAllStringFunc(text, func(m string) string {
			sub := linkRe.FindStringSubmatch(m)
			if rules.IncludeLinks && sub != nil {
				return sub[1]
			}
			return " "
		})
		text = strings.NewReplacer("#", " ", "*", " ", ">", " ").Replace(text)
		count += len(strings.Fields(text))
	}
	return count
}
