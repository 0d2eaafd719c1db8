// Package document defines the domain types for a loaded markdown document.
package document

// TocEntry is one heading in the document outline.
type TocEntry struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Document is a fully loaded and rendered markdown file. Instances are
// replaced wholesale on each successful load, never mutated in place.
type Document struct {
	Path               string     `json:"path"`
	Title              string     `json:"title"`
	Source             string     `json:"source"`
	HTML               string     `json:"html"`
	Toc                []TocEntry `json:"toc"`
	WordCount          int        `json:"wordCount"`
	ReadingTimeMinutes int        `json:"readingTimeMinutes"`
}

// WordCountRules controls which content classes count as words.
type WordCountRules struct {
	IncludeLinks       bool `yaml:"include_links" json:"includeLinks"`
	IncludeCode        bool `yaml:"include_code" json:"includeCode"`
	IncludeFrontMatter bool `yaml:"include_front_matter" json:"includeFrontMatter"`
}

// DefaultWordCountRules counts link text but skips code and frontmatter.
func DefaultWordCountRules() WordCountRules {
	return WordCountRules{IncludeLinks: true}
}

// RenderPreferences parameterize a render pass.
type RenderPreferences struct {
	PerformanceMode bool           `yaml:"performance_mode" json:"performanceMode"`
	WordCountRules  WordCountRules `yaml:"word_count_rules" json:"wordCountRules"`
}

// DefaultRenderPreferences returns the reader's standard settings.
func DefaultRenderPreferences() RenderPreferences {
	return RenderPreferences{WordCountRules: DefaultWordCountRules()}
}
