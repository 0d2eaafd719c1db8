package api

import (
	"github.com/raudvere/lectern/internal/document"
	"github.com/raudvere/lectern/internal/findnav"
	"github.com/raudvere/lectern/internal/linkintent"
	"github.com/raudvere/lectern/internal/recent"
	"github.com/raudvere/lectern/internal/tabs"
)

// OpenRequest is the request body for opening a document in a tab.
type OpenRequest struct {
	Path          string `json:"path" example:"notes/hello.md" validate:"required"`
	Activate      bool   `json:"activate" example:"true"`
	RestoreScroll bool   `json:"restoreScroll" example:"true"`
}

// CloseRequest is the request body for closing a tab.
type CloseRequest struct {
	Path string `json:"path" example:"notes/hello.md" validate:"required"`
}

// AdjacentRequest selects a neighbor tab.
type AdjacentRequest struct {
	Direction string `json:"direction" example:"next" validate:"required"`
}

// ResolveLinkRequest is the request body for resolving a link.
// DocumentPath defaults to the currently displayed document.
type ResolveLinkRequest struct {
	Href         string `json:"href" example:"./other.md#intro" validate:"required"`
	DocumentPath string `json:"documentPath,omitempty" example:"/docs/readme.md"`
}

// ResolveLinkResponse is the resolved intent plus the scope-check outcome
// for file-opening intents.
type ResolveLinkResponse struct {
	linkintent.Intent
	ResolvedPath string `json:"resolvedPath,omitempty" example:"/docs/other.md"`
	Error        string `json:"error,omitempty"`
}

// FindRequest is the request body for deriving find state.
type FindRequest struct {
	Query      string `json:"query" example:"needle"`
	MatchCount int    `json:"matchCount" example:"7"`
}

// FindStepRequest steps the find cursor.
type FindStepRequest struct {
	Direction string `json:"direction" example:"forward" validate:"required"`
}

// ScrollRequest records a scroll offset for a document.
type ScrollRequest struct {
	Path   string  `json:"path" example:"/docs/readme.md" validate:"required"`
	Offset float64 `json:"offset" example:"1234.5"`
}

// ReaderWidthRequest carries the measured layout metrics used to derive
// the reader width ceiling.
type ReaderWidthRequest struct {
	AvailableWidthPx float64 `json:"availableWidthPx" example:"1280"`
	PaddingPx        float64 `json:"paddingPx" example:"96"`
	CharWidthPx      float64 `json:"charWidthPx" example:"8.4"`
}

// ReaderWidthResponse is the reconciled reader width state.
type ReaderWidthResponse struct {
	WidthCh int `json:"widthCh" example:"80"`
	MaxCh   int `json:"maxCh" example:"120"`
}

// DocumentSummary is the lightweight current-document metadata in the
// workspace response.
type DocumentSummary struct {
	Path               string `json:"path" example:"/docs/readme.md"`
	Title              string `json:"title" example:"Readme"`
	WordCount          int    `json:"wordCount" example:"420"`
	ReadingTimeMinutes int    `json:"readingTimeMinutes" example:"2"`
}

// WorkspaceResponse is the full workspace snapshot.
type WorkspaceResponse struct {
	Tabs       []tabs.Tab       `json:"tabs" validate:"required"`
	ActivePath string           `json:"activePath,omitempty"`
	Document   *DocumentSummary `json:"document,omitempty"`
	Find       findnav.State    `json:"find"`
	LastError  string           `json:"lastError,omitempty"`
}

// OutcomeResponse reports the result of a workspace mutation.
type OutcomeResponse struct {
	Result string `json:"result" example:"success" validate:"required"`
}

// DocumentDetail is the full document response plus the chunked-render
// decision the client applies when mounting the HTML body.
type DocumentDetail struct {
	*document.Document
	ShouldChunk        bool `json:"shouldChunk"`
	ChunkNodesPerYield int  `json:"chunkNodesPerYield" example:"24"`
}

// RecentResponse wraps the recent-documents list.
type RecentResponse struct {
	Entries []recent.Entry `json:"entries" validate:"required"`
}
