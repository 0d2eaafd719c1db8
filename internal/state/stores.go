package state

import (
	"encoding/json"
	"log/slog"

	"github.com/raudvere/lectern/internal/recent"
	"github.com/raudvere/lectern/internal/tabs"
)

// LoadTabSession returns the sanitized persisted tab session, or an empty
// session when the stored value is missing or malformed.
func (db *DB) LoadTabSession() tabs.Session {
	raw, ok := db.loadValue(keyTabSession)
	if !ok {
		return tabs.Session{}
	}
	var parsed struct {
		TabPaths   []any `json:"tabPaths"`
		ActivePath any   `json:"activePath"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		db.logger.Warn("state: malformed tab session", slog.String("error", err.Error()))
		return tabs.Session{}
	}
	return tabs.Merge(parsed.TabPaths, parsed.ActivePath)
}

// SaveTabSession persists the tab session, best-effort.
func (db *DB) SaveTabSession(sess tabs.Session) {
	db.saveValue(keyTabSession, sess)
}

// LoadRecentDocuments returns the sanitized recent-documents list.
func (db *DB) LoadRecentDocuments(maxEntries int) recent.State {
	raw, ok := db.loadValue(keyRecentDocuments)
	if !ok {
		return recent.State{}
	}
	var parsed struct {
		Entries []any `json:"entries"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		db.logger.Warn("state: malformed recent documents", slog.String("error", err.Error()))
		return recent.State{}
	}
	return recent.Merge(parsed.Entries, maxEntries)
}

// SaveRecentDocuments persists the recent-documents list, best-effort.
func (db *DB) SaveRecentDocuments(s recent.State) {
	db.saveValue(keyRecentDocuments, s)
}

// Settings are the reader preferences the host persists across sessions.
type Settings struct {
	ReaderWidthCh   int  `json:"readerWidthCh"`
	ReaderWidthMax  int  `json:"readerWidthMax"`
	KeepAtMax       bool `json:"keepAtMax"`
	PerformanceMode bool `json:"performanceMode"`
}

// DefaultSettings returns the out-of-the-box reader settings.
func DefaultSettings() Settings {
	return Settings{ReaderWidthCh: 80, ReaderWidthMax: 120}
}

// LoadSettings returns persisted settings or the defaults.
func (db *DB) LoadSettings() Settings {
	raw, ok := db.loadValue(keySettings)
	if !ok {
		return DefaultSettings()
	}
	s := DefaultSettings()
	if err := json.Unmarshal(raw, &s); err != nil {
		db.logger.Warn("state: malformed settings", slog.String("error", err.Error()))
		return DefaultSettings()
	}
	if s.ReaderWidthCh <= 0 {
		s.ReaderWidthCh = DefaultSettings().ReaderWidthCh
	}
	if s.ReaderWidthMax <= 0 {
		s.ReaderWidthMax = DefaultSettings().ReaderWidthMax
	}
	return s
}

// SaveSettings persists settings, best-effort.
func (db *DB) SaveSettings(s Settings) {
	db.saveValue(keySettings, s)
}

// SidebarLayout is the persisted sidebar geometry.
type SidebarLayout struct {
	WidthPx   int  `json:"widthPx"`
	Collapsed bool `json:"collapsed"`
}

// DefaultSidebarLayout returns the initial sidebar geometry.
func DefaultSidebarLayout() SidebarLayout {
	return SidebarLayout{WidthPx: 280}
}

// LoadSidebarLayout returns the persisted layout or the default.
func (db *DB) LoadSidebarLayout() SidebarLayout {
	raw, ok := db.loadValue(keySidebarLayout)
	if !ok {
		return DefaultSidebarLayout()
	}
	l := DefaultSidebarLayout()
	if err := json.Unmarshal(raw, &l); err != nil {
		db.logger.Warn("state: malformed sidebar layout", slog.String("error", err.Error()))
		return DefaultSidebarLayout()
	}
	if l.WidthPx <= 0 {
		l.WidthPx = DefaultSidebarLayout().WidthPx
	}
	return l
}

// SaveSidebarLayout persists the layout, best-effort.
func (db *DB) SaveSidebarLayout(l SidebarLayout) {
	db.saveValue(keySidebarLayout, l)
}
