package apperr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrNotMarkdown      = errors.New("not a markdown file")
	ErrOutsideWorkspace = errors.New("outside allowed directory")
)
