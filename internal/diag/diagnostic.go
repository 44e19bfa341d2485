package diag

import (
	"interp/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixEdit is a single text replacement in source coordinates.
type FixEdit struct {
	Span    source.Span
	NewText string
}

// Fix is a suggested correction: a short title plus the edits that apply it.
type Fix struct {
	Title string
	Edits []FixEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
