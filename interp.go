// Package interp normalizes message templates. Placeholders written as
// {name}, {0} or {} are rewritten to canonical positional __<slot> markers
// with their format specifiers preserved, and the named identifiers are
// collected as a sorted, deduplicated set.
//
// Parsing is total: a template that cannot be fully interpreted keeps the
// problematic bytes as literal text instead of failing.
package interp

import (
	"slices"

	"interp/internal/render"
	"interp/internal/source"
)

// Result holds the outcome of parsing one template.
type Result struct {
	// Normalized is the template with placeholders rewritten to __<slot>
	// markers and escaped braces decoded.
	Normalized string
	// Identifiers lists the named placeholders in sorted order, without
	// duplicates. Positional and implicit placeholders contribute nothing.
	Identifiers []string
}

// Has reports whether name occurs in the template's identifier set.
func (r Result) Has(name string) bool {
	_, ok := slices.BinarySearch(r.Identifiers, name)
	return ok
}

// Parse normalizes a single template. Callers own the returned slice:
// every call produces a fresh Result.
func Parse(template string) Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual("template", []byte(template))
	out := render.Normalize(fs.Get(id), render.Options{})
	return Result{
		Normalized:  out.Normalized,
		Identifiers: out.Identifiers,
	}
}
