package scan

import "interp/internal/diag"

// Options configures the scanner.
type Options struct {
	// Reporter receives scan diagnostics. May be nil.
	Reporter diag.Reporter
}
