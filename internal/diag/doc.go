// Package diag defines the diagnostic model shared by the scanning and
// catalog layers.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced while scanning templates and validating catalogs.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Model fix suggestions as structured edits that the CLI can display.
//
// Normalization itself is total: a template always yields complete output.
// Diagnostics explain the recoveries that happened along the way (an
// unterminated brace copied verbatim, a malformed body demoted to literal
// text); they never signal failure of the parse.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional Fix records describing how to address the problem.
//
// # Emitting diagnostics
//
// Producers should use a diag.Reporter to decouple emission from storage.
// The render layer constructs a ReportBuilder via NewReportBuilder (or the
// helpers ReportError/ReportWarning/ReportInfo) and chains WithNote /
// WithFix before calling Emit. BagReporter aggregates into a Bag, which
// supports capping, sorting, deduplication, and merging.
//
// Rendering responsibilities live in internal/diagfmt. This package
// performs no formatting or IO.
package diag
