package diag

import (
	"testing"

	"interp/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/messages/greeting.tmpl", []byte("Hi {0name}\n{oops\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     ScanMalformedPlaceholder,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 3, End: 10},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 11, End: 16}, Msg: "note line"},
			},
		},
		{
			Severity: SevWarning,
			Code:     ScanUnterminatedPlaceholder,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 11, End: 16},
		},
	}

	expected := "warning SCN1002 messages/greeting.tmpl:1:4 first line second\n" +
		"note SCN1002 messages/greeting.tmpl:2:1 note line\n" +
		"warning SCN1001 messages/greeting.tmpl:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortDiagnosticsEmpty(t *testing.T) {
	fs := source.NewFileSet()
	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
	if got := FormatShortDiagnostics([]Diagnostic{{Severity: SevInfo}}, nil, true); got != "" {
		t.Fatalf("expected empty output without fileset, got %q", got)
	}
}
