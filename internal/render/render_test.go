package render_test

import (
	"slices"
	"testing"

	"interp/internal/diag"
	"interp/internal/registry"
	"interp/internal/render"
	"interp/internal/source"
)

// testReporter собирает все диагностики нормализации
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) codes() []diag.Code {
	codes := make([]diag.Code, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

// normalizeString нормализует строку как виртуальный шаблон
func normalizeString(t *testing.T, input string) (render.Output, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tmpl", []byte(input))
	reporter := &testReporter{}
	out := render.Normalize(fs.Get(id), render.Options{Reporter: reporter})
	return out, reporter
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		normalized string
		idents     []string
		demotions  int
	}{
		{
			name:       "named placeholder",
			input:      "Hello, {name}!",
			normalized: "Hello, __0!",
			idents:     []string{"name"},
		},
		{
			name:       "implicit and explicit share nothing",
			input:      "{} {1} {0} {}",
			normalized: "__0 __1 __0 __1",
			idents:     []string{},
		},
		{
			name:       "explicit does not advance allocator",
			input:      "{2} {} {}",
			normalized: "__2 __0 __1",
			idents:     []string{},
		},
		{
			name:       "named and implicit share the allocator",
			input:      "{x} {} {y}",
			normalized: "__0 __1 __2",
			idents:     []string{"x", "y"},
		},
		{
			name:       "duplicate name shares the slot",
			input:      "{a} and {a} again",
			normalized: "__0 and __0 again",
			idents:     []string{"a"},
		},
		{
			name:       "identifiers sorted regardless of slot order",
			input:      "{b} {a} {b}",
			normalized: "__0 __1 __0",
			idents:     []string{"a", "b"},
		},
		{
			name:       "escaped braces decode",
			input:      "{{literal}}",
			normalized: "{literal}",
			idents:     []string{},
		},
		{
			name:       "escape hugging a placeholder",
			input:      "{{{x}}}",
			normalized: "{__0}",
			idents:     []string{"x"},
		},
		{
			name:       "lone close brace is literal",
			input:      "}",
			normalized: "}",
			idents:     []string{},
		},
		{
			name:       "close braces decode greedily",
			input:      "}}}",
			normalized: "}}",
			idents:     []string{},
		},
		{
			name:       "format spec preserved",
			input:      "{count:03d}",
			normalized: "__0:03d",
			idents:     []string{"count"},
		},
		{
			name:       "empty spec treated as absent",
			input:      "{x:}",
			normalized: "__0",
			idents:     []string{"x"},
		},
		{
			name:       "implicit hole with spec",
			input:      "{:04x}",
			normalized: "__0:04x",
			idents:     []string{},
		},
		{
			name:       "implicit holes in running text",
			input:      "Hello, {}! Your ID is {:04x}",
			normalized: "Hello, __0! Your ID is __1:04x",
			idents:     []string{},
		},
		{
			name:       "shared slot keeps each spec",
			input:      "{num:04x} {num:#x}",
			normalized: "__0:04x __0:#x",
			idents:     []string{"num"},
		},
		{
			name:       "explicit with spec",
			input:      "{0:x}",
			normalized: "__0:x",
			idents:     []string{},
		},
		{
			name:       "unicode identifier",
			input:      "Привет, {имя}! У вас {n} сообщений",
			normalized: "Привет, __0! У вас __1 сообщений",
			idents:     []string{"n", "имя"},
		},
		{
			name:       "empty template",
			input:      "",
			normalized: "",
			idents:     []string{},
		},
		{
			name:       "digit-led body demotes",
			input:      "{0name}",
			normalized: "{0name}",
			idents:     []string{},
			demotions:  1,
		},
		{
			name:       "space body demotes",
			input:      "{ }",
			normalized: "{ }",
			idents:     []string{},
			demotions:  1,
		},
		{
			name:       "index overflow demotes",
			input:      "{99999999999999999999}",
			normalized: "{99999999999999999999}",
			idents:     []string{},
			demotions:  1,
		},
		{
			name:       "unterminated placeholder demotes",
			input:      "Bye, {who",
			normalized: "Bye, {who",
			idents:     []string{},
			demotions:  1,
		},
		{
			name:       "demotion does not advance allocator",
			input:      "{ } {x}",
			normalized: "{ } __0",
			idents:     []string{"x"},
			demotions:  1,
		},
		{
			name:       "adjacent placeholders",
			input:      "{a}{b}{a}",
			normalized: "__0__1__0",
			idents:     []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, reporter := normalizeString(t, tt.input)

			if out.Normalized != tt.normalized {
				t.Errorf("Normalized: expected %q, got %q", tt.normalized, out.Normalized)
			}
			if !slices.Equal(out.Identifiers, tt.idents) {
				t.Errorf("Identifiers: expected %v, got %v", tt.idents, out.Identifiers)
			}
			if out.Demotions != tt.demotions {
				t.Errorf("Demotions: expected %d, got %d (diagnostics: %v)",
					tt.demotions, out.Demotions, reporter.codes())
			}
		})
	}
}

func TestNormalizeSlots(t *testing.T) {
	out, _ := normalizeString(t, "{x} {} {y} {x}")

	expected := []registry.Slot{
		{Index: 0, Name: "x"},
		{Index: 1, Name: ""},
		{Index: 2, Name: "y"},
	}
	if !slices.Equal(out.Slots, expected) {
		t.Errorf("Slots: expected %v, got %v", expected, out.Slots)
	}
}

func TestNormalizeExplicitLeavesNoSlots(t *testing.T) {
	out, _ := normalizeString(t, "{0} {1} {2}")

	if len(out.Slots) != 0 {
		t.Errorf("Explicit placeholders must not allocate slots, got %v", out.Slots)
	}
}

func TestNormalizeMalformedDiagnostic(t *testing.T) {
	out, reporter := normalizeString(t, "{0name}")

	if out.Demotions != 1 {
		t.Fatalf("Expected 1 demotion, got %d", out.Demotions)
	}
	if len(reporter.diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(reporter.diagnostics))
	}

	d := reporter.diagnostics[0]
	if d.Code != diag.ScanMalformedPlaceholder {
		t.Errorf("Expected code %v, got %v", diag.ScanMalformedPlaceholder, d.Code)
	}
	if d.Severity != diag.SevWarning {
		t.Errorf("Expected SevWarning, got %v", d.Severity)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "kept as literal text" {
		t.Errorf("Expected 'kept as literal text' note, got %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 2 {
		t.Fatalf("Expected one fix with two edits, got %+v", d.Fixes)
	}
	if d.Fixes[0].Edits[0].NewText != "{{" || d.Fixes[0].Edits[1].NewText != "}}" {
		t.Errorf("Expected brace-escape edits, got %+v", d.Fixes[0].Edits)
	}
}

func TestNormalizeUnterminatedDiagnosticOnce(t *testing.T) {
	// Незакрытый плейсхолдер диагностируется сканером, рендер не дублирует
	_, reporter := normalizeString(t, "{oops")

	if len(reporter.diagnostics) != 1 {
		t.Fatalf("Expected exactly 1 diagnostic, got %d: %v",
			len(reporter.diagnostics), reporter.codes())
	}
	if reporter.diagnostics[0].Code != diag.ScanUnterminatedPlaceholder {
		t.Errorf("Expected %v, got %v",
			diag.ScanUnterminatedPlaceholder, reporter.diagnostics[0].Code)
	}
}

func TestNormalizeNilReporter(t *testing.T) {
	// Без репортёра нормализация всё равно тотальна
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.tmpl", []byte("{ } {oops"))
	out := render.Normalize(fs.Get(id), render.Options{})

	if out.Normalized != "{ } {oops" {
		t.Errorf("Expected verbatim demotion, got %q", out.Normalized)
	}
	if out.Demotions != 2 {
		t.Errorf("Expected 2 demotions, got %d", out.Demotions)
	}
}

// Бенчмарки

func BenchmarkNormalize(b *testing.B) {
	input := "Hello, {name}! You have {count:d} new {kind} messages, {name}."
	fs := source.NewFileSet()
	id := fs.AddVirtual("bench.tmpl", []byte(input))
	file := fs.Get(id)

	b.ResetTimer()
	for b.Loop() {
		_ = render.Normalize(file, render.Options{})
	}
}
