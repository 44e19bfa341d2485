package render

import (
	"fmt"
	"strconv"

	"interp/internal/diag"
	"interp/internal/registry"
	"interp/internal/scan"
	"interp/internal/source"
	"interp/internal/token"
)

// Options configures normalization.
type Options struct {
	// Reporter receives scan and demotion diagnostics. May be nil.
	Reporter diag.Reporter
}

// Output is the result of normalizing one template.
type Output struct {
	// Normalized is the template with placeholders rewritten to __<slot>
	// markers and escaped braces decoded.
	Normalized string
	// Identifiers are the named placeholders, sorted, without duplicates.
	Identifiers []string
	// Slots is the allocation table in slot order.
	Slots []registry.Slot
	// Demotions counts placeholders kept as literal text (malformed or
	// unterminated).
	Demotions int
}

// Normalize сканирует шаблон и переписывает его в канонический вид.
// Проход тотальный: любой вход даёт результат, проблемные плейсхолдеры
// остаются литеральным текстом и попадают в Demotions.
func Normalize(file *source.File, opts Options) Output {
	sc := scan.New(file, scan.Options{Reporter: opts.Reporter})
	reg := registry.New()
	buf := make([]byte, 0, len(file.Content))
	demotions := 0

	for {
		tok := sc.Next()
		if tok.Kind == token.EOF {
			break
		}
		switch tok.Kind {
		case token.Text:
			buf = appendDecoded(buf, tok.Text)
		case token.Placeholder:
			ph := token.ClassifyBody(tok.Body())
			switch ph.Kind {
			case token.PlaceholderNamed:
				buf = appendMarker(buf, reg.Register(ph.Name), ph)
			case token.PlaceholderExplicit:
				// Явный индекс не трогает распределитель слотов
				buf = appendMarker(buf, ph.Index, ph)
			case token.PlaceholderImplicit:
				buf = appendMarker(buf, reg.Alloc(), ph)
			default:
				buf = append(buf, tok.Text...)
				demotions++
				reportMalformed(opts.Reporter, tok)
			}
		case token.Unclosed:
			// Сканер уже выдал предупреждение
			buf = append(buf, tok.Text...)
			demotions++
		}
	}

	return Output{
		Normalized:  string(buf),
		Identifiers: reg.Names(),
		Slots:       reg.Snapshot(),
		Demotions:   demotions,
	}
}

// appendDecoded копирует текстовый кусок, сворачивая "{{" и "}}" в одиночные
// скобки. Свёртка жадная слева направо: "}}}" даёт "}}".
func appendDecoded(buf []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		b := s[i]
		buf = append(buf, b)
		if (b == '{' || b == '}') && i+1 < len(s) && s[i+1] == b {
			i++
		}
	}
	return buf
}

// appendMarker печатает канонический маркер "__<slot>" и хвост ":<spec>",
// если спецификатор формата непустой.
func appendMarker(buf []byte, slot int, ph token.ClassifiedPlaceholder) []byte {
	buf = append(buf, '_', '_')
	buf = strconv.AppendInt(buf, int64(slot), 10)
	if ph.HasSpec() {
		buf = append(buf, ':')
		buf = append(buf, ph.Spec...)
	}
	return buf
}

func reportMalformed(r diag.Reporter, tok token.Token) {
	opening := source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1}
	closing := source.Span{File: tok.Span.File, Start: tok.Span.End - 1, End: tok.Span.End}
	diag.ReportWarning(r, diag.ScanMalformedPlaceholder, tok.Span, fmt.Sprintf("malformed placeholder %q", tok.Text)).
		WithNote(tok.Span, "kept as literal text").
		WithFix("escape the braces as '{{' and '}}'",
			diag.FixEdit{Span: opening, NewText: "{{"},
			diag.FixEdit{Span: closing, NewText: "}}"}).
		Emit()
}
