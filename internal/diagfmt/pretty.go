package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"interp/internal/diag"
	"interp/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	st := newStyles(opts.Color)
	for _, d := range bag.Items() {
		printDiagnostic(w, fs, d, opts, st)
	}
}

type styles struct {
	sev   func(diag.Severity) string
	code  func(string) string
	caret func(string) string
}

func newStyles(enabled bool) styles {
	if !enabled {
		return styles{
			sev:   func(s diag.Severity) string { return s.String() },
			code:  func(s string) string { return s },
			caret: func(s string) string { return s },
		}
	}

	errC := color.New(color.FgRed, color.Bold)
	warnC := color.New(color.FgYellow, color.Bold)
	infoC := color.New(color.FgCyan, color.Bold)
	codeC := color.New(color.Bold)
	caretC := color.New(color.FgGreen, color.Bold)

	return styles{
		sev: func(s diag.Severity) string {
			switch s {
			case diag.SevError:
				return errC.Sprint(s.String())
			case diag.SevWarning:
				return warnC.Sprint(s.String())
			default:
				return infoC.Sprint(s.String())
			}
		},
		code:  func(s string) string { return codeC.Sprint(s) },
		caret: func(s string) string { return caretC.Sprint(s) },
	}
}

// formatPathMode переводит PathMode в режим File.FormatPath.
func formatPathMode(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	case PathModeAuto:
		return f.FormatPath("auto", "")
	default:
		return f.Path
	}
}

func printDiagnostic(w io.Writer, fs *source.FileSet, d diag.Diagnostic, opts PrettyOpts, st styles) {
	f := fs.Get(d.Primary.File)
	startPos, endPos := fs.Resolve(d.Primary)
	path := formatPathMode(f, fs, opts.PathMode)

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, startPos.Line, startPos.Col,
		st.sev(d.Severity), st.code(d.Code.ID()), d.Message)

	if opts.Context >= 0 {
		printSnippet(w, f, startPos, endPos, int(opts.Context), st)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nf := fs.Get(note.Span.File)
			npos, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  note: %s:%d:%d: %s\n",
				formatPathMode(nf, fs, opts.PathMode), npos.Line, npos.Col, note.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  fix #%d: %s\n", i+1, fix.Title)
			for _, edit := range fix.Edits {
				ef := fs.Get(edit.Span.File)
				epos, _ := fs.Resolve(edit.Span)
				fmt.Fprintf(w, "    apply=%q at %s:%d:%d\n",
					edit.NewText, formatPathMode(ef, fs, opts.PathMode), epos.Line, epos.Col)
				if opts.ShowPreview {
					printPreview(w, fs, edit)
				}
			}
		}
	}
}

// printSnippet печатает строки вокруг основной позиции и подчёркивание.
// Колонки в LineCol байтовые, поэтому ширина отступа и подчёркивания
// считается через runewidth по фактическому тексту строки.
func printSnippet(w io.Writer, f *source.File, startPos, endPos source.LineCol, context int, st styles) {
	lineCount := len(f.LineIdx) + 1
	first := int(startPos.Line) - context
	if first < 1 {
		first = 1
	}
	last := int(startPos.Line) + context
	if last > lineCount {
		last = lineCount
	}

	gutter := len(strconv.Itoa(last))

	for line := first; line <= last; line++ {
		text := f.GetLine(uint32(line))
		fmt.Fprintf(w, "  %*d | %s\n", gutter, line, text)

		if line != int(startPos.Line) {
			continue
		}

		startCol := int(startPos.Col)
		if startCol > len(text)+1 {
			startCol = len(text) + 1
		}
		endCol := len(text) + 1
		if endPos.Line == startPos.Line && int(endPos.Col) <= endCol {
			endCol = int(endPos.Col)
		}
		if endCol <= startCol {
			endCol = startCol + 1
		}

		prefix := text[:startCol-1]
		covered := text[startCol-1 : min(endCol-1, len(text))]

		pad := runewidth.StringWidth(prefix)
		width := max(runewidth.StringWidth(covered), 1)
		underline := "^" + strings.Repeat("~", width-1)

		fmt.Fprintf(w, "  %*s | %s%s\n", gutter, "", strings.Repeat(" ", pad), st.caret(underline))
	}
}

func printPreview(w io.Writer, fs *source.FileSet, edit diag.FixEdit) {
	preview, err := buildFixEditPreview(fs, edit)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "    preview:\n")
	for _, line := range preview.before {
		fmt.Fprintf(w, "      - %s\n", line)
	}
	for _, line := range preview.after {
		fmt.Fprintf(w, "      + %s\n", line)
	}
}
