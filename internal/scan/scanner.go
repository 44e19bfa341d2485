package scan

import (
	"interp/internal/diag"
	"interp/internal/source"
	"interp/internal/token"
)

type Scanner struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File, opts Options) *Scanner {
	return &Scanner{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
	}
}

// Next возвращает следующий токен.
// После EOF всегда возвращает EOF.
func (s *Scanner) Next() token.Token {
	// 1) Если есть look — вернуть его и очистить
	if s.look != nil {
		tok := *s.look
		s.look = nil
		return tok
	}

	// 2) Если EOF → вернуть EOF
	if s.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: s.emptySpan(),
			Text: "",
		}
	}

	// 3) Посмотреть текущий байт и выбрать сканер
	if s.cursor.Peek() == '{' {
		// "{{" — экранированная скобка, она остаётся внутри текстового куска.
		// Всё остальное после '{' — плейсхолдер (в том числе '{' в самом конце).
		if _, b1, ok := s.cursor.Peek2(); !ok || b1 != '{' {
			return s.scanPlaceholder()
		}
	}
	return s.scanText()
}

// Peek возвращает следующий токен, не потребляя его.
func (s *Scanner) Peek() token.Token {
	t := s.Next()
	s.look = &t
	return t
}

func (s *Scanner) emptySpan() source.Span {
	return source.Span{File: s.file.ID, Start: s.cursor.Off, End: s.cursor.Off}
}

// scanText сканирует текстовый кусок до начала плейсхолдера или EOF.
// Экранирование ("{{", "}}") здесь не декодируется: токен хранит
// исходные байты, декодирует рендер.
func (s *Scanner) scanText() token.Token {
	m := s.cursor.Mark()
	for !s.cursor.EOF() {
		if s.cursor.Peek() == '{' {
			if _, b1, ok := s.cursor.Peek2(); ok && b1 == '{' {
				// "{{" — остаётся в тексте парой
				s.cursor.Bump()
				s.cursor.Bump()
				continue
			}
			// начало плейсхолдера
			break
		}
		// '}' ничего не открывает: и "}}", и одиночная '}' — текст
		s.cursor.Bump()
	}
	sp := s.cursor.SpanFrom(m)
	return token.Token{
		Kind: token.Text,
		Span: sp,
		Text: s.spanText(sp),
	}
}

// scanPlaceholder сканирует "{...}" до первой закрывающей скобки.
// Вложенных скобок нет: первая '}' всегда закрывает плейсхолдер.
// Если '}' не нашлась до конца шаблона — токен Unclosed и предупреждение.
func (s *Scanner) scanPlaceholder() token.Token {
	m := s.cursor.Mark()
	openSpan := source.Span{File: s.file.ID, Start: s.cursor.Off, End: s.cursor.Off + 1}
	s.cursor.Bump() // '{'

	for !s.cursor.EOF() {
		if s.cursor.Bump() == '}' {
			sp := s.cursor.SpanFrom(m)
			return token.Token{
				Kind: token.Placeholder,
				Span: sp,
				Text: s.spanText(sp),
			}
		}
	}

	// EOF раньше '}'
	sp := s.cursor.SpanFrom(m)
	diag.ReportWarning(s.opts.Reporter, diag.ScanUnterminatedPlaceholder, sp, "unterminated placeholder").
		WithNote(openSpan, "opened here").
		WithFix("escape the brace as '{{'", diag.FixEdit{Span: openSpan, NewText: "{{"}).
		Emit()
	return token.Token{
		Kind: token.Unclosed,
		Span: sp,
		Text: s.spanText(sp),
	}
}

func (s *Scanner) spanText(sp source.Span) string {
	return string(s.file.Content[sp.Start:sp.End])
}
