package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"interp/internal/source"
	"interp/internal/token"
)

type TokenOutput struct {
	Kind  string      `json:"kind"`
	Text  string      `json:"text,omitempty"`
	Span  source.Span `json:"span"`
	Class string      `json:"class,omitempty"`
	Name  string      `json:"name,omitempty"`
	Index *int        `json:"index,omitempty"`
	Spec  string      `json:"spec,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		// Получаем позицию токена
		startPos, endPos := fs.Resolve(tok.Span)

		// Выводим информацию о токене
		fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String())

		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}

		fmt.Fprintf(w, " at %d:%d-%d:%d",
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		// Для плейсхолдеров показываем классификацию тела
		if tok.Kind == token.Placeholder {
			ph := token.ClassifyBody(tok.Body())
			switch ph.Kind {
			case token.PlaceholderNamed:
				fmt.Fprintf(w, " (named %s)", ph.Name)
			case token.PlaceholderExplicit:
				fmt.Fprintf(w, " (explicit %d)", ph.Index)
			case token.PlaceholderImplicit:
				fmt.Fprintf(w, " (implicit)")
			default:
				fmt.Fprintf(w, " (malformed)")
			}
			if ph.HasSpec() {
				fmt.Fprintf(w, " spec=%q", ph.Spec)
			}
		}

		fmt.Fprintln(w)

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	var output []TokenOutput

	for _, tok := range tokens {
		tokenOut := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
		}

		if tok.Kind == token.Placeholder {
			ph := token.ClassifyBody(tok.Body())
			tokenOut.Class = ph.Kind.String()
			switch ph.Kind {
			case token.PlaceholderNamed:
				tokenOut.Name = ph.Name
			case token.PlaceholderExplicit:
				idx := ph.Index
				tokenOut.Index = &idx
			}
			if ph.HasSpec() {
				tokenOut.Spec = ph.Spec
			}
		}

		output = append(output, tokenOut)

		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
