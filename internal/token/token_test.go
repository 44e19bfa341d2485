package token_test

import (
	"testing"

	"interp/internal/source"
	"interp/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: uint32(len(text))}, Text: text}
}

func TestKindString(t *testing.T) {
	kinds := map[token.Kind]string{
		token.Invalid:     "Invalid",
		token.EOF:         "EOF",
		token.Text:        "Text",
		token.Placeholder: "Placeholder",
		token.Unclosed:    "Unclosed",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestBody(t *testing.T) {
	tests := []struct {
		kind token.Kind
		text string
		want string
	}{
		{token.Placeholder, "{name}", "name"},
		{token.Placeholder, "{}", ""},
		{token.Placeholder, "{num:04x}", "num:04x"},
		{token.Unclosed, "{name", "name"},
		{token.Unclosed, "{", ""},
		{token.Text, "plain", ""},
		{token.EOF, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := tok(tt.kind, tt.text).Body(); got != tt.want {
				t.Errorf("Body() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	if !tok(token.Text, "x").IsText() {
		t.Error("Text should be text")
	}
	if tok(token.Placeholder, "{x}").IsText() {
		t.Error("Placeholder must not be text")
	}
	if !tok(token.Placeholder, "{x}").IsPlaceholder() {
		t.Error("Placeholder should be placeholder")
	}
	if tok(token.Unclosed, "{x").IsPlaceholder() {
		t.Error("Unclosed must not be placeholder")
	}
}
