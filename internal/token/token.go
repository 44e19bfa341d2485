package token

import (
	"interp/internal/source"
)

// Token represents a single template token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsText reports whether the token is a literal text run.
func (t Token) IsText() bool { return t.Kind == Text }

// IsPlaceholder reports whether the token is a complete braced placeholder.
func (t Token) IsPlaceholder() bool { return t.Kind == Placeholder }

// Body returns the placeholder interior without the surrounding braces.
// For Unclosed tokens it is everything after the opening brace.
// For any other kind it returns the empty string.
func (t Token) Body() string {
	switch t.Kind {
	case Placeholder:
		if len(t.Text) < 2 {
			return ""
		}
		return t.Text[1 : len(t.Text)-1]
	case Unclosed:
		if len(t.Text) < 1 {
			return ""
		}
		return t.Text[1:]
	default:
		return ""
	}
}
