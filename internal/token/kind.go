package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token. The scanner never produces it;
	// it guards zero-value Tokens.
	Invalid Kind = iota
	// EOF marks the end of the template input.
	EOF
	// Text represents a run of literal text, including escaped braces.
	Text
	// Placeholder represents a braced placeholder, both braces included.
	Placeholder
	// Unclosed represents an opening brace with no matching close;
	// it covers everything from the brace to the end of input.
	Unclosed
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Text:
		return "Text"
	case Placeholder:
		return "Placeholder"
	case Unclosed:
		return "Unclosed"
	default:
		return "Kind(?)"
	}
}
