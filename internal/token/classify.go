package token

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlaceholderKind categorizes a placeholder body.
type PlaceholderKind uint8

const (
	// PlaceholderMalformed marks a body that fits no category; the
	// renderer keeps its original text byte for byte.
	PlaceholderMalformed PlaceholderKind = iota
	// PlaceholderNamed references an argument by identifier, e.g. {name}.
	PlaceholderNamed
	// PlaceholderExplicit references a slot by index, e.g. {0}.
	PlaceholderExplicit
	// PlaceholderImplicit takes the next free slot, e.g. {}.
	PlaceholderImplicit
)

func (k PlaceholderKind) String() string {
	switch k {
	case PlaceholderMalformed:
		return "Malformed"
	case PlaceholderNamed:
		return "Named"
	case PlaceholderExplicit:
		return "Explicit"
	case PlaceholderImplicit:
		return "Implicit"
	default:
		return "PlaceholderKind(?)"
	}
}

// ClassifiedPlaceholder is the classified form of a placeholder body.
// Exactly one of Name/Index is meaningful, per Kind.
type ClassifiedPlaceholder struct {
	Kind  PlaceholderKind
	Name  string // Kind == PlaceholderNamed
	Index int    // Kind == PlaceholderExplicit
	Spec  string // format specifier without the ':', "" when absent
}

// HasSpec reports whether a format specifier should be re-emitted.
// An empty specifier ({x:}) counts as absent.
func (p ClassifiedPlaceholder) HasSpec() bool { return p.Spec != "" }

// ClassifyBody splits a placeholder body at the first ':' and decides
// what the head references. The split happens before any validation,
// so {0name:x} is malformed while {n:0name} is a named placeholder
// with an opaque specifier.
func ClassifyBody(body string) ClassifiedPlaceholder {
	head, spec, _ := strings.Cut(body, ":")

	switch {
	case head == "":
		return ClassifiedPlaceholder{Kind: PlaceholderImplicit, Spec: spec}
	case isDecimal(head):
		idx, err := strconv.Atoi(head)
		if err != nil {
			// цифры есть, но число не влезает в int
			return ClassifiedPlaceholder{Kind: PlaceholderMalformed}
		}
		return ClassifiedPlaceholder{Kind: PlaceholderExplicit, Index: idx, Spec: spec}
	case isIdent(head):
		return ClassifiedPlaceholder{Kind: PlaceholderNamed, Name: head, Spec: spec}
	default:
		return ClassifiedPlaceholder{Kind: PlaceholderMalformed}
	}
}

func isDecimal(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ASCII fast-path for identifiers; Unicode goes through the rune checks.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}

func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	first := true
	for i := 0; i < len(s); {
		b := s[i]
		if b < utf8.RuneSelf {
			if first {
				if !isIdentStartByte(b) {
					return false
				}
			} else if !isIdentContinueByte(b) {
				return false
			}
			i++
		} else {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				return false
			}
			if first {
				if !isIdentStartRune(r) {
					return false
				}
			} else if !isIdentContinueRune(r) {
				return false
			}
			i += size
		}
		first = false
	}
	return true
}
