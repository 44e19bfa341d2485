package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"interp/internal/source"
	"interp/internal/token"
)

// CheckTokenInvariants runs a minimal set of stream invariants on a scanned
// template:
// 1) the stream is non-empty and ends with a single EOF token with an empty span
// 2) every other token is non-empty, carries the file id, and stays in bounds
// 3) token spans tile the content: each starts where the previous one ended
// 4) every token text matches the bytes its span covers
func CheckTokenInvariants(sf *source.File, tokens []token.Token) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}

	// 1) завершающий EOF
	last := tokens[len(tokens)-1]
	if last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %v, want EOF", last.Kind)
	}
	if !last.Span.Empty() {
		return fmt.Errorf("EOF span is not empty: %v", last.Span)
	}
	if last.Span.File != sf.ID {
		return fmt.Errorf("EOF span points to different file id: got=%d want=%d", last.Span.File, sf.ID)
	}

	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	// 2) + 3) + 4) остальные токены замощают содержимое без зазоров
	var off uint32
	for i, tok := range tokens[:len(tokens)-1] {
		sp := tok.Span
		if tok.Kind == token.EOF {
			return fmt.Errorf("EOF token in the middle of the stream at %d", i)
		}
		if tok.Kind == token.Invalid {
			return fmt.Errorf("Invalid token at %d", i)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("token %d span points to different file id: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d has an empty span: %v", i, sp)
		}
		if sp.Start != off {
			return fmt.Errorf("token %d starts at %d, want %d", i, sp.Start, off)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d span end beyond content: %d > %d", i, sp.End, lenContent)
		}
		if tok.Text != string(sf.Content[sp.Start:sp.End]) {
			return fmt.Errorf("token %d text %q does not match span %v", i, tok.Text, sp)
		}
		off = sp.End
	}
	if off != lenContent {
		return fmt.Errorf("token spans cover %d bytes of %d", off, lenContent)
	}
	return nil
}
