// Package token defines the lexical pieces of a message template.
// Invariants:
//   - Token.Text is a slice of the original template (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Placeholder tokens include both braces; Body() strips them.
//   - Escaped braces ({{ and }}) travel inside Text runs and are decoded
//     only at render time, so Text always reproduces the input verbatim.
//   - Scanning is total: bytes that fit no placeholder still arrive as
//     Text or Unclosed tokens, and concatenating all token texts yields
//     the original input.
//   - Placeholder bodies are classified here, not in the scanner; the
//     scanner only finds brace boundaries.
package token
