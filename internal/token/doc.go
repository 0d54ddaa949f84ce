// Package token defines lexical token kinds for the component description language.
// Invariants:
//   - Token.Span matches the source bytes of the token exactly.
//   - Token.Text is the source text, except for identifiers (NFC-normalized)
//     and string/char literals (quotes kept, escapes left undecoded).
//   - uuid, version, description, in, out, callee are plain identifiers;
//     the parser recognizes them by context.
//   - Primitive type names (Integer, String, HANDLE, ...) are keywords.
package token
