// Package token defines lexical token kinds and trivia for C#-flavored source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - '>' is never merged into '>>' or '>>=' by the lexer; the parser joins
//     adjacent '>' tokens so that generic argument lists close cleanly.
//   - Contextual keywords (var, dynamic, nameof, when, and, or, not, where,
//     global, await, async) are identifiers; the parser checks their text.
//   - Preprocessor lines (#if, #elif, ...) are Trivia and never appear in the
//     main token stream.
package token
