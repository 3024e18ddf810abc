// Package token defines lexical token kinds, operator metadata and the
// keyword/operator spelling tables for the ember compiler.
// Invariants:
//   - Only Ident and IntLit tokens carry Text; IntLit text has digit-group
//     underscores already removed.
//   - Comment markers have kinds (LineComment, BlockOpen, BlockClose) so the
//     lexer can match them by maximal munch, but they never reach the parser.
//   - Type names (u8, i64, bool, ...) are identifiers. They are recognized by
//     the semantic layer, not the lexer.
package token
