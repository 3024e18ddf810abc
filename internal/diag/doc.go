// Package diag defines the diagnostic model shared by all compiler stages.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, parser, semantic checker and code generator.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to concrete storage or formatting layers.
//   - Carry a diagnostic as an ordinary Go error (*Error) so that every stage
//     can stop at the first violation and hand it to its caller.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt, orchestration in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go).
//   - Code: compact numeric identifier (codes.go) whose range encodes the
//     stage that produced it (LEX, SYN, SEM, GEN, IO, OBS).
//   - Message: human oriented text naming the offending token or value.
//   - Primary span: the source.Span pointing to the issue.
//   - Notes: optional secondary spans/messages, typically the enclosing
//     construct ("in let statement for 'x'").
//
// # Fail-fast policy
//
// Stages return *Error values built with Errorf or Unsupported and never
// continue past the first one. The driver records the returned diagnostic
// into a Bag so that the CLI renders every outcome through one path.
package diag
