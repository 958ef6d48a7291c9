// Package sexpr reads and prints the parenthesized text form of drainage
// network descriptions.
//
// The text form is a small Lisp-like notation. Tokens are separated by
// whitespace; a ';' at the start of a token comments out the rest of the line;
// double-quoted strings are taken verbatim; tokens that look like signed
// integer or decimal literals become numbers; '(' and ')' delimit lists; every
// other token is a symbol.
//
// # Values
//
// A parsed [Value] is one of [Number], [String], [Symbol] or *[Cell]. Lists are
// chains of cells linked through their Tail, and the empty list is the Go nil
// value, so "()" reads as nil:
//
//	v, _ := sexpr.ReadString(`(5 I "12" (3 N) ())`)
//	sexpr.Nth(v, 0)        // Number(5)
//	sexpr.Nth(v, 2)        // String("12")
//	sexpr.Nth(v, 4) == nil // true
//
// # Reading
//
// [Reader] returns one datum per [Reader.Read] call and [io.EOF] once the input
// is exhausted. Unbalanced parentheses and unterminated strings fail with an
// error coded MALFORMED_INPUT that names the line and column.
//
// # Printing
//
// [Format] renders a value back to text. Reading the output of Format yields a
// structurally equal value (numbers may be re-spelled, e.g. "1.50" prints as
// "1.5").
package sexpr
