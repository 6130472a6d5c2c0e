// Package tabular parses Letterboxd CSV exports into field-keyed records.
//
// The parser is deliberately lossy: a row whose field count differs from the
// header is dropped rather than reported. Quotes toggle a literal-comma mode
// and are not emitted; escaped quotes inside quoted fields are not supported.
package tabular
