// Package parsererror defines the typed errors shared by the statement
// parsers, writers and converters.
package parsererror

import (
	"fmt"
)

// ParseError reports a field that could not be parsed from a statement
// document.
type ParseError struct {
	Parser string // which parser produced the error (mt940, camt053, csv, ...)
	Field  string // logical field or element name
	Value  string // offending raw value
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s=%q: %v", e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError reports a document that does not look like the format
// the parser expects at all, as opposed to a document with bad fields.
type InvalidFormatError struct {
	Format string
	Msg    string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: invalid document: %s", e.Format, e.Msg)
}

// MissingFieldError reports a mandatory field or element that is absent.
type MissingFieldError struct {
	Format string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing mandatory field %s", e.Format, e.Field)
}

// UnsupportedConversionError reports a conversion pair the converter cannot
// perform, such as recovering a structured statement from the lossy CSV
// listing.
type UnsupportedConversionError struct {
	From string
	To   string
}

func (e *UnsupportedConversionError) Error() string {
	return fmt.Sprintf("conversion from %s to %s is not supported", e.From, e.To)
}

// ReadError wraps an I/O failure while loading a statement document.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Diagnostic records a recoverable per-item failure: the parser skipped the
// item, logged a warning and kept going. Callers that need more than the log
// output inspect the returned diagnostics.
type Diagnostic struct {
	Parser string
	Item   string // what was skipped (record, transaction, balance, row)
	Err    error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: skipped %s: %v", d.Parser, d.Item, d.Err)
}
