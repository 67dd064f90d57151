// Package parser selects the right statement parser for a wire format and
// exposes them behind one interface.
package parser

import (
	"fmt"

	"ypbank/statements/internal/camtparser"
	"ypbank/statements/internal/csvparser"
	"ypbank/statements/internal/models"
	"ypbank/statements/internal/mt940parser"
	"ypbank/statements/internal/parsererror"
)

// Parser reads statement documents of one wire format into the canonical
// model. Recoverable per-item failures come back as diagnostics alongside
// the statements.
type Parser interface {
	Parse(content string) ([]models.Statement, []parsererror.Diagnostic, error)
}

// GetParser returns the parser for the given format.
func GetParser(format models.Format) (Parser, error) {
	switch format {
	case models.FormatMT940:
		return mt940{}, nil
	case models.FormatCAMT053:
		return camt053{}, nil
	case models.FormatCSV:
		return csv{}, nil
	default:
		return nil, fmt.Errorf("no parser for format %s", format)
	}
}

// ParseStatements parses every statement found in content.
func ParseStatements(content string, format models.Format) ([]models.Statement, []parsererror.Diagnostic, error) {
	p, err := GetParser(format)
	if err != nil {
		return nil, nil, err
	}
	return p.Parse(content)
}

// ParseStatement parses content and returns its first statement.
func ParseStatement(content string, format models.Format) (models.Statement, []parsererror.Diagnostic, error) {
	statements, diags, err := ParseStatements(content, format)
	if err != nil {
		return models.Statement{}, diags, err
	}
	if len(statements) == 0 {
		return models.Statement{}, diags, &parsererror.InvalidFormatError{
			Format: format.String(), Msg: "document contains no statements",
		}
	}
	return statements[0], diags, nil
}

type mt940 struct{}

func (mt940) Parse(content string) ([]models.Statement, []parsererror.Diagnostic, error) {
	native, diags, err := mt940parser.Parse(content)
	if err != nil {
		return nil, diags, err
	}
	statements := make([]models.Statement, 0, len(native))
	for _, s := range native {
		statements = append(statements, mt940parser.ToStatement(s))
	}
	return statements, diags, nil
}

type camt053 struct{}

func (camt053) Parse(content string) ([]models.Statement, []parsererror.Diagnostic, error) {
	native, diags, err := camtparser.Parse(content)
	if err != nil {
		return nil, diags, err
	}
	return []models.Statement{camtparser.ToStatement(native)}, diags, nil
}

type csv struct{}

func (csv) Parse(content string) ([]models.Statement, []parsererror.Diagnostic, error) {
	native, diags, err := csvparser.Parse(content)
	if err != nil {
		return nil, diags, err
	}
	return []models.Statement{csvparser.ToStatement(native)}, diags, nil
}
