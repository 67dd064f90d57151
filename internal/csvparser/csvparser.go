// Package csvparser parses and writes the Russian bank CSV statement
// listing. The input has a free-form header block, transaction rows
// recognized by a DD.MM.YYYY date in the second field and footer summary
// lines, with quoted fields spanning multiple physical lines.
package csvparser

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ypbank/statements/internal/currencyutils"
	"ypbank/statements/internal/dateutils"
	"ypbank/statements/internal/models"
	"ypbank/statements/internal/parsererror"
)

var log = logrus.New()

// SetLogger injects the logger used by this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

const formatName = "csv"

// statementCurrency is fixed: the listing never states one.
const statementCurrency = "RUB"

// headerLineCount is how many leading lines belong to the header block.
const headerLineCount = 12

// minTransactionFields is the narrowest row the bank export produces.
const minTransactionFields = 20

// footerMarkers flag summary lines that end the transaction section.
var footerMarkers = []string{
	"Количество операций",
	"Входящий остаток",
	"Исходящий остаток",
	"Итого оборотов",
}

// Statement is one CSV statement listing.
type Statement struct {
	AccountNumber string
	AccountName   string
	Currency      string
	Transactions  []Transaction
}

// Transaction is one row of the listing. Debit and credit amounts are
// mutually exclusive in practice; a nil pointer means the column was empty.
type Transaction struct {
	Date           models.Date
	DebitAccount   string
	CreditAccount  string
	DebitAmount    *int64
	CreditAmount   *int64
	DocumentNumber string
	BankInfo       string
	Description    string
}

// Parse reads a CSV statement listing. Rows that fail to parse are skipped
// with a warning and reported as diagnostics.
func Parse(content string) (*Statement, []parsererror.Diagnostic, error) {
	lines := splitLines(content)
	if len(lines) < headerLineCount {
		return nil, nil, &parsererror.InvalidFormatError{
			Format: formatName,
			Msg:    fmt.Sprintf("document too short: %d lines, expected at least %d", len(lines), headerLineCount),
		}
	}

	header := SniffHeader(lines)
	transactions, diags := parseTransactions(lines[headerLineCount:])

	return &Statement{
		AccountNumber: header.AccountNumber,
		AccountName:   header.OrganizationName,
		Currency:      statementCurrency,
		Transactions:  transactions,
	}, diags, nil
}

func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func parseTransactions(lines []string) ([]Transaction, []parsererror.Diagnostic) {
	var transactions []Transaction
	var diags []parsererror.Diagnostic

	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" || containsAny(line, footerMarkers) {
			i++
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) > 1 {
			dateStr := strings.Trim(strings.TrimSpace(parts[1]), `"`)
			if dateutils.IsEuropeanDate(dateStr) {
				record := line
				j := i + 1
				// a row with an odd quote count continues on the next line
				for j < len(lines) && strings.Count(record, `"`)%2 != 0 {
					record += "\n" + lines[j]
					j++
				}
				tx, err := parseTransactionRecord(record)
				if err != nil {
					log.WithError(err).Warn("Skipping unparsable CSV row")
					diags = append(diags, parsererror.Diagnostic{Parser: formatName, Item: "row", Err: err})
				} else {
					transactions = append(transactions, tx)
				}
				i = j
				continue
			}
		}
		i++
	}
	return transactions, diags
}

func parseTransactionRecord(record string) (Transaction, error) {
	fields := splitFields(record)
	if len(fields) < minTransactionFields {
		return Transaction{}, &parsererror.ParseError{
			Parser: formatName, Field: "row", Value: record,
			Err: fmt.Errorf("insufficient fields: got %d, want at least %d", len(fields), minTransactionFields),
		}
	}

	date, err := dateutils.ParseEuropeanDate(fields[1])
	if err != nil {
		return Transaction{}, err
	}

	description := ""
	if len(fields) > 20 {
		description = fields[20]
	}

	return Transaction{
		Date:           date,
		DebitAccount:   firstLine(fields[4]),
		CreditAccount:  firstLine(fields[8]),
		DebitAmount:    parseAmountField(fields[9]),
		CreditAmount:   parseAmountField(fields[13]),
		DocumentNumber: fields[14],
		BankInfo:       fields[17],
		Description:    description,
	}, nil
}

// splitFields splits a record on commas outside quotes, honoring doubled
// quotes as an escaped quote character.
func splitFields(record string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(record)
	for i := 0; i < len(runes); i++ {
		switch c := runes[i]; {
		case c == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(c)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// parseAmountField extracts an amount from a column that may carry stray
// formatting characters. An empty or unparsable column is nil.
func parseAmountField(s string) *int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var cleaned strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' || c == ',' {
			cleaned.WriteRune(c)
		}
	}
	value, err := currencyutils.ParseMinorUnits(cleaned.String())
	if err != nil {
		return nil
	}
	return &value
}

// firstLine truncates a multi-line account field to its first line.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
