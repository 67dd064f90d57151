package csvparser

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"

	"ypbank/statements/internal/currencyutils"
	"ypbank/statements/internal/dateutils"
)

// Delimiter separates output columns; the config layer may override it.
var Delimiter = ','

// SetDelimiter sets the output column delimiter
func SetDelimiter(delim rune) {
	Delimiter = delim
}

// csvRow is the flat export row. Column order and the Russian header names
// are fixed by the downstream consumers.
type csvRow struct {
	Date           string `csv:"Дата"`
	DebitAccount   string `csv:"Счет дебета"`
	CreditAccount  string `csv:"Счет кредита"`
	DebitAmount    string `csv:"Сумма дебета"`
	CreditAmount   string `csv:"Сумма кредита"`
	DocumentNumber string `csv:"№ документа"`
	Bank           string `csv:"Банк"`
	Description    string `csv:"Назначение платежа"`
}

// Write serializes a statement as the flat CSV export: one header line and
// one row per transaction.
func Write(s *Statement, w io.Writer) error {
	rows := make([]csvRow, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		row := csvRow{
			Date:           dateutils.FormatEuropeanDate(tx.Date),
			DebitAccount:   tx.DebitAccount,
			CreditAccount:  tx.CreditAccount,
			DocumentNumber: tx.DocumentNumber,
			Bank:           tx.BankInfo,
			Description:    tx.Description,
		}
		if tx.DebitAmount != nil {
			row.DebitAmount = currencyutils.FormatMinorUnits(*tx.DebitAmount)
		}
		if tx.CreditAmount != nil {
			row.CreditAmount = currencyutils.FormatMinorUnits(*tx.CreditAmount)
		}
		rows = append(rows, row)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter
	return gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csvWriter))
}
