package mt940parser

import (
	"bufio"
	"fmt"
	"io"

	"ypbank/statements/internal/currencyutils"
	"ypbank/statements/internal/dateutils"
)

// detailsLineWidth is the maximum :86: line length before continuation
// lines take over.
const detailsLineWidth = 65

// Write serializes a statement as an MT940 message, including the standard
// basic/application header blocks so the output parses back through Parse.
func Write(s *Statement, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "{1:F01BANKXXXX0000000000}")
	fmt.Fprintln(bw, "{2:O940BANKXXXXN}")
	fmt.Fprintln(bw, "{3:}")
	fmt.Fprintln(bw, blockOpen)
	fmt.Fprintf(bw, ":20:%s\n", s.Reference)
	fmt.Fprintf(bw, ":25:%s\n", s.AccountID)
	fmt.Fprintf(bw, ":28C:%s\n", s.StatementNumber)
	writeBalance(bw, ":60F:", s.OpeningBalance)
	for _, tx := range s.Transactions {
		writeTransaction(bw, tx)
	}
	writeBalance(bw, ":62F:", s.ClosingBalance)
	fmt.Fprintln(bw, blockClose)
	fmt.Fprintln(bw, "{5:}")

	return bw.Flush()
}

func writeBalance(w io.Writer, tag string, b Balance) {
	fmt.Fprintf(w, "%s%c%s%s%s\n",
		tag, b.CreditDebit, dateutils.FormatYYMMDD(b.Date), b.Currency,
		currencyutils.FormatMinorUnitsComma(b.Amount))
}

func writeTransaction(w io.Writer, tx Transaction) {
	// value date first, then the MMDD entry date, matching the parser
	valueDate := tx.Date
	entryDate := ""
	if tx.ValueDate != nil {
		valueDate = *tx.ValueDate
		entryDate = fmt.Sprintf("%02d%02d", tx.Date.Month, tx.Date.Day)
	}
	fmt.Fprintf(w, ":61:%s%s%c%s%s",
		dateutils.FormatYYMMDD(valueDate), entryDate, tx.CreditDebit,
		currencyutils.FormatMinorUnitsComma(tx.Amount), tx.TransactionType)
	if tx.Reference != "" {
		fmt.Fprintf(w, "//%s", tx.Reference)
	}
	fmt.Fprintln(w)

	if tx.Details == "" {
		return
	}
	// wrap on rune boundaries so multi-byte details never split mid-rune
	details := []rune(tx.Details)
	prefix := ":86:"
	for len(details) > detailsLineWidth {
		fmt.Fprintf(w, "%s%s\n", prefix, string(details[:detailsLineWidth]))
		details = details[detailsLineWidth:]
		prefix = ""
	}
	fmt.Fprintf(w, "%s%s\n", prefix, string(details))
}
