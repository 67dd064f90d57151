// Package convert translates statement documents between wire formats.
// MT940 and CAMT.053 convert directly, record by record; conversions to CSV
// go through the canonical model and are lossy, so CSV never converts back
// to a structured format.
package convert

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"ypbank/statements/internal/camtparser"
	"ypbank/statements/internal/csvparser"
	"ypbank/statements/internal/models"
	"ypbank/statements/internal/mt940parser"
	"ypbank/statements/internal/parser"
	"ypbank/statements/internal/parsererror"
)

var log = logrus.New()

// SetLogger injects the logger used by this package.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Convert reads a statement document in the from format and writes it to w
// in the to format. Equal formats pass the content through untouched.
func Convert(content string, from, to models.Format, w io.Writer) error {
	if from == to {
		_, err := io.WriteString(w, content)
		return err
	}

	switch {
	case from == models.FormatCSV:
		// the flat listing has no balances or statement identity to recover
		return &parsererror.UnsupportedConversionError{From: from.String(), To: to.String()}

	case from == models.FormatMT940 && to == models.FormatCAMT053:
		statements, _, err := mt940parser.Parse(content)
		if err != nil {
			return err
		}
		for _, s := range statements {
			if err := camtparser.Write(MT940ToCAMT053(s), w); err != nil {
				return err
			}
		}
		return nil

	case from == models.FormatCAMT053 && to == models.FormatMT940:
		statement, _, err := camtparser.Parse(content)
		if err != nil {
			return err
		}
		mt940, err := CAMT053ToMT940(statement)
		if err != nil {
			return err
		}
		return mt940parser.Write(mt940, w)

	case to == models.FormatCSV:
		statement, diags, err := parser.ParseStatement(content, from)
		if err != nil {
			return err
		}
		if len(diags) > 0 {
			log.WithField("skipped", len(diags)).Warn("Converted with skipped items")
		}
		return csvparser.Write(csvparser.FromStatement(statement), w)
	}

	return fmt.Errorf("conversion from %s to %s is not implemented", from, to)
}

// MT940ToCAMT053 maps an MT940 record directly onto the CAMT.053 document
// shape without going through the canonical model.
func MT940ToCAMT053(s *mt940parser.Statement) *camtparser.Statement {
	currency := s.OpeningBalance.Currency

	account := camtparser.Account{Currency: currency}
	if len(s.AccountID) > 10 {
		account.IBAN = s.AccountID
	}

	entries := make([]camtparser.Entry, 0, len(s.Transactions))
	for i, tx := range s.Transactions {
		amount := tx.Amount
		details := camtparser.TransactionDetails{
			EndToEndID:    models.NotProvided,
			TransactionID: tx.Reference,
			Amount:        &amount,
			Currency:      currency,
		}
		if tx.CreditDebit == 'C' {
			details.DebtorName = tx.Details
			details.DebtorAccount = tx.Reference
		} else {
			details.CreditorName = tx.Details
			details.CreditorAccount = tx.Reference
		}
		if tx.Details != "" {
			details.RemittanceInfo = []string{tx.Details}
		}

		entries = append(entries, camtparser.Entry{
			EntryRef:           fmt.Sprintf("%d", i+1),
			Amount:             tx.Amount,
			Currency:           currency,
			CreditDebit:        indicatorFor(tx.CreditDebit),
			BookingDate:        tx.Date,
			ValueDate:          tx.ValueDate,
			AccountServicerRef: tx.Reference,
			TransactionDetails: []camtparser.TransactionDetails{details},
		})
	}

	return &camtparser.Statement{
		MessageID:        "MT940-" + s.Reference,
		CreationDateTime: "2024-01-01T00:00:00",
		StatementID:      s.StatementNumber,
		Account:          account,
		Balances: []camtparser.Balance{
			camtBalance(models.BalanceCodeOpening, s.OpeningBalance),
			camtBalance(models.BalanceCodeClosing, s.ClosingBalance),
		},
		Entries: entries,
	}
}

// CAMT053ToMT940 maps a CAMT.053 document onto the MT940 record shape. The
// document must carry both an OPBD and a CLBD balance.
func CAMT053ToMT940(s *camtparser.Statement) (*mt940parser.Statement, error) {
	opening, ok := findBalance(s, models.BalanceCodeOpening)
	if !ok {
		return nil, &parsererror.MissingFieldError{Format: "camt053", Field: "OPBD balance"}
	}
	closing, ok := findBalance(s, models.BalanceCodeClosing)
	if !ok {
		return nil, &parsererror.MissingFieldError{Format: "camt053", Field: "CLBD balance"}
	}

	accountID := s.Account.IBAN
	if accountID == "" {
		accountID = models.UnknownAccountNumber
	}

	transactions := make([]mt940parser.Transaction, 0, len(s.Entries))
	for _, entry := range s.Entries {
		reference := entry.AccountServicerRef
		var detailParts []string
		if len(entry.TransactionDetails) > 0 {
			d := entry.TransactionDetails[0]
			if d.TransactionID != "" {
				reference = d.TransactionID
			}
			for _, part := range []string{d.DebtorName, d.CreditorName, d.DebtorAccount, d.CreditorAccount} {
				if part != "" {
					detailParts = append(detailParts, part)
				}
			}
			detailParts = append(detailParts, d.RemittanceInfo...)
		}

		transactions = append(transactions, mt940parser.Transaction{
			Date:            entry.BookingDate,
			ValueDate:       entry.ValueDate,
			CreditDebit:     creditDebitFor(entry.CreditDebit),
			Amount:          entry.Amount,
			TransactionType: models.ProprietaryTransfer,
			Reference:       reference,
			Details:         strings.Join(detailParts, " "),
		})
	}

	return &mt940parser.Statement{
		Reference:       strings.Replace(s.MessageID, "MT940-", "", 1),
		AccountID:       accountID,
		StatementNumber: s.StatementID,
		OpeningBalance:  mt940Balance(opening),
		ClosingBalance:  mt940Balance(closing),
		Transactions:    transactions,
	}, nil
}

func findBalance(s *camtparser.Statement, typeCode string) (camtparser.Balance, bool) {
	for _, b := range s.Balances {
		if b.TypeCode == typeCode {
			return b, true
		}
	}
	return camtparser.Balance{}, false
}

func camtBalance(typeCode string, b mt940parser.Balance) camtparser.Balance {
	return camtparser.Balance{
		TypeCode:    typeCode,
		Amount:      b.Amount,
		Currency:    b.Currency,
		CreditDebit: indicatorFor(b.CreditDebit),
		Date:        b.Date,
	}
}

func mt940Balance(b camtparser.Balance) mt940parser.Balance {
	return mt940parser.Balance{
		CreditDebit: creditDebitFor(b.CreditDebit),
		Date:        b.Date,
		Currency:    b.Currency,
		Amount:      b.Amount,
	}
}

func indicatorFor(creditDebit byte) string {
	if creditDebit == 'C' {
		return models.IndicatorCredit
	}
	return models.IndicatorDebit
}

func creditDebitFor(indicator string) byte {
	if indicator == models.IndicatorCredit {
		return 'C'
	}
	return 'D'
}
