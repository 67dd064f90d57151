// Package mt940parser parses and writes SWIFT MT940 customer statement
// messages. Only the tags the bank feeds actually use are handled: :20:,
// :25:, :28C:, :60F:/:60M:, :61:, :86: and :62F:/:62M:.
package mt940parser

import (
	"errors"
	"strconv"
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

const formatName = "mt940"

const (
	blockOpen  = "{4:"
	blockClose = "-}"
)

// Statement is one MT940 record as it appears on the wire.
type Statement struct {
	Reference       string
	AccountID       string
	StatementNumber string
	OpeningBalance  Balance
	ClosingBalance  Balance
	Transactions    []Transaction
}

// Balance mirrors the :60F:/:62F: value: direction, date, currency and the
// non-negative amount in minor units.
type Balance struct {
	CreditDebit byte // 'C' or 'D'
	Date        models.Date
	Currency    string
	Amount      int64
}

// Transaction mirrors one :61: line plus its :86: details.
type Transaction struct {
	Date            models.Date
	ValueDate       *models.Date
	CreditDebit     byte
	Amount          int64
	TransactionType string
	Reference       string
	Details         string
}

// Parse extracts every MT940 record from content. Records that fail to
// parse are skipped with a warning and reported as diagnostics; an input
// with no valid record at all is an InvalidFormatError.
func Parse(content string) ([]*Statement, []parsererror.Diagnostic, error) {
	var statements []*Statement
	var diags []parsererror.Diagnostic

	blocks := strings.Split(content, blockOpen)
	for _, block := range blocks[1:] {
		if end := strings.Index(block, blockClose); end >= 0 {
			block = block[:end]
		}
		stmt, err := parseRecord(block, &diags)
		if err != nil {
			log.WithError(err).Warn("Skipping unparsable MT940 record")
			diags = append(diags, parsererror.Diagnostic{Parser: formatName, Item: "record", Err: err})
			continue
		}
		statements = append(statements, stmt)
	}
	if len(statements) == 0 {
		return nil, diags, &parsererror.InvalidFormatError{Format: formatName, Msg: "no valid MT940 records found"}
	}
	return statements, diags, nil
}

func parseRecord(content string, diags *[]parsererror.Diagnostic) (*Statement, error) {
	var (
		reference, accountID, statementNumber string
		haveReference, haveAccount            bool
		openingBalance, closingBalance        *Balance
		transactions                          []Transaction
		txLine, txDetails                     string
		haveTxLine, inDetails                 bool
	)

	flushTransaction := func() {
		if !haveTxLine {
			return
		}
		tx, err := parseTransactionLine(txLine, txDetails)
		if err != nil {
			log.WithError(err).Warn("Skipping unparsable MT940 transaction")
			*diags = append(*diags, parsererror.Diagnostic{Parser: formatName, Item: "transaction", Err: err})
		} else {
			transactions = append(transactions, tx)
		}
		haveTxLine = false
		txDetails = ""
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case strings.HasPrefix(line, ":20:"):
			reference = strings.TrimSpace(line[4:])
			haveReference = true
			inDetails = false
		case strings.HasPrefix(line, ":25:"):
			accountID = strings.TrimSpace(line[4:])
			haveAccount = true
			inDetails = false
		case strings.HasPrefix(line, ":28C:"):
			statementNumber = strings.TrimSpace(line[5:])
			inDetails = false
		case strings.HasPrefix(line, ":60F:") || strings.HasPrefix(line, ":60M:"):
			b, err := parseBalanceValue(line[5:])
			if err != nil {
				return nil, err
			}
			openingBalance = &b
			inDetails = false
		case strings.HasPrefix(line, ":62F:") || strings.HasPrefix(line, ":62M:"):
			b, err := parseBalanceValue(line[5:])
			if err != nil {
				return nil, err
			}
			closingBalance = &b
			inDetails = false
		case strings.HasPrefix(line, ":61:"):
			flushTransaction()
			txLine = strings.TrimSpace(line[4:])
			haveTxLine = true
			inDetails = false
		case strings.HasPrefix(line, ":86:"):
			txDetails = strings.TrimSpace(line[4:])
			inDetails = true
		case strings.HasPrefix(line, ":"):
			// unhandled tag terminates any :86: continuation
			inDetails = false
		case inDetails && strings.TrimSpace(line) != "":
			if txDetails != "" {
				txDetails += " "
			}
			txDetails += strings.TrimSpace(line)
		}
	}
	flushTransaction()

	if !haveReference {
		return nil, &parsererror.MissingFieldError{Format: formatName, Field: ":20:"}
	}
	if !haveAccount {
		return nil, &parsererror.MissingFieldError{Format: formatName, Field: ":25:"}
	}
	if openingBalance == nil {
		return nil, &parsererror.MissingFieldError{Format: formatName, Field: ":60F:"}
	}
	if closingBalance == nil {
		return nil, &parsererror.MissingFieldError{Format: formatName, Field: ":62F:"}
	}

	return &Statement{
		Reference:       reference,
		AccountID:       accountID,
		StatementNumber: statementNumber,
		OpeningBalance:  *openingBalance,
		ClosingBalance:  *closingBalance,
		Transactions:    transactions,
	}, nil
}

// parseBalanceValue parses the value of a :60F:/:62F: tag:
// C200101EUR444,29 = credit, date, currency, amount.
func parseBalanceValue(value string) (Balance, error) {
	value = strings.TrimSpace(value)
	if len(value) < 10 {
		return Balance{}, &parsererror.ParseError{
			Parser: formatName, Field: "balance", Value: value,
			Err: errors.New("balance value too short"),
		}
	}
	creditDebit := value[0]
	if creditDebit != 'C' && creditDebit != 'D' {
		return Balance{}, &parsererror.ParseError{
			Parser: formatName, Field: "balance", Value: value,
			Err: errors.New("credit/debit indicator must be C or D"),
		}
	}
	date, err := dateutils.ParseYYMMDD(value[1:7])
	if err != nil {
		return Balance{}, err
	}
	amount, err := currencyutils.ParseMinorUnits(value[10:])
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		CreditDebit: creditDebit,
		Date:        date,
		Currency:    value[7:10],
		Amount:      amount,
	}, nil
}

// parseTransactionLine parses a :61: line such as
// 2001010101D65,00NOVBNL47INGB9999999999//REF: value date, optional MMDD
// entry date, credit/debit, optional reversal flag, amount up to the first
// letter, 4-char type code and an optional //reference.
func parseTransactionLine(line, details string) (Transaction, error) {
	line = strings.TrimSpace(line)
	if len(line) < 16 {
		return Transaction{}, &parsererror.ParseError{
			Parser: formatName, Field: "transaction", Value: line,
			Err: errors.New("transaction line too short"),
		}
	}

	valueDate, err := dateutils.ParseYYMMDD(line[:6])
	if err != nil {
		return Transaction{}, err
	}
	date := valueDate
	cdPos := 6
	if line[6] >= '0' && line[6] <= '9' {
		// MMDD entry date follows the value date
		month, merr := strconv.Atoi(line[6:8])
		day, derr := strconv.Atoi(line[8:10])
		if merr == nil && derr == nil {
			date = models.Date{Year: valueDate.Year, Month: month, Day: day}
		}
		cdPos = 10
	}
	if cdPos >= len(line) {
		return Transaction{}, &parsererror.ParseError{
			Parser: formatName, Field: "transaction", Value: line,
			Err: errors.New("missing credit/debit indicator"),
		}
	}
	creditDebit := line[cdPos]

	amountStart := cdPos + 1
	if amountStart < len(line) && line[amountStart] == 'R' {
		// reversal flag, ignored
		amountStart++
	}
	amountEnd := len(line)
	for i := amountStart; i < len(line); i++ {
		if isASCIILetter(line[i]) {
			amountEnd = i
			break
		}
	}
	amount, err := currencyutils.ParseMinorUnits(line[amountStart:amountEnd])
	if err != nil {
		return Transaction{}, err
	}

	typeEnd := amountEnd + 4
	if typeEnd > len(line) {
		typeEnd = len(line)
	}
	transactionType := line[amountEnd:typeEnd]

	var reference string
	if i := strings.Index(line, "//"); i >= 0 {
		reference = line[i+2:]
	}

	return Transaction{
		Date:            date,
		ValueDate:       &valueDate,
		CreditDebit:     creditDebit,
		Amount:          amount,
		TransactionType: transactionType,
		Reference:       reference,
		Details:         details,
	}, nil
}

func isASCIILetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
