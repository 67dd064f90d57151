// Package camtparser parses and writes the ISO 20022 CAMT.053 subset the
// bank feeds deliver. Documents are scanned by substring search over the
// known element names rather than a full XML parser: the feeds never use
// attributes beyond Ccy, namespaces on payload elements or CDATA, and the
// scanner keeps malformed trailing content from taking the whole document
// down.
package camtparser

import (
	"errors"
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

const formatName = "camt053"

// Statement is one CAMT.053 document as delivered on the wire.
type Statement struct {
	MessageID        string
	CreationDateTime string
	StatementID      string
	Account          Account
	Balances         []Balance
	Entries          []Entry
}

// Account carries the <Acct> block fields.
type Account struct {
	IBAN      string
	Currency  string
	Name      string
	OwnerName string
}

// Balance carries one <Bal> block: type code OPBD/CLBD, amount in minor
// units, direction and date.
type Balance struct {
	TypeCode    string
	Amount      int64
	Currency    string
	CreditDebit string
	Date        models.Date
}

// Entry carries one <Ntry> block.
type Entry struct {
	EntryRef           string
	Amount             int64
	Currency           string
	CreditDebit        string
	BookingDate        models.Date
	ValueDate          *models.Date
	AccountServicerRef string
	TransactionDetails []TransactionDetails
}

// TransactionDetails carries one <TxDtls> block.
type TransactionDetails struct {
	EndToEndID      string
	TransactionID   string
	Amount          *int64
	Currency        string
	DebtorName      string
	DebtorAccount   string
	CreditorName    string
	CreditorAccount string
	RemittanceInfo  []string
}

// Parse scans a CAMT.053 document. Malformed <Bal> and <Ntry> blocks are
// skipped with a warning and reported as diagnostics; missing structural
// elements or mandatory header fields fail the whole document.
func Parse(content string) (*Statement, []parsererror.Diagnostic, error) {
	content = strings.TrimSpace(content)

	if !strings.Contains(content, "<BkToCstmrStmt>") {
		return nil, nil, &parsererror.InvalidFormatError{Format: formatName, Msg: "missing BkToCstmrStmt element"}
	}

	messageID, ok := extractElementValue(content, "MsgId")
	if !ok {
		return nil, nil, &parsererror.MissingFieldError{Format: formatName, Field: "MsgId"}
	}
	creationDateTime, ok := extractElementValue(content, "CreDtTm")
	if !ok {
		return nil, nil, &parsererror.MissingFieldError{Format: formatName, Field: "CreDtTm"}
	}

	stmtStart := strings.Index(content, "<Stmt>")
	if stmtStart < 0 {
		return nil, nil, &parsererror.InvalidFormatError{Format: formatName, Msg: "missing Stmt element"}
	}
	stmtEnd := strings.Index(content, "</Stmt>")
	if stmtEnd < 0 {
		return nil, nil, &parsererror.InvalidFormatError{Format: formatName, Msg: "missing Stmt closing tag"}
	}
	stmtContent := content[stmtStart : stmtEnd+len("</Stmt>")]

	statementID, ok := extractElementValue(stmtContent, "Id")
	if !ok {
		return nil, nil, &parsererror.MissingFieldError{Format: formatName, Field: "Id"}
	}

	var diags []parsererror.Diagnostic
	balances := parseBalances(stmtContent, &diags)
	entries := parseEntries(stmtContent, &diags)

	return &Statement{
		MessageID:        messageID,
		CreationDateTime: creationDateTime,
		StatementID:      statementID,
		Account:          parseAccount(stmtContent),
		Balances:         balances,
		Entries:          entries,
	}, diags, nil
}

// extractElementValue returns the trimmed text between the first <tag> and
// the following </tag>.
func extractElementValue(content, tag string) (string, bool) {
	openTag := "<" + tag + ">"
	closeTag := "</" + tag + ">"

	start := strings.Index(content, openTag)
	if start < 0 {
		return "", false
	}
	valueStart := start + len(openTag)
	end := strings.Index(content[valueStart:], closeTag)
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(content[valueStart : valueStart+end]), true
}

// blockSlice cuts the region from the first <tag> up to and including the
// matching close tag, or the rest of content when the close tag is absent.
func blockSlice(content, tag string) (string, bool) {
	openTag := "<" + tag + ">"
	closeTag := "</" + tag + ">"

	start := strings.Index(content, openTag)
	if start < 0 {
		return "", false
	}
	end := strings.Index(content[start:], closeTag)
	if end < 0 {
		return content[start:], true
	}
	return content[start : start+end+len(closeTag)], true
}

func parseAccount(content string) Account {
	acctContent := content
	if block, ok := blockSlice(content, "Acct"); ok {
		acctContent = block
	}

	account := Account{Currency: models.DefaultCurrency}
	if iban, ok := extractElementValue(acctContent, "IBAN"); ok {
		account.IBAN = iban
	}
	if ccy, ok := extractElementValue(acctContent, "Ccy"); ok {
		account.Currency = ccy
	}
	if name, ok := extractElementValue(acctContent, "Nm"); ok {
		account.Name = name
	}
	if ownrContent, ok := blockSlice(acctContent, "Ownr"); ok {
		if owner, ok := extractElementValue(ownrContent, "Nm"); ok {
			account.OwnerName = owner
		}
	}
	return account
}

func parseBalances(content string, diags *[]parsererror.Diagnostic) []Balance {
	var balances []Balance
	forEachBlock(content, "Bal", func(balContent string) {
		balance, err := parseSingleBalance(balContent)
		if err != nil {
			log.WithError(err).Warn("Skipping unparsable CAMT.053 balance")
			*diags = append(*diags, parsererror.Diagnostic{Parser: formatName, Item: "balance", Err: err})
			return
		}
		balances = append(balances, balance)
	})
	return balances
}

func parseSingleBalance(content string) (Balance, error) {
	typeCode, _ := extractElementValue(content, "Cd")
	amount, currency, err := parseAmountWithCurrency(content, "Amt")
	if err != nil {
		return Balance{}, err
	}
	creditDebit, ok := extractElementValue(content, "CdtDbtInd")
	if !ok {
		creditDebit = models.IndicatorCredit
	}
	date, err := parseDateElement(content)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		TypeCode:    typeCode,
		Amount:      amount,
		Currency:    currency,
		CreditDebit: creditDebit,
		Date:        date,
	}, nil
}

// parseAmountWithCurrency parses <Amt Ccy="EUR">123.45</Amt>. A missing
// Ccy attribute falls back to EUR.
func parseAmountWithCurrency(content, tag string) (int64, string, error) {
	start := indexOpenTag(content, tag)
	if start < 0 {
		return 0, "", &parsererror.MissingFieldError{Format: formatName, Field: tag}
	}
	tagEnd := strings.IndexByte(content[start:], '>')
	if tagEnd < 0 {
		return 0, "", &parsererror.ParseError{
			Parser: formatName, Field: tag, Value: content[start:],
			Err: errors.New("malformed element"),
		}
	}

	currency := models.DefaultCurrency
	tagContent := content[start : start+tagEnd]
	if i := strings.Index(tagContent, `Ccy="`); i >= 0 {
		rest := tagContent[i+len(`Ccy="`):]
		if j := strings.IndexByte(rest, '"'); j >= 0 {
			currency = rest[:j]
		} else if len(rest) >= 3 {
			currency = rest[:3]
		}
	}

	valueStart := start + tagEnd + 1
	closeTag := "</" + tag + ">"
	valueEnd := strings.Index(content[valueStart:], closeTag)
	if valueEnd < 0 {
		return 0, "", &parsererror.ParseError{
			Parser: formatName, Field: tag, Value: "",
			Err: errors.New("missing closing tag"),
		}
	}

	amountStr := strings.TrimSpace(content[valueStart : valueStart+valueEnd])
	amount, err := currencyutils.ParseMinorUnits(amountStr)
	if err != nil {
		return 0, "", err
	}
	return amount, currency, nil
}

// parseDateElement digs out the innermost <Dt> value; balance dates arrive
// wrapped as <Dt><Dt>2024-01-01</Dt></Dt>.
func parseDateElement(content string) (models.Date, error) {
	dateStr, ok := extractElementValue(content, "Dt")
	if !ok {
		return models.Date{}, &parsererror.MissingFieldError{Format: formatName, Field: "Dt"}
	}
	for strings.Contains(dateStr, "<Dt>") {
		if inner, ok := extractElementValue(dateStr, "Dt"); ok {
			dateStr = inner
			continue
		}
		// unbalanced nesting: take the text right after the open tag
		start := strings.Index(dateStr, "<Dt>") + len("<Dt>")
		rest := dateStr[start:]
		if end := strings.IndexByte(rest, '<'); end >= 0 {
			rest = rest[:end]
		}
		dateStr = strings.TrimSpace(rest)
		break
	}
	return dateutils.ParseISODate(dateStr)
}

func parseEntries(content string, diags *[]parsererror.Diagnostic) []Entry {
	var entries []Entry
	forEachBlock(content, "Ntry", func(ntryContent string) {
		entry, err := parseSingleEntry(ntryContent)
		if err != nil {
			log.WithError(err).Warn("Skipping unparsable CAMT.053 entry")
			*diags = append(*diags, parsererror.Diagnostic{Parser: formatName, Item: "entry", Err: err})
			return
		}
		entries = append(entries, entry)
	})
	return entries
}

func parseSingleEntry(content string) (Entry, error) {
	entryRef, _ := extractElementValue(content, "NtryRef")
	amount, currency, err := parseAmountWithCurrency(content, "Amt")
	if err != nil {
		return Entry{}, err
	}
	creditDebit, ok := extractElementValue(content, "CdtDbtInd")
	if !ok {
		creditDebit = models.IndicatorCredit
	}

	bookingDate := models.Date{Year: 2024, Month: 1, Day: 1}
	if block, ok := blockSlice(content, "BookgDt"); ok {
		bookingDate, err = parseDateElement(block)
		if err != nil {
			return Entry{}, err
		}
	}

	var valueDate *models.Date
	if block, ok := blockSlice(content, "ValDt"); ok {
		if d, err := parseDateElement(block); err == nil {
			valueDate = &d
		}
	}

	accountServicerRef, _ := extractElementValue(content, "AcctSvcrRef")

	return Entry{
		EntryRef:           entryRef,
		Amount:             amount,
		Currency:           currency,
		CreditDebit:        creditDebit,
		BookingDate:        bookingDate,
		ValueDate:          valueDate,
		AccountServicerRef: accountServicerRef,
		TransactionDetails: parseTransactionDetails(content),
	}, nil
}

func parseTransactionDetails(content string) []TransactionDetails {
	var details []TransactionDetails
	forEachBlock(content, "TxDtls", func(txContent string) {
		d := TransactionDetails{}
		d.EndToEndID, _ = extractElementValue(txContent, "EndToEndId")
		d.TransactionID, _ = extractElementValue(txContent, "TxId")
		if amount, currency, err := parseAmountWithCurrency(txContent, "Amt"); err == nil {
			d.Amount = &amount
			d.Currency = currency
		}
		d.DebtorName, d.DebtorAccount = parsePartyInfo(txContent, "Dbtr")
		d.CreditorName, d.CreditorAccount = parsePartyInfo(txContent, "Cdtr")
		d.RemittanceInfo = parseRemittanceInfo(txContent)
		details = append(details, d)
	})
	return details
}

func parsePartyInfo(content, partyTag string) (name, account string) {
	partyContent, ok := blockSlice(content, partyTag)
	if !ok {
		return "", ""
	}
	name, _ = extractElementValue(partyContent, "Nm")
	if iban, ok := extractElementValue(partyContent, "IBAN"); ok {
		return name, iban
	}
	// the account usually sits in the DbtrAcct/CdtrAcct sibling block
	if acctContent, ok := blockSlice(content, partyTag+"Acct"); ok {
		if iban, ok := extractElementValue(acctContent, "IBAN"); ok {
			return name, iban
		}
		if idContent, ok := blockSlice(acctContent, "Othr"); ok {
			account, _ = extractElementValue(idContent, "Id")
			return name, account
		}
	}
	// or in a nested Othr/Id identifier on the party itself
	if idContent, ok := blockSlice(partyContent, "Othr"); ok {
		account, _ = extractElementValue(idContent, "Id")
	}
	return name, account
}

func parseRemittanceInfo(content string) []string {
	var info []string
	pos := 0
	for {
		i := strings.Index(content[pos:], "<Ustrd>")
		if i < 0 {
			break
		}
		start := pos + i + len("<Ustrd>")
		end := strings.Index(content[start:], "</Ustrd>")
		if end < 0 {
			break
		}
		info = append(info, strings.TrimSpace(content[start:start+end]))
		pos = start + end + len("</Ustrd>")
	}
	return info
}

// indexOpenTag finds "<tag>" or "<tag ...>", rejecting longer names that
// share the prefix (Amt vs AmtDtls).
func indexOpenTag(content, tag string) int {
	openTag := "<" + tag
	pos := 0
	for {
		i := strings.Index(content[pos:], openTag)
		if i < 0 {
			return -1
		}
		start := pos + i
		after := start + len(openTag)
		if after < len(content) && (content[after] == '>' || content[after] == ' ') {
			return start
		}
		pos = after
	}
}

// forEachBlock walks every <tag> block in content, tolerating a missing
// close tag on the last block.
func forEachBlock(content, tag string, fn func(block string)) {
	openTag := "<" + tag + ">"
	closeTag := "</" + tag + ">"
	pos := 0
	for {
		i := strings.Index(content[pos:], openTag)
		if i < 0 {
			return
		}
		start := pos + i
		end := strings.Index(content[start:], closeTag)
		if end < 0 {
			fn(content[start:])
			return
		}
		next := start + end + len(closeTag)
		fn(content[start:next])
		pos = next
	}
}
