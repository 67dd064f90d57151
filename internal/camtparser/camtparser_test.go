package camtparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ypbank/statements/internal/models"
	"ypbank/statements/internal/parsererror"
)

const sampleCAMT053 = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">
<BkToCstmrStmt>
<GrpHdr>
<MsgId>SAMPLE001</MsgId>
<CreDtTm>2024-01-01T00:00:00</CreDtTm>
</GrpHdr>
<Stmt>
<Id>STMT001</Id>
<Acct>
<Id>
<IBAN>DK8030000001234567</IBAN>
</Id>
<Ccy>DKK</Ccy>
<Nm>Sample Account</Nm>
</Acct>
<Bal>
<Tp>
<CdOrPrtry>
<Cd>OPBD</Cd>
</CdOrPrtry>
</Tp>
<Amt Ccy="DKK">10000.00</Amt>
<CdtDbtInd>CRDT</CdtDbtInd>
<Dt>
<Dt>2024-01-01</Dt>
</Dt>
</Bal>
<Bal>
<Tp>
<CdOrPrtry>
<Cd>CLBD</Cd>
</CdOrPrtry>
</Tp>
<Amt Ccy="DKK">10591.15</Amt>
<CdtDbtInd>CRDT</CdtDbtInd>
<Dt>
<Dt>2024-01-31</Dt>
</Dt>
</Bal>
<Ntry>
<Amt Ccy="DKK">591.15</Amt>
<CdtDbtInd>CRDT</CdtDbtInd>
<BookgDt>
<Dt>2024-01-15</Dt>
</BookgDt>
<NtryDtls>
<TxDtls>
<Refs>
<EndToEndId>E2E001</EndToEndId>
</Refs>
<RmtInf>
<Ustrd>Payment for invoice</Ustrd>
</RmtInf>
</TxDtls>
</NtryDtls>
</Ntry>
</Stmt>
</BkToCstmrStmt>
</Document>
`

func TestParseSample(t *testing.T) {
	s, diags, err := Parse(sampleCAMT053)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, "SAMPLE001", s.MessageID)
	assert.Equal(t, "2024-01-01T00:00:00", s.CreationDateTime)
	assert.Equal(t, "STMT001", s.StatementID)
	assert.Equal(t, "DK8030000001234567", s.Account.IBAN)
	assert.Equal(t, "DKK", s.Account.Currency)
	assert.Equal(t, "Sample Account", s.Account.Name)

	require.Len(t, s.Balances, 2)
	assert.Equal(t, models.BalanceCodeOpening, s.Balances[0].TypeCode)
	assert.Equal(t, int64(1000000), s.Balances[0].Amount)
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 1}, s.Balances[0].Date)
	assert.Equal(t, models.BalanceCodeClosing, s.Balances[1].TypeCode)
	assert.Equal(t, int64(1059115), s.Balances[1].Amount)

	require.Len(t, s.Entries, 1)
	entry := s.Entries[0]
	assert.Equal(t, int64(59115), entry.Amount)
	assert.Equal(t, models.IndicatorCredit, entry.CreditDebit)
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 15}, entry.BookingDate)
	require.Len(t, entry.TransactionDetails, 1)
	assert.Equal(t, "E2E001", entry.TransactionDetails[0].EndToEndID)
	assert.Equal(t, []string{"Payment for invoice"}, entry.TransactionDetails[0].RemittanceInfo)
}

func TestParseNotCAMT(t *testing.T) {
	_, _, err := Parse("<Document>not a statement</Document>")
	require.Error(t, err)
	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, err, &formatErr)
}

func TestParseMissingMsgID(t *testing.T) {
	input := strings.Replace(sampleCAMT053, "<MsgId>SAMPLE001</MsgId>", "", 1)
	_, _, err := Parse(input)
	require.Error(t, err)
	var missingErr *parsererror.MissingFieldError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "MsgId", missingErr.Field)
}

func TestParseSkipsMalformedBalance(t *testing.T) {
	input := strings.Replace(sampleCAMT053, `<Amt Ccy="DKK">10000.00</Amt>`, `<Amt Ccy="DKK">oops</Amt>`, 1)
	s, diags, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "balance", diags[0].Item)
	require.Len(t, s.Balances, 1)
	assert.Equal(t, models.BalanceCodeClosing, s.Balances[0].TypeCode)
}

func TestParseDefaultsCurrency(t *testing.T) {
	input := strings.Replace(sampleCAMT053, `<Amt Ccy="DKK">591.15</Amt>`, `<Amt>591.15</Amt>`, 1)
	s, _, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, s.Entries, 1)
	assert.Equal(t, models.DefaultCurrency, s.Entries[0].Currency)
}

func TestWriteRoundTrip(t *testing.T) {
	s, _, err := Parse(sampleCAMT053)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Write(s, &buf))

	reparsed, diags, err := Parse(buf.String())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, s.MessageID, reparsed.MessageID)
	assert.Equal(t, s.StatementID, reparsed.StatementID)
	assert.Equal(t, s.Account, reparsed.Account)
	assert.Equal(t, s.Balances, reparsed.Balances)
	require.Len(t, reparsed.Entries, 1)
	assert.Equal(t, s.Entries[0].Amount, reparsed.Entries[0].Amount)
	assert.Equal(t, s.Entries[0].TransactionDetails, reparsed.Entries[0].TransactionDetails)
}

func TestWriteEscapesXML(t *testing.T) {
	s := &Statement{
		MessageID:        `M&G <"quotes">`,
		CreationDateTime: "2024-01-01T00:00:00",
		StatementID:      "STMT'01",
		Account:          Account{Currency: "EUR"},
	}
	var buf strings.Builder
	require.NoError(t, Write(s, &buf))
	out := buf.String()
	assert.Contains(t, out, "<MsgId>M&amp;G &lt;&quot;quotes&quot;&gt;</MsgId>")
	assert.Contains(t, out, "<Id>STMT&apos;01</Id>")
}

func TestWritePartyBlocks(t *testing.T) {
	s, _, err := Parse(sampleCAMT053)
	require.NoError(t, err)
	s.Entries[0].TransactionDetails[0].DebtorName = "Alice"
	s.Entries[0].TransactionDetails[0].DebtorAccount = "DK0000000000000001"

	var buf strings.Builder
	require.NoError(t, Write(s, &buf))
	out := buf.String()
	assert.Contains(t, out, "<Dbtr>")
	assert.Contains(t, out, "<Nm>Alice</Nm>")
	assert.Contains(t, out, "<DbtrAcct>")

	reparsed, _, err := Parse(out)
	require.NoError(t, err)
	d := reparsed.Entries[0].TransactionDetails[0]
	assert.Equal(t, "Alice", d.DebtorName)
	assert.Equal(t, "DK0000000000000001", d.DebtorAccount)
}

func TestToStatement(t *testing.T) {
	s, _, err := Parse(sampleCAMT053)
	require.NoError(t, err)

	stmt := ToStatement(s)
	assert.Equal(t, "SAMPLE001", stmt.Reference)
	assert.Equal(t, "STMT001", stmt.StatementNumber)
	assert.Equal(t, "DK8030000001234567", stmt.Account.IBAN)
	assert.Equal(t, int64(1000000), stmt.OpeningBalance.Amount.Value)
	assert.True(t, stmt.OpeningBalance.IsCredit)
	assert.Equal(t, int64(1059115), stmt.ClosingBalance.Amount.Value)
	require.Len(t, stmt.Transactions, 1)
	assert.Equal(t, int64(59115), stmt.Transactions[0].Amount.Value)
	assert.True(t, stmt.Transactions[0].IsCredit)
	assert.Equal(t, "Payment for invoice", stmt.Transactions[0].Description)
}

func TestToStatementMissingBalances(t *testing.T) {
	s := &Statement{
		MessageID:   "M1",
		StatementID: "S1",
		Account:     Account{Currency: "EUR"},
	}
	stmt := ToStatement(s)
	assert.Equal(t, int64(0), stmt.OpeningBalance.Amount.Value)
	assert.True(t, stmt.OpeningBalance.IsCredit)
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 1}, stmt.OpeningBalance.Date)
	assert.Equal(t, models.Date{Year: 2024, Month: 12, Day: 31}, stmt.ClosingBalance.Date)
	assert.Equal(t, models.UnknownAccountNumber, stmt.Account.Number)
}

func TestFromStatementRoundTrip(t *testing.T) {
	s, _, err := Parse(sampleCAMT053)
	require.NoError(t, err)

	back := FromStatement(ToStatement(s))
	assert.Equal(t, s.MessageID, back.MessageID)
	assert.Equal(t, s.StatementID, back.StatementID)
	assert.Equal(t, s.Account.IBAN, back.Account.IBAN)

	require.Len(t, back.Balances, 2)
	assert.Equal(t, models.BalanceCodeOpening, back.Balances[0].TypeCode)
	assert.Equal(t, int64(1000000), back.Balances[0].Amount)
	assert.Equal(t, models.BalanceCodeClosing, back.Balances[1].TypeCode)
	assert.Equal(t, int64(1059115), back.Balances[1].Amount)

	require.Len(t, back.Entries, 1)
	assert.Equal(t, s.Entries[0].Amount, back.Entries[0].Amount)
	assert.Equal(t, s.Entries[0].CreditDebit, back.Entries[0].CreditDebit)
	assert.Equal(t, s.Entries[0].BookingDate, back.Entries[0].BookingDate)
}

func TestFromStatementEmptyIdentifiers(t *testing.T) {
	// statements from formats without document identifiers still produce
	// the mandatory MsgId and Id elements
	back := FromStatement(models.Statement{})
	assert.Equal(t, models.NotProvided, back.MessageID)
	assert.Equal(t, models.NotProvided, back.StatementID)
}

func TestParseNestedDateFallback(t *testing.T) {
	// nested Dt with an unbalanced inner element still yields the date
	input := strings.Replace(sampleCAMT053,
		"<Dt>\n<Dt>2024-01-01</Dt>\n</Dt>", "<Dt><Dt>2024-01-01</Dt></Dt>", 1)
	s, diags, err := Parse(input)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 1}, s.Balances[0].Date)
}
