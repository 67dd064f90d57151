package csvparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ypbank/statements/internal/models"
)

const (
	ownAccount     = "40702810500000123456"
	partnerAccount = "40702810900000000333"
)

// buildRow assembles a transaction row with the bank's 21-column layout.
func buildRow(date, debitAcct, creditAcct, debitAmt, creditAmt, docNo, bank, description string) string {
	fields := make([]string, 21)
	fields[1] = date
	fields[4] = debitAcct
	fields[8] = creditAcct
	fields[9] = debitAmt
	fields[13] = creditAmt
	fields[14] = docNo
	fields[17] = bank
	fields[20] = description
	return strings.Join(fields, ",")
}

func sampleHeader() []string {
	lines := make([]string, 12)
	lines[0] = "Выписка по счету"
	lines[2] = `"ООО Ромашка",ИНН 7701234567`
	lines[4] = `Счет №,"` + ownAccount + `",за период`
	lines[6] = "01.01.2024,-,31.01.2024"
	return lines
}

func sampleContent(rows ...string) string {
	lines := append(sampleHeader(), rows...)
	return strings.Join(lines, "\n") + "\n"
}

func TestParseSample(t *testing.T) {
	content := sampleContent(
		buildRow("15.01.2024", partnerAccount, ownAccount, "", "1500.00", "77", `"ПАО Банк БИК 044525225"`, "Оплата по договору 42"),
		buildRow("16.01.2024", ownAccount, partnerAccount, "500.00", "", "78", "", "Возврат аванса"),
		"Количество операций,2",
		"Итого оборотов,2000.00",
	)

	s, diags, err := Parse(content)
	require.NoError(t, err)
	assert.Empty(t, diags)

	assert.Equal(t, ownAccount, s.AccountNumber)
	assert.Equal(t, "ООО Ромашка", s.AccountName)
	assert.Equal(t, "RUB", s.Currency)

	require.Len(t, s.Transactions, 2)
	credit := s.Transactions[0]
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 15}, credit.Date)
	require.NotNil(t, credit.CreditAmount)
	assert.Equal(t, int64(150000), *credit.CreditAmount)
	assert.Nil(t, credit.DebitAmount)
	assert.Equal(t, partnerAccount, credit.DebitAccount)
	assert.Equal(t, "77", credit.DocumentNumber)
	assert.Equal(t, "ПАО Банк БИК 044525225", credit.BankInfo)
	assert.Equal(t, "Оплата по договору 42", credit.Description)

	debit := s.Transactions[1]
	require.NotNil(t, debit.DebitAmount)
	assert.Equal(t, int64(50000), *debit.DebitAmount)
	assert.Nil(t, debit.CreditAmount)
}

func TestParseTooShort(t *testing.T) {
	_, _, err := Parse("just,one,line\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestParseMultiLineField(t *testing.T) {
	row := buildRow("15.01.2024", partnerAccount, ownAccount, "", "100.00", "1", "",
		`"Оплата`+"\n"+`по счету 5"`)
	s, diags, err := Parse(sampleContent(row))
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, s.Transactions, 1)
	assert.Equal(t, "Оплата\nпо счету 5", s.Transactions[0].Description)
}

func TestParseSkipsShortRows(t *testing.T) {
	content := sampleContent(
		"1,15.01.2024,notика,enough,fields",
		buildRow("16.01.2024", partnerAccount, ownAccount, "", "100.00", "1", "", "ok"),
	)
	s, diags, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "row", diags[0].Item)
	require.Len(t, s.Transactions, 1)
}

func TestParseIgnoresFooterAndBlankLines(t *testing.T) {
	content := sampleContent(
		"",
		"Входящий остаток,1000.00",
		buildRow("16.01.2024", partnerAccount, ownAccount, "", "100.00", "1", "", "x"),
		"Исходящий остаток,1100.00",
	)
	s, _, err := Parse(content)
	require.NoError(t, err)
	require.Len(t, s.Transactions, 1)
}

func TestSniffHeaderFallback(t *testing.T) {
	lines := make([]string, 12)
	lines[5] = `что-то,"` + ownAccount + `",еще`
	info := SniffHeader(lines)
	assert.Equal(t, ownAccount, info.AccountNumber)
	assert.Equal(t, models.UnknownOrganizationName, info.OrganizationName)
}

func TestSniffHeaderSentinels(t *testing.T) {
	info := SniffHeader(make([]string, 12))
	assert.Equal(t, models.UnknownAccountNumber, info.AccountNumber)
	assert.Equal(t, models.UnknownOrganizationName, info.OrganizationName)
}

func TestSplitFieldsQuoting(t *testing.T) {
	fields := splitFields(`a,"b,c",d "" e,"he said ""hi"""`)
	assert.Equal(t, []string{"a", "b,c", `d  e`, `he said "hi"`}, fields)
}

func TestToStatement(t *testing.T) {
	content := sampleContent(
		buildRow("15.01.2024", partnerAccount, ownAccount, "", "1500.00", "77", `"ПАО Банк БИК 044525225"`, "Оплата"),
		buildRow("16.01.2024", ownAccount, partnerAccount, "500.00", "", "78", "", "Возврат"),
	)
	s, _, err := Parse(content)
	require.NoError(t, err)

	stmt := ToStatement(s)
	assert.Equal(t, ownAccount, stmt.Account.Number)
	assert.Equal(t, "RUB", stmt.Account.Currency)

	assert.Equal(t, int64(0), stmt.OpeningBalance.Amount.Value)
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 15}, stmt.OpeningBalance.Date)

	// 1500.00 in, 500.00 out
	assert.Equal(t, int64(100000), stmt.ClosingBalance.Amount.Value)
	assert.True(t, stmt.ClosingBalance.IsCredit)
	assert.Equal(t, models.Date{Year: 2024, Month: 1, Day: 16}, stmt.ClosingBalance.Date)

	require.Len(t, stmt.Transactions, 2)
	credit := stmt.Transactions[0]
	assert.True(t, credit.IsCredit)
	assert.Equal(t, int64(150000), credit.Amount.Value)
	require.NotNil(t, credit.Counterparty)
	assert.Equal(t, partnerAccount, credit.Counterparty.Account)
	assert.Equal(t, "044525225", credit.Counterparty.BankCode)

	debit := stmt.Transactions[1]
	assert.False(t, debit.IsCredit)
	assert.Equal(t, partnerAccount, debit.Counterparty.Account)
}

func TestToStatementNegativeClosing(t *testing.T) {
	s := &Statement{
		Currency: "RUB",
		Transactions: []Transaction{{
			Date:        models.Date{Year: 2024, Month: 2, Day: 1},
			DebitAmount: amountPtr(30000),
		}},
	}
	stmt := ToStatement(s)
	assert.Equal(t, int64(30000), stmt.ClosingBalance.Amount.Value)
	assert.False(t, stmt.ClosingBalance.IsCredit)
}

func TestExtractBankCode(t *testing.T) {
	assert.Equal(t, "044525225", extractBankCode("ПАО Банк БИК 044525225"))
	assert.Equal(t, "044525225", extractBankCode("БИК: 044525225, кор.счет"))
	assert.Equal(t, "", extractBankCode("ПАО Банк"))
	assert.Equal(t, "", extractBankCode("БИК 12345"))
}

func TestWrite(t *testing.T) {
	s := &Statement{
		Currency: "RUB",
		Transactions: []Transaction{
			{
				Date:           models.Date{Year: 2024, Month: 1, Day: 15},
				DebitAccount:   partnerAccount,
				CreditAccount:  ownAccount,
				CreditAmount:   amountPtr(150000),
				DocumentNumber: "77",
				BankInfo:       "ПАО Банк",
				Description:    `Оплата, по договору "42"`,
			},
		},
	}

	var buf strings.Builder
	require.NoError(t, Write(s, &buf))
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Дата,Счет дебета,Счет кредита,Сумма дебета,Сумма кредита,№ документа,Банк,Назначение платежа", lines[0])
	assert.Contains(t, lines[1], "15.01.2024")
	assert.Contains(t, lines[1], "1500.00")
	assert.Contains(t, lines[1], `"Оплата, по договору ""42"""`)
}

func TestWriteCustomDelimiter(t *testing.T) {
	SetDelimiter(';')
	defer SetDelimiter(',')

	s := &Statement{
		Currency: "RUB",
		Transactions: []Transaction{
			{
				Date:         models.Date{Year: 2024, Month: 1, Day: 15},
				CreditAmount: amountPtr(150000),
			},
		},
	}

	var buf strings.Builder
	require.NoError(t, Write(s, &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Дата;Счет дебета;Счет кредита;Сумма дебета;Сумма кредита;№ документа;Банк;Назначение платежа", lines[0])
	assert.Contains(t, lines[1], "15.01.2024;")
}

func TestWriteEmptyStatement(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, Write(&Statement{Currency: "RUB"}, &buf))
	assert.Contains(t, buf.String(), "Дата,Счет дебета")
}

func TestFromStatement(t *testing.T) {
	stmt := models.Statement{
		Account: models.Account{Number: ownAccount, Currency: "RUB", Name: `ООО "Ромашка"`},
		Transactions: []models.Transaction{
			{
				Date:      models.Date{Year: 2024, Month: 1, Day: 15},
				Amount:    models.Amount{Value: 150000, Currency: "RUB"},
				IsCredit:  true,
				Reference: "77",
				Counterparty: &models.Counterparty{
					Account:  partnerAccount,
					BankName: "ПАО Банк",
				},
			},
			{
				Date:     models.Date{Year: 2024, Month: 1, Day: 16},
				Amount:   models.Amount{Value: 50000, Currency: "RUB"},
				IsCredit: false,
				Counterparty: &models.Counterparty{
					Account: partnerAccount,
				},
			},
		},
	}

	s := FromStatement(stmt)
	assert.Equal(t, ownAccount, s.AccountNumber)
	require.Len(t, s.Transactions, 2)

	credit := s.Transactions[0]
	require.NotNil(t, credit.CreditAmount)
	assert.Equal(t, int64(150000), *credit.CreditAmount)
	assert.Equal(t, partnerAccount, credit.DebitAccount)
	assert.Equal(t, ownAccount, credit.CreditAccount)

	debit := s.Transactions[1]
	require.NotNil(t, debit.DebitAmount)
	assert.Equal(t, ownAccount, debit.DebitAccount)
	assert.Equal(t, partnerAccount, debit.CreditAccount)
}

func amountPtr(v int64) *int64 {
	return &v
}
