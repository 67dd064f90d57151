package csvparser

import (
	"strings"

	"ypbank/statements/internal/models"
)

// bankCodeMarker precedes the 9-digit bank identifier in the bank info
// column.
const bankCodeMarker = "БИК"

// ToStatement maps a CSV listing onto the canonical model. The listing
// carries no balances, so the opening balance is zero and the closing
// balance is the running total of the rows.
func ToStatement(s *Statement) models.Statement {
	account := models.Account{
		Number:   s.AccountNumber,
		Currency: s.Currency,
		Name:     s.AccountName,
	}

	firstDate := models.Date{Year: 2024, Month: 1, Day: 1}
	lastDate := models.Date{Year: 2024, Month: 12, Day: 31}
	if n := len(s.Transactions); n > 0 {
		firstDate = s.Transactions[0].Date
		lastDate = s.Transactions[n-1].Date
	}

	var running int64
	transactions := make([]models.Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		var amount int64
		isCredit := true
		switch {
		case tx.CreditAmount != nil:
			amount = *tx.CreditAmount
			running += amount
		case tx.DebitAmount != nil:
			amount = *tx.DebitAmount
			isCredit = false
			running -= amount
		}

		counterpartyAccount := tx.CreditAccount
		if isCredit {
			counterpartyAccount = tx.DebitAccount
		}
		counterparty := &models.Counterparty{
			Account:  counterpartyAccount,
			BankCode: extractBankCode(tx.BankInfo),
			BankName: tx.BankInfo,
		}

		transactions = append(transactions, models.Transaction{
			Date:         tx.Date,
			Amount:       models.Amount{Value: amount, Currency: s.Currency},
			IsCredit:     isCredit,
			Reference:    tx.DocumentNumber,
			Description:  tx.Description,
			Counterparty: counterparty,
		})
	}

	closingMagnitude := running
	closingIsCredit := true
	if running < 0 {
		closingMagnitude = -running
		closingIsCredit = false
	}

	return models.Statement{
		Account: account,
		OpeningBalance: models.Balance{
			Amount:   models.Amount{Value: 0, Currency: s.Currency},
			Date:     firstDate,
			IsCredit: true,
		},
		ClosingBalance: models.Balance{
			Amount:   models.Amount{Value: closingMagnitude, Currency: s.Currency},
			Date:     lastDate,
			IsCredit: closingIsCredit,
		},
		Transactions: transactions,
	}
}

// FromStatement maps a canonical statement onto the CSV row shape: credits
// show the counterparty on the debit side and vice versa.
func FromStatement(stmt models.Statement) *Statement {
	currency := stmt.Account.Currency
	if currency == "" {
		currency = statementCurrency
	}

	transactions := make([]Transaction, 0, len(stmt.Transactions))
	for _, tx := range stmt.Transactions {
		row := Transaction{
			Date:           tx.Date,
			DocumentNumber: tx.Reference,
			Description:    tx.Description,
		}
		counterpartyAccount := ""
		if tx.Counterparty != nil {
			counterpartyAccount = tx.Counterparty.Account
			row.BankInfo = tx.Counterparty.BankName
		}
		amount := tx.Amount.Value
		if tx.IsCredit {
			row.CreditAmount = &amount
			row.DebitAccount = counterpartyAccount
			row.CreditAccount = stmt.Account.Number
		} else {
			row.DebitAmount = &amount
			row.DebitAccount = stmt.Account.Number
			row.CreditAccount = counterpartyAccount
		}
		transactions = append(transactions, row)
	}

	return &Statement{
		AccountNumber: stmt.Account.Number,
		AccountName:   stmt.Account.Name,
		Currency:      currency,
		Transactions:  transactions,
	}
}

// extractBankCode pulls the 9-digit identifier following the БИК marker
// out of the bank info column.
func extractBankCode(bankInfo string) string {
	i := strings.Index(bankInfo, bankCodeMarker)
	if i < 0 {
		return ""
	}
	rest := bankInfo[i+len(bankCodeMarker):]
	rest = strings.TrimLeft(rest, " :.")
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end != 9 {
		return ""
	}
	return rest[:end]
}
