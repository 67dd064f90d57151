package mt940parser

import (
	"strings"

	"ypbank/statements/internal/models"
)

// ibanPrefixes are the country codes the feed actually delivers; an :25:
// value starting with one of them is treated as an IBAN.
var ibanPrefixes = []string{"NL", "DE", "DK"}

// ToStatement maps a wire-level MT940 record onto the canonical model.
func ToStatement(s *Statement) models.Statement {
	currency := s.OpeningBalance.Currency

	account := models.Account{
		Number:   s.AccountID,
		Currency: currency,
	}
	for _, prefix := range ibanPrefixes {
		if strings.HasPrefix(s.AccountID, prefix) {
			account.IBAN = s.AccountID
			break
		}
	}

	transactions := make([]models.Transaction, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		var counterparty *models.Counterparty
		if tx.Details != "" {
			counterparty = &models.Counterparty{
				Name:    tx.Details,
				Account: tx.Reference,
			}
		}
		transactions = append(transactions, models.Transaction{
			Date:         tx.Date,
			ValueDate:    tx.ValueDate,
			Amount:       models.Amount{Value: tx.Amount, Currency: currency},
			IsCredit:     tx.CreditDebit == 'C',
			Reference:    tx.Reference,
			Description:  tx.Details,
			Counterparty: counterparty,
		})
	}

	return models.Statement{
		Reference:       s.Reference,
		StatementNumber: s.StatementNumber,
		Account:         account,
		OpeningBalance:  balanceToModel(s.OpeningBalance),
		ClosingBalance:  balanceToModel(s.ClosingBalance),
		Transactions:    transactions,
	}
}

// FromStatement maps a canonical statement back onto the MT940 wire shape.
func FromStatement(stmt models.Statement) *Statement {
	currency := stmt.OpeningBalance.Amount.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	accountID := stmt.Account.IBAN
	if accountID == "" {
		accountID = stmt.Account.Number
	}

	transactions := make([]Transaction, 0, len(stmt.Transactions))
	for _, tx := range stmt.Transactions {
		transactions = append(transactions, Transaction{
			Date:            tx.Date,
			ValueDate:       tx.ValueDate,
			CreditDebit:     creditDebitByte(tx.IsCredit),
			Amount:          tx.Amount.Value,
			TransactionType: models.ProprietaryTransfer,
			Reference:       tx.Reference,
			Details:         tx.Description,
		})
	}

	statementNumber := stmt.StatementNumber
	if statementNumber == "" {
		statementNumber = "1"
	}

	return &Statement{
		Reference:       stmt.Reference,
		AccountID:       accountID,
		StatementNumber: statementNumber,
		OpeningBalance:  balanceFromModel(stmt.OpeningBalance, currency),
		ClosingBalance:  balanceFromModel(stmt.ClosingBalance, currency),
		Transactions:    transactions,
	}
}

func balanceToModel(b Balance) models.Balance {
	return models.Balance{
		Amount:   models.Amount{Value: b.Amount, Currency: b.Currency},
		Date:     b.Date,
		IsCredit: b.CreditDebit == 'C',
	}
}

func balanceFromModel(b models.Balance, fallbackCurrency string) Balance {
	currency := b.Amount.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	return Balance{
		CreditDebit: creditDebitByte(b.IsCredit),
		Date:        b.Date,
		Currency:    currency,
		Amount:      b.Amount.Value,
	}
}

func creditDebitByte(isCredit bool) byte {
	if isCredit {
		return 'C'
	}
	return 'D'
}
