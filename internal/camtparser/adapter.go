package camtparser

import (
	"strconv"

	"ypbank/statements/internal/models"
)

// ToStatement maps a wire-level CAMT.053 document onto the canonical model.
// A missing OPBD or CLBD balance becomes a zero credit balance dated at the
// start or end of the statement year.
func ToStatement(s *Statement) models.Statement {
	account := models.Account{
		IBAN:     s.Account.IBAN,
		Number:   s.Account.IBAN,
		Currency: s.Account.Currency,
		Name:     s.Account.Name,
		Owner:    s.Account.OwnerName,
	}
	if account.Number == "" {
		account.Number = models.UnknownAccountNumber
	}

	transactions := make([]models.Transaction, 0, len(s.Entries))
	for _, entry := range s.Entries {
		isCredit := entry.CreditDebit == models.IndicatorCredit

		var counterparty *models.Counterparty
		var description string
		if len(entry.TransactionDetails) > 0 {
			details := entry.TransactionDetails[0]
			if isCredit {
				counterparty = &models.Counterparty{Name: details.DebtorName, Account: details.DebtorAccount}
			} else {
				counterparty = &models.Counterparty{Name: details.CreditorName, Account: details.CreditorAccount}
			}
			for i, info := range details.RemittanceInfo {
				if i > 0 {
					description += " "
				}
				description += info
			}
		}

		transactions = append(transactions, models.Transaction{
			Date:         entry.BookingDate,
			ValueDate:    entry.ValueDate,
			Amount:       models.Amount{Value: entry.Amount, Currency: entry.Currency},
			IsCredit:     isCredit,
			Reference:    entry.AccountServicerRef,
			Description:  description,
			Counterparty: counterparty,
		})
	}

	return models.Statement{
		Reference:       s.MessageID,
		StatementNumber: s.StatementID,
		Account:         account,
		OpeningBalance:  findBalance(s, models.BalanceCodeOpening, models.Date{Year: 2024, Month: 1, Day: 1}),
		ClosingBalance:  findBalance(s, models.BalanceCodeClosing, models.Date{Year: 2024, Month: 12, Day: 31}),
		Transactions:    transactions,
		CreatedAt:       s.CreationDateTime,
	}
}

func findBalance(s *Statement, typeCode string, fallbackDate models.Date) models.Balance {
	for _, b := range s.Balances {
		if b.TypeCode == typeCode {
			return models.Balance{
				Amount:   models.Amount{Value: b.Amount, Currency: b.Currency},
				Date:     b.Date,
				IsCredit: b.CreditDebit == models.IndicatorCredit,
			}
		}
	}
	return models.Balance{
		Amount:   models.Amount{Value: 0, Currency: s.Account.Currency},
		Date:     fallbackDate,
		IsCredit: true,
	}
}

// FromStatement maps a canonical statement back onto the CAMT.053 wire
// shape with one TxDtls block per transaction.
func FromStatement(stmt models.Statement) *Statement {
	currency := stmt.Account.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	creation := stmt.CreatedAt
	if creation == "" {
		creation = "2024-01-01T00:00:00"
	}

	messageID := stmt.Reference
	if messageID == "" {
		messageID = models.NotProvided
	}
	statementID := stmt.StatementNumber
	if statementID == "" {
		statementID = models.NotProvided
	}

	entries := make([]Entry, 0, len(stmt.Transactions))
	for i, tx := range stmt.Transactions {
		details := TransactionDetails{
			EndToEndID:     models.NotProvided,
			RemittanceInfo: remittance(tx.Description),
		}
		if tx.Counterparty != nil {
			if tx.IsCredit {
				details.DebtorName = tx.Counterparty.Name
				details.DebtorAccount = tx.Counterparty.Account
			} else {
				details.CreditorName = tx.Counterparty.Name
				details.CreditorAccount = tx.Counterparty.Account
			}
		}
		entries = append(entries, Entry{
			EntryRef:           strconv.Itoa(i + 1),
			Amount:             tx.Amount.Value,
			Currency:           tx.Amount.Currency,
			CreditDebit:        indicator(tx.IsCredit),
			BookingDate:        tx.Date,
			ValueDate:          tx.ValueDate,
			AccountServicerRef: tx.Reference,
			TransactionDetails: []TransactionDetails{details},
		})
	}

	return &Statement{
		MessageID:        messageID,
		CreationDateTime: creation,
		StatementID:      statementID,
		Account: Account{
			IBAN:      stmt.Account.IBAN,
			Currency:  currency,
			Name:      stmt.Account.Name,
			OwnerName: stmt.Account.Owner,
		},
		Balances: []Balance{
			balanceFromModel(models.BalanceCodeOpening, stmt.OpeningBalance, currency),
			balanceFromModel(models.BalanceCodeClosing, stmt.ClosingBalance, currency),
		},
		Entries: entries,
	}
}

func balanceFromModel(typeCode string, b models.Balance, fallbackCurrency string) Balance {
	currency := b.Amount.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	return Balance{
		TypeCode:    typeCode,
		Amount:      b.Amount.Value,
		Currency:    currency,
		CreditDebit: indicator(b.IsCredit),
		Date:        b.Date,
	}
}

func indicator(isCredit bool) string {
	if isCredit {
		return models.IndicatorCredit
	}
	return models.IndicatorDebit
}

func remittance(description string) []string {
	if description == "" {
		return nil
	}
	return []string{description}
}
