// Package models defines the canonical bank statement model every parser
// produces and every writer consumes, together with the wire format enum.
package models

import (
	"fmt"

	"ypbank/statements/internal/currencyutils"
)

// Date is a calendar date without timezone. Statement formats carry plain
// dates, never instants, so we avoid time.Time and its zone semantics.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Amount is a monetary value in minor units (cents, kopecks). Integer minor
// units keep arithmetic exact; parsing and formatting of decimal strings is
// delegated to currencyutils.
type Amount struct {
	Value    int64
	Currency string
}

func (a Amount) String() string {
	return currencyutils.FormatMinorUnits(a.Value) + " " + a.Currency
}

// Account identifies the account a statement belongs to. Fields that a
// format does not carry stay empty.
type Account struct {
	IBAN     string
	Number   string
	Currency string
	Name     string
	Owner    string
}

// Balance is an opening or closing balance. Amount.Value is always the
// non-negative magnitude; IsCredit carries the direction.
type Balance struct {
	Amount   Amount
	Date     Date
	IsCredit bool
}

// Counterparty describes the other side of a transaction as far as the
// source format reveals it.
type Counterparty struct {
	Name     string
	Account  string
	BankCode string
	BankName string
}

// Transaction is a single booked entry. Amount.Value is the non-negative
// magnitude; IsCredit tells whether money came in or went out.
type Transaction struct {
	Date         Date
	ValueDate    *Date
	Amount       Amount
	IsCredit     bool
	Reference    string
	Description  string
	Counterparty *Counterparty
}

// Statement is one bank statement: account, opening and closing balances and
// the booked transactions in document order. Reference is the document
// reference (MT940 :20:, CAMT.053 MsgId) and StatementNumber the statement
// sequence identifier (MT940 :28C:, CAMT.053 Stmt Id); formats that carry
// neither leave them empty.
type Statement struct {
	Reference       string
	StatementNumber string
	Account         Account
	OpeningBalance  Balance
	ClosingBalance  Balance
	Transactions    []Transaction
	CreatedAt       string
}
