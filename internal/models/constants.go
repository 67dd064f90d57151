package models

// CAMT.053 code values used by the parser and the writer.
const (
	BalanceCodeOpening = "OPBD"
	BalanceCodeClosing = "CLBD"

	IndicatorCredit = "CRDT"
	IndicatorDebit  = "DBIT"

	ProprietaryTransfer = "NTRF"
	NotProvided         = "NOTPROVIDED"
)

// Sentinels for header fields the CSV sniffer could not locate.
const (
	UnknownAccountNumber    = "UNKNOWN"
	UnknownOrganizationName = "Неизвестно"
)

// DefaultCurrency applies where a document omits the currency entirely.
const DefaultCurrency = "EUR"
