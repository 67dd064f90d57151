package camtparser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ypbank/statements/internal/currencyutils"
	"ypbank/statements/internal/dateutils"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Write serializes a statement as a CAMT.053 document. Output is buffered;
// every text value passes through XML escaping.
func Write(s *Statement, w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintln(bw, `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02">`)
	fmt.Fprintln(bw, "<BkToCstmrStmt>")

	fmt.Fprintln(bw, "<GrpHdr>")
	writeElement(bw, "MsgId", s.MessageID)
	writeElement(bw, "CreDtTm", s.CreationDateTime)
	fmt.Fprintln(bw, "</GrpHdr>")

	fmt.Fprintln(bw, "<Stmt>")
	writeElement(bw, "Id", s.StatementID)
	writeAccount(bw, s.Account)
	for _, balance := range s.Balances {
		writeBalance(bw, balance)
	}
	for _, entry := range s.Entries {
		writeEntry(bw, entry)
	}
	fmt.Fprintln(bw, "</Stmt>")

	fmt.Fprintln(bw, "</BkToCstmrStmt>")
	fmt.Fprintln(bw, "</Document>")

	return bw.Flush()
}

func writeElement(w io.Writer, tag, value string) {
	fmt.Fprintf(w, "<%s>%s</%s>\n", tag, xmlEscaper.Replace(value), tag)
}

func writeAmount(w io.Writer, currency string, amount int64) {
	fmt.Fprintf(w, "<Amt Ccy=\"%s\">%s</Amt>\n",
		xmlEscaper.Replace(currency), currencyutils.FormatMinorUnits(amount))
}

func writeAccount(w io.Writer, account Account) {
	fmt.Fprintln(w, "<Acct>")
	fmt.Fprintln(w, "<Id>")
	if account.IBAN != "" {
		writeElement(w, "IBAN", account.IBAN)
	}
	fmt.Fprintln(w, "</Id>")
	writeElement(w, "Ccy", account.Currency)
	if account.Name != "" {
		writeElement(w, "Nm", account.Name)
	}
	if account.OwnerName != "" {
		fmt.Fprintln(w, "<Ownr>")
		writeElement(w, "Nm", account.OwnerName)
		fmt.Fprintln(w, "</Ownr>")
	}
	fmt.Fprintln(w, "</Acct>")
}

func writeBalance(w io.Writer, b Balance) {
	fmt.Fprintln(w, "<Bal>")
	fmt.Fprintln(w, "<Tp>")
	fmt.Fprintln(w, "<CdOrPrtry>")
	writeElement(w, "Cd", b.TypeCode)
	fmt.Fprintln(w, "</CdOrPrtry>")
	fmt.Fprintln(w, "</Tp>")
	writeAmount(w, b.Currency, b.Amount)
	writeElement(w, "CdtDbtInd", b.CreditDebit)
	fmt.Fprintln(w, "<Dt>")
	writeElement(w, "Dt", dateutils.FormatISODate(b.Date))
	fmt.Fprintln(w, "</Dt>")
	fmt.Fprintln(w, "</Bal>")
}

func writeEntry(w io.Writer, e Entry) {
	fmt.Fprintln(w, "<Ntry>")
	if e.EntryRef != "" {
		writeElement(w, "NtryRef", e.EntryRef)
	}
	writeAmount(w, e.Currency, e.Amount)
	writeElement(w, "CdtDbtInd", e.CreditDebit)
	fmt.Fprintln(w, "<Sts>BOOK</Sts>")
	fmt.Fprintln(w, "<BookgDt>")
	writeElement(w, "Dt", dateutils.FormatISODate(e.BookingDate))
	fmt.Fprintln(w, "</BookgDt>")
	if e.ValueDate != nil {
		fmt.Fprintln(w, "<ValDt>")
		writeElement(w, "Dt", dateutils.FormatISODate(*e.ValueDate))
		fmt.Fprintln(w, "</ValDt>")
	}
	if e.AccountServicerRef != "" {
		writeElement(w, "AcctSvcrRef", e.AccountServicerRef)
	}
	if len(e.TransactionDetails) > 0 {
		fmt.Fprintln(w, "<NtryDtls>")
		for _, d := range e.TransactionDetails {
			writeTransactionDetails(w, d)
		}
		fmt.Fprintln(w, "</NtryDtls>")
	}
	fmt.Fprintln(w, "</Ntry>")
}

func writeTransactionDetails(w io.Writer, d TransactionDetails) {
	fmt.Fprintln(w, "<TxDtls>")

	fmt.Fprintln(w, "<Refs>")
	if d.EndToEndID != "" {
		writeElement(w, "EndToEndId", d.EndToEndID)
	}
	if d.TransactionID != "" {
		writeElement(w, "TxId", d.TransactionID)
	}
	fmt.Fprintln(w, "</Refs>")

	if d.Amount != nil {
		fmt.Fprintln(w, "<AmtDtls>")
		fmt.Fprintln(w, "<TxAmt>")
		writeAmount(w, d.Currency, *d.Amount)
		fmt.Fprintln(w, "</TxAmt>")
		fmt.Fprintln(w, "</AmtDtls>")
	}

	fmt.Fprintln(w, "<RltdPties>")
	writeParty(w, "Dbtr", d.DebtorName, d.DebtorAccount)
	writeParty(w, "Cdtr", d.CreditorName, d.CreditorAccount)
	fmt.Fprintln(w, "</RltdPties>")

	if len(d.RemittanceInfo) > 0 {
		fmt.Fprintln(w, "<RmtInf>")
		for _, info := range d.RemittanceInfo {
			writeElement(w, "Ustrd", info)
		}
		fmt.Fprintln(w, "</RmtInf>")
	}

	fmt.Fprintln(w, "</TxDtls>")
}

func writeParty(w io.Writer, tag, name, account string) {
	if name == "" && account == "" {
		return
	}
	fmt.Fprintf(w, "<%s>\n", tag)
	if name != "" {
		writeElement(w, "Nm", name)
	}
	fmt.Fprintf(w, "</%s>\n", tag)
	if account != "" {
		fmt.Fprintf(w, "<%sAcct>\n", tag)
		fmt.Fprintln(w, "<Id>")
		writeElement(w, "IBAN", account)
		fmt.Fprintln(w, "</Id>")
		fmt.Fprintf(w, "</%sAcct>\n", tag)
	}
}
