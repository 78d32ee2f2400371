package camt

import (
	"bytes"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Entry is one booking entry (Ntry) of a CAMT.053 statement. All field
// accessors are tolerant: a missing tag reports not-present instead of
// failing the entry.
type Entry struct {
	node *Node
}

// Detail is one sub-transaction (TxDtls) within an entry.
type Detail struct {
	node *Node
}

// ReadEntries parses statement content and returns its booking entries in
// document order. Content with no parseable Ntry elements yields an empty
// slice, never an error.
func ReadEntries(content []byte) []Entry {
	doc := ParseDocument(bytes.NewReader(content))
	nodes := doc.FindAll("Ntry")
	entries := make([]Entry, 0, len(nodes))
	for _, n := range nodes {
		entries = append(entries, Entry{node: n})
	}
	return entries
}

// BookingDate returns the booking date text (BookgDt/Dt), "" if absent.
func (e Entry) BookingDate() string {
	s, _ := e.node.FindText("BookgDt", "Dt")
	return s
}

// Amount returns the entry-level amount and its currency attribute.
func (e Entry) Amount() (decimal.Decimal, string, bool) {
	return amountOf(e.node)
}

// AccountServiceReference returns the entry's AcctSvcrRef, "" if absent.
func (e Entry) AccountServiceReference() string {
	s, _ := e.node.FindText("AcctSvcrRef")
	return s
}

// CreditDebit returns the entry-level credit/debit indicator.
func (e Entry) CreditDebit() (model.CreditDebit, bool) {
	s, ok := e.node.FindText("CdtDbtInd")
	return model.CreditDebit(s), ok
}

// TransactionID returns the first TxId found under the entry.
func (e Entry) TransactionID() (string, bool) {
	return e.node.FindText("TxId")
}

// PaymentInformationID returns the first PmtInfId found under the entry.
func (e Entry) PaymentInformationID() (string, bool) {
	return e.node.FindText("PmtInfId")
}

// Details returns the entry's sub-transactions in document order.
func (e Entry) Details() []Detail {
	nodes := e.node.FindAll("TxDtls")
	details := make([]Detail, 0, len(nodes))
	for _, n := range nodes {
		details = append(details, Detail{node: n})
	}
	return details
}

// CreditDebit returns the detail-level credit/debit indicator.
func (d Detail) CreditDebit() (model.CreditDebit, bool) {
	s, ok := d.node.FindText("CdtDbtInd")
	return model.CreditDebit(s), ok
}

// EndToEndID returns the end-to-end identifier of the structured
// reference block (Refs/EndToEndId).
func (d Detail) EndToEndID() (string, bool) {
	return d.node.FindText("Refs", "EndToEndId")
}

// AnyEndToEndID returns the first EndToEndId found anywhere in the
// detail; used by the transaction-reference fallback chain.
func (d Detail) AnyEndToEndID() (string, bool) {
	return d.node.FindText("EndToEndId")
}

// TransactionID returns the first TxId found in the detail.
func (d Detail) TransactionID() (string, bool) {
	return d.node.FindText("TxId")
}

// PaymentInformationID returns the first PmtInfId found in the detail.
func (d Detail) PaymentInformationID() (string, bool) {
	return d.node.FindText("PmtInfId")
}

// TxAmount returns the transaction amount (TxAmt/Amt) if present.
func (d Detail) TxAmount() (decimal.Decimal, string, bool) {
	n := d.node.Find("TxAmt", "Amt")
	if n == nil {
		return decimal.Decimal{}, "", false
	}
	return parseAmount(n)
}

// Amount returns the first plain Amt found in the detail.
func (d Detail) Amount() (decimal.Decimal, string, bool) {
	return amountOf(d.node)
}

// Party returns the related-party node for the given direction: the
// creditor side for debits (money went to this creditor), the debtor
// side for credits. Nil when the section is absent, which is a valid
// state for e.g. inter-bank debits carrying no customer data.
func (d Detail) Party(dir model.CreditDebit) *Node {
	if dir == model.Debit {
		return d.node.Find("RltdPties", "Cdtr")
	}
	return d.node.Find("RltdPties", "Dbtr")
}

// PartyIBAN returns the counterparty account IBAN for the direction.
func (d Detail) PartyIBAN(dir model.CreditDebit) string {
	var s string
	if dir == model.Debit {
		s, _ = d.node.FindText("CdtrAcct", "Id", "IBAN")
	} else {
		s, _ = d.node.FindText("DbtrAcct", "Id", "IBAN")
	}
	return s
}

// CreditorReference returns the structured creditor reference
// (RmtInf/Strd/CdtrRefInf/Ref), e.g. an ESR number.
func (d Detail) CreditorReference() (string, bool) {
	return d.node.FindText("RmtInf", "Strd", "CdtrRefInf", "Ref")
}

// UnstructuredRemittance returns the first RmtInf/Ustrd text.
func (d Detail) UnstructuredRemittance() (string, bool) {
	return d.node.FindText("RmtInf", "Ustrd")
}

// AdditionalInfo returns the AddtlTxInf free text.
func (d Detail) AdditionalInfo() (string, bool) {
	return d.node.FindText("AddtlTxInf")
}

// PartyNameHint returns the first Nm found anywhere in the detail; only
// used as the name component of the content-hash fallback.
func (d Detail) PartyNameHint() string {
	s, _ := d.node.FindText("Nm")
	return s
}

func amountOf(n *Node) (decimal.Decimal, string, bool) {
	amt := n.Find("Amt")
	if amt == nil {
		return decimal.Decimal{}, "", false
	}
	return parseAmount(amt)
}

func parseAmount(n *Node) (decimal.Decimal, string, bool) {
	value, err := decimal.NewFromString(strings.TrimSpace(n.Text))
	if err != nil {
		return decimal.Decimal{}, "", false
	}
	ccy, _ := n.Attr("Ccy")
	return value, ccy, true
}
