package model

import "github.com/shopspring/decimal"

// CreditDebit is the ISO 20022 credit/debit indicator of a movement.
type CreditDebit string

const (
	// Credit marks money received (CAMT "CRDT").
	Credit CreditDebit = "CRDT"
	// Debit marks money paid out (CAMT "DBIT").
	Debit CreditDebit = "DBIT"
)

// Unknown is the placeholder written into identity fields when an entry
// cannot be resolved against a payment instruction.
const Unknown = "???"

// ParsedTransaction is one normalized movement extracted from a bank
// statement, annotated with whatever the ledger could match against it.
// Built once by the assembler, never mutated afterwards. Empty match
// slices are normalized to nil before the record is emitted.
type ParsedTransaction struct {
	Seq                  int             `json:"txid"`
	Date                 string          `json:"date"`
	Currency             string          `json:"currency"`
	Amount               decimal.Decimal `json:"amount"` // positive magnitude
	CreditDebit          CreditDebit     `json:"credit_debit"`
	PartyName            string          `json:"party_name"`
	PartyAddress         string          `json:"party_address"`
	PartyIBAN            string          `json:"party_iban"`
	UniqueReference      string          `json:"unique_reference"`
	TransactionReference string          `json:"transaction_reference"`
	PartyMatch           string          `json:"party_match,omitempty"`
	InvoiceMatches       []string        `json:"invoice_matches"`
	ExpenseMatches       []string        `json:"expense_matches,omitempty"`
	MatchedAmount        decimal.Decimal `json:"matched_amount"`
	EmployeeMatch        string          `json:"employee_match,omitempty"`
}

// MatchCandidate is a ledger document eligible for reference matching.
// Candidates are fetched fresh from the ledger on every invocation and
// never cached between statements.
type MatchCandidate struct {
	ID          string          // document identifier, e.g. "SINV-2024-00012"
	Party       string          // owning customer, supplier or employee
	Outstanding decimal.Decimal // open amount at query time
	BillNo      string          // secondary searchable text (purchase invoices)
}

// PlannedPayment is one line of a payment proposal, addressed by
// (proposal id, row). Executed bank entries originating from a pain.001
// instruction are matched back to these lines.
type PlannedPayment struct {
	ProposalID   string
	Row          int
	Receiver     string
	AddressLine1 string
	AddressLine2 string
	IBAN         string
	Reference    string
}
