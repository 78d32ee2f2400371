package model

import "github.com/shopspring/decimal"

// PaymentType is the direction of a payment posting.
type PaymentType string

const (
	PaymentReceive          PaymentType = "Receive"
	PaymentPay              PaymentType = "Pay"
	PaymentInternalTransfer PaymentType = "Internal Transfer"
)

// PartyType classifies the counterparty of a payment posting.
type PartyType string

const (
	PartyCustomer PartyType = "Customer"
	PartySupplier PartyType = "Supplier"
	PartyEmployee PartyType = "Employee"
)

// Document types a payment allocation can reference.
const (
	DocTypeSalesInvoice    = "Sales Invoice"
	DocTypePurchaseInvoice = "Purchase Invoice"
	DocTypeExpenseClaim    = "Expense Claim"
)

// PaymentPosting is one confirmed payment record. ReferenceNo carries the
// engine-derived unique reference and is enforced unique by the ledger.
type PaymentPosting struct {
	ID           string
	Type         PaymentType
	PartyType    PartyType
	Party        string
	PaidFrom     string
	PaidTo       string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate decimal.Decimal
	ReferenceNo  string
	Date         string
	Remarks      string
	Company      string
	Unallocated  decimal.Decimal
	Allocations  []Allocation
	Submitted    bool
}

// Allocation applies part of a posting to one outstanding document.
// AllocatedAmount is min(remaining posting amount, outstanding amount)
// at creation time and is never negative.
type Allocation struct {
	DocType     string
	DocName     string
	Total       decimal.Decimal
	Outstanding decimal.Decimal
	Allocated   decimal.Decimal
}
