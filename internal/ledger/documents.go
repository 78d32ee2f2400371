package ledger

import "github.com/shopspring/decimal"

// Document status values.
const (
	DocStatusDraft     = 0
	DocStatusSubmitted = 1
	DocStatusCancelled = 2
)

// Supplier is a vendor master record.
type Supplier struct {
	ID           string
	SupplierName string
	Disabled     bool
}

// Customer is a customer master record.
type Customer struct {
	ID           string
	CustomerName string
	Disabled     bool
}

// Employee is an employee master record. Status is "Active" for current
// employees.
type Employee struct {
	ID           string
	EmployeeName string
	Status       string
}

// SalesInvoice is an outgoing invoice.
type SalesInvoice struct {
	ID          string
	Customer    string
	DocStatus   int
	Status      string // "Paid", "Unpaid", "Overdue", ...
	GrandTotal  decimal.Decimal
	Outstanding decimal.Decimal
}

// PurchaseInvoice is an incoming invoice. BillNo is the supplier's own
// invoice number and is searched alongside the identifier.
type PurchaseInvoice struct {
	ID          string
	Supplier    string
	BillNo      string
	DocStatus   int
	GrandTotal  decimal.Decimal
	Outstanding decimal.Decimal
}

// ExpenseClaim is an employee expense claim.
type ExpenseClaim struct {
	ID           string
	Employee     string
	DocStatus    int
	Status       string // "Unpaid" until settled
	TotalClaimed decimal.Decimal
}

// Account is one ledger account. Bank accounts are surfaced to the
// wizard; group and disabled accounts are not.
type Account struct {
	Name     string
	Type     string // "Bank", "Payable", "Receivable", ...
	Number   string
	Company  string
	IsGroup  bool
	Disabled bool
}

// Company holds the per-company default accounts consumed by the
// posting builder.
type Company struct {
	Name              string
	PayableAccount    string
	ReceivableAccount string
}
