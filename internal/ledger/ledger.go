// Package ledger defines the boundary to the document store the matching
// engine runs against. The engine only ever sees this interface; the
// in-memory implementation backs the CLI and tests.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Reader is the query surface the engine consumes. Every call is a
// bounded read; candidates are fetched fresh on each invocation because
// ledger state may change between statements.
type Reader interface {
	// PaymentByReference returns the identifier of an existing posting
	// carrying the reference number, if any.
	PaymentByReference(ref string) (string, bool, error)

	// OpenPurchaseInvoices returns finalized purchase invoices with a
	// positive outstanding amount, scoped to one supplier when supplier
	// is non-empty.
	OpenPurchaseInvoices(supplier string) ([]model.MatchCandidate, error)

	// OpenSalesInvoices returns sales invoices with a positive
	// outstanding amount, scoped to one customer when customer is
	// non-empty.
	OpenSalesInvoices(customer string) ([]model.MatchCandidate, error)

	// OpenSalesInvoicesByTotal returns unpaid, finalized sales invoices
	// whose grand total equals the given amount.
	OpenSalesInvoicesByTotal(total decimal.Decimal) ([]model.MatchCandidate, error)

	// OpenExpenseClaims returns finalized, unpaid expense claims. The
	// candidate Outstanding carries the claimed total.
	OpenExpenseClaims() ([]model.MatchCandidate, error)

	// SupplierByName returns the active supplier with the exact name.
	SupplierByName(name string) (string, bool, error)

	// CustomerByName returns the active customer with the exact name.
	CustomerByName(name string) (string, bool, error)

	// EmployeeByName returns the active employee with the exact name.
	EmployeeByName(name string) (string, bool, error)

	// DocumentAmounts returns the current total and outstanding amount
	// of a document. Expense claims report their claimed total as
	// outstanding.
	DocumentAmounts(docType, name string) (total, outstanding decimal.Decimal, ok bool, err error)

	// CompanyAccounts returns a company's default payable and
	// receivable accounts.
	CompanyAccounts(company string) (payable, receivable string, err error)

	// BankAccounts returns enabled, non-group bank accounts ordered by
	// account number.
	BankAccounts() ([]string, error)

	// PlannedPayment returns the payment-proposal line at (proposal,
	// row), if any.
	PlannedPayment(proposalID string, row int) (model.PlannedPayment, bool, error)
}

// Writer is the command surface used when posting confirmed payments.
// InsertPosting must reject duplicate reference numbers atomically; the
// application-level dedup check is an optimization, not the guard.
type Writer interface {
	InsertPosting(p *model.PaymentPosting) (string, error)
	InsertAllocation(postingID string, a model.Allocation) error
	ReduceUnallocated(postingID string, by decimal.Decimal) error
	SubmitPosting(postingID string) error
}

// Ledger combines the read and write surfaces.
type Ledger interface {
	Reader
	Writer
}
