package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/ledger"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// MatchResult is the outcome of searching the ledger for one transaction.
// Match slices stay nil when nothing matched.
type MatchResult struct {
	PartyMatch     string
	EmployeeMatch  string
	InvoiceMatches []string
	ExpenseMatches []string
	MatchedAmount  decimal.Decimal
}

// Matcher searches open ledger documents for reference and name matches.
// Candidates come fresh from the ledger on every call.
type Matcher struct {
	ledger ledger.Reader
}

// NewMatcher creates a Matcher over the given ledger.
func NewMatcher(l ledger.Reader) *Matcher {
	return &Matcher{ledger: l}
}

// Match searches candidate documents whose identifier (or secondary bill
// number) occurs as a substring of the transaction reference. Matching
// is intentionally unanchored: any occurrence counts, which can yield
// false positives when one invoice number is a substring of another.
func (m *Matcher) Match(reference string, dir model.CreditDebit, partyName string) (MatchResult, error) {
	if dir == model.Debit {
		return m.matchDebit(reference, partyName)
	}
	return m.matchCredit(reference, partyName)
}

// matchDebit runs the supplier/purchase-invoice track and the
// employee/expense-claim track. The two tracks are independent, not
// mutually exclusive.
func (m *Matcher) matchDebit(reference, partyName string) (MatchResult, error) {
	var res MatchResult

	supplier, found, err := m.ledger.SupplierByName(partyName)
	if err != nil {
		return res, fmt.Errorf("looking up supplier %q: %w", partyName, err)
	}
	scope := ""
	if found {
		res.PartyMatch = supplier
		scope = supplier
	}

	invoices, err := m.ledger.OpenPurchaseInvoices(scope)
	if err != nil {
		return res, fmt.Errorf("listing purchase invoices: %w", err)
	}
	for _, inv := range invoices {
		secondary := inv.BillNo
		if secondary == "" {
			secondary = inv.ID
		}
		if strings.Contains(reference, inv.ID) || strings.Contains(reference, secondary) {
			res.InvoiceMatches = append(res.InvoiceMatches, inv.ID)
			// The invoice's own supplier wins even when the name lookup
			// found nothing.
			res.PartyMatch = inv.Party
			res.MatchedAmount = res.MatchedAmount.Add(inv.Outstanding)
		}
	}

	employee, found, err := m.ledger.EmployeeByName(partyName)
	if err != nil {
		return res, fmt.Errorf("looking up employee %q: %w", partyName, err)
	}
	if found {
		res.EmployeeMatch = employee
	}

	claims, err := m.ledger.OpenExpenseClaims()
	if err != nil {
		return res, fmt.Errorf("listing expense claims: %w", err)
	}
	for _, claim := range claims {
		if strings.Contains(reference, claim.ID) {
			res.ExpenseMatches = append(res.ExpenseMatches, claim.ID)
			res.EmployeeMatch = claim.Party
			res.MatchedAmount = res.MatchedAmount.Add(claim.Outstanding)
		}
	}

	return res, nil
}

func (m *Matcher) matchCredit(reference, partyName string) (MatchResult, error) {
	var res MatchResult

	customer, found, err := m.ledger.CustomerByName(partyName)
	if err != nil {
		return res, fmt.Errorf("looking up customer %q: %w", partyName, err)
	}
	if found {
		res.PartyMatch = customer
	}

	// Unscoped on purpose: a reference citing another customer's invoice
	// still matches, and that invoice's customer overrides the name
	// lookup.
	invoices, err := m.ledger.OpenSalesInvoices("")
	if err != nil {
		return res, fmt.Errorf("listing sales invoices: %w", err)
	}
	for _, inv := range invoices {
		if strings.Contains(reference, inv.ID) {
			res.InvoiceMatches = append(res.InvoiceMatches, inv.ID)
			res.PartyMatch = inv.Party
			res.MatchedAmount = res.MatchedAmount.Add(inv.Outstanding)
		}
	}

	return res, nil
}

// MatchByAmount returns the single open sales invoice whose grand total
// equals the amount, or not-found when zero or several qualify.
func (m *Matcher) MatchByAmount(amount decimal.Decimal) (string, bool, error) {
	invoices, err := m.ledger.OpenSalesInvoicesByTotal(amount)
	if err != nil {
		return "", false, fmt.Errorf("listing sales invoices by total: %w", err)
	}
	if len(invoices) != 1 {
		return "", false, nil
	}
	return invoices[0].ID, true, nil
}

// MatchByComment returns the single open sales invoice whose identifier
// occurs in the comment, or not-found when zero or several do.
func (m *Matcher) MatchByComment(comment string) (string, bool, error) {
	invoices, err := m.ledger.OpenSalesInvoices("")
	if err != nil {
		return "", false, fmt.Errorf("listing sales invoices: %w", err)
	}
	var hits []string
	for _, inv := range invoices {
		if strings.Contains(comment, inv.ID) {
			hits = append(hits, inv.ID)
		}
	}
	if len(hits) != 1 {
		return "", false, nil
	}
	return hits[0], true, nil
}
