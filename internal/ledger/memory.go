package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Service is an in-memory Ledger. All reads and writes go through one
// mutex, so the dedup check and posting insert for a reference number
// are serialized; the reference-number uniqueness check in InsertPosting
// is the authoritative guard against concurrent re-import.
type Service struct {
	mu sync.Mutex

	suppliers        []Supplier
	customers        []Customer
	employees        []Employee
	salesInvoices    []SalesInvoice
	purchaseInvoices []PurchaseInvoice
	expenseClaims    []ExpenseClaim
	accounts         []Account
	companies        map[string]Company
	plannedPayments  map[string]model.PlannedPayment

	postings    map[string]*model.PaymentPosting // by posting ID
	byReference map[string]string                // reference number -> posting ID
}

// NewService creates an empty in-memory ledger.
func NewService() *Service {
	return &Service{
		companies:       make(map[string]Company),
		plannedPayments: make(map[string]model.PlannedPayment),
		postings:        make(map[string]*model.PaymentPosting),
		byReference:     make(map[string]string),
	}
}

var _ Ledger = (*Service)(nil)

// AddSuppliers registers supplier master records.
func (s *Service) AddSuppliers(docs ...Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers = append(s.suppliers, docs...)
}

// AddCustomers registers customer master records.
func (s *Service) AddCustomers(docs ...Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, docs...)
}

// AddEmployees registers employee master records.
func (s *Service) AddEmployees(docs ...Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees = append(s.employees, docs...)
}

// AddSalesInvoices registers sales invoices.
func (s *Service) AddSalesInvoices(docs ...SalesInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salesInvoices = append(s.salesInvoices, docs...)
}

// AddPurchaseInvoices registers purchase invoices.
func (s *Service) AddPurchaseInvoices(docs ...PurchaseInvoice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchaseInvoices = append(s.purchaseInvoices, docs...)
}

// AddExpenseClaims registers expense claims.
func (s *Service) AddExpenseClaims(docs ...ExpenseClaim) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenseClaims = append(s.expenseClaims, docs...)
}

// AddAccounts registers ledger accounts.
func (s *Service) AddAccounts(docs ...Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = append(s.accounts, docs...)
}

// AddCompany registers a company's default accounts.
func (s *Service) AddCompany(c Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies[c.Name] = c
}

// AddPlannedPayments registers payment-proposal lines.
func (s *Service) AddPlannedPayments(docs ...model.PlannedPayment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.plannedPayments[plannedKey(d.ProposalID, d.Row)] = d
	}
}

func plannedKey(proposalID string, row int) string {
	return fmt.Sprintf("%s#%d", proposalID, row)
}

// PaymentByReference returns the posting carrying the reference number.
func (s *Service) PaymentByReference(ref string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byReference[ref]
	return id, ok, nil
}

// OpenPurchaseInvoices returns finalized purchase invoices with a
// positive outstanding amount, optionally scoped to one supplier.
func (s *Service) OpenPurchaseInvoices(supplier string) ([]model.MatchCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MatchCandidate
	for _, inv := range s.purchaseInvoices {
		if inv.DocStatus != DocStatusSubmitted || !inv.Outstanding.IsPositive() {
			continue
		}
		if supplier != "" && inv.Supplier != supplier {
			continue
		}
		out = append(out, model.MatchCandidate{
			ID:          inv.ID,
			Party:       inv.Supplier,
			Outstanding: inv.Outstanding,
			BillNo:      inv.BillNo,
		})
	}
	return out, nil
}

// OpenSalesInvoices returns sales invoices with a positive outstanding
// amount, optionally scoped to one customer.
func (s *Service) OpenSalesInvoices(customer string) ([]model.MatchCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MatchCandidate
	for _, inv := range s.salesInvoices {
		if !inv.Outstanding.IsPositive() {
			continue
		}
		if customer != "" && inv.Customer != customer {
			continue
		}
		out = append(out, model.MatchCandidate{
			ID:          inv.ID,
			Party:       inv.Customer,
			Outstanding: inv.Outstanding,
		})
	}
	return out, nil
}

// OpenSalesInvoicesByTotal returns unpaid, finalized sales invoices with
// the given grand total.
func (s *Service) OpenSalesInvoicesByTotal(total decimal.Decimal) ([]model.MatchCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MatchCandidate
	for _, inv := range s.salesInvoices {
		if inv.DocStatus != DocStatusSubmitted || inv.Status == "Paid" || !inv.GrandTotal.Equal(total) {
			continue
		}
		out = append(out, model.MatchCandidate{
			ID:          inv.ID,
			Party:       inv.Customer,
			Outstanding: inv.Outstanding,
		})
	}
	return out, nil
}

// OpenExpenseClaims returns finalized, unpaid expense claims.
func (s *Service) OpenExpenseClaims() ([]model.MatchCandidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.MatchCandidate
	for _, c := range s.expenseClaims {
		if c.DocStatus != DocStatusSubmitted || c.Status != "Unpaid" {
			continue
		}
		out = append(out, model.MatchCandidate{
			ID:          c.ID,
			Party:       c.Employee,
			Outstanding: c.TotalClaimed,
		})
	}
	return out, nil
}

// SupplierByName returns the first active supplier with the exact name.
func (s *Service) SupplierByName(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.suppliers {
		if !d.Disabled && d.SupplierName == name {
			return d.ID, true, nil
		}
	}
	return "", false, nil
}

// CustomerByName returns the first active customer with the exact name.
func (s *Service) CustomerByName(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.customers {
		if !d.Disabled && d.CustomerName == name {
			return d.ID, true, nil
		}
	}
	return "", false, nil
}

// EmployeeByName returns the first active employee with the exact name.
func (s *Service) EmployeeByName(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.employees {
		if strings.EqualFold(d.Status, "active") && d.EmployeeName == name {
			return d.ID, true, nil
		}
	}
	return "", false, nil
}

// DocumentAmounts returns the current total and outstanding amount of a
// document.
func (s *Service) DocumentAmounts(docType, name string) (decimal.Decimal, decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch docType {
	case model.DocTypeSalesInvoice:
		for _, inv := range s.salesInvoices {
			if inv.ID == name {
				return inv.GrandTotal, inv.Outstanding, true, nil
			}
		}
	case model.DocTypePurchaseInvoice:
		for _, inv := range s.purchaseInvoices {
			if inv.ID == name {
				return inv.GrandTotal, inv.Outstanding, true, nil
			}
		}
	case model.DocTypeExpenseClaim:
		// Claims carry no running outstanding amount; the claimed total
		// stands in for it.
		for _, c := range s.expenseClaims {
			if c.ID == name {
				return c.TotalClaimed, c.TotalClaimed, true, nil
			}
		}
	default:
		return decimal.Decimal{}, decimal.Decimal{}, false, fmt.Errorf("unknown document type %q", docType)
	}
	return decimal.Decimal{}, decimal.Decimal{}, false, nil
}

// CompanyAccounts returns a company's default payable and receivable
// accounts.
func (s *Service) CompanyAccounts(company string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.companies[company]
	if !ok {
		return "", "", fmt.Errorf("unknown company %q", company)
	}
	return c.PayableAccount, c.ReceivableAccount, nil
}

// BankAccounts returns enabled, non-group bank accounts ordered by
// account number.
func (s *Service) BankAccounts() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var banks []Account
	for _, a := range s.accounts {
		if a.Type == "Bank" && !a.IsGroup && !a.Disabled {
			banks = append(banks, a)
		}
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].Number < banks[j].Number })
	names := make([]string, len(banks))
	for i, a := range banks {
		names[i] = a.Name
	}
	return names, nil
}

// PlannedPayment returns the payment-proposal line at (proposal, row).
func (s *Service) PlannedPayment(proposalID string, row int) (model.PlannedPayment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plannedPayments[plannedKey(proposalID, row)]
	return p, ok, nil
}

// InsertPosting stores a posting, assigning its identifier. Duplicate
// reference numbers are rejected atomically.
func (s *Service) InsertPosting(p *model.PaymentPosting) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ReferenceNo == "" {
		return "", fmt.Errorf("posting has no reference number")
	}
	if existing, ok := s.byReference[p.ReferenceNo]; ok {
		return "", fmt.Errorf("reference %s already posted as %s", p.ReferenceNo, existing)
	}
	if p.ID == "" {
		p.ID = "PE-" + uuid.NewString()
	}
	s.postings[p.ID] = p
	s.byReference[p.ReferenceNo] = p.ID
	return p.ID, nil
}

// InsertAllocation appends an allocation to a stored posting.
func (s *Service) InsertAllocation(postingID string, a model.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.postings[postingID]
	if !ok {
		return fmt.Errorf("unknown posting %q", postingID)
	}
	p.Allocations = append(p.Allocations, a)
	return nil
}

// ReduceUnallocated decrements a posting's unallocated balance.
func (s *Service) ReduceUnallocated(postingID string, by decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.postings[postingID]
	if !ok {
		return fmt.Errorf("unknown posting %q", postingID)
	}
	next := p.Unallocated.Sub(by)
	if next.IsNegative() {
		return fmt.Errorf("posting %s unallocated balance would go negative", postingID)
	}
	p.Unallocated = next
	return nil
}

// SubmitPosting finalizes a stored posting.
func (s *Service) SubmitPosting(postingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.postings[postingID]
	if !ok {
		return fmt.Errorf("unknown posting %q", postingID)
	}
	p.Submitted = true
	return nil
}

// Posting returns a stored posting by identifier.
func (s *Service) Posting(postingID string) (*model.PaymentPosting, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.postings[postingID]
	return p, ok
}

// Postings returns all stored postings ordered by identifier.
func (s *Service) Postings() []*model.PaymentPosting {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.PaymentPosting, 0, len(s.postings))
	for _, p := range s.postings {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
