package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Ledger directory file names.
const (
	suppliersFile        = "suppliers.csv"
	customersFile        = "customers.csv"
	employeesFile        = "employees.csv"
	salesInvoicesFile    = "sales_invoices.csv"
	purchaseInvoicesFile = "purchase_invoices.csv"
	expenseClaimsFile    = "expense_claims.csv"
	accountsFile         = "accounts.csv"
	companiesFile        = "companies.csv"
	plannedPaymentsFile  = "planned_payments.csv"
	paymentsFile         = "payments.csv"
	allocationsFile      = "allocations.csv"
)

// CSV headers, one per ledger file.
const (
	suppliersHeader        = "id,supplier_name,disabled"
	customersHeader        = "id,customer_name,disabled"
	employeesHeader        = "id,employee_name,status"
	salesInvoicesHeader    = "id,customer,docstatus,status,grand_total,outstanding_amount"
	purchaseInvoicesHeader = "id,supplier,bill_no,docstatus,grand_total,outstanding_amount"
	expenseClaimsHeader    = "id,employee,docstatus,status,total_claimed_amount"
	accountsHeader         = "name,type,number,company,is_group,disabled"
	companiesHeader        = "name,default_payable_account,default_receivable_account"
	plannedPaymentsHeader  = "proposal,row,receiver,address_line1,address_line2,iban,reference"
	paymentsHeader         = "id,reference_no,date,type,party_type,party,paid_from,paid_to,amount,currency,exchange_rate,unallocated,submitted,remarks"
	allocationsHeader      = "posting_id,doc_type,doc_name,total,outstanding,allocated"
)

// Load reads a ledger directory into an in-memory Service. Every file is
// optional; a missing file contributes no documents.
func Load(dir string) (*Service, error) {
	s := NewService()

	if err := loadFile(dir, suppliersFile, suppliersHeader, func(rec []string) error {
		s.AddSuppliers(Supplier{ID: rec[0], SupplierName: rec[1], Disabled: rec[2] == "1"})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, customersFile, customersHeader, func(rec []string) error {
		s.AddCustomers(Customer{ID: rec[0], CustomerName: rec[1], Disabled: rec[2] == "1"})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, employeesFile, employeesHeader, func(rec []string) error {
		s.AddEmployees(Employee{ID: rec[0], EmployeeName: rec[1], Status: rec[2]})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, salesInvoicesFile, salesInvoicesHeader, func(rec []string) error {
		docstatus, err := strconv.Atoi(rec[2])
		if err != nil {
			return fmt.Errorf("parsing docstatus %q: %w", rec[2], err)
		}
		total, err := decimal.NewFromString(rec[4])
		if err != nil {
			return fmt.Errorf("parsing grand_total %q: %w", rec[4], err)
		}
		outstanding, err := decimal.NewFromString(rec[5])
		if err != nil {
			return fmt.Errorf("parsing outstanding_amount %q: %w", rec[5], err)
		}
		s.AddSalesInvoices(SalesInvoice{
			ID: rec[0], Customer: rec[1], DocStatus: docstatus, Status: rec[3],
			GrandTotal: total, Outstanding: outstanding,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, purchaseInvoicesFile, purchaseInvoicesHeader, func(rec []string) error {
		docstatus, err := strconv.Atoi(rec[3])
		if err != nil {
			return fmt.Errorf("parsing docstatus %q: %w", rec[3], err)
		}
		total, err := decimal.NewFromString(rec[4])
		if err != nil {
			return fmt.Errorf("parsing grand_total %q: %w", rec[4], err)
		}
		outstanding, err := decimal.NewFromString(rec[5])
		if err != nil {
			return fmt.Errorf("parsing outstanding_amount %q: %w", rec[5], err)
		}
		s.AddPurchaseInvoices(PurchaseInvoice{
			ID: rec[0], Supplier: rec[1], BillNo: rec[2], DocStatus: docstatus,
			GrandTotal: total, Outstanding: outstanding,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, expenseClaimsFile, expenseClaimsHeader, func(rec []string) error {
		docstatus, err := strconv.Atoi(rec[2])
		if err != nil {
			return fmt.Errorf("parsing docstatus %q: %w", rec[2], err)
		}
		total, err := decimal.NewFromString(rec[4])
		if err != nil {
			return fmt.Errorf("parsing total_claimed_amount %q: %w", rec[4], err)
		}
		s.AddExpenseClaims(ExpenseClaim{
			ID: rec[0], Employee: rec[1], DocStatus: docstatus, Status: rec[3],
			TotalClaimed: total,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, accountsFile, accountsHeader, func(rec []string) error {
		s.AddAccounts(Account{
			Name: rec[0], Type: rec[1], Number: rec[2], Company: rec[3],
			IsGroup: rec[4] == "1", Disabled: rec[5] == "1",
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, companiesFile, companiesHeader, func(rec []string) error {
		s.AddCompany(Company{Name: rec[0], PayableAccount: rec[1], ReceivableAccount: rec[2]})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := loadFile(dir, plannedPaymentsFile, plannedPaymentsHeader, func(rec []string) error {
		row, err := strconv.Atoi(rec[1])
		if err != nil {
			return fmt.Errorf("parsing row %q: %w", rec[1], err)
		}
		s.AddPlannedPayments(model.PlannedPayment{
			ProposalID: rec[0], Row: row, Receiver: rec[2],
			AddressLine1: rec[3], AddressLine2: rec[4], IBAN: rec[5], Reference: rec[6],
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := s.loadPayments(dir); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Service) loadPayments(dir string) error {
	allocations := make(map[string][]model.Allocation)
	if err := loadFile(dir, allocationsFile, allocationsHeader, func(rec []string) error {
		total, err := decimal.NewFromString(rec[3])
		if err != nil {
			return fmt.Errorf("parsing total %q: %w", rec[3], err)
		}
		outstanding, err := decimal.NewFromString(rec[4])
		if err != nil {
			return fmt.Errorf("parsing outstanding %q: %w", rec[4], err)
		}
		allocated, err := decimal.NewFromString(rec[5])
		if err != nil {
			return fmt.Errorf("parsing allocated %q: %w", rec[5], err)
		}
		allocations[rec[0]] = append(allocations[rec[0]], model.Allocation{
			DocType: rec[1], DocName: rec[2],
			Total: total, Outstanding: outstanding, Allocated: allocated,
		})
		return nil
	}); err != nil {
		return err
	}

	return loadFile(dir, paymentsFile, paymentsHeader, func(rec []string) error {
		amount, err := decimal.NewFromString(rec[8])
		if err != nil {
			return fmt.Errorf("parsing amount %q: %w", rec[8], err)
		}
		rate, err := decimal.NewFromString(rec[10])
		if err != nil {
			return fmt.Errorf("parsing exchange_rate %q: %w", rec[10], err)
		}
		unallocated, err := decimal.NewFromString(rec[11])
		if err != nil {
			return fmt.Errorf("parsing unallocated %q: %w", rec[11], err)
		}
		p := &model.PaymentPosting{
			ID: rec[0], ReferenceNo: rec[1], Date: rec[2],
			Type: model.PaymentType(rec[3]), PartyType: model.PartyType(rec[4]), Party: rec[5],
			PaidFrom: rec[6], PaidTo: rec[7],
			Amount: amount, Currency: rec[9], ExchangeRate: rate,
			Unallocated: unallocated, Submitted: rec[12] == "1", Remarks: rec[13],
			Allocations: allocations[rec[0]],
		}
		_, err = s.InsertPosting(p)
		return err
	})
}

// SavePayments writes the payment log and its allocations back to the
// ledger directory.
func (s *Service) SavePayments(dir string) error {
	s.mu.Lock()
	postings := make([]*model.PaymentPosting, 0, len(s.postings))
	for _, p := range s.postings {
		postings = append(postings, p)
	}
	s.mu.Unlock()
	sort.Slice(postings, func(i, j int) bool { return postings[i].ID < postings[j].ID })

	var paymentRows, allocationRows [][]string
	for _, p := range postings {
		submitted := "0"
		if p.Submitted {
			submitted = "1"
		}
		paymentRows = append(paymentRows, []string{
			p.ID, p.ReferenceNo, p.Date, string(p.Type), string(p.PartyType), p.Party,
			p.PaidFrom, p.PaidTo, p.Amount.StringFixed(2), p.Currency,
			p.ExchangeRate.String(), p.Unallocated.StringFixed(2), submitted, p.Remarks,
		})
		for _, a := range p.Allocations {
			allocationRows = append(allocationRows, []string{
				p.ID, a.DocType, a.DocName,
				a.Total.StringFixed(2), a.Outstanding.StringFixed(2), a.Allocated.StringFixed(2),
			})
		}
	}

	if err := writeFile(dir, paymentsFile, paymentsHeader, paymentRows); err != nil {
		return err
	}
	return writeFile(dir, allocationsFile, allocationsHeader, allocationRows)
}

// loadFile reads one CSV file, calling unmarshal per data row. A missing
// file is not an error.
func loadFile(dir, name, header string, unmarshal func([]string) error) error {
	f, err := os.Open(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = len(strings.Split(header, ","))

	records, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if len(records) <= 1 {
		return nil
	}
	for i, rec := range records[1:] {
		if err := unmarshal(rec); err != nil {
			return fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

func writeFile(dir, name, header string, rows [][]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing %s header: %w", name, err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", name, i+2, err)
		}
	}
	return cw.Error()
}
