package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankwizard-dev/bankwizard/internal/ledger"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestLedger() *ledger.Service {
	svc := ledger.NewService()
	svc.AddCustomers(ledger.Customer{ID: "CUST-0001", CustomerName: "Muster AG"})
	svc.AddSuppliers(ledger.Supplier{ID: "SUPP-0001", SupplierName: "Lieferant GmbH"})
	svc.AddEmployees(ledger.Employee{ID: "EMP-0001", EmployeeName: "Max Muster", Status: "Active"})
	svc.AddSalesInvoices(ledger.SalesInvoice{
		ID: "SINV-2024-00012", Customer: "CUST-0001", DocStatus: ledger.DocStatusSubmitted,
		Status: "Unpaid", GrandTotal: dec("1000.00"), Outstanding: dec("1000.00"),
	})
	svc.AddPurchaseInvoices(ledger.PurchaseInvoice{
		ID: "PINV-2024-00007", Supplier: "SUPP-0001", BillNo: "RE-778899",
		DocStatus: ledger.DocStatusSubmitted, GrandTotal: dec("540.00"), Outstanding: dec("540.00"),
	})
	svc.AddExpenseClaims(ledger.ExpenseClaim{
		ID: "EXP-2024-00003", Employee: "EMP-0001", DocStatus: ledger.DocStatusSubmitted,
		Status: "Unpaid", TotalClaimed: dec("85.00"),
	})
	return svc
}

func TestMatch_CreditInvoiceReference(t *testing.T) {
	m := NewMatcher(newTestLedger())

	res, err := m.Match("Payment for SINV-2024-00012", model.Credit, "Muster AG")
	require.NoError(t, err)

	assert.Equal(t, []string{"SINV-2024-00012"}, res.InvoiceMatches)
	assert.Equal(t, "CUST-0001", res.PartyMatch)
	assert.True(t, res.MatchedAmount.Equal(dec("1000.00")))
	assert.Nil(t, res.ExpenseMatches)
	assert.Empty(t, res.EmployeeMatch)
}

func TestMatch_CreditInvoiceOverridesNameLookup(t *testing.T) {
	// The invoice's own customer wins even when the statement name is
	// unknown to the ledger.
	m := NewMatcher(newTestLedger())

	res, err := m.Match("SINV-2024-00012", model.Credit, "Somebody Else")
	require.NoError(t, err)
	assert.Equal(t, "CUST-0001", res.PartyMatch)
}

func TestMatch_CreditNameOnly(t *testing.T) {
	m := NewMatcher(newTestLedger())

	res, err := m.Match("no references here", model.Credit, "Muster AG")
	require.NoError(t, err)

	assert.Equal(t, "CUST-0001", res.PartyMatch)
	assert.Nil(t, res.InvoiceMatches)
	assert.True(t, res.MatchedAmount.IsZero())
}

func TestMatch_DebitBillNumber(t *testing.T) {
	m := NewMatcher(newTestLedger())

	res, err := m.Match("Zahlung RE-778899 besten Dank", model.Debit, "Lieferant GmbH")
	require.NoError(t, err)

	assert.Equal(t, []string{"PINV-2024-00007"}, res.InvoiceMatches)
	assert.Equal(t, "SUPP-0001", res.PartyMatch)
	assert.True(t, res.MatchedAmount.Equal(dec("540.00")))
}

func TestMatch_DebitEmployeeTrackIsIndependent(t *testing.T) {
	m := NewMatcher(newTestLedger())

	// The reference hits both a purchase invoice and an expense claim;
	// both tracks report.
	res, err := m.Match("PINV-2024-00007 und EXP-2024-00003", model.Debit, "Max Muster")
	require.NoError(t, err)

	assert.Equal(t, []string{"PINV-2024-00007"}, res.InvoiceMatches)
	assert.Equal(t, []string{"EXP-2024-00003"}, res.ExpenseMatches)
	assert.Equal(t, "EMP-0001", res.EmployeeMatch)
	assert.True(t, res.MatchedAmount.Equal(dec("625.00")), "540.00 + 85.00")
}

func TestMatch_DebitUnknownParty(t *testing.T) {
	m := NewMatcher(newTestLedger())

	res, err := m.Match("nothing matches", model.Debit, "Unbekannt")
	require.NoError(t, err)

	assert.Empty(t, res.PartyMatch)
	assert.Empty(t, res.EmployeeMatch)
	assert.Nil(t, res.InvoiceMatches)
	assert.Nil(t, res.ExpenseMatches)
}

func TestMatchByAmount(t *testing.T) {
	svc := newTestLedger()
	m := NewMatcher(svc)

	id, found, err := m.MatchByAmount(dec("1000.00"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "SINV-2024-00012", id)

	_, found, err = m.MatchByAmount(dec("999.99"))
	require.NoError(t, err)
	assert.False(t, found)

	// A second invoice with the same total makes the match ambiguous.
	svc.AddSalesInvoices(ledger.SalesInvoice{
		ID: "SINV-2024-00013", Customer: "CUST-0001", DocStatus: ledger.DocStatusSubmitted,
		Status: "Unpaid", GrandTotal: dec("1000.00"), Outstanding: dec("1000.00"),
	})
	_, found, err = m.MatchByAmount(dec("1000.00"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMatchByComment(t *testing.T) {
	m := NewMatcher(newTestLedger())

	id, found, err := m.MatchByComment("siehe SINV-2024-00012")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "SINV-2024-00012", id)

	_, found, err = m.MatchByComment("no invoice mentioned")
	require.NoError(t, err)
	assert.False(t, found)
}
