package engine

import (
	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/camt"
	"github.com/bankwizard-dev/bankwizard/internal/id"
	"github.com/bankwizard-dev/bankwizard/internal/ledger"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Duplicate reports a transaction skipped because its unique reference
// was already posted.
type Duplicate struct {
	UniqueReference string `json:"unique_reference"`
	ExistingPosting string `json:"existing_posting"`
}

// Result is the outcome of one statement pass.
type Result struct {
	Transactions []model.ParsedTransaction `json:"transactions"`
	Duplicates   []Duplicate               `json:"duplicates,omitempty"`
}

// Assembler turns statement entries into parsed transaction records. One
// Assembler handles one statement pass at a time; independent statements
// use independent invocations.
type Assembler struct {
	ledger  ledger.Reader
	matcher *Matcher
}

// NewAssembler creates an Assembler over the given ledger.
func NewAssembler(l ledger.Reader) *Assembler {
	return &Assembler{ledger: l, matcher: NewMatcher(l)}
}

// ReadStatement parses raw CAMT.053 content and assembles its
// transactions. No single transaction's failure aborts the rest: ledger
// lookup errors degrade that transaction to an unmatched record.
func (a *Assembler) ReadStatement(content []byte) Result {
	var res Result
	seq := 0
	for _, entry := range camt.ReadEntries(content) {
		a.assembleEntry(entry, &res, &seq)
	}
	return res
}

func (a *Assembler) assembleEntry(entry camt.Entry, res *Result, seq *int) {
	ctx := entryContext{
		Date:       entry.BookingDate(),
		ServiceRef: entry.AccountServiceReference(),
	}
	ctx.Amount, ctx.Currency, _ = entry.Amount()
	ctx.EntryDirection, ctx.HasEntryDirection = entry.CreditDebit()

	details := entry.Details()
	if len(details) == 0 {
		a.assembleBareEntry(entry, ctx, res, seq)
		return
	}

	for i, d := range details {
		ctx.Ordinal = i + 1
		uniqueRef := uniqueReference(d, ctx)

		// Dedup before any matching work.
		if existing, found, err := a.ledger.PaymentByReference(uniqueRef); err == nil && found {
			res.Duplicates = append(res.Duplicates, Duplicate{UniqueReference: uniqueRef, ExistingPosting: existing})
			continue
		}

		dir := resolveDirection(d, ctx)
		amount, currency := resolveAmount(d, ctx)
		party := resolveParty(d, dir)
		txnRef := transactionReference(d, uniqueRef)

		match, err := a.matcher.Match(txnRef, dir, party.Name)
		if err != nil {
			// Degrade to unmatched rather than dropping the movement.
			match = MatchResult{}
		}

		res.Transactions = append(res.Transactions, newRecord(recordParams{
			Seq:       *seq,
			Date:      ctx.Date,
			Currency:  currency,
			Amount:    amount,
			Direction: dir,
			Party:     party,
			UniqueRef: uniqueRef,
			TxnRef:    txnRef,
			Match:     match,
		}))
		*seq++
	}
}

// assembleBareEntry handles entries without sub-transactions, typical
// for movements originating from a pain.001 payment instruction. The
// instruction identifier leads back to a planned-payment line; when that
// trail goes cold the record degrades to the unknown placeholder rather
// than failing.
func (a *Assembler) assembleBareEntry(entry camt.Entry, ctx entryContext, res *Result, seq *int) {
	uniqueRef := entryUniqueReference(entry, ctx)

	if existing, found, err := a.ledger.PaymentByReference(uniqueRef); err == nil && found {
		res.Duplicates = append(res.Duplicates, Duplicate{UniqueReference: uniqueRef, ExistingPosting: existing})
		return
	}

	dir := ctx.EntryDirection
	if !ctx.HasEntryDirection {
		dir = model.Credit
	}

	if planned, ok := a.lookupPlannedPayment(entry); ok {
		partyMatch := ""
		if supplier, found, err := a.ledger.SupplierByName(planned.Receiver); err == nil && found {
			partyMatch = supplier
		}

		var invoiceMatches []string
		matchedAmount := decimal.Zero
		if total, outstanding, found, err := a.ledger.DocumentAmounts(model.DocTypePurchaseInvoice, planned.Reference); err == nil && found && outstanding.IsPositive() {
			invoiceMatches = []string{planned.Reference}
			matchedAmount = total
		}

		res.Transactions = append(res.Transactions, newRecord(recordParams{
			Seq:       *seq,
			Date:      ctx.Date,
			Currency:  ctx.Currency,
			Amount:    ctx.Amount,
			Direction: dir,
			Party: Party{
				Name:    planned.Receiver,
				Address: planned.AddressLine1 + ", " + planned.AddressLine2,
				IBAN:    planned.IBAN,
			},
			UniqueRef: uniqueRef,
			TxnRef:    planned.Reference,
			Match: MatchResult{
				PartyMatch:     partyMatch,
				InvoiceMatches: invoiceMatches,
				MatchedAmount:  matchedAmount,
			},
		}))
		*seq++
		return
	}

	// Terminal fallback: no instruction, or no planned-payment line.
	res.Transactions = append(res.Transactions, newRecord(recordParams{
		Seq:       *seq,
		Date:      ctx.Date,
		Currency:  ctx.Currency,
		Amount:    ctx.Amount,
		Direction: dir,
		Party:     Party{Name: model.Unknown, Address: model.Unknown, IBAN: model.Unknown},
		UniqueRef: uniqueRef,
		TxnRef:    uniqueRef,
	}))
	*seq++
}

// lookupPlannedPayment resolves the entry's payment instruction ID
// ("PMTINF-<proposal>-<row>") to its planned-payment line. The exporter
// writes zero-based rows; proposal lines are one-based.
func (a *Assembler) lookupPlannedPayment(entry camt.Entry) (model.PlannedPayment, bool) {
	instruction, ok := entry.PaymentInformationID()
	if !ok {
		return model.PlannedPayment{}, false
	}
	proposalID, row, err := id.ParseInstructionID(instruction)
	if err != nil {
		return model.PlannedPayment{}, false
	}
	planned, found, err := a.ledger.PlannedPayment(proposalID, row+1)
	if err != nil || !found {
		return model.PlannedPayment{}, false
	}
	return planned, true
}

type recordParams struct {
	Seq       int
	Date      string
	Currency  string
	Amount    decimal.Decimal
	Direction model.CreditDebit
	Party     Party
	UniqueRef string
	TxnRef    string
	Match     MatchResult
}

// newRecord builds the immutable output record, normalizing empty match
// collections to nil and the amount to its positive magnitude.
func newRecord(p recordParams) model.ParsedTransaction {
	invoices := p.Match.InvoiceMatches
	if len(invoices) == 0 {
		invoices = nil
	}
	expenses := p.Match.ExpenseMatches
	if len(expenses) == 0 {
		expenses = nil
	}
	return model.ParsedTransaction{
		Seq:                  p.Seq,
		Date:                 p.Date,
		Currency:             p.Currency,
		Amount:               p.Amount.Abs(),
		CreditDebit:          p.Direction,
		PartyName:            p.Party.Name,
		PartyAddress:         p.Party.Address,
		PartyIBAN:            p.Party.IBAN,
		UniqueReference:      p.UniqueRef,
		TransactionReference: p.TxnRef,
		PartyMatch:           p.Match.PartyMatch,
		InvoiceMatches:       invoices,
		ExpenseMatches:       expenses,
		MatchedAmount:        p.Match.MatchedAmount,
		EmployeeMatch:        p.Match.EmployeeMatch,
	}
}
