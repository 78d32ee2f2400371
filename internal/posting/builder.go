// Package posting builds confirmed payment postings and their document
// allocations against the ledger.
package posting

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/ledger"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Params holds the inputs for building one payment posting. Matches
// lists the matched document identifiers in allocation order.
type Params struct {
	Type         model.PaymentType
	PartyType    model.PartyType
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
	Matches      []string
	AutoSubmit   bool
}

// Builder creates payment postings with their allocations.
type Builder struct {
	ledger ledger.Ledger
}

// NewBuilder creates a Builder over the given ledger.
func NewBuilder(l ledger.Ledger) *Builder {
	return &Builder{ledger: l}
}

// Build inserts one posting and, in order, one allocation per matched
// document. Total and outstanding amounts are read fresh from the
// document's current state; each allocation takes
// min(remaining posting amount, document outstanding) and decrements the
// posting's unallocated balance immediately. A missing payment type or
// an unknown document reference is fatal for this posting. Matched
// documents are verified before the posting is inserted, so a failed
// build does not register the reference number and a corrected retry is
// not rejected as a duplicate.
func (b *Builder) Build(p Params) (*model.PaymentPosting, error) {
	if p.Type == "" {
		return nil, errors.New("no payment type specified")
	}

	refType, err := referenceDocType(p.Type, p.PartyType)
	if err != nil {
		return nil, err
	}

	if p.Type != model.PaymentInternalTransfer {
		for _, docName := range p.Matches {
			_, _, found, err := b.ledger.DocumentAmounts(refType, docName)
			if err != nil {
				return nil, fmt.Errorf("reading %s %s: %w", refType, docName, err)
			}
			if !found {
				return nil, fmt.Errorf("unknown %s %q", refType, docName)
			}
		}
	}

	rate := p.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	posting := &model.PaymentPosting{
		Type:         p.Type,
		PartyType:    p.PartyType,
		Party:        p.Party,
		PaidFrom:     p.PaidFrom,
		PaidTo:       p.PaidTo,
		Amount:       p.Amount,
		Currency:     p.Currency,
		ExchangeRate: rate,
		ReferenceNo:  p.ReferenceNo,
		Date:         p.Date,
		Remarks:      p.Remarks,
		Company:      p.Company,
		Unallocated:  p.Amount,
	}

	// Employee payments settle against the company's payable account,
	// overriding any caller-supplied destination.
	if p.PartyType == model.PartyEmployee {
		payable, _, err := b.ledger.CompanyAccounts(p.Company)
		if err != nil {
			return nil, fmt.Errorf("resolving payable account: %w", err)
		}
		if payable != "" {
			posting.PaidTo = payable
		}
	}

	postingID, err := b.ledger.InsertPosting(posting)
	if err != nil {
		return nil, fmt.Errorf("inserting posting: %w", err)
	}

	if p.Type != model.PaymentInternalTransfer {
		remaining := p.Amount
		var allocs []model.Allocation
		for _, docName := range p.Matches {
			alloc, err := b.allocate(postingID, refType, docName, remaining)
			if err != nil {
				return nil, err
			}
			remaining = remaining.Sub(alloc.Allocated)
			allocs = append(allocs, alloc)
		}
		// The ledger mutated its stored copy allocation by allocation;
		// settle the returned posting to the same final state.
		posting.Unallocated = remaining
		posting.Allocations = allocs
	}

	if verrs := Validate(posting); len(verrs) > 0 {
		return nil, fmt.Errorf("posting %s failed validation: %v", postingID, verrs[0])
	}

	if p.AutoSubmit {
		if err := b.ledger.SubmitPosting(postingID); err != nil {
			return nil, fmt.Errorf("submitting posting: %w", err)
		}
		posting.Submitted = true
	}

	return posting, nil
}

func (b *Builder) allocate(postingID, refType, docName string, remaining decimal.Decimal) (model.Allocation, error) {
	total, outstanding, found, err := b.ledger.DocumentAmounts(refType, docName)
	if err != nil {
		return model.Allocation{}, fmt.Errorf("reading %s %s: %w", refType, docName, err)
	}
	if !found {
		return model.Allocation{}, fmt.Errorf("unknown %s %q", refType, docName)
	}

	allocated := decimal.Min(remaining, outstanding)
	if allocated.IsNegative() {
		allocated = decimal.Zero
	}

	alloc := model.Allocation{
		DocType:     refType,
		DocName:     docName,
		Total:       total,
		Outstanding: outstanding,
		Allocated:   allocated,
	}
	if err := b.ledger.InsertAllocation(postingID, alloc); err != nil {
		return model.Allocation{}, fmt.Errorf("inserting allocation for %s: %w", docName, err)
	}
	if err := b.ledger.ReduceUnallocated(postingID, allocated); err != nil {
		return model.Allocation{}, fmt.Errorf("updating unallocated balance: %w", err)
	}
	return alloc, nil
}

// referenceDocType returns the document type allocations reference:
// sales invoices for Receive, purchase invoices for Pay (expense claims
// when paying an employee), none for internal transfers.
func referenceDocType(paymentType model.PaymentType, partyType model.PartyType) (string, error) {
	switch paymentType {
	case model.PaymentReceive:
		return model.DocTypeSalesInvoice, nil
	case model.PaymentPay:
		if partyType == model.PartyEmployee {
			return model.DocTypeExpenseClaim, nil
		}
		return model.DocTypePurchaseInvoice, nil
	case model.PaymentInternalTransfer:
		return "", nil
	default:
		return "", fmt.Errorf("unknown payment type %q", paymentType)
	}
}
