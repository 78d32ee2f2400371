package posting

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// ValidationError describes a single invariant violation on a posting.
type ValidationError struct {
	Invariant   int
	ReferenceNo string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.ReferenceNo, e.Description)
}

// Validate enforces the allocation invariants on a payment posting.
func Validate(p *model.PaymentPosting) []ValidationError {
	var errs []ValidationError

	// Invariant 1: a posting carries a reference number.
	if p.ReferenceNo == "" {
		errs = append(errs, ValidationError{
			Invariant:   1,
			ReferenceNo: p.ReferenceNo,
			Description: "posting has no reference number",
		})
	}

	// Invariant 2: allocations never go negative or exceed their
	// document's outstanding amount.
	allocated := decimal.Zero
	for _, a := range p.Allocations {
		if a.Allocated.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				ReferenceNo: p.ReferenceNo,
				Description: fmt.Sprintf("%s %s allocated %s is negative", a.DocType, a.DocName, a.Allocated.StringFixed(2)),
			})
		}
		if a.Allocated.GreaterThan(a.Outstanding) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				ReferenceNo: p.ReferenceNo,
				Description: fmt.Sprintf("%s %s allocated %s exceeds outstanding %s", a.DocType, a.DocName, a.Allocated.StringFixed(2), a.Outstanding.StringFixed(2)),
			})
		}
		allocated = allocated.Add(a.Allocated)
	}

	// Invariant 3: allocations never exceed the posting amount.
	if allocated.GreaterThan(p.Amount) {
		errs = append(errs, ValidationError{
			Invariant:   3,
			ReferenceNo: p.ReferenceNo,
			Description: fmt.Sprintf("allocated total %s exceeds posting amount %s", allocated.StringFixed(2), p.Amount.StringFixed(2)),
		})
	}

	// Invariant 4: the unallocated balance is the exact remainder and
	// never negative.
	if !p.Unallocated.Equal(p.Amount.Sub(allocated)) || p.Unallocated.IsNegative() {
		errs = append(errs, ValidationError{
			Invariant:   4,
			ReferenceNo: p.ReferenceNo,
			Description: fmt.Sprintf("unallocated %s != amount %s - allocated %s", p.Unallocated.StringFixed(2), p.Amount.StringFixed(2), allocated.StringFixed(2)),
		})
	}

	// Invariant 5: internal transfers carry no allocations.
	if p.Type == model.PaymentInternalTransfer && len(p.Allocations) > 0 {
		errs = append(errs, ValidationError{
			Invariant:   5,
			ReferenceNo: p.ReferenceNo,
			Description: "internal transfer must not allocate documents",
		})
	}

	return errs
}
