package posting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

func validPosting() *model.PaymentPosting {
	return &model.PaymentPosting{
		Type:        model.PaymentReceive,
		ReferenceNo: "E2E-1",
		Amount:      dec("150.00"),
		Unallocated: dec("50.00"),
		Allocations: []model.Allocation{{
			DocType: model.DocTypeSalesInvoice, DocName: "SINV-1",
			Total: dec("100.00"), Outstanding: dec("100.00"), Allocated: dec("100.00"),
		}},
	}
}

func TestValidate_Clean(t *testing.T) {
	assert.Empty(t, Validate(validPosting()))
}

func TestValidate_MissingReference(t *testing.T) {
	p := validPosting()
	p.ReferenceNo = ""

	errs := Validate(p)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Invariant)
}

func TestValidate_NegativeAllocation(t *testing.T) {
	p := validPosting()
	p.Allocations[0].Allocated = dec("-10.00")
	p.Unallocated = dec("160.00")

	errs := Validate(p)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Invariant)
}

func TestValidate_AllocationExceedsOutstanding(t *testing.T) {
	p := validPosting()
	p.Allocations[0].Allocated = dec("120.00")
	p.Unallocated = dec("30.00")

	errs := Validate(p)
	require.Len(t, errs, 1)
	assert.Equal(t, 2, errs[0].Invariant)
}

func TestValidate_AllocationsExceedAmount(t *testing.T) {
	p := validPosting()
	p.Amount = dec("80.00")
	p.Unallocated = dec("-20.00")

	errs := Validate(p)
	invariants := make([]int, 0, len(errs))
	for _, e := range errs {
		invariants = append(invariants, e.Invariant)
	}
	assert.Contains(t, invariants, 3)
	assert.Contains(t, invariants, 4, "negative unallocated balance is also flagged")
}

func TestValidate_UnallocatedMismatch(t *testing.T) {
	p := validPosting()
	p.Unallocated = dec("49.00")

	errs := Validate(p)
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Invariant)
}

func TestValidate_InternalTransferWithAllocations(t *testing.T) {
	p := validPosting()
	p.Type = model.PaymentInternalTransfer

	errs := Validate(p)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Invariant)
}

func TestValidationError_Message(t *testing.T) {
	err := ValidationError{Invariant: 4, ReferenceNo: "E2E-1", Description: "mismatch"}
	assert.Equal(t, "invariant 4 [E2E-1]: mismatch", err.Error())
}
