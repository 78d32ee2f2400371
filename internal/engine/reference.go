// Package engine extracts normalized transactions from parsed CAMT.053
// statements and matches them against open ledger documents.
package engine

import (
	"crypto/md5" //nolint:gosec // identifier derivation, not security
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/camt"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// strategy is one attempt at extracting a field value.
type strategy func() (string, bool)

// firstOf applies strategies in order and returns the first hit.
func firstOf(strategies ...strategy) (string, bool) {
	for _, s := range strategies {
		if v, ok := s(); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ContentHash returns the stable hash identifier for the given parts.
// Identical parts always hash identically; this is the terminal fallback
// of both reference chains and can collide when date, amount and name
// all coincide across distinct feeds. Known limitation, not corrected.
func ContentHash(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, "|"))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// entryContext carries the entry-level values a sub-transaction falls
// back to.
type entryContext struct {
	Date              string
	Amount            decimal.Decimal
	Currency          string
	ServiceRef        string // entry-level account service reference
	Ordinal           int    // 1-based position of the sub-transaction
	EntryDirection    model.CreditDebit
	HasEntryDirection bool
}

// uniqueReference derives the stable identifier for one sub-transaction.
// Fallback order: end-to-end ID, transaction ID, payment information ID,
// "<service ref>-<ordinal>", content hash of date|amount|name.
func uniqueReference(d camt.Detail, ctx entryContext) string {
	ref, ok := firstOf(
		d.EndToEndID,
		d.TransactionID,
		d.PaymentInformationID,
		func() (string, bool) {
			if ctx.ServiceRef == "" {
				return "", false
			}
			return fmt.Sprintf("%s-%d", ctx.ServiceRef, ctx.Ordinal), true
		},
	)
	if ok {
		return ref
	}
	amount, _ := resolveAmount(d, ctx)
	return ContentHash(ctx.Date, amount.String(), d.PartyNameHint())
}

// entryUniqueReference derives the identifier for an entry that carries
// no sub-transactions. Fallback order: account service reference,
// transaction ID, payment information ID, content hash of
// date|currency|amount.
func entryUniqueReference(e camt.Entry, ctx entryContext) string {
	ref, ok := firstOf(
		func() (string, bool) { return ctx.ServiceRef, ctx.ServiceRef != "" },
		e.TransactionID,
		e.PaymentInformationID,
	)
	if ok {
		return ref
	}
	return ContentHash(ctx.Date, ctx.Currency, ctx.Amount.String())
}

// transactionReference derives the free text searched against ledger
// documents. Fallback order: structured creditor reference (ESR),
// unstructured remittance text, end-to-end ID, additional transaction
// info; defaults to the unique reference when nothing better exists.
func transactionReference(d camt.Detail, uniqueRef string) string {
	ref, ok := firstOf(
		d.CreditorReference,
		d.UnstructuredRemittance,
		d.AnyEndToEndID,
		d.AdditionalInfo,
	)
	if !ok {
		return uniqueRef
	}
	return ref
}

// resolveAmount returns the sub-transaction amount and currency, falling
// back to the entry-level values: TxAmt, plain Amt, then entry amount.
func resolveAmount(d camt.Detail, ctx entryContext) (decimal.Decimal, string) {
	if amt, ccy, ok := d.TxAmount(); ok {
		return amt, ccy
	}
	if amt, ccy, ok := d.Amount(); ok {
		return amt, ccy
	}
	return ctx.Amount, ctx.Currency
}

// resolveDirection returns the sub-transaction credit/debit indicator,
// falling back to the entry-level one.
func resolveDirection(d camt.Detail, ctx entryContext) model.CreditDebit {
	if dir, ok := d.CreditDebit(); ok {
		return dir
	}
	if ctx.HasEntryDirection {
		return ctx.EntryDirection
	}
	return model.Credit
}
