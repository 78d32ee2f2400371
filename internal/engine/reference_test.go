package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankwizard-dev/bankwizard/internal/camt"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// detailFrom parses a single-detail statement fragment and returns its
// first sub-transaction.
func detailFrom(t *testing.T, body string) camt.Detail {
	t.Helper()
	doc := "<Document><Ntry><NtryDtls><TxDtls>" + body + "</TxDtls></NtryDtls></Ntry></Document>"
	entries := camt.ReadEntries([]byte(doc))
	require.Len(t, entries, 1)
	details := entries[0].Details()
	require.NotEmpty(t, details)
	return details[0]
}

func TestUniqueReference_FallbackOrder(t *testing.T) {
	ctx := entryContext{Date: "2024-03-01", ServiceRef: "ASR-7", Ordinal: 2}

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "end to end id wins",
			body: "<Refs><EndToEndId>E2E-1</EndToEndId><TxId>TX-1</TxId><PmtInfId>PI-1</PmtInfId></Refs>",
			want: "E2E-1",
		},
		{
			name: "transaction id second",
			body: "<Refs><TxId>TX-1</TxId><PmtInfId>PI-1</PmtInfId></Refs>",
			want: "TX-1",
		},
		{
			name: "payment information id third",
			body: "<Refs><PmtInfId>PI-1</PmtInfId></Refs>",
			want: "PI-1",
		},
		{
			name: "service reference with ordinal",
			body: "<Refs></Refs>",
			want: "ASR-7-2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := detailFrom(t, tt.body)
			assert.Equal(t, tt.want, uniqueReference(d, ctx))
		})
	}
}

func TestUniqueReference_ContentHashFallback(t *testing.T) {
	ctx := entryContext{Date: "2024-03-01", Amount: dec("250.00"), Currency: "CHF"}
	d := detailFrom(t, "<RltdPties><Dbtr><Nm>Muster AG</Nm></Dbtr></RltdPties>")

	got := uniqueReference(d, ctx)
	assert.Equal(t, ContentHash("2024-03-01", dec("250.00").String(), "Muster AG"), got)

	// Same inputs always hash identically.
	assert.Equal(t, got, uniqueReference(d, ctx))
}

func TestContentHash(t *testing.T) {
	a := ContentHash("2024-03-01", "100", "Muster AG")
	assert.Len(t, a, 32)
	assert.Equal(t, a, ContentHash("2024-03-01", "100", "Muster AG"))

	// Every component participates.
	assert.NotEqual(t, a, ContentHash("2024-03-02", "100", "Muster AG"))
	assert.NotEqual(t, a, ContentHash("2024-03-01", "101", "Muster AG"))
	assert.NotEqual(t, a, ContentHash("2024-03-01", "100", "Beispiel GmbH"))
}

func TestEntryUniqueReference(t *testing.T) {
	parse := func(body string) camt.Entry {
		entries := camt.ReadEntries([]byte("<Document><Ntry>" + body + "</Ntry></Document>"))
		require.Len(t, entries, 1)
		return entries[0]
	}

	ctx := entryContext{Date: "2024-03-01", Amount: dec("99.50"), Currency: "CHF"}

	e := parse("<AcctSvcrRef>ASR-9</AcctSvcrRef><NtryRef><TxId>TX-1</TxId></NtryRef>")
	assert.Equal(t, "ASR-9", entryUniqueReference(e, entryContext{ServiceRef: "ASR-9"}))

	e = parse("<Refs><TxId>TX-1</TxId></Refs>")
	assert.Equal(t, "TX-1", entryUniqueReference(e, ctx))

	e = parse("<Refs><PmtInfId>PMTINF-PP-0042-3</PmtInfId></Refs>")
	assert.Equal(t, "PMTINF-PP-0042-3", entryUniqueReference(e, ctx))

	e = parse("<Sts>BOOK</Sts>")
	assert.Equal(t, ContentHash("2024-03-01", "CHF", dec("99.50").String()), entryUniqueReference(e, ctx))
}

func TestTransactionReference_FallbackOrder(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "structured creditor reference wins",
			body: "<RmtInf><Strd><CdtrRefInf><Ref>210000000003139471430009017</Ref></CdtrRefInf></Strd><Ustrd>free text</Ustrd></RmtInf>",
			want: "210000000003139471430009017",
		},
		{
			name: "unstructured remittance second",
			body: "<RmtInf><Ustrd>Payment for SINV-2024-00012</Ustrd></RmtInf><Refs><EndToEndId>E2E-1</EndToEndId></Refs>",
			want: "Payment for SINV-2024-00012",
		},
		{
			name: "end to end id third",
			body: "<Refs><EndToEndId>E2E-1</EndToEndId></Refs><AddtlTxInf>extra</AddtlTxInf>",
			want: "E2E-1",
		},
		{
			name: "additional info fourth",
			body: "<AddtlTxInf>Gebühren Q1</AddtlTxInf>",
			want: "Gebühren Q1",
		},
		{
			name: "unique reference as last resort",
			body: "<Sts>BOOK</Sts>",
			want: "fallback-ref",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := detailFrom(t, tt.body)
			assert.Equal(t, tt.want, transactionReference(d, "fallback-ref"))
		})
	}
}

func TestResolveAmount(t *testing.T) {
	ctx := entryContext{Amount: dec("250.00"), Currency: "CHF"}

	d := detailFrom(t, `<AmtDtls><TxAmt><Amt Ccy="EUR">100.00</Amt></TxAmt></AmtDtls>`)
	amt, ccy := resolveAmount(d, ctx)
	assert.True(t, amt.Equal(dec("100.00")))
	assert.Equal(t, "EUR", ccy)

	d = detailFrom(t, `<Amt Ccy="USD">42.00</Amt>`)
	amt, ccy = resolveAmount(d, ctx)
	assert.True(t, amt.Equal(dec("42.00")))
	assert.Equal(t, "USD", ccy)

	d = detailFrom(t, "<Sts>BOOK</Sts>")
	amt, ccy = resolveAmount(d, ctx)
	assert.True(t, amt.Equal(dec("250.00")))
	assert.Equal(t, "CHF", ccy)
}

func TestResolveDirection(t *testing.T) {
	d := detailFrom(t, "<CdtDbtInd>DBIT</CdtDbtInd>")
	assert.Equal(t, model.Debit, resolveDirection(d, entryContext{}))

	d = detailFrom(t, "<Sts>BOOK</Sts>")
	assert.Equal(t, model.Debit, resolveDirection(d, entryContext{EntryDirection: model.Debit, HasEntryDirection: true}))

	// Neither level carries an indicator.
	assert.Equal(t, model.Credit, resolveDirection(d, entryContext{}))
}
