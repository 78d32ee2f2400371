package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

func TestResolveParty_StructuredAddress(t *testing.T) {
	d := detailFrom(t, `
		<RltdPties>
		  <Dbtr>
		    <Nm>Muster AG</Nm>
		    <PstlAdr>
		      <StrtNm>Musterstrasse</StrtNm>
		      <BldgNb>12</BldgNb>
		      <PstCd>8000</PstCd>
		      <TwnNm>Zürich</TwnNm>
		      <Ctry>CH</Ctry>
		    </PstlAdr>
		  </Dbtr>
		</RltdPties>
		<RltdPties><DbtrAcct><Id><IBAN>CH9300762011623852957</IBAN></Id></DbtrAcct></RltdPties>`)

	p := resolveParty(d, model.Credit)
	assert.Equal(t, "Muster AG", p.Name)
	assert.Equal(t, "Musterstrasse 12, 8000 Zürich, CH", p.Address)
	assert.Equal(t, "CH9300762011623852957", p.IBAN)
}

func TestResolveParty_StructuredAddressWithoutBuilding(t *testing.T) {
	d := detailFrom(t, `
		<RltdPties>
		  <Dbtr>
		    <Nm>Muster AG</Nm>
		    <PstlAdr><StrtNm>Musterstrasse</StrtNm><TwnNm>Zürich</TwnNm><Ctry>CH</Ctry></PstlAdr>
		  </Dbtr>
		</RltdPties>`)

	p := resolveParty(d, model.Credit)
	assert.Equal(t, "Musterstrasse, Zürich, CH", p.Address)
}

func TestResolveParty_AddressLinePair(t *testing.T) {
	d := detailFrom(t, `
		<RltdPties>
		  <Dbtr>
		    <Nm>Muster AG</Nm>
		    <PstlAdr>
		      <AdrLine>Musterstrasse 12</AdrLine>
		      <AdrLine>8000 Zürich</AdrLine>
		      <Ctry>CH</Ctry>
		    </PstlAdr>
		  </Dbtr>
		</RltdPties>`)

	p := resolveParty(d, model.Credit)
	assert.Equal(t, "Muster AG", p.Name)
	assert.Equal(t, "Musterstrasse 12, 8000 Zürich, CH", p.Address)
}

func TestResolveParty_NamelessDialect(t *testing.T) {
	// Some banks omit Nm entirely; the first address line carries the
	// party name.
	d := detailFrom(t, `
		<RltdPties>
		  <Dbtr>
		    <PstlAdr>
		      <AdrLine>Muster AG</AdrLine>
		      <AdrLine>8000 Zürich</AdrLine>
		      <Ctry>CH</Ctry>
		    </PstlAdr>
		  </Dbtr>
		</RltdPties>`)

	p := resolveParty(d, model.Credit)
	assert.Equal(t, "Muster AG", p.Name)
	assert.Equal(t, "CH", p.Address)
}

func TestResolveParty_AbsentSection(t *testing.T) {
	d := detailFrom(t, "<Refs><TxId>TX-1</TxId></Refs>")

	p := resolveParty(d, model.Debit)
	assert.Empty(t, p.Name)
	assert.Empty(t, p.Address)
	assert.Empty(t, p.IBAN)
}

func TestResolveParty_DebitReadsCreditorSide(t *testing.T) {
	d := detailFrom(t, `
		<RltdPties>
		  <Dbtr><Nm>Us</Nm></Dbtr>
		  <Cdtr><Nm>Lieferant GmbH</Nm></Cdtr>
		</RltdPties>
		<CdtrAcct><Id><IBAN>DE89370400440532013000</IBAN></Id></CdtrAcct>`)

	p := resolveParty(d, model.Debit)
	assert.Equal(t, "Lieferant GmbH", p.Name)
	assert.Equal(t, "DE89370400440532013000", p.IBAN)
}
