package engine

import (
	"fmt"
	"strings"

	"github.com/bankwizard-dev/bankwizard/internal/camt"
	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Party is the resolved counterparty of one transaction. All fields are
// empty when the statement carries no customer data for the movement,
// which is a valid state (e.g. inter-bank debits).
type Party struct {
	Name    string
	Address string
	IBAN    string
}

// resolveParty extracts the counterparty for the given direction. Debits
// read the creditor side (money went to this creditor), credits the
// debtor side. Address resolution tries structured street fields first,
// then a pair of generic address lines; banks that omit the name tag
// entirely get the first address line promoted to the name.
func resolveParty(d camt.Detail, dir model.CreditDebit) Party {
	node := d.Party(dir)
	if node == nil {
		return Party{}
	}

	var line1, line2 string
	name, hasName := node.FindText("Nm")
	switch {
	case hasName && node.Find("StrtNm") != nil:
		line1, line2 = structuredAddress(node)
	case hasName:
		lines := node.FindAll("AdrLine")
		if len(lines) == 2 {
			line1 = strings.TrimSpace(lines[0].Text)
			line2 = strings.TrimSpace(lines[1].Text)
		}
	default:
		// Address-line-only dialect: no Nm tag at all, the first line
		// carries the party name.
		if lines := node.FindAll("AdrLine"); len(lines) > 0 {
			name = strings.TrimSpace(lines[0].Text)
		}
	}

	country, _ := node.FindText("Ctry")

	return Party{
		Name:    name,
		Address: composeAddress(line1, line2, country),
		IBAN:    d.PartyIBAN(dir),
	}
}

func structuredAddress(node *camt.Node) (line1, line2 string) {
	street, _ := node.FindText("StrtNm")
	if building, ok := node.FindText("BldgNb"); ok {
		line1 = fmt.Sprintf("%s %s", street, building)
	} else {
		line1 = street
	}
	postcode, _ := node.FindText("PstCd")
	town, _ := node.FindText("TwnNm")
	line2 = strings.TrimSpace(fmt.Sprintf("%s %s", postcode, town))
	return line1, line2
}

func composeAddress(line1, line2, country string) string {
	switch {
	case line1 != "" && line2 != "":
		return fmt.Sprintf("%s, %s, %s", line1, line2, country)
	case line1 != "":
		return fmt.Sprintf("%s, %s", line1, country)
	default:
		return country
	}
}
