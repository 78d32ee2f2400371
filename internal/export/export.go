// Package export serializes parsed transaction batches for the review
// wizard and downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bankwizard-dev/bankwizard/internal/model"
)

// Header is the CSV header for exported transaction batches.
const Header = "txid,date,currency,amount,credit_debit,party_name,party_address,party_iban,unique_reference,transaction_reference,party_match,invoice_matches,expense_matches,matched_amount,employee_match"

const numFields = 15

// WriteJSON writes the batch as an indented JSON array of records.
func WriteJSON(w io.Writer, txns []model.ParsedTransaction) error {
	if txns == nil {
		txns = []model.ParsedTransaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}
	return nil
}

// WriteCSV writes the batch as CSV, one row per record. Match lists are
// semicolon-separated.
func WriteCSV(w io.Writer, txns []model.ParsedTransaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(marshalRecord(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalRecord(t model.ParsedTransaction) []string {
	row := make([]string, 0, numFields)
	row = append(row,
		strconv.Itoa(t.Seq),
		t.Date,
		t.Currency,
		t.Amount.StringFixed(2),
		string(t.CreditDebit),
		t.PartyName,
		t.PartyAddress,
		t.PartyIBAN,
		t.UniqueReference,
		t.TransactionReference,
		t.PartyMatch,
		strings.Join(t.InvoiceMatches, ";"),
		strings.Join(t.ExpenseMatches, ";"),
		t.MatchedAmount.StringFixed(2),
		t.EmployeeMatch,
	)
	return row
}
