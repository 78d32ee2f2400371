// Package api exposes the wizard operations over HTTP: statement
// parsing, defaults lookup, bank account listing and payment creation.
package api

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bankwizard-dev/bankwizard/internal/config"
	"github.com/bankwizard-dev/bankwizard/internal/engine"
	"github.com/bankwizard-dev/bankwizard/internal/ledger"
	"github.com/bankwizard-dev/bankwizard/internal/model"
	"github.com/bankwizard-dev/bankwizard/internal/posting"
)

// Handler holds the HTTP handlers for the wizard API.
type Handler struct {
	cfg    *config.Config
	ledger ledger.Ledger
}

// New builds the fiber application serving the wizard endpoints.
func New(cfg *config.Config, led ledger.Ledger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bankwizard",
		ErrorHandler: errorHandler,
	})

	h := &Handler{cfg: cfg, ledger: led}
	app.Get("/api/health", h.Health)
	app.Get("/api/defaults", h.Defaults)
	app.Get("/api/bank-accounts", h.BankAccounts)
	app.Get("/api/invoices/open", h.OpenInvoices)
	app.Get("/api/invoices/quick-match", h.QuickMatch)
	app.Post("/api/statements/parse", h.ParseStatement)
	app.Post("/api/payments", h.CreatePayment)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// Health reports service liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// DefaultsResponse is the JSON shape of the defaults lookup.
type DefaultsResponse struct {
	Company                  string `json:"company"`
	DefaultCustomer          string `json:"default_customer"`
	DefaultSupplier          string `json:"default_supplier"`
	IntermediateAccount      string `json:"intermediate_account"`
	DefaultPayableAccount    string `json:"default_payable_account"`
	DefaultReceivableAccount string `json:"default_receivable_account"`
}

// Defaults returns the wizard defaults for the configured company.
func (h *Handler) Defaults(c *fiber.Ctx) error {
	company := h.cfg.Company.Name
	payable, receivable, err := h.ledger.CompanyAccounts(company)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return c.JSON(DefaultsResponse{
		Company:                  company,
		DefaultCustomer:          h.cfg.Defaults.Customer,
		DefaultSupplier:          h.cfg.Defaults.Supplier,
		IntermediateAccount:      h.cfg.Defaults.IntermediateAccount,
		DefaultPayableAccount:    payable,
		DefaultReceivableAccount: receivable,
	})
}

// BankAccounts lists the enabled bank accounts of the ledger.
func (h *Handler) BankAccounts(c *fiber.Ctx) error {
	accounts, err := h.ledger.BankAccounts()
	if err != nil {
		return err
	}
	if accounts == nil {
		accounts = []string{}
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// InvoiceResponse is one open invoice in the listing.
type InvoiceResponse struct {
	ID          string `json:"id"`
	Customer    string `json:"customer"`
	Outstanding string `json:"outstanding"`
}

// OpenInvoices lists open sales invoices, scoped to one customer when
// the "customer" query parameter is set.
func (h *Handler) OpenInvoices(c *fiber.Ctx) error {
	invoices, err := h.ledger.OpenSalesInvoices(c.Query("customer"))
	if err != nil {
		return err
	}
	out := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, InvoiceResponse{
			ID:          inv.ID,
			Customer:    inv.Party,
			Outstanding: inv.Outstanding.StringFixed(2),
		})
	}
	return c.JSON(fiber.Map{"invoices": out})
}

// QuickMatch matches a lone credit to exactly one open sales invoice,
// by grand total ("amount" query parameter) or by an invoice identifier
// occurring in free text ("comment"). Reports not-matched unless the
// hit is unique.
func (h *Handler) QuickMatch(c *fiber.Ctx) error {
	m := engine.NewMatcher(h.ledger)

	if raw := c.Query("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "parsing amount: "+err.Error())
		}
		id, found, err := m.MatchByAmount(amount)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"invoice": id, "matched": found})
	}

	if comment := c.Query("comment"); comment != "" {
		id, found, err := m.MatchByComment(comment)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"invoice": id, "matched": found})
	}

	return fiber.NewError(fiber.StatusBadRequest, "amount or comment query parameter required")
}

// ParseStatement parses a CAMT.053 document (request body or multipart
// "file" field) and returns the assembled transaction batch.
func (h *Handler) ParseStatement(c *fiber.Ctx) error {
	content := c.Body()
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "opening upload: "+err.Error())
		}
		defer f.Close()
		buf, err := io.ReadAll(f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "reading upload: "+err.Error())
		}
		content = buf
	}
	if len(content) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no statement content provided")
	}

	result := engine.NewAssembler(h.ledger).ReadStatement(content)
	return c.JSON(result)
}

// PaymentRequest is the JSON body for creating a payment posting.
type PaymentRequest struct {
	Type         string          `json:"payment_type"`
	PartyType    string          `json:"party_type"`
	Party        string          `json:"party"`
	PaidFrom     string          `json:"paid_from"`
	PaidTo       string          `json:"paid_to"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	ReferenceNo  string          `json:"reference_no"`
	Date         string          `json:"date"`
	Remarks      string          `json:"remarks"`
	References   []string        `json:"references"`
	AutoSubmit   bool            `json:"auto_submit"`
}

// CreatePayment builds one posting with its allocations.
func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	var req PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "parsing request: "+err.Error())
	}

	builder := posting.NewBuilder(h.ledger)
	p, err := builder.Build(posting.Params{
		Type:         model.PaymentType(req.Type),
		PartyType:    model.PartyType(req.PartyType),
		Party:        req.Party,
		PaidFrom:     req.PaidFrom,
		PaidTo:       req.PaidTo,
		Amount:       req.Amount,
		Currency:     req.Currency,
		ExchangeRate: req.ExchangeRate,
		ReferenceNo:  req.ReferenceNo,
		Date:         req.Date,
		Remarks:      req.Remarks,
		Company:      h.cfg.Company.Name,
		Matches:      req.References,
		AutoSubmit:   req.AutoSubmit,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"name":        p.ID,
		"unallocated": p.Unallocated.StringFixed(2),
		"submitted":   p.Submitted,
	})
}
