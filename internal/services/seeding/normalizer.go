package seeding

import (
	"fmt"
	"math"
	"time"

	"invoice-analytics-backend/internal/extraction"
	"invoice-analytics-backend/internal/models"
)

const (
	defaultCurrency        = "EUR"
	defaultItemDescription = "Item"
)

// SkipError marks a document the normalizer rejected rather than failed on.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

type VendorFields struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	TaxID   *string
}

type CustomerFields struct {
	Name    string
	Address *string
}

type ItemFields struct {
	Description string
	Category    *string
	Quantity    float64
	UnitPrice   float64
	Amount      float64
}

// InvoiceDraft is a fully-resolved invoice-creation request: vendor and
// customer upserts by name plus the invoice row and its line items.
type InvoiceDraft struct {
	Vendor        VendorFields
	Customer      *CustomerFields
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       *time.Time
	Status        string
	Subtotal      float64
	Tax           float64
	Total         float64
	Currency      string
	Notes         *string
	Items         []ItemFields
}

// Normalize maps one extraction document onto an invoice draft, or returns a
// *SkipError naming why the document cannot be loaded. seq disambiguates
// generated invoice numbers within one run; the number is still
// collision-checked at insert time.
//
// Accepted minimum: extraction data present and a resolvable vendor name.
// Everything else falls back to a documented default.
func Normalize(doc extraction.Document, seq int, now time.Time) (*InvoiceDraft, error) {
	if doc.Data == nil {
		return nil, &SkipError{Reason: "missing extraction data"}
	}

	invoiceSec := extraction.Section(doc.Data, "invoice")
	vendorSec := extraction.Section(doc.Data, "vendor")
	customerSec := extraction.Section(doc.Data, "customer")
	paymentSec := extraction.Section(doc.Data, "payment")
	summarySec := extraction.Section(doc.Data, "summary")

	vendorName, ok := extraction.String(vendorSec, "vendorName")
	if !ok {
		return nil, &SkipError{Reason: "missing vendor name"}
	}

	draft := &InvoiceDraft{
		Vendor: VendorFields{
			Name:    vendorName,
			Email:   optString(vendorSec, "vendorEmail"),
			Phone:   optString(vendorSec, "vendorPhone"),
			Address: optString(vendorSec, "vendorAddress"),
			TaxID:   optString(vendorSec, "vendorTaxId"),
		},
	}

	if customerName, ok := extraction.String(customerSec, "customerName"); ok {
		draft.Customer = &CustomerFields{
			Name:    customerName,
			Address: optString(customerSec, "customerAddress"),
		}
	}

	draft.InvoiceNumber, ok = extraction.String(invoiceSec, "invoiceId")
	if !ok {
		draft.InvoiceNumber = fmt.Sprintf("INV-%s-%d", shortID(doc.ID), seq)
	}

	if issued, ok := extraction.Time(invoiceSec, "invoiceDate"); ok {
		draft.IssueDate = issued
	} else if !doc.CreatedAt.IsZero() {
		draft.IssueDate = doc.CreatedAt
	} else {
		draft.IssueDate = now
	}

	if due, ok := extraction.Time(paymentSec, "dueDate"); ok {
		draft.DueDate = &due
	}

	draft.Status = resolveStatus(doc.Status, draft.DueDate, now)

	draft.Subtotal = math.Abs(numberOr(summarySec, "subTotal", 0))
	draft.Tax = math.Abs(numberOr(summarySec, "totalTax", 0))
	if total, ok := extraction.Number(summarySec, "invoiceTotal"); ok {
		draft.Total = math.Abs(total)
	} else {
		draft.Total = draft.Subtotal + draft.Tax
	}

	if currency, ok := extraction.String(summarySec, "currencySymbol"); ok {
		draft.Currency = currency
	} else {
		draft.Currency = defaultCurrency
	}

	draft.Notes = optNonEmpty(doc.Name)
	draft.Items = normalizeItems(doc.Data["lineItems"])

	return draft, nil
}

// resolveStatus: paid when the pipeline finalized the document, else overdue
// when the resolved due date has passed, else pending. First match wins.
func resolveStatus(docStatus string, dueDate *time.Time, now time.Time) string {
	if docStatus == "processed" || docStatus == "validated" {
		return models.StatusPaid
	}
	if dueDate != nil && dueDate.Before(now) {
		return models.StatusOverdue
	}
	return models.StatusPending
}

func normalizeItems(container any) []ItemFields {
	raw := extraction.Items(container)
	items := make([]ItemFields, 0, len(raw))
	for _, m := range raw {
		item := ItemFields{
			Description: defaultItemDescription,
			Quantity:    math.Abs(numberOr(m, "quantity", 1)),
			UnitPrice:   math.Abs(numberOr(m, "unitPrice", 0)),
			Amount:      math.Abs(numberOr(m, "totalPrice", 0)),
		}
		if desc, ok := extraction.String(m, "description"); ok {
			item.Description = desc
		}
		item.Category = itemCategory(m)
		items = append(items, item)
	}
	return items
}

// itemCategory reads the Sachkonto field the pipeline uses for account
// categories. Non-string scalars are stringified rather than dropped.
func itemCategory(m map[string]any) *string {
	v, ok := extraction.Scalar(m, "Sachkonto")
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return optNonEmpty(s)
	}
	return optNonEmpty(fmt.Sprint(v))
}

func numberOr(m map[string]any, key string, def float64) float64 {
	if v, ok := extraction.Number(m, key); ok {
		return v
	}
	return def
}

func optString(m map[string]any, key string) *string {
	if v, ok := extraction.String(m, key); ok {
		return &v
	}
	return nil
}

func optNonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
