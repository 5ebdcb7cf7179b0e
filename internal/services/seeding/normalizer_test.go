package seeding

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoice-analytics-backend/internal/extraction"
	"invoice-analytics-backend/internal/models"
)

func testDoc(data map[string]any) extraction.Document {
	return extraction.Document{
		ID:        "65fe1c0a77aabbccddee0011",
		Name:      "invoice-march.pdf",
		Status:    "uploaded",
		CreatedAt: time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		Data:      data,
	}
}

// minimal accepted document: wrapped vendor section with a name
func vendorOnly() map[string]any {
	return map[string]any{
		"vendor": map[string]any{"value": map[string]any{
			"vendorName": map[string]any{"value": "ACME GmbH"},
		}},
	}
}

var testNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeMissingExtractionData(t *testing.T) {
	doc := testDoc(nil)
	_, err := Normalize(doc, 0, testNow)
	var skip *SkipError
	require.ErrorAs(t, err, &skip)
	assert.Equal(t, "missing extraction data", skip.Reason)
}

func TestNormalizeMissingVendorName(t *testing.T) {
	cases := map[string]map[string]any{
		"no vendor section": {"invoice": map[string]any{"value": map[string]any{}}},
		"empty wrapped name": {"vendor": map[string]any{"value": map[string]any{
			"vendorName": map[string]any{"value": ""},
		}}},
		"empty bare name": {"vendor": map[string]any{"vendorName": ""}},
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(testDoc(data), 0, testNow)
			var skip *SkipError
			require.ErrorAs(t, err, &skip)
			assert.Equal(t, "missing vendor name", skip.Reason)
		})
	}
}

func TestNormalizeVendorNameBareShape(t *testing.T) {
	data := map[string]any{"vendor": map[string]any{"vendorName": "Bare Vendor"}}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Bare Vendor", draft.Vendor.Name)
}

func TestNormalizeTotalDerivedFromSubtotalAndTax(t *testing.T) {
	data := vendorOnly()
	data["summary"] = map[string]any{"value": map[string]any{
		"subTotal": map[string]any{"value": 100.0},
		"totalTax": 19.0, // bare shape on purpose
	}}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, draft.Subtotal)
	assert.Equal(t, 19.0, draft.Tax)
	assert.Equal(t, 119.0, draft.Total)
}

func TestNormalizeCreditNoteAmountsStoredAsMagnitudes(t *testing.T) {
	data := vendorOnly()
	data["summary"] = map[string]any{"value": map[string]any{
		"subTotal":     map[string]any{"value": -100.0},
		"totalTax":     map[string]any{"value": -19.0},
		"invoiceTotal": map[string]any{"value": -119.0},
	}}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, 100.0, draft.Subtotal)
	assert.Equal(t, 19.0, draft.Tax)
	assert.Equal(t, 119.0, draft.Total)
}

func TestNormalizeNonNumericQuantityDefaultsToOne(t *testing.T) {
	data := vendorOnly()
	data["lineItems"] = map[string]any{"value": map[string]any{"items": []any{
		map[string]any{
			"description": map[string]any{"value": "Consulting"},
			"quantity":    map[string]any{"value": "zwei"},
			"unitPrice":   map[string]any{"value": "also not a number"},
			"totalPrice":  map[string]any{"value": 250.0},
		},
	}}}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, 1.0, draft.Items[0].Quantity)
	assert.Equal(t, 0.0, draft.Items[0].UnitPrice)
	assert.Equal(t, 250.0, draft.Items[0].Amount)
}

func TestNormalizeLineItemDefaults(t *testing.T) {
	data := vendorOnly()
	data["lineItems"] = []any{map[string]any{}}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)
	item := draft.Items[0]
	assert.Equal(t, "Item", item.Description)
	assert.Nil(t, item.Category)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, 0.0, item.UnitPrice)
	assert.Equal(t, 0.0, item.Amount)
}

func TestNormalizeCategoryStringified(t *testing.T) {
	data := vendorOnly()
	data["lineItems"] = []any{
		map[string]any{"Sachkonto": map[string]any{"value": "6815"}},
		map[string]any{"Sachkonto": map[string]any{"value": 6815.0}},
		map[string]any{"Sachkonto": map[string]any{"value": nil}},
	}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	require.Len(t, draft.Items, 3)
	require.NotNil(t, draft.Items[0].Category)
	assert.Equal(t, "6815", *draft.Items[0].Category)
	require.NotNil(t, draft.Items[1].Category)
	assert.Equal(t, "6815", *draft.Items[1].Category)
	assert.Nil(t, draft.Items[2].Category)
}

func TestNormalizeStatusPriority(t *testing.T) {
	past := map[string]any{"value": map[string]any{
		"dueDate": map[string]any{"value": "2024-01-01"},
	}}
	future := map[string]any{"value": map[string]any{
		"dueDate": map[string]any{"value": "2030-01-01"},
	}}

	// finalized processing wins even over a past due date
	data := vendorOnly()
	data["payment"] = past
	doc := testDoc(data)
	doc.Status = "processed"
	draft, err := Normalize(doc, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, draft.Status)

	// past due date without finalized processing
	doc.Status = "uploaded"
	draft, err = Normalize(doc, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOverdue, draft.Status)

	// future due date
	data = vendorOnly()
	data["payment"] = future
	draft, err = Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, draft.Status)

	// no due date at all
	draft, err = Normalize(testDoc(vendorOnly()), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, draft.Status)
	assert.Nil(t, draft.DueDate)
}

func TestNormalizeGeneratedInvoiceNumber(t *testing.T) {
	draft, err := Normalize(testDoc(vendorOnly()), 7, testNow)
	require.NoError(t, err)
	assert.Equal(t, "INV-65fe1c0a-7", draft.InvoiceNumber)

	data := vendorOnly()
	data["invoice"] = map[string]any{"value": map[string]any{
		"invoiceId": map[string]any{"value": "RE-2024-0042"},
	}}
	draft, err = Normalize(testDoc(data), 7, testNow)
	require.NoError(t, err)
	assert.Equal(t, "RE-2024-0042", draft.InvoiceNumber)
}

func TestNormalizeIssueDateFallbacks(t *testing.T) {
	data := vendorOnly()
	data["invoice"] = map[string]any{"value": map[string]any{
		"invoiceDate": map[string]any{"value": "2024-02-20"},
	}}
	draft, err := Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), draft.IssueDate)

	// no invoiceDate: fall back to document creation timestamp
	draft, err = Normalize(testDoc(vendorOnly()), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC), draft.IssueDate)

	// neither: fall back to now
	doc := testDoc(vendorOnly())
	doc.CreatedAt = time.Time{}
	draft, err = Normalize(doc, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, testNow, draft.IssueDate)
}

func TestNormalizeCurrencyDefault(t *testing.T) {
	draft, err := Normalize(testDoc(vendorOnly()), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, "EUR", draft.Currency)

	data := vendorOnly()
	data["summary"] = map[string]any{"value": map[string]any{
		"currencySymbol": map[string]any{"value": "USD"},
	}}
	draft, err = Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, "USD", draft.Currency)
}

func TestNormalizeCustomerOptional(t *testing.T) {
	draft, err := Normalize(testDoc(vendorOnly()), 0, testNow)
	require.NoError(t, err)
	assert.Nil(t, draft.Customer)

	data := vendorOnly()
	data["customer"] = map[string]any{"value": map[string]any{
		"customerName":    map[string]any{"value": "Global Enterprises"},
		"customerAddress": map[string]any{"value": "Hauptstr. 1"},
	}}
	draft, err = Normalize(testDoc(data), 0, testNow)
	require.NoError(t, err)
	require.NotNil(t, draft.Customer)
	assert.Equal(t, "Global Enterprises", draft.Customer.Name)
	require.NotNil(t, draft.Customer.Address)
	assert.Equal(t, "Hauptstr. 1", *draft.Customer.Address)
}
