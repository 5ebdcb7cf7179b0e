package repository

import (
	"strings"

	"gorm.io/gorm"

	"invoice-analytics-backend/internal/models"
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Expose DB if needed
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}

type ListParams struct {
	Page      int
	Limit     int
	Search    string
	Status    string
	VendorID  string
	SortBy    string
	SortOrder string
}

// Sortable invoice columns by their API names. Anything else falls back to
// issue date so callers can never inject order-by fragments.
var sortColumns = map[string]string{
	"invoiceNumber": "invoices.invoice_number",
	"issueDate":     "invoices.issue_date",
	"dueDate":       "invoices.due_date",
	"status":        "invoices.status",
	"subtotal":      "invoices.subtotal",
	"tax":           "invoices.tax",
	"total":         "invoices.total",
	"currency":      "invoices.currency",
	"createdAt":     "invoices.created_at",
}

// List returns one page of invoices with vendor and customer preloaded,
// plus the total row count for the filter. Search matches invoice number or
// vendor name case-insensitively.
func (r *InvoiceRepository) List(p ListParams) ([]models.Invoice, int64, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 200 {
		p.Limit = 50
	}

	query := r.db.Model(&models.Invoice{}).
		Joins("LEFT JOIN vendors ON vendors.id = invoices.vendor_id")

	if p.Search != "" {
		like := "%" + strings.ToLower(p.Search) + "%"
		query = query.Where(
			"LOWER(invoices.invoice_number) LIKE ? OR LOWER(vendors.name) LIKE ?",
			like, like,
		)
	}
	if p.Status != "" {
		query = query.Where("invoices.status = ?", p.Status)
	}
	if p.VendorID != "" {
		query = query.Where("invoices.vendor_id = ?", p.VendorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "invoices.issue_date"
	}
	direction := "DESC"
	if strings.EqualFold(p.SortOrder, "asc") {
		direction = "ASC"
	}

	// joined vendor columns must not shadow invoice fields in the scan
	var invoices []models.Invoice
	err := query.
		Select("invoices.*").
		Preload("Vendor").
		Preload("Customer").
		Order(column + " " + direction).
		Offset((p.Page - 1) * p.Limit).
		Limit(p.Limit).
		Find(&invoices).Error
	return invoices, total, err
}

// GetByID fetches a single invoice with all its relations.
func (r *InvoiceRepository) GetByID(id string) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.
		Preload("Vendor").
		Preload("Customer").
		Preload("LineItems").
		Preload("Payments").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// PaymentsTotal sums recorded payments for an invoice.
func (r *InvoiceRepository) PaymentsTotal(id string) (float64, error) {
	var sum float64
	err := r.db.Model(&models.Payment{}).
		Where("invoice_id = ?", id).
		Select("COALESCE(SUM(amount),0)").
		Scan(&sum).Error
	return sum, err
}
