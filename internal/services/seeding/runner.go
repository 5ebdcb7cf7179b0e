package seeding

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invoice-analytics-backend/internal/extraction"
	"invoice-analytics-backend/internal/logger"
	"invoice-analytics-backend/internal/models"
)

const (
	maxInsertAttempts = 5
	maxFailureSamples = 5
	progressInterval  = 100
)

type Summary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

type failureSample struct {
	Document string `json:"document"`
	Reason   string `json:"reason"`
}

// Runner orchestrates one full reseed: clear tables, normalize and insert
// every document, deduplicate vendors and customers by name through per-run
// caches. It is not re-entrant; callers gate invocations one at a time.
type Runner struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRunner(db *gorm.DB) *Runner {
	return &Runner{db: db, log: logger.WithComponent("seeding")}
}

// Run clears the store and loads the document batch. Per-document failures
// are counted and sampled, never fatal; only store-level errors abort.
func (r *Runner) Run(sourceFile string, docs []extraction.Document) (Summary, error) {
	if len(docs) == 0 {
		return Summary{}, errors.New("empty document batch")
	}

	run := &models.SeedRun{
		ID:             uuid.New(),
		SourceFile:     sourceFile,
		TotalDocuments: len(docs),
		Status:         "processing",
		StartedAt:      time.Now(),
		CreatedAt:      time.Now(),
	}
	if err := r.db.Create(run).Error; err != nil {
		return Summary{}, err
	}

	if err := r.clearTables(); err != nil {
		r.markRun(run.ID, "failed", Summary{}, nil)
		return Summary{}, err
	}

	vendorIDs := make(map[string]uuid.UUID)
	customerIDs := make(map[string]uuid.UUID)

	var summary Summary
	var failures []failureSample

	r.log.Info().Int("documents", len(docs)).Str("source", sourceFile).Msg("seed run started")

	for i, doc := range docs {
		if err := r.seedDocument(doc, i, vendorIDs, customerIDs); err != nil {
			summary.Skipped++
			if len(failures) < maxFailureSamples {
				failures = append(failures, failureSample{Document: doc.ID, Reason: err.Error()})
				r.log.Warn().Str("document", doc.ID).Str("reason", err.Error()).Msg("document skipped")
			}
			continue
		}
		summary.Processed++
		if summary.Processed%progressInterval == 0 {
			r.log.Info().Int("processed", summary.Processed).Msg("seed progress")
		}
	}

	if err := r.markRun(run.ID, "completed", summary, failures); err != nil {
		return summary, err
	}

	r.log.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Msg("seed run completed")
	return summary, nil
}

// seedDocument normalizes and inserts one document. Any panic inside the
// document's processing is contained here so one malformed record cannot
// abort the batch.
func (r *Runner) seedDocument(doc extraction.Document, seq int, vendorIDs, customerIDs map[string]uuid.UUID) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while processing document: %v", p)
		}
	}()

	draft, err := Normalize(doc, seq, time.Now())
	if err != nil {
		return err
	}

	vendorID, err := r.vendorID(draft.Vendor, vendorIDs)
	if err != nil {
		return err
	}

	var customerID *uuid.UUID
	if draft.Customer != nil {
		id, err := r.customerID(*draft.Customer, customerIDs)
		if err != nil {
			return err
		}
		customerID = &id
	}

	invoice := models.Invoice{
		ID:            uuid.New(),
		InvoiceNumber: draft.InvoiceNumber,
		VendorID:      vendorID,
		CustomerID:    customerID,
		IssueDate:     draft.IssueDate,
		DueDate:       draft.DueDate,
		Status:        draft.Status,
		Subtotal:      draft.Subtotal,
		Tax:           draft.Tax,
		Total:         draft.Total,
		Currency:      draft.Currency,
		Notes:         draft.Notes,
		CreatedAt:     time.Now(),
	}
	for _, item := range draft.Items {
		invoice.LineItems = append(invoice.LineItems, models.LineItem{
			ID:          uuid.New(),
			Description: item.Description,
			Category:    item.Category,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			CreatedAt:   time.Now(),
		})
	}

	return r.insertInvoice(&invoice)
}

// insertInvoice creates the invoice, retrying number collisions with a
// bounded suffix counter and a uuid-fragment fallback past the bound.
func (r *Runner) insertInvoice(invoice *models.Invoice) error {
	base := invoice.InvoiceNumber
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		if attempt > 1 {
			invoice.InvoiceNumber = fmt.Sprintf("%s-%d", base, attempt)
		}
		var count int64
		if err := r.db.Model(&models.Invoice{}).
			Where("invoice_number = ?", invoice.InvoiceNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return r.db.Create(invoice).Error
		}
	}
	// Suffix retries exhausted; a uuid fragment cannot collide within the run.
	invoice.InvoiceNumber = fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
	return r.db.Create(invoice).Error
}

func (r *Runner) vendorID(fields VendorFields, cache map[string]uuid.UUID) (uuid.UUID, error) {
	if id, ok := cache[fields.Name]; ok {
		return id, nil
	}

	var vendor models.Vendor
	err := r.db.Where("name = ?", fields.Name).First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		vendor = models.Vendor{
			ID:        uuid.New(),
			Name:      fields.Name,
			Email:     fields.Email,
			Phone:     fields.Phone,
			Address:   fields.Address,
			TaxID:     fields.TaxID,
			CreatedAt: time.Now(),
		}
		err = r.db.Create(&vendor).Error
	}
	if err != nil {
		return uuid.Nil, err
	}

	cache[fields.Name] = vendor.ID
	return vendor.ID, nil
}

func (r *Runner) customerID(fields CustomerFields, cache map[string]uuid.UUID) (uuid.UUID, error) {
	if id, ok := cache[fields.Name]; ok {
		return id, nil
	}

	var customer models.Customer
	err := r.db.Where("name = ?", fields.Name).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			ID:        uuid.New(),
			Name:      fields.Name,
			Address:   fields.Address,
			CreatedAt: time.Now(),
		}
		err = r.db.Create(&customer).Error
	}
	if err != nil {
		return uuid.Nil, err
	}

	cache[fields.Name] = customer.ID
	return customer.ID, nil
}

// clearTables empties the store in child-to-parent order so foreign keys
// never dangle mid-run.
func (r *Runner) clearTables() error {
	for _, model := range []any{
		&models.Payment{},
		&models.LineItem{},
		&models.Invoice{},
		&models.Customer{},
		&models.Vendor{},
	} {
		if err := r.db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) markRun(id uuid.UUID, status string, summary Summary, failures []failureSample) error {
	samples, _ := json.Marshal(failures)
	return r.db.Model(&models.SeedRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          status,
			"processed_count": summary.Processed,
			"skipped_count":   summary.Skipped,
			"failure_samples": samples,
			"completed_at":    time.Now(),
		}).Error
}
