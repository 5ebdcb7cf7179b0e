package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"invoice-analytics-backend/internal/logger"
	"invoice-analytics-backend/internal/models"
	"invoice-analytics-backend/internal/repository"
)

type InvoiceHandler struct {
	repo *repository.InvoiceRepository
	log  zerolog.Logger
}

func NewInvoiceHandler(repo *repository.InvoiceRepository) *InvoiceHandler {
	return &InvoiceHandler{repo: repo, log: logger.WithComponent("invoices")}
}

// List serves the paginated, filterable, sortable invoice table.
func (h *InvoiceHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	params := repository.ListParams{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		VendorID:  c.Query("vendorId"),
		SortBy:    c.DefaultQuery("sortBy", "issueDate"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}

	invoices, total, err := h.repo.List(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoices"})
		return
	}

	rows := make([]gin.H, 0, len(invoices))
	for _, inv := range invoices {
		row := gin.H{
			"id":            inv.ID,
			"invoiceNumber": inv.InvoiceNumber,
			"vendorId":      inv.VendorID,
			"vendor":        nil,
			"customer":      nil,
			"issueDate":     inv.IssueDate,
			"dueDate":       inv.DueDate,
			"amount":        inv.Total,
			"status":        inv.Status,
			"currency":      inv.Currency,
		}
		if inv.Vendor != nil {
			row["vendor"] = inv.Vendor.Name
		}
		if inv.Customer != nil {
			row["customer"] = inv.Customer.Name
		}
		rows = append(rows, row)
	}

	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 || params.Limit > 200 {
		params.Limit = 50
	}
	c.JSON(http.StatusOK, gin.H{
		"invoices": rows,
		"pagination": gin.H{
			"page":       params.Page,
			"limit":      params.Limit,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	})
}

// Get serves one invoice with line items and payments.
func (h *InvoiceHandler) Get(c *gin.Context) {
	if _, err := uuid.Parse(c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}
	invoice, err := h.repo.GetByID(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CreatePayment records a payment against an invoice and marks the invoice
// paid once cumulative payments reach its total.
func (h *InvoiceHandler) CreatePayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice ID"})
		return
	}

	var payload struct {
		Amount          float64 `json:"amount"`
		PaymentDate     string  `json:"paymentDate"`
		PaymentMethod   string  `json:"paymentMethod"`
		ReferenceNumber string  `json:"referenceNumber"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	paymentDate := time.Now()
	if payload.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", payload.PaymentDate)
		if err != nil {
			parsed, err = time.Parse(time.RFC3339, payload.PaymentDate)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment date, expected yyyy-mm-dd"})
			return
		}
		paymentDate = parsed
	}

	invoice, err := h.repo.GetByID(id.String())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch invoice"})
		return
	}

	payment := models.Payment{
		ID:              uuid.New(),
		InvoiceID:       invoice.ID,
		Amount:          payload.Amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   payload.PaymentMethod,
		ReferenceNumber: payload.ReferenceNumber,
		CreatedAt:       time.Now(),
	}
	if err := h.repo.DB().Create(&payment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
		return
	}

	paid, err := h.repo.PaymentsTotal(invoice.ID.String())
	if err != nil {
		h.log.Error().Err(err).Str("invoice", invoice.ID.String()).Msg("failed to sum payments, status left unchanged")
	} else if paid >= invoice.Total && invoice.Status != models.StatusPaid {
		h.repo.DB().Model(&models.Invoice{}).
			Where("id = ?", invoice.ID).
			Update("status", models.StatusPaid)
	}

	c.JSON(http.StatusCreated, gin.H{"message": "payment recorded", "payment": payment})
}
