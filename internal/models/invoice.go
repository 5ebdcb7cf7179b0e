package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusOverdue = "overdue"
)

type Invoice struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceNumber string     `gorm:"uniqueIndex" json:"invoiceNumber"`
	VendorID      uuid.UUID  `gorm:"type:uuid;index" json:"vendorId"`
	Vendor        *Vendor    `json:"vendor,omitempty"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customerId"`
	Customer      *Customer  `json:"customer,omitempty"`
	IssueDate     time.Time  `gorm:"index" json:"issueDate"`
	DueDate       *time.Time `json:"dueDate"`
	Status        string     `gorm:"index" json:"status"`
	Subtotal      float64    `json:"subtotal"`
	Tax           float64    `json:"tax"`
	Total         float64    `gorm:"index" json:"total"`
	Currency      string     `json:"currency"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`

	LineItems []LineItem `gorm:"constraint:OnDelete:CASCADE" json:"lineItems,omitempty"`
	Payments  []Payment  `gorm:"constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}
