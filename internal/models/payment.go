package models

import (
	"time"

	"github.com/google/uuid"
)

type Payment struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InvoiceID       uuid.UUID `gorm:"type:uuid;index" json:"invoiceId"`
	Amount          float64   `json:"amount"`
	PaymentDate     time.Time `json:"paymentDate"`
	PaymentMethod   string    `json:"paymentMethod"`
	ReferenceNumber string    `json:"referenceNumber"`
	CreatedAt       time.Time `json:"createdAt"`
}
