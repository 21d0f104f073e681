package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

type Invoice struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ClientID      uuid.UUID       `json:"client_id" db:"client_id"`
	InvoiceNumber string          `json:"invoice_number" db:"invoice_number"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Currency      string          `json:"currency" db:"currency"`
	IssueDate     time.Time       `json:"issue_date" db:"issue_date"`
	DueDate       time.Time       `json:"due_date" db:"due_date"`
	Status        InvoiceStatus   `json:"status" db:"status"`
	Description   *string         `json:"description" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// IsOverdue reports whether the invoice is past due and still unpaid.
func (i *Invoice) IsOverdue(today time.Time) bool {
	return i.Status == InvoiceStatusPending && i.DueDate.Before(today)
}
