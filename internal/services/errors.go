package services

import "errors"

var (
	ErrClientNotFound         = errors.New("client not found")
	ErrDuplicateEmail         = errors.New("a client with this email already exists")
	ErrClientHasSentReminders = errors.New("client has reminders that were already sent")

	ErrInvoiceNotFound        = errors.New("invoice not found")
	ErrDuplicateInvoiceNumber = errors.New("an invoice with this number already exists")
	ErrAmountNotPositive      = errors.New("invoice amount must be positive")

	ErrReminderNotFound   = errors.New("reminder not found")
	ErrReminderNotPending = errors.New("reminder has already been processed")
	ErrReminderNotFailed  = errors.New("only failed reminders can be retried")
)
