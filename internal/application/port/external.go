package port

import "context"

// SMSRecipient pairs a phone number with a message body.
type SMSRecipient struct {
	To      string
	Message string
}

// BulkSendResult reports how many messages were queued by a bulk send.
type BulkSendResult struct {
	SuccessCount int
	FailureCount int
}

// Notifier sends text messages. Delivery is best-effort: callers must never
// let a send failure affect an already-committed workflow transition.
type Notifier interface {
	Send(ctx context.Context, to, message string) bool
	SendBulk(ctx context.Context, recipients []SMSRecipient) BulkSendResult
}
