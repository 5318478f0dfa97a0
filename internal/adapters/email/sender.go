package email

import (
	"context"
	"time"
)

// SendRequest is one outbound message handed to the provider.
type SendRequest struct {
	To      []string
	From    string // e.g. "Read Space <noreply@ireadspace.com>"
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult is the provider's acceptance of a message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
