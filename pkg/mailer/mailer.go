package mailer

import "context"

// Message is a transactional email. Bodies are plain text with an
// optional minimal HTML alternative; templating is left to callers.
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Mailer is any service that can deliver a transactional email.
// Implementations must be safe for concurrent use; delivery failures
// are returned so the caller's queue can retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
