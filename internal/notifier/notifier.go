package notifier

import (
	"context"
	"errors"
)

// DefaultSubject is the subject of every deal notification.
const DefaultSubject = "Deal Notify"

// ErrNoRecipient is returned when neither the notification nor the sender has a recipient.
var ErrNoRecipient = errors.New("no recipient for notification")

// Notification is a single deal alert.
type Notification struct {
	// Recipient overrides the sender's default address when not empty.
	Recipient string
	Subject   string
	// Body is the product URL.
	Body string
	// URL and Title are used by rich channels such as Discord.
	URL   string
	Title string
}

// NewDealNotification builds the alert for a product page.
func NewDealNotification(recipient, pageURL, title string) Notification {
	return Notification{
		Recipient: recipient,
		Subject:   DefaultSubject,
		Body:      pageURL,
		URL:       pageURL,
		Title:     title,
	}
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, n Notification) error

func (f SenderFunc) Send(ctx context.Context, n Notification) error {
	return f(ctx, n)
}
