// Package delivery defines the outbound mail interface and its
// providers. By using an interface, the campaign dispatcher stays
// decoupled from any specific provider.
package delivery

import "context"

// Message is a single outbound email.
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	FromName  string
	FromEmail string
	ReplyTo   string
}

// Deliverer hands a message to an external provider. Implementations
// must return an error when the provider rejects the message so the
// caller can tell accepted from rejected.
type Deliverer interface {
	Send(ctx context.Context, msg Message) error
}

// NoOp accepts every message without contacting a provider. Used for dry
// runs and tests.
type NoOp struct{}

// Send for NoOp does nothing and reports success.
func (NoOp) Send(_ context.Context, _ Message) error { return nil }
