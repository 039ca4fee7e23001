// Package mail provides the outbound mail-sending capability consumed by the
// submission dispatcher.
package mail

import "context"

// Sender delivers a composed message to a recipient list. Implementations
// must be safe for concurrent use and honor context cancellation where the
// underlying transport allows it.
type Sender interface {
	Send(ctx context.Context, recipients []string, subject, htmlBody string) error
}
