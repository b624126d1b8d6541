// Package mail defines the outbound email boundary and an SMTP implementation.
package mail

import "context"

// Sender delivers a single HTML email. Delivery is best-effort
// notification; callers must not roll back state on failure.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
