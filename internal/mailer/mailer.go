package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrNotConfigured is returned when the mail channel has no credentials;
// no network I/O is attempted in that case.
var ErrNotConfigured = errors.New("mail channel not configured")

// RejectError reports a non-success response from the mail provider.
type RejectError struct {
	StatusCode int
	Body       string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("mail provider rejected send (status %d): %s", e.StatusCode, e.Body)
}

// IsTimeout reports whether a send failure was caused by the bounded
// send timeout rather than a provider rejection.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Mailer is the outbound notification channel. Send delivers one email
// and returns the provider message id when the provider reports one.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody, textBody string) (string, error)
	Configured() bool
}
