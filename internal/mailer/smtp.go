package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPMailer delivers email over plain SMTP for deployments without a
// transactional provider.
type SMTPMailer struct {
	host        string
	senderEmail string
	senderName  string
	dialer      *gomail.Dialer
}

func NewSMTPMailer(host string, port int, login, password, senderEmail, senderName string) *SMTPMailer {
	dialer := gomail.NewDialer(host, port, login, password)
	dialer.TLSConfig = &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	return &SMTPMailer{
		host:        host,
		senderEmail: senderEmail,
		senderName:  senderName,
		dialer:      dialer,
	}
}

func (m *SMTPMailer) Configured() bool {
	return m.host != "" && m.senderEmail != ""
}

// Send delivers one email over SMTP. SMTP reports no provider message
// id, so the returned id is always empty on success.
func (m *SMTPMailer) Send(ctx context.Context, toEmail, toName, subject, htmlBody, textBody string) (string, error) {
	if !m.Configured() {
		return "", ErrNotConfigured
	}

	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)
	msg.SetAddressHeader("From", m.senderEmail, m.senderName)
	msg.SetAddressHeader("To", toEmail, toName)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("timeout sending email: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("failed to send email: %w", err)
		}
		return "", nil
	}
}
