package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender implements Sender over a plain-auth SMTP relay.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender constructs an SMTP sender.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}
}

var _ Sender = (*SMTPSender)(nil)

// Send delivers one HTML message. The context deadline is not plumbed into
// net/smtp; the relay connection uses the library defaults.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// ResetEmailBody renders the password-reset notification linking to the
// given redemption URL.
func ResetEmailBody(resetURL string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; line-height: 1.5; font-size: 16px;">
<p>Someone requested a password reset for your account.</p>
<p>The link is valid for one hour and can be used once:</p>
<p><a href=%q>Reset your password</a></p>
<p>If this was not you, ignore this email.</p>
</div>`, resetURL)
}
