// Package mail defines the outbound notification boundary of the workflow
// engine. Sends are best-effort: callers log failures and never propagate
// them, so a broken mail relay can never roll back a booking transaction.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"sort"
	"strings"
)

// Mailer sends one templated notification. Implementations must return an
// error rather than panic across this boundary.
type Mailer interface {
	Send(ctx context.Context, to, subject, template string, data map[string]string) error
}

// LogMailer writes notifications to the structured log instead of sending
// them. It is the default when no SMTP relay is configured (dev, CI).
type LogMailer struct {
	Log *slog.Logger
}

// NewLogMailer constructs a LogMailer over the given logger.
// Pass slog.Default() when no dedicated logger exists.
func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{Log: log}
}

// Send logs the notification and always succeeds.
func (m *LogMailer) Send(ctx context.Context, to, subject, template string, data map[string]string) error {
	m.Log.InfoContext(ctx, "mail (log only)",
		"to", to,
		"subject", subject,
		"template", template,
		"data", flatten(data),
	)
	return nil
}

// SMTPMailer delivers notifications through a plain SMTP relay.
// The body is the template name followed by its key/value context; rendering
// real templates is the relay-side mail system's concern, not this core's.
type SMTPMailer struct {
	Addr string // host:port of the relay
	From string
}

// NewSMTPMailer constructs an SMTPMailer for the given relay address and
// envelope sender.
func NewSMTPMailer(addr, from string) *SMTPMailer {
	return &SMTPMailer{Addr: addr, From: from}
}

// Send submits the message to the relay. The context is not honored
// mid-connection (net/smtp does not accept one); callers treat the whole
// send as best-effort anyway.
func (m *SMTPMailer) Send(_ context.Context, to, subject, template string, data map[string]string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "template: %s\r\n", template)
	b.WriteString(flatten(data))

	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("mail.SMTPMailer.Send: %w", err)
	}
	return nil
}

// flatten renders the template context deterministically, one "k=v" per line.
func flatten(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\r\n", k, data[k])
	}
	return b.String()
}
