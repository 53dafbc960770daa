package utils

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds email configuration
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends the ledger's outbound emails
type Mailer interface {
	SendApprovalCode(to, code string, amount int64, recipient string, expiresAt time.Time) error
	SendAdminNotice(to []string, subject, body string) error
}

// SMTPMailer delivers mail through an SMTP relay with gomail
type SMTPMailer struct {
	cfg EmailConfig
}

// NewSMTPMailer creates a mailer for the given relay settings
func NewSMTPMailer(cfg EmailConfig) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPMailer{cfg: cfg}
}

// SendApprovalCode emails the one-time code a large transfer needs before it can settle
func (m *SMTPMailer) SendApprovalCode(to, code string, amount int64, recipient string, expiresAt time.Time) error {
	body := fmt.Sprintf(`
		<h2>Large transfer approval</h2>
		<p>A transfer of <b>%d CSP</b> to <b>%s</b> is waiting for approval.</p>
		<p>Share this code with the reviewing administrator:</p>
		<h1 style="color: #4CAF50; font-size: 32px; letter-spacing: 5px;">%s</h1>
		<p>This code expires at %s.</p>
		<p>If you did not start this transfer, contact support.</p>
	`, amount, recipient, code, expiresAt.UTC().Format(time.RFC1123))

	return m.send([]string{to}, "CoinSphere transfer approval code", body)
}

// SendAdminNotice emails every admin address in one message
func (m *SMTPMailer) SendAdminNotice(to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// LogMailer writes mail to the debug log instead of sending it. Used when SMTP is not configured.
type LogMailer struct{}

// SendApprovalCode logs that a code was issued without logging the code itself
func (LogMailer) SendApprovalCode(to, code string, amount int64, recipient string, expiresAt time.Time) error {
	LogDebug("Approval code issued to %s for %d to %s, expires %s", to, amount, recipient, expiresAt.Format(time.RFC3339))
	return nil
}

// SendAdminNotice logs the notice subject
func (LogMailer) SendAdminNotice(to []string, subject, body string) error {
	LogDebug("Admin notice to %d recipients: %s", len(to), subject)
	return nil
}
