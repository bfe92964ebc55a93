// Package notify delivers appointment confirmations by email and places
// booked slots on the clinic's Google Calendar.
package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mediline/apptbot/internal/booking"
)

// EmailConfig configures the SMTP mailer. Host and Port may be left empty
// for well-known providers; they are then derived from the From address.
type EmailConfig struct {
	Host     string `yaml:"host" envconfig:"EMAIL_HOST"`
	Port     string `yaml:"port" envconfig:"EMAIL_PORT"`
	From     string `yaml:"from" envconfig:"EMAIL_FROM"`
	FromName string `yaml:"from_name" envconfig:"EMAIL_FROM_NAME"`
	Password string `yaml:"password" envconfig:"EMAIL_PASSWORD"`
}

// providerHosts maps common mailbox domains to their submission endpoints.
var providerHosts = map[string]string{
	"gmail.com":   "smtp.gmail.com",
	"outlook.com": "smtp-mail.outlook.com",
	"hotmail.com": "smtp-mail.outlook.com",
	"yahoo.com":   "smtp.mail.yahoo.com",
}

// Mailer sends appointment emails over SMTP with STARTTLS. It implements
// booking.Mailer.
type Mailer struct {
	cfg      EmailConfig
	validate *validator.Validate
}

// NewMailer validates the sender configuration and resolves the SMTP
// endpoint.
func NewMailer(cfg EmailConfig) (*Mailer, error) {
	v := validator.New()
	if err := v.Var(cfg.From, "required,email"); err != nil {
		return nil, fmt.Errorf("mailer: invalid from address %q", cfg.From)
	}
	if cfg.Host == "" {
		_, domain, _ := strings.Cut(cfg.From, "@")
		host, ok := providerHosts[strings.ToLower(domain)]
		if !ok {
			return nil, fmt.Errorf("mailer: no smtp host configured and %q is not a known provider", domain)
		}
		cfg.Host = host
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.FromName == "" {
		cfg.FromName = "Clinic Appointments"
	}
	return &Mailer{cfg: cfg, validate: v}, nil
}

// SendConfirmation emails the booking summary to the patient.
func (m *Mailer) SendConfirmation(ctx context.Context, appt booking.Appointment) error {
	subject := fmt.Sprintf("Appointment Confirmed - %s", appt.ID)
	return m.send(ctx, appt.Email, subject, confirmationText(appt), confirmationHTML(appt))
}

// SendReminder emails a short reminder ahead of the appointment.
func (m *Mailer) SendReminder(ctx context.Context, appt booking.Appointment) error {
	subject := fmt.Sprintf("Reminder: appointment %s on %s", appt.ID, appt.Date)
	return m.send(ctx, appt.Email, subject, reminderText(appt), "")
}

func (m *Mailer) send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	if err := m.validate.Var(to, "required,email"); err != nil {
		return fmt.Errorf("mailer: invalid recipient %q", to)
	}

	msg := buildMessage(m.cfg.FromName, m.cfg.From, to, subject, textBody, htmlBody)
	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mailer: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mailer: handshake: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("mailer: starttls: %w", err)
		}
	}
	if m.cfg.Password != "" {
		auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("mailer: auth: %w", err)
		}
	}
	if err := c.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mailer: mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("mailer: rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mailer: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("mailer: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: close body: %w", err)
	}
	return c.Quit()
}

const mimeBoundary = "=_appt_alt_boundary"

// buildMessage renders an RFC 5322 message. With both bodies present it is
// multipart/alternative; with only text it stays a plain message.
func buildMessage(fromName, from, to, subject, textBody, htmlBody string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")

	if htmlBody == "" {
		b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		b.WriteString(crlf(textBody))
		return []byte(b.String())
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", mimeBoundary)
	fmt.Fprintf(&b, "--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(crlf(textBody))
	fmt.Fprintf(&b, "\r\n--%s\r\n", mimeBoundary)
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(crlf(htmlBody))
	fmt.Fprintf(&b, "\r\n--%s--\r\n", mimeBoundary)
	return []byte(b.String())
}

func crlf(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\r\n", "\n"), "\n", "\r\n")
}
