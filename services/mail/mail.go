package mail

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"market/services/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, one file per name under templates/.
const (
	TemplateInterestConfirmation = "interest_confirmation"
	TemplateGoalReachedCustomer  = "goal_reached_customer"
	TemplateGoalReachedProvider  = "goal_reached_provider"
	TemplateDiscountCancelled    = "discount_cancelled"
	TemplateBookingApproved      = "booking_approved"
	TemplateSlotSuggested        = "slot_suggested"
)

// Message is a mail request before rendering.
type Message struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

// Envelope is a rendered mail ready for a Sender.
type Envelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("mail").Option("missingkey=error").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse mail templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render turns a Message into an Envelope.
func (r *Renderer) Render(msg Message) (Envelope, error) {
	if msg.To == "" {
		return Envelope{}, fmt.Errorf("mail %q has no recipient", msg.Template)
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, msg.Template+".html", msg.Data); err != nil {
		return Envelope{}, fmt.Errorf("render %s: %w", msg.Template, err)
	}
	return Envelope{To: msg.To, Subject: msg.Subject, HTML: buf.String()}, nil
}

// Sender delivers a rendered mail.
type Sender interface {
	Send(ctx context.Context, env Envelope) error
}

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPSender) Send(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + env.To + "\r\n" +
		"Subject: " + mimeHeader(env.Subject) + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + env.HTML)

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{env.To}, msg); err != nil {
		return fmt.Errorf("smtp send to %s: %w", env.To, err)
	}
	return nil
}

// LogSender only logs mails. Used when no SMTP account is configured.
type LogSender struct {
	Logger logger.Logger
}

func (s LogSender) Send(_ context.Context, env Envelope) error {
	s.Logger.Info("📧 mail to %s: %s", env.To, env.Subject)
	return nil
}

func mimeHeader(s string) string {
	for _, r := range s {
		if r > 127 {
			return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(s)) + "?="
		}
	}
	return strings.ReplaceAll(s, "\r\n", " ")
}
