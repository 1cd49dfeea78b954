package mail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

// Config holds mail provider settings (matches SiteConfig.Mail).
type Config struct {
	Enable    bool   `json:"enable"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	User      string `json:"user"`
	Pass      string `json:"pass"`
	From      string `json:"from"`
	ReplyTo   string `json:"reply_to"`
	ContactTo string `json:"contact_to"`
	UseResend bool   `json:"use_resend"`
	ResendKey string `json:"resend_key"`
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

const (
	// ExtraAttempts is how many times a failed send is retried before the
	// error is reported. Sending is a transparent background operation, so
	// retries are automatic here, unlike user-submitted saves.
	ExtraAttempts = 2

	retryBaseDelay = 500 * time.Millisecond
)

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg Config

	// transport overrides the delivery mechanism; tests use it.
	transport func(Message) error
	sleep     func(time.Duration)
}

func New(cfg Config) *Sender {
	s := &Sender{cfg: cfg, sleep: time.Sleep}
	s.transport = s.deliver
	return s
}

// NewWithTransport builds a sender with a custom delivery function; used
// by tests and callers that capture outgoing mail.
func NewWithTransport(cfg Config, transport func(Message) error) *Sender {
	s := New(cfg)
	if transport != nil {
		s.transport = transport
	}
	return s
}

// Send dispatches an email with bounded retry and backoff.
func (s *Sender) Send(msg Message) error {
	if !s.cfg.Enable {
		return nil
	}

	var err error
	for attempt := 0; attempt <= ExtraAttempts; attempt++ {
		if attempt > 0 {
			s.sleep(retryBaseDelay * time.Duration(attempt))
		}
		if err = s.transport(msg); err == nil {
			return nil
		}
	}
	return fmt.Errorf("mail send failed after %d attempts: %w", ExtraAttempts+1, err)
}

func (s *Sender) deliver(msg Message) error {
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend(msg)
	}
	return s.sendSMTP(msg)
}

func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	if s.cfg.ReplyTo != "" {
		body.WriteString(fmt.Sprintf("Reply-To: %s\r\n", s.cfg.ReplyTo))
	}
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	return smtp.SendMail(addr, auth, from, msg.To, body.Bytes())
}

func (s *Sender) sendResend(msg Message) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	payload, _ := json.Marshal(map[string]interface{}{
		"from":    from,
		"to":      msg.To,
		"subject": msg.Subject,
		"html":    msg.HTML,
	})

	req, err := http.NewRequest(http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}
