// Package email delivers outgoing mail through SMTP or the Gmail API.
package email

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/repospector/repospector/shared/config"
	"github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
)

// Sender is implemented by every transport.
type Sender interface {
	Send(ctx context.Context, recipientEmail, subject, htmlBody string) error
	IsCorrect(email string) error
}

// New picks the transport named in cfg.Transport.
func New(ctx context.Context, cfg *config.Email) (Sender, error) {
	switch cfg.Transport {
	case "", config.EmailTransportSMTP:
		return NewSMTP(cfg), nil
	case config.EmailTransportGmail:
		return NewGmail(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.Transport)
	}
}

func isCorrect(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.Validation("Invalid email address")
	}
	return nil
}

func timeout(cfg *config.Email) time.Duration {
	t := time.Duration(cfg.Timeout) * time.Second
	if t == 0 {
		t = 10 * time.Second
	}
	return t
}

type SMTP struct {
	config *config.Email
	auth   smtp.Auth
}

func NewSMTP(config *config.Email) *SMTP {
	return &SMTP{
		config: config,
		auth:   smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer),
	}
}

func (e *SMTP) IsCorrect(email string) error {
	return isCorrect(email)
}

func (e *SMTP) Send(ctx context.Context, recipientEmail, subject, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, timeout(e.config))
	defer cancel()

	msg := buildMessage(e.config, recipientEmail, subject, htmlBody, time.Now())
	address := net.JoinHostPort(e.config.SMTPServer, fmt.Sprint(e.config.SMTPPort))

	// 465 is implicit TLS, everything else upgrades with STARTTLS
	var conn net.Conn
	var err error
	if e.config.SMTPPort == 465 {
		dialer := &tls.Dialer{Config: &tls.Config{ServerName: e.config.SMTPServer}}
		conn, err = dialer.DialContext(ctx, "tcp", address)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		logger.Log.Error("failed to connect to SMTP server", "address", address, "error", err)
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, e.config.SMTPServer)
	if err != nil {
		logger.Log.Error("failed to create SMTP client", "error", err)
		return err
	}
	defer client.Close()

	if e.config.SMTPPort != 465 {
		if err = client.StartTLS(&tls.Config{ServerName: e.config.SMTPServer}); err != nil {
			logger.Log.Error("failed to start TLS", "error", err)
			return err
		}
	}

	return e.sendViaClient(client, recipientEmail, msg)
}

func (e *SMTP) sendViaClient(client *smtp.Client, recipientEmail string, msg []byte) error {
	if err := client.Auth(e.auth); err != nil {
		logger.Log.Error("SMTP authentication failed", "error", err)
		return err
	}
	if err := client.Mail(e.config.Username); err != nil {
		logger.Log.Error("failed to set sender", "error", err)
		return err
	}
	if err := client.Rcpt(recipientEmail); err != nil {
		logger.Log.Error("failed to set recipient", "error", err)
		return err
	}

	w, err := client.Data()
	if err != nil {
		logger.Log.Error("failed to get data writer", "error", err)
		return err
	}
	if _, err = w.Write(msg); err != nil {
		logger.Log.Error("failed to write message", "error", err)
		return err
	}
	if err = w.Close(); err != nil {
		logger.Log.Error("failed to close data writer", "error", err)
		return err
	}

	return client.Quit()
}

func generateMessageID(domain string) string {
	b := make([]byte, 12)
	rand.Read(b)
	return fmt.Sprintf("<%d.%s@%s>", time.Now().UnixNano(), hex.EncodeToString(b), domain)
}

// buildMessage renders an RFC 5322 message with an HTML body.
func buildMessage(cfg *config.Email, recipient, subject, htmlBody string, now time.Time) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", cfg.SenderName)

	domain := "localhost"
	if at := strings.LastIndex(cfg.Username, "@"); at >= 0 {
		domain = cfg.Username[at+1:]
	}

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		generateMessageID(domain), now.Format(time.RFC1123Z), recipient,
		encodedSenderName, cfg.Username, encodedSubject, htmlBody,
	)
}
