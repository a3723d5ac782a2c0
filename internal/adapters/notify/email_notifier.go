package notify

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/workspace-ops/internal/core"
	"go.uber.org/zap"
)

// EmailNotifier sends the alert message through an SMTP relay
type EmailNotifier struct {
	addr     string
	username string
	password string
	from     string
	to       []string
	header   string
	logger   *zap.Logger
}

// NewEmailNotifier creates a new SMTP notifier
func NewEmailNotifier(
	addr string,
	username string,
	password string,
	from string,
	to []string,
	header string,
	logger *zap.Logger,
) *EmailNotifier {
	return &EmailNotifier{
		addr:     addr,
		username: username,
		password: password,
		from:     from,
		to:       to,
		header:   header,
		logger:   logger,
	}
}

// Notify sends one mail containing every alert
func (n *EmailNotifier) Notify(ctx context.Context, alerts []string) error {
	if len(alerts) == 0 {
		return nil
	}
	if len(n.to) == 0 {
		return fmt.Errorf("no email recipients configured")
	}

	body := core.FormatAlertMessage(n.header, alerts)
	return n.send(n.compose(body))
}

// compose builds the RFC 5322 message
func (n *EmailNotifier) compose(body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", n.from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(n.to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", n.header))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// send delivers data to every recipient using go-smtp
func (n *EmailNotifier) send(data []byte) error {
	// Get hostname for EHLO
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	// Connect to the server with a timeout
	conn, err := net.DialTimeout("tcp", n.addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	// Set a deadline for the connection
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if n.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", n.username, n.password)); err != nil {
			return fmt.Errorf("SMTP auth failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range n.to {
		if err := c.Rcpt(recipient, nil); err != nil {
			n.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message has already been accepted
		n.logger.Warn("QUIT command failed", zap.Error(err))
	}

	n.logger.Info("Alert mailed", zap.Strings("to", n.to))
	return nil
}
