package alert

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"phishguard/internal/config"
	"phishguard/internal/domain"
)

// Notifier delivers a warning about one malicious message.
type Notifier interface {
	Notify(ctx context.Context, notice domain.AlertNotice) error
}

// SMTPNotifier sends the warning to a fixed recipient over a submission
// session secured with STARTTLS. The outbound channel is opened per alert
// and closed before Notify returns.
type SMTPNotifier struct {
	host      string
	port      int
	username  string
	password  string
	recipient string
}

func NewSMTPNotifier(cfg *config.Config) *SMTPNotifier {
	return &SMTPNotifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		username:  cfg.SMTPUser,
		password:  cfg.SMTPPass,
		recipient: cfg.AlertRecipient,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, notice domain.AlertNotice) error {
	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial smtp %s: %w", addr, err)
	}

	c, err := smtp.NewClient(conn, n.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: n.host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	if err := c.Auth(smtp.PlainAuth("", n.username, n.password, n.host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := c.Mail(n.username); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(n.recipient); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(n.compose(notice))); err != nil {
		w.Close()
		return fmt.Errorf("write alert: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish alert: %w", err)
	}

	return c.Quit()
}

// compose renders the fixed-format warning. The Message-ID carries a ULID
// so repeated alerts stay distinguishable at the recipient.
func (n *SMTPNotifier) compose(notice domain.AlertNotice) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.username)
	fmt.Fprintf(&b, "To: %s\r\n", n.recipient)
	b.WriteString("Subject: Phishing Alert\r\n")
	fmt.Fprintf(&b, "Message-ID: <%s@phishguard>\r\n", ulid.Make().String())
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("\r\n")
	b.WriteString("Suspicious email detected.\r\n")
	fmt.Fprintf(&b, "Sender: %s\r\n", notice.Sender)
	fmt.Fprintf(&b, "Subject: %s\r\n", notice.Subject)
	fmt.Fprintf(&b, "URLs: %s\r\n", strings.Join(notice.URLs, ", "))
	return b.String()
}
