package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/expressimports/backend/internal/cfg"
	"github.com/expressimports/backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// Sender отправляет одно HTML-письмо.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPSender отправляет письма через SMTP с STARTTLS и PLAIN-аутентификацией, если сервер их поддерживает.
type SMTPSender struct {
	cfg *cfg.SMTPCfg
}

func NewSMTPSender(cfg *cfg.SMTPCfg) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	addr := net.JoinHostPort(s.cfg.Host, s.cfg.Port)

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if s.cfg.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)); err != nil {
				return e.Wrap(whereami.WhereAmI(), err)
			}
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := c.Rcpt(to); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	w, err := c.Data()
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if _, err := w.Write(BuildMessage(s.cfg.From, to, subject, htmlBody, time.Now())); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := w.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return c.Quit()
}

// BuildMessage собирает RFC 5322 сообщение с HTML-телом. Тема кодируется как UTF-8.
func BuildMessage(from, to, subject, htmlBody string, date time.Time) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&sb, "Date: %s\r\n", date.Format(time.RFC1123Z))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(htmlBody)

	return []byte(sb.String())
}
