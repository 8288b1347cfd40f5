package notify

import (
	"errors"
	"fmt"
	"net/smtp"
)

// Mailer sends notification mail over SMTP. Delivery is fire-and-forget:
// callers log failures and never retry.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewMailer builds a mailer. It is unconfigured (and Send fails) when host or
// from is empty.
func NewMailer(host, port, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Configured reports whether the mailer can send.
func (m *Mailer) Configured() bool {
	return m != nil && m.host != "" && m.from != ""
}

// Send delivers one message.
func (m *Mailer) Send(mail Mail) error {
	if !m.Configured() {
		return errors.New("notify: mailer not configured")
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.from, mail.To, mail.Subject, mail.Body)
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{mail.To}, []byte(msg))
}
