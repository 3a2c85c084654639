package mailer

import (
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// Mailer delivers operator alerts. Sends are best effort: callers never
// wait on them and delivery failures only get logged.
type Mailer interface {
	SendAlert(subject, body string)
}

type sendgridMailer struct {
	key  string
	from *sgmail.Email
	to   *sgmail.Email
}

func NewSendgrid(key, from, to string) Mailer {
	return &sendgridMailer{
		key:  key,
		from: sgmail.NewEmail("Cup Admin", from),
		to:   sgmail.NewEmail("", to),
	}
}

func (m *sendgridMailer) SendAlert(subject, body string) {
	go func() {
		msg := sgmail.NewSingleEmail(m.from, subject, m.to, body, "")
		client := sendgrid.NewSendClient(m.key)
		resp, err := client.Send(msg)
		if err != nil {
			logrus.WithError(err).Warn("alert email failed")
			return
		}
		if resp.StatusCode >= 300 {
			logrus.WithField("status", resp.StatusCode).Warn("alert email rejected")
		}
	}()
}

type consoleMailer struct{}

// NewConsole returns a mailer that only logs, for development and tests.
func NewConsole() Mailer {
	return consoleMailer{}
}

func (consoleMailer) SendAlert(subject, body string) {
	logrus.WithFields(logrus.Fields{
		"subject": subject,
		"body":    body,
	}).Info("alert email (console)")
}
