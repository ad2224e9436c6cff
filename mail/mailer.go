package mail

import (
	"context"
	"log"

	gomail "github.com/wneessen/go-mail"

	"github.com/convoisukraine/convoysbackend/config"
)

// Mailer sends transactional email.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMTPMailer delivers through a configured SMTP relay.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
}

// NewMailer returns an SMTP mailer when SMTP_HOST is configured and a
// log-only mailer otherwise, so development runs without a relay.
func NewMailer(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		log.Println("SMTP_HOST not set, outgoing mail will be logged only")
		return &LogMailer{}
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		pass:     cfg.SMTPPass,
		from:     cfg.MailFrom,
		fromName: cfg.AppName,
	}
}

func (m *SMTPMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.user),
		gomail.WithPassword(m.pass),
	)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msg)
}

// LogMailer writes outgoing mail to the log instead of sending it.
type LogMailer struct{}

func (m *LogMailer) SendEmail(_ context.Context, to, subject, _ string) error {
	log.Printf("mail to %s: %s", to, subject)
	return nil
}
