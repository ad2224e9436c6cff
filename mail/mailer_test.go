package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convoisukraine/convoysbackend/config"
)

func TestNewMailerFallsBackToLogMailer(t *testing.T) {
	mailer := NewMailer(&config.Config{})
	assert.IsType(t, &LogMailer{}, mailer)
}

func TestNewMailerSMTPConfiguration(t *testing.T) {
	cfg := &config.Config{
		AppName:  "Convois pour l'Ukraine",
		SMTPHost: "smtp.example.org",
		SMTPPort: 465,
		SMTPUser: "relay",
		SMTPPass: "secret",
		MailFrom: "no-reply@example.org",
	}

	mailer, ok := NewMailer(cfg).(*SMTPMailer)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.org", mailer.host)
	assert.Equal(t, 465, mailer.port)
	assert.Equal(t, "no-reply@example.org", mailer.from)
	// the sender display name comes from the application name
	assert.Equal(t, "Convois pour l'Ukraine", mailer.fromName)
}
