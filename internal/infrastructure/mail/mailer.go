package mail

import (
	"fmt"

	"github.com/go-auth-api/internal/config"
	gomail "github.com/wneessen/go-mail"
)

// Mailer sends the transactional emails the credential flows produce.
type Mailer interface {
	SendWelcome(to, name string) error
	SendResetCode(to, name, code string) error
}

type mailer struct {
	host     string
	port     int
	from     string
	fromName string
	username string
	password string
}

func NewMailer(cfg *config.Config) Mailer {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		fromName: cfg.SMTPFromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

func (m *mailer) SendWelcome(to, name string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour account is ready. Log in with your email address to get started.\n",
		name,
	)
	return m.send(to, "Welcome aboard!", body)
}

func (m *mailer) SendResetCode(to, name, code string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour password reset code is: %s\n\nIt expires in 15 minutes. If you did not request a reset, ignore this email.\n",
		name, code,
	)
	return m.send(to, "Password reset code", body)
}

func (m *mailer) send(to, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	opts := []gomail.Option{gomail.WithPort(m.port)}
	if m.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.username),
			gomail.WithPassword(m.password),
		)
	} else {
		// Local dev relays (Mailpit, LocalStack SES) speak plain SMTP.
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	}

	client, err := gomail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSend(msg)
}
