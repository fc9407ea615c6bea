package inquiry

import (
	"context"
	"fmt"
	"strings"

	mail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mailer delivers an inquiry to the agent.
type Mailer interface {
	Send(ctx context.Context, rec Record) error
}

// FormatEmail renders the subject and plain-text body sent to the agent.
func FormatEmail(rec Record) (subject, body string) {
	subject = fmt.Sprintf("Wairimu Station inquiry from %s %s", rec.FirstName, rec.LastName)

	var b strings.Builder
	fmt.Fprintf(&b, "New inquiry %s\n", rec.ID)
	fmt.Fprintf(&b, "Received: %s\n\n", rec.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "Name:            %s %s\n", rec.FirstName, rec.LastName)
	fmt.Fprintf(&b, "Email:           %s\n", rec.Email)
	fmt.Fprintf(&b, "Phone:           %s\n", orDash(rec.Phone))
	fmt.Fprintf(&b, "Investment type: %s\n", orDash(rec.InvestmentType))
	fmt.Fprintf(&b, "Consent given:   %t\n", rec.Consent)
	b.WriteString("\nMessage:\n")
	b.WriteString(orDash(rec.Message))
	b.WriteString("\n")
	return subject, b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// SMTPConfig addresses the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPMailer sends inquiries through an SMTP server.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer checks the addresses in cfg and returns a mailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("inquiry: smtp host not set")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	m := mail.NewMsg()
	if err := m.From(cfg.From); err != nil {
		return nil, fmt.Errorf("inquiry: smtp from %q: %w", cfg.From, err)
	}
	if err := m.To(cfg.To); err != nil {
		return nil, fmt.Errorf("inquiry: smtp to %q: %w", cfg.To, err)
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Message builds the email for rec. Replies go to the person inquiring.
func (s *SMTPMailer) Message(rec Record) (*mail.Msg, error) {
	subject, body := FormatEmail(rec)
	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, err
	}
	if err := m.To(s.cfg.To); err != nil {
		return nil, err
	}
	if err := m.ReplyTo(rec.Email); err != nil {
		return nil, err
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)
	return m, nil
}

func (s *SMTPMailer) Send(ctx context.Context, rec Record) error {
	m, err := s.Message(rec)
	if err != nil {
		return fmt.Errorf("inquiry: build mail %s: %w", rec.ID, err)
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("inquiry: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("inquiry: send %s: %w", rec.ID, err)
	}
	return nil
}

// LogMailer writes inquiries to the log instead of sending them. It is used
// when no SMTP server is configured.
type LogMailer struct {
	Log *zap.Logger
}

func (l LogMailer) Send(ctx context.Context, rec Record) error {
	subject, body := FormatEmail(rec)
	log := l.Log
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("inquiry email (smtp not configured)",
		zap.String("id", rec.ID),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
