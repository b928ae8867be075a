package email

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Baaaki/planogram-backoffice/internal/config"
	"github.com/Baaaki/planogram-backoffice/pkg/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To        string
	Subject   string
	PlainBody string
	HTMLBody  string
}

// Sender delivers one message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

type SMTPSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. Used when
// no SMTP host is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg *Message) error {
	logger.Log.Info("Email not sent (SMTP disabled)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	return nil
}

// Service builds confirmation and reset emails and hands them to a Sender.
type Service struct {
	sender      Sender
	renderer    *Renderer
	appName     string
	frontendURL string
}

func NewService(sender Sender, appName, frontendURL string) (*Service, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Service{
		sender:      sender,
		renderer:    renderer,
		appName:     appName,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}, nil
}

// NewFromConfig picks the SMTP sender when a host is configured.
func NewFromConfig(cfg *config.Config) (*Service, error) {
	var sender Sender = LogSender{}
	if cfg.SMTP.Host != "" {
		sender = NewSMTPSender(cfg.SMTP)
	}
	return NewService(sender, cfg.AppName, cfg.FrontendURL)
}

func (s *Service) SendConfirmationEmail(ctx context.Context, to, token, lang string) error {
	link := s.frontendURL + "/auth/confirm-email?token=" + url.QueryEscape(token)
	return s.send(ctx, to, "account_confirmation", lang, s.appName+" - Confirm your email", link)
}

func (s *Service) SendPasswordResetEmail(ctx context.Context, to, token, lang string) error {
	link := s.frontendURL + "/auth/reset-password?token=" + url.QueryEscape(token)
	return s.send(ctx, to, "password_reset", lang, s.appName+" - Reset Your Password", link)
}

func (s *Service) send(ctx context.Context, to, template, lang, subject, link string) error {
	plain, htmlBody, err := s.renderer.Render(template, lang, templateData{AppName: s.appName, URL: link})
	if err != nil {
		return err
	}
	return s.sender.Send(ctx, &Message{
		To:        to,
		Subject:   subject,
		PlainBody: plain,
		HTMLBody:  htmlBody,
	})
}
