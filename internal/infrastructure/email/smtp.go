package email

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"fastighet/internal/shared/config"
	"fastighet/internal/shared/logger"
)

// ErrEmailServiceNotConfigured is returned by the disabled mailer.
var ErrEmailServiceNotConfigured = errors.New("email service not configured")

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// NewSMTPConfig maps the email section of the application config.
func NewSMTPConfig(cfg config.EmailConfig) SMTPConfig {
	return SMTPConfig{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
	}
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer sender
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// SendEmail sends a multipart message with a plain text body and an HTML
// alternative. htmlBody may be empty.
func (s *SMTPEmailService) SendEmail(to, subject, plainBody, htmlBody string) error {
	if to == "" {
		return fmt.Errorf("recipient address is required")
	}

	m := s.newMessage(to, subject, plainBody, htmlBody)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *SMTPEmailService) newMessage(to, subject, plainBody, htmlBody string) *gomail.Message {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	if htmlBody != "" {
		m.AddAlternative("text/html", htmlBody)
	}
	return m
}

// DisabledEmailService logs and drops every message. It stands in when no
// SMTP host is configured.
type DisabledEmailService struct {
	logger logger.Interface
}

func NewDisabledEmailService(logger logger.Interface) *DisabledEmailService {
	return &DisabledEmailService{logger: logger}
}

func (d *DisabledEmailService) SendEmail(to, subject, _, _ string) error {
	d.logger.Warnw("email service not configured, dropping email", "to", to, "subject", subject)
	return ErrEmailServiceNotConfigured
}

// Sender is implemented by both services above.
type Sender interface {
	SendEmail(to, subject, plainBody, htmlBody string) error
}

// NewEmailService returns the SMTP service, or the disabled one when
// smtp_host is empty.
func NewEmailService(cfg config.EmailConfig, logger logger.Interface) Sender {
	if cfg.SMTPHost == "" {
		logger.Debugw("email service not configured, smtp_host is empty")
		return NewDisabledEmailService(logger)
	}
	return NewSMTPEmailService(NewSMTPConfig(cfg))
}
