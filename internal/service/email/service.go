package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"talentvet/internal/config"
	"talentvet/internal/domain"
)

// Service renders and delivers notification emails. Delivery prefers the
// primary transport (Resend) and falls back to SMTP; which transports are
// configured is an environment concern.
type Service interface {
	SendNotificationEmail(ctx context.Context, toEmail, recipientName string, notif *domain.Notification) error
}

//go:embed templates/*.html
var templateFS embed.FS

type service struct {
	resend *resend.Client
	cfg    *config.Config
	logger *zap.Logger
}

func NewService(cfg *config.Config, logger *zap.Logger) Service {
	var client *resend.Client
	if cfg.ResendAPIKey != "" {
		client = resend.NewClient(cfg.ResendAPIKey)
	}
	return &service{
		resend: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *service) SendNotificationEmail(ctx context.Context, toEmail, recipientName string, notif *domain.Notification) error {
	body, err := s.render(recipientName, notif)
	if err != nil {
		return err
	}

	subject := notif.Title + " - TalentVet"

	if s.resend != nil {
		err := s.sendResend(toEmail, subject, body)
		if err == nil {
			return nil
		}
		s.logger.Warn("primary email transport failed, trying fallback",
			zap.String("to", toEmail),
			zap.Error(err),
		)
	}

	if s.cfg.SMTPHost != "" {
		return s.sendSMTP(toEmail, subject, body)
	}

	if s.resend == nil {
		return errors.New("no email transport configured")
	}
	return errors.New("all email transports failed")
}

func (s *service) render(recipientName string, notif *domain.Notification) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/notification.html")
	if err != nil {
		return "", fmt.Errorf("parse email templates: %w", err)
	}

	data := struct {
		Title    string
		Name     string
		Message  string
		Priority domain.NotificationPriority
		Color    string
		Link     string
	}{
		Title:    notif.Title,
		Name:     recipientName,
		Message:  notif.Message,
		Priority: notif.Priority,
		Color:    priorityColor(notif.Priority),
		Link:     fmt.Sprintf("https://%s/notifications", s.cfg.Domain),
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", fmt.Errorf("execute email template: %w", err)
	}
	return body.String(), nil
}

func (s *service) sendResend(toEmail, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("TalentVet <%s>", s.cfg.FromEmail),
		To:      []string{toEmail},
		Html:    body,
		Subject: subject,
	}
	_, err := s.resend.Emails.Send(params)
	return err
}

func (s *service) sendSMTP(toEmail, subject, body string) error {
	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: TalentVet <%s>\r\n", s.cfg.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{toEmail}, msg.Bytes())
}

func priorityColor(p domain.NotificationPriority) string {
	switch p {
	case domain.PriorityUrgent:
		return "#ef4444"
	case domain.PriorityHigh:
		return "#f97316"
	default:
		return "#10b981"
	}
}
