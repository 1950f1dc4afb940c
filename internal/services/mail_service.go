package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/example/seidik/internal/config"
	"github.com/example/seidik/internal/models"
)

// MailService sends transactional email over SMTP. Every send is
// fire-and-forget: failures are logged and never propagate, because
// registration and OTP issuance must not block on email deliverability.
type MailService struct {
	host       string
	port       string
	username   string
	password   string
	from       string
	adminEmail string
}

// NewMailService constructs a MailService from config.
func NewMailService(cfg *config.Config) *MailService {
	return &MailService{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUsername,
		password:   cfg.SMTPPassword,
		from:       cfg.EmailFrom,
		adminEmail: cfg.AdminEmail,
	}
}

// SendVerificationCode emails a registration OTP.
func (s *MailService) SendVerificationCode(to, code string) {
	body := fmt.Sprintf(
		"Your verification code is: %s\n\nThis code will expire in 10 minutes.\nIf you did not request this, please ignore this email.",
		code,
	)
	s.send(to, "Email Verification - Seidik Ecommerce", body)
}

// SendPasswordResetCode emails a password-reset OTP.
func (s *MailService) SendPasswordResetCode(to, code string) {
	body := fmt.Sprintf(
		"Your password reset code is: %s\n\nThis code will expire in 10 minutes.\nIf you did not request a password reset, please ignore this email.",
		code,
	)
	s.send(to, "Password Reset Code", body)
}

// SendContactNotification forwards a contact-form submission to the admin
// address, when one is configured.
func (s *MailService) SendContactNotification(msg *models.ContactMessage) {
	if s.adminEmail == "" {
		return
	}

	body := fmt.Sprintf(
		"New contact form submission:\n\nName: %s\nEmail: %s\nPhone: %s\nCompany: %s\n\nMessage:\n%s",
		msg.Name, msg.Email, orDefault(msg.Phone), orDefault(msg.CompanyName), msg.Message,
	)
	s.send(s.adminEmail, "New Contact Form Submission from "+msg.Name, body)
}

// SendContactConfirmation acknowledges a contact-form submission to its sender.
func (s *MailService) SendContactConfirmation(msg *models.ContactMessage) {
	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for reaching out to us. We have received your message and will get back to you as soon as possible.\n\nYour message:\n%s\n\nBest regards,\nSeidik Ecommerce Team",
		msg.Name, msg.Message,
	)
	s.send(msg.Email, "Thank you for contacting Seidik Ecommerce", body)
}

func (s *MailService) send(to, subject, body string) {
	if s.host == "" {
		log.Printf("smtp not configured, skipping %q to %s", subject, to)
		return
	}

	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("email sending failed: %v", err)
	}
}

func orDefault(v string) string {
	if v == "" {
		return "Not provided"
	}
	return v
}
