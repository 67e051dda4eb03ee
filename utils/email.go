package utils

import (
	"fmt"

	"github.com/keighl/postmark"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"dollers-electro/models"
)

// EmailService sends transactional email through Postmark and promotional
// email through SendGrid. Either client may be absent when its credentials
// are not configured; every send operation checks availability first and
// returns ErrEmailUnavailable instead of panicking on a nil client.
type EmailService struct {
	postmark *postmark.Client
	sendgrid *sendgrid.Client
	sender   string
	baseURL  string
	log      zerolog.Logger
}

// ErrEmailUnavailable is returned when the required email provider is not configured.
var ErrEmailUnavailable = fmt.Errorf("email service is not configured")

// EmailConfig carries the provider credentials for NewEmailService.
type EmailConfig struct {
	PostmarkToken  string
	SendGridAPIKey string
	Sender         string
	BaseURL        string
}

// NewEmailService builds an EmailService from explicit configuration.
// Missing credentials leave the corresponding provider unavailable rather
// than failing construction, so the rest of the application still runs.
func NewEmailService(cfg EmailConfig, log zerolog.Logger) *EmailService {
	es := &EmailService{
		sender:  cfg.Sender,
		baseURL: cfg.BaseURL,
		log:     log,
	}
	if cfg.PostmarkToken != "" {
		es.postmark = postmark.NewClient(cfg.PostmarkToken, "")
	} else {
		log.Warn().Msg("POSTMARK_API_TOKEN not set, transactional email disabled")
	}
	if cfg.SendGridAPIKey != "" {
		es.sendgrid = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY not set, promotional email disabled")
	}
	return es
}

// TransactionalAvailable reports whether the Postmark client is configured.
func (es *EmailService) TransactionalAvailable() bool { return es.postmark != nil }

// PromotionalAvailable reports whether the SendGrid client is configured.
func (es *EmailService) PromotionalAvailable() bool { return es.sendgrid != nil }

// SendEmail sends a transactional email to the specified recipient.
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if !es.TransactionalAvailable() {
		return ErrEmailUnavailable
	}
	_, err := es.postmark.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendVerificationEmail sends an email verification link to the user.
func (es *EmailService) SendVerificationEmail(toEmail, token string) error {
	subject := "Verify Your Email"
	verificationLink := fmt.Sprintf("%s/api/auth/verify?token=%s", es.baseURL, token)
	htmlContent := fmt.Sprintf(
		"<strong>Please verify your email by clicking on the following link:</strong> <a href=\"%s\">Verify Email</a>",
		verificationLink,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendPasswordResetEmail sends a password reset link to the user.
func (es *EmailService) SendPasswordResetEmail(toEmail, token string) error {
	subject := "Reset Your Password"
	resetLink := fmt.Sprintf("%s/reset-password?token=%s", es.baseURL, token)
	htmlContent := fmt.Sprintf(
		"<strong>We received a request to reset your password.</strong><br>Click the link to choose a new one: <a href=\"%s\">Reset Password</a><br>If you did not request this, you can ignore this email.",
		resetLink,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// SendOrderConfirmationEmail sends an order confirmation email to the user.
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order <strong>%s</strong> has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		order.OrderNumber,
		order.Total,
		order.PaymentMethod,
	)
	return es.SendEmail(toEmail, subject, htmlContent)
}

// PromoResult is the outcome of one recipient in a promotional blast.
type PromoResult struct {
	Email  string `json:"email"`
	Status string `json:"status"` // "sent" or "failed"
	Error  string `json:"error,omitempty"`
}

// SendPromotionalBlast sends a promotional email to every recipient,
// collecting a per-recipient outcome. One failed recipient never aborts the
// rest of the batch; results are returned in input order.
func (es *EmailService) SendPromotionalBlast(recipients []string, subject, htmlContent string) []PromoResult {
	results := make([]PromoResult, 0, len(recipients))
	for _, to := range recipients {
		if !es.PromotionalAvailable() {
			results = append(results, PromoResult{Email: to, Status: "failed", Error: ErrEmailUnavailable.Error()})
			continue
		}
		message := mail.NewSingleEmail(
			mail.NewEmail("DollersElectro", es.sender),
			subject,
			mail.NewEmail("", to),
			htmlContent,
			htmlContent,
		)
		resp, err := es.sendgrid.Send(message)
		if err != nil {
			es.log.Warn().Err(err).Str("email", to).Msg("promotional email failed")
			results = append(results, PromoResult{Email: to, Status: "failed", Error: err.Error()})
			continue
		}
		if resp.StatusCode >= 400 {
			es.log.Warn().Int("status", resp.StatusCode).Str("email", to).Msg("promotional email rejected")
			results = append(results, PromoResult{Email: to, Status: "failed", Error: fmt.Sprintf("provider returned status %d", resp.StatusCode)})
			continue
		}
		results = append(results, PromoResult{Email: to, Status: "sent"})
	}
	return results
}
