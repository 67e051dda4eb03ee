// Package sms wraps the Twilio gateway behind templated send operations.
// The client is constructed once from configuration and injected; when
// credentials are missing the service is in an explicit unavailable state
// and every send operation reports ErrUnavailable instead of reaching the
// network.
package sms

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// ErrUnavailable is returned when the Twilio credentials are not configured.
var ErrUnavailable = errors.New("sms service is not configured")

// E.164: leading +, country code, 8 to 15 digits total.
var phonePattern = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// ValidatePhone checks that phone is in E.164 format.
func ValidatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("invalid phone number: %q", phone)
	}
	return nil
}

// messageCreator is the slice of the Twilio API the senders need; tests
// substitute a fake transport here.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// Config carries the Twilio credentials for NewService.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Service sends templated SMS messages through Twilio.
type Service struct {
	api  messageCreator
	rest *twilio.RestClient
	from string
	log  zerolog.Logger
}

// NewService builds the SMS service. Missing credentials leave the service
// unavailable rather than failing construction.
func NewService(cfg Config, log zerolog.Logger) *Service {
	s := &Service{from: cfg.FromNumber, log: log}
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		log.Warn().Msg("Twilio credentials not set, SMS disabled")
		return s
	}
	s.rest = twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	s.api = s.rest.Api
	return s
}

// newServiceWithTransport wires an arbitrary transport; used by tests.
func newServiceWithTransport(api messageCreator, from string, log zerolog.Logger) *Service {
	return &Service{api: api, from: from, log: log}
}

// Available reports whether the gateway is configured.
func (s *Service) Available() bool { return s.api != nil }

// send validates the recipient, checks availability and forwards one message.
func (s *Service) send(to, body string) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	if err := ValidatePhone(to); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to send SMS: %w", err)
	}
	sid := ""
	if msg.Sid != nil {
		sid = *msg.Sid
	}
	return sid, nil
}

// SendVerificationCode sends a login/registration verification code.
func (s *Service) SendVerificationCode(to, code string) (string, error) {
	body := fmt.Sprintf("Your DollersElectro verification code is %s. It expires in 10 minutes.", code)
	return s.send(to, body)
}

// orderStatusTemplates maps an order lifecycle status to its message body.
// The order number is interpolated into the %s verb.
var orderStatusTemplates = map[string]string{
	"confirmed":  "Your DollersElectro order %s has been confirmed. Thank you for your purchase!",
	"processing": "Your DollersElectro order %s is being prepared for shipment.",
	"shipped":    "Good news! Your DollersElectro order %s has shipped.",
	"delivered":  "Your DollersElectro order %s has been delivered. Enjoy!",
	"cancelled":  "Your DollersElectro order %s has been cancelled. Contact support if this is unexpected.",
}

// SendOrderStatusUpdate notifies a customer that their order changed status.
// Unknown statuses fall back to a generic update message.
func (s *Service) SendOrderStatusUpdate(to, orderNumber, status string) (string, error) {
	tmpl, ok := orderStatusTemplates[status]
	if !ok {
		tmpl = "Your DollersElectro order %s has been updated."
	}
	return s.send(to, fmt.Sprintf(tmpl, orderNumber))
}

// SendDeliveryReminder reminds a customer of an upcoming delivery.
func (s *Service) SendDeliveryReminder(to, orderNumber, deliveryDate string) (string, error) {
	body := fmt.Sprintf("Reminder: your DollersElectro order %s is scheduled for delivery on %s.", orderNumber, deliveryDate)
	return s.send(to, body)
}

// SendLowStockAlert notifies staff that a product is running low.
func (s *Service) SendLowStockAlert(to, productName string, stock int) (string, error) {
	body := fmt.Sprintf("Low stock alert: %s has %d units remaining.", productName, stock)
	return s.send(to, body)
}

// SendPromo sends a promotional message to a single recipient.
func (s *Service) SendPromo(to, message string) (string, error) {
	return s.send(to, message)
}

// BulkResult is the outcome of one recipient in a bulk send.
type BulkResult struct {
	To     string `json:"to"`
	Status string `json:"status"` // "sent" or "failed"
	Sid    string `json:"sid,omitempty"`
	Error  string `json:"error,omitempty"`
}

// SendBulk sends body to every recipient sequentially. Each recipient is
// isolated in its own result slot: a transport failure for one never aborts
// the remaining recipients. Results are returned in input order.
func (s *Service) SendBulk(recipients []string, body string) []BulkResult {
	results := make([]BulkResult, 0, len(recipients))
	for _, to := range recipients {
		sid, err := s.send(to, body)
		if err != nil {
			s.log.Warn().Err(err).Str("to", to).Msg("bulk SMS recipient failed")
			results = append(results, BulkResult{To: to, Status: "failed", Error: err.Error()})
			continue
		}
		results = append(results, BulkResult{To: to, Status: "sent", Sid: sid})
	}
	return results
}

// Ping verifies connectivity by fetching the Twilio account.
func (s *Service) Ping() error {
	if s.rest == nil {
		return ErrUnavailable
	}
	if _, err := s.rest.Api.FetchAccount(s.rest.Client.AccountSid()); err != nil {
		return fmt.Errorf("failed to reach Twilio: %w", err)
	}
	return nil
}

// MessageRecord is one historical message returned by ListMessages.
type MessageRecord struct {
	Sid    string `json:"sid"`
	To     string `json:"to"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

// ListMessages returns messages sent within the given date range.
func (s *Service) ListMessages(after, before time.Time) ([]MessageRecord, error) {
	if s.rest == nil {
		return nil, ErrUnavailable
	}
	params := &openapi.ListMessageParams{}
	params.SetDateSentAfter(after)
	params.SetDateSentBefore(before)

	msgs, err := s.rest.Api.ListMessage(params)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	records := make([]MessageRecord, 0, len(msgs))
	for _, m := range msgs {
		rec := MessageRecord{}
		if m.Sid != nil {
			rec.Sid = *m.Sid
		}
		if m.To != nil {
			rec.To = *m.To
		}
		if m.Status != nil {
			rec.Status = *m.Status
		}
		if m.Body != nil {
			rec.Body = *m.Body
		}
		records = append(records, rec)
	}
	return records, nil
}
