package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"dollers-electro/sms"
	"dollers-electro/utils"
)

// NotificationController exposes the promotional blast operations to staff
type NotificationController struct {
	SMSService   *sms.Service
	EmailService *utils.EmailService
	Log          zerolog.Logger
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(smsService *sms.Service, emailService *utils.EmailService, log zerolog.Logger) *NotificationController {
	return &NotificationController{
		SMSService:   smsService,
		EmailService: emailService,
		Log:          log,
	}
}

type promotionRequest struct {
	Message string   `json:"message"`
	Phones  []string `json:"phones"`
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendPromotion fans a promotional message out over SMS and email (Admin only).
// Each recipient gets its own result slot; one failure never aborts the rest.
func (nc *NotificationController) SendPromotion(w http.ResponseWriter, r *http.Request) {
	var req promotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Phones) == 0 && len(req.Emails) == 0 {
		respondError(w, http.StatusBadRequest, "No recipients")
		return
	}
	if len(req.Phones) > 0 && req.Message == "" {
		respondError(w, http.StatusBadRequest, "Message is required for SMS recipients")
		return
	}
	if len(req.Emails) > 0 && (req.Subject == "" || req.HTML == "") {
		respondError(w, http.StatusBadRequest, "Subject and html are required for email recipients")
		return
	}

	data := map[string]interface{}{}
	if len(req.Phones) > 0 {
		data["sms"] = nc.SMSService.SendBulk(req.Phones, req.Message)
	}
	if len(req.Emails) > 0 {
		data["email"] = nc.EmailService.SendPromotionalBlast(req.Emails, req.Subject, req.HTML)
	}

	respondData(w, http.StatusOK, data)
}
