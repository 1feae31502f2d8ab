// internal/services/notification_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/config"
	"github.com/suraja9/OCL-WEB-SERVICE-sub002/internal/models"
)

// NotificationService emails the client contact: the approval link when a
// token is issued, and the outcome when a decision lands. Delivery is
// advisory; callers never fail their operation on a send error.
type NotificationService struct {
	config *config.Config
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{config: cfg}
}

var approvalLinkTemplate = template.Must(template.New("approval_link").Parse(`
<p>Dear {{.ContactName}},</p>
<p>A shipping rate card <strong>{{.RateCardName}}</strong> has been proposed for {{.Company}}.</p>
<p>Please review and approve or reject it here:</p>
<p><a href="{{.ApprovalURL}}">{{.ApprovalURL}}</a></p>
<p>This link stops working once the rate card has been approved or rejected.</p>
`))

var decisionTemplates = map[models.RateCardStatus]*template.Template{
	models.RateCardStatusApproved: template.Must(template.New("approved").Parse(`
<p>Dear {{.ContactName}},</p>
<p>The rate card <strong>{{.RateCardName}}</strong> has been approved by {{.DecidedBy}} and is now active.</p>
`)),
	models.RateCardStatusRejected: template.Must(template.New("rejected").Parse(`
<p>Dear {{.ContactName}},</p>
<p>The rate card <strong>{{.RateCardName}}</strong> has been rejected by {{.DecidedBy}}.</p>
<p>Reason: {{.Reason}}</p>
`)),
}

func (s *NotificationService) SendApprovalLink(rateCard *models.RateCard, token string) error {
	if rateCard.ClientContact.Email == "" {
		return errors.New("rate card has no client contact email")
	}

	data := map[string]interface{}{
		"ContactName":  contactName(rateCard),
		"RateCardName": rateCard.Name,
		"Company":      rateCard.ClientContact.Company,
		"ApprovalURL":  fmt.Sprintf("%s/rate-card-approval/%s", s.config.Frontend.BaseURL, token),
	}

	body, err := renderTemplate(approvalLinkTemplate, data)
	if err != nil {
		return fmt.Errorf("failed to render approval link email: %w", err)
	}

	subject := "Rate card approval requested - " + rateCard.Name
	return s.sendEmail(rateCard.ClientContact.Email, subject, body)
}

func (s *NotificationService) SendDecisionNotification(rateCard *models.RateCard) error {
	if rateCard.ClientContact.Email == "" {
		return errors.New("rate card has no client contact email")
	}

	tmpl, ok := decisionTemplates[rateCard.Status]
	if !ok {
		return fmt.Errorf("no decision template for status %s", rateCard.Status)
	}

	decidedBy := rateCard.ApprovedBy
	if rateCard.Status == models.RateCardStatusRejected {
		decidedBy = rateCard.RejectedBy
	}

	data := map[string]interface{}{
		"ContactName":  contactName(rateCard),
		"RateCardName": rateCard.Name,
		"DecidedBy":    decidedBy,
		"Reason":       rateCard.RejectionReason,
	}

	body, err := renderTemplate(tmpl, data)
	if err != nil {
		return fmt.Errorf("failed to render decision email: %w", err)
	}

	subject := fmt.Sprintf("Rate card %s - %s", rateCard.Status, rateCard.Name)
	return s.sendEmail(rateCard.ClientContact.Email, subject, body)
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	cfg := s.config.Email
	if cfg.SMTPHost == "" {
		return errors.New("smtp is not configured")
	}

	msg := bytes.Buffer{}
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.WriteString(body)

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}

	return smtp.SendMail(addr, auth, cfg.FromEmail, []string{to}, msg.Bytes())
}

func renderTemplate(tmpl *template.Template, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func contactName(rateCard *models.RateCard) string {
	if rateCard.ClientContact.Name != "" {
		return rateCard.ClientContact.Name
	}
	return "Client"
}
