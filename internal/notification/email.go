package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/protocol"
	"github.com/cwihealth/cwi-server/pkg/config"
)

// EmailNotifier sends email notifications for raised waste alerts.
type EmailNotifier struct {
	config *config.SMTPConfig
	logger *zap.Logger
}

// NewEmailNotifier creates a new email notifier
func NewEmailNotifier(cfg *config.SMTPConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{config: cfg, logger: logger}
}

var alertTemplate = template.Must(template.New("alert").Parse(`
Clinical Waste Alert
====================

Department: {{.Department}}
Waste Type: {{.WasteType}}
Quantity: {{printf "%.1f" .QuantityKg}} kg
Risk Score: {{.RiskScore}}/100 ({{.Band}})
Raised At: {{.RaisedAt.Format "2006-01-02 15:04:05 MST"}}
Event ID: {{.EventID}}

{{.Message}}

Review the entry in the alert center and follow the recommended action
recorded on the event.

---
Clinical Waste Intelligence
`))

// SendAlert sends an email for a raised alert.
func (e *EmailNotifier) SendAlert(alert *protocol.AlertMessage) error {
	subject := fmt.Sprintf("Waste Alert [%s] - %s, %s",
		strings.ToUpper(alert.Band), alert.Department, alert.WasteType)

	var buf bytes.Buffer
	if err := alertTemplate.Execute(&buf, alert); err != nil {
		return fmt.Errorf("failed to render alert email: %w", err)
	}

	return e.sendEmail(subject, buf.String())
}

func (e *EmailNotifier) sendEmail(subject, body string) error {
	// Skip sending if SMTP is not configured
	if e.config.Username == "" || e.config.Password == "" {
		e.logger.Info("SMTP not configured, skipping email", zap.String("subject", subject))
		return nil
	}

	var message strings.Builder
	fmt.Fprintf(&message, "From: %s\r\n", e.config.From)
	fmt.Fprintf(&message, "To: %s\r\n", e.config.To)
	fmt.Fprintf(&message, "Subject: %s\r\n", subject)
	fmt.Fprintf(&message, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	message.WriteString("\r\n")
	message.WriteString(body)

	auth := smtp.PlainAuth("", e.config.Username, e.config.Password, e.config.Host)
	addr := fmt.Sprintf("%s:%d", e.config.Host, e.config.Port)

	if err := smtp.SendMail(addr, auth, e.config.From, []string{e.config.To}, []byte(message.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	e.logger.Info("alert email sent", zap.String("subject", subject))
	return nil
}
