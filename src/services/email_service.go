// backend/src/services/email_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/username/gainscan/backend/src/config"
	"github.com/username/gainscan/backend/src/logger"
	"github.com/username/gainscan/backend/src/model"
)

type EmailService interface {
	SendExtractionReport(toEmail string, run *model.ExtractionRun) error
}

func NewEmailService() EmailService {
	if config.Cfg == nil {
		slog.Error("Configuration (config.Cfg) is nil. Email service will default to mock.")
		return &MockEmailService{}
	}

	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	logger.L.Info("Initializing email service", "provider", provider)

	switch provider {
	case "mailgun":
		if config.Cfg.MailgunDomain == "" || config.Cfg.MailgunPrivateAPIKey == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("Mailgun configuration incomplete (Domain, API Key, or SenderEmail missing). Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		logger.L.Info("Mailgun client initialized", "domain", config.Cfg.MailgunDomain)
		return &MailgunEmailService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" || config.Cfg.SMTPPassword == "" || config.Cfg.SenderEmail == "" {
			logger.L.Warn("SMTP configuration incomplete. Falling back to MockEmailService.")
			return &MockEmailService{}
		}
		return &SMTPEmailService{
			SMTPServer:   config.Cfg.SMTPServer,
			SMTPPort:     config.Cfg.SMTPPort,
			SMTPUser:     config.Cfg.SMTPUser,
			SMTPPassword: config.Cfg.SMTPPassword,
			SenderEmail:  config.Cfg.SenderEmail,
		}
	default:
		logger.L.Info("Defaulting to MockEmailService.")
		return &MockEmailService{}
	}
}

func reportSubject(run *model.ExtractionRun) string {
	status := "completed"
	if !run.Result.Success {
		status = "failed"
	}
	return fmt.Sprintf("1099-B extraction %s: %s", status, run.SourceName)
}

func reportPlainTextBody(run *model.ExtractionRun) string {
	r := run.Result
	if !r.Success {
		return fmt.Sprintf(`Extraction run %s for %s failed.

Brokerage: %s
Reason: %s
`, run.ID, run.SourceName, r.Brokerage, r.Error)
	}
	return fmt.Sprintf(`Extraction run %s for %s completed.

Brokerage: %s
Document: %s
Transactions: %d
Total proceeds: %.2f
Total cost basis: %.2f
Total net gain/loss: %.2f
Total wash sale loss: %.2f
`, run.ID, run.SourceName, r.Brokerage, r.DocumentID, len(r.Transactions),
		r.TotalProceeds, r.TotalCostBasis, r.TotalNetGainLoss, r.TotalWashSaleLoss)
}

func reportHTMLBody(run *model.ExtractionRun) string {
	r := run.Result
	if !r.Success {
		return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p>Extraction run <b>%s</b> for <b>%s</b> failed.</p>
			<p>Brokerage: %s<br>Reason: %s</p>
		</body>
	</html>`, run.ID, run.SourceName, r.Brokerage, r.Error)
	}
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6;">
			<p>Extraction run <b>%s</b> for <b>%s</b> completed.</p>
			<table cellpadding="4" style="border-collapse: collapse;">
				<tr><td>Brokerage</td><td>%s</td></tr>
				<tr><td>Document</td><td>%s</td></tr>
				<tr><td>Transactions</td><td>%d</td></tr>
				<tr><td>Total proceeds</td><td>%.2f</td></tr>
				<tr><td>Total cost basis</td><td>%.2f</td></tr>
				<tr><td>Total net gain/loss</td><td>%.2f</td></tr>
				<tr><td>Total wash sale loss</td><td>%.2f</td></tr>
			</table>
		</body>
	</html>`, run.ID, run.SourceName, r.Brokerage, r.DocumentID, len(r.Transactions),
		r.TotalProceeds, r.TotalCostBasis, r.TotalNetGainLoss, r.TotalWashSaleLoss)
}

type SMTPEmailService struct {
	SMTPServer   string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SenderEmail  string
}

func (s *SMTPEmailService) SendExtractionReport(toEmail string, run *model.ExtractionRun) error {
	from := s.SenderEmail
	to := []string{toEmail}
	subject := reportSubject(run)
	body := reportPlainTextBody(run)

	header := make(map[string]string)
	header["From"] = from
	header["To"] = toEmail
	header["Subject"] = subject
	header["MIME-version"] = "1.0"
	header["Content-Type"] = "text/plain; charset=\"UTF-8\""
	message := ""
	for k, v := range header {
		message += fmt.Sprintf("%s: %s\r\n", k, v)
	}
	message += "\r\n" + body
	auth := smtp.PlainAuth("", s.SMTPUser, s.SMTPPassword, s.SMTPServer)
	addr := fmt.Sprintf("%s:%d", s.SMTPServer, s.SMTPPort)
	err := smtp.SendMail(addr, auth, from, to, []byte(message))
	if err != nil {
		logger.L.Error("Failed to send extraction report via SMTP", "error", err, "to", toEmail, "runID", run.ID)
		return fmt.Errorf("failed to send extraction report via SMTP: %w", err)
	}
	logger.L.Info("Extraction report sent successfully via SMTP", "to", toEmail, "runID", run.ID)
	return nil
}

type MailgunEmailService struct {
	mg          mailgun.Mailgun
	senderEmail string
	senderName  string
}

func (s *MailgunEmailService) SendExtractionReport(toEmail string, run *model.ExtractionRun) error {
	from := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	subject := reportSubject(run)
	recipient := toEmail

	message := s.mg.NewMessage(from, subject, reportPlainTextBody(run), recipient)
	message.SetHtml(reportHTMLBody(run))
	message.AddTag("extraction-report")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*20)
	defer cancel()

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send extraction report via Mailgun", "error", err, "to", toEmail, "mailgunResp", resp, "mailgunId", id)
		return fmt.Errorf("mailgun send failed: %w. Response: %s", err, resp)
	}
	logger.L.Info("Extraction report sent successfully via Mailgun", "to", toEmail, "id", id, "runID", run.ID)
	return nil
}

type MockEmailService struct{}

func (m *MockEmailService) SendExtractionReport(toEmail string, run *model.ExtractionRun) error {
	logger.L.Info("MockEmailService: Would send extraction report.",
		"to", toEmail,
		"runID", run.ID,
		"brokerage", run.Result.Brokerage,
		"success", run.Result.Success,
		"transactions", len(run.Result.Transactions))
	return nil
}
