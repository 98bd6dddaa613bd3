package utils

import (
	"fmt"
	"os"
	"strconv"

	"purchase-orders-backend/config"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var mailer *gomail.Dialer

// InitializeMailer sets up the SMTP dialer from SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASSWORD.
func InitializeMailer() {
	mailHost := config.GetEnv("SMTP_HOST")
	mailPort := config.GetEnv("SMTP_PORT")

	port, err := strconv.Atoi(mailPort)
	if err != nil {
		config.Logger.Error("Invalid SMTP_PORT value, defaulting to port 25",
			zap.String("provided_port", mailPort),
			zap.Error(err),
		)
		port = 25
	}

	mailer = gomail.NewDialer(mailHost, port, config.GetEnv("SMTP_USER"), config.GetEnv("SMTP_PASSWORD"))
	config.Logger.Info("Mailer initialized successfully")
}

// SendEmail sends an HTML email with an optional attachment.
func SendEmail(to, subject, htmlBody, attachmentPath string) error {
	if mailer == nil {
		err := fmt.Errorf("mailer is not initialized")
		config.Logger.Error("Email send failed", zap.String("to_email", to), zap.Error(err))
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", config.GetEnvOrDefault("SMTP_FROM", config.GetEnv("SMTP_USER")))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if attachmentPath != "" {
		if _, err := os.Stat(attachmentPath); err == nil {
			m.Attach(attachmentPath)
		} else {
			config.Logger.Warn("Attachment file not found for email",
				zap.String("filepath", attachmentPath),
				zap.String("to_email", to),
				zap.Error(err),
			)
		}
	}

	if err := mailer.DialAndSend(m); err != nil {
		config.Logger.Error("Failed to send email via SMTP",
			zap.String("to_email", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}

	config.Logger.Info("Email sent successfully",
		zap.String("to_email", to),
		zap.String("subject", subject),
		zap.Bool("has_attachment", attachmentPath != ""),
	)
	return nil
}
