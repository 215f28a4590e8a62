package mailer

import "log/slog"

// LogSender writes emails to the log instead of sending them. It is used
// when no SMTP credentials are configured.
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody string) error {
	slog.Info("email not sent, SMTP not configured", "to", to, "subject", subject, "body", htmlBody)
	return nil
}
