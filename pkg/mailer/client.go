package mailer

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type Client struct {
	dialer *gomail.Dialer
	from   string
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	Secure   bool
	From     string
}

func NewClient(opts Options) *Client {
	dialer := gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password)
	dialer.SSL = opts.Secure
	dialer.TLSConfig = &tls.Config{ServerName: opts.Host}
	return &Client{dialer: dialer, from: opts.From}
}

func (c *Client) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
