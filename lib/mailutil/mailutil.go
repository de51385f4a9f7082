package mailutil

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"ebayinsights-backend/lib/telemetry"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("ebayinsights.lib.mailutil")

type SmtpConfig struct {
	Server       string   `json:"server"`
	Port         int      `json:"port"`
	EmailAddress string   `json:"email_address"`
	Password     string   `json:"password"`
	Recipients   []string `json:"recipients"`
}

// Configured reports whether there is enough information to send mail.
func (c SmtpConfig) Configured() bool {
	return c.Server != "" && c.EmailAddress != "" && len(c.Recipients) > 0
}

type Message struct {
	Subject string
	Body    string
}

// Build creates the email that Send would deliver.
func (c SmtpConfig) Build(msg Message) *email.Email {
	mail := email.NewEmail()
	mail.From = fmt.Sprintf("eBay Insights <%s>", c.EmailAddress)
	mail.To = c.Recipients
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Body)
	return mail
}

func (c SmtpConfig) Send(ctx context.Context, msg Message) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	span.SetAttributes(attribute.Int("recipients", len(c.Recipients)))

	if !c.Configured() {
		err := fmt.Errorf("smtp is not configured")
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	mail := c.Build(msg)
	addr := fmt.Sprintf("%s:%d", c.Server, c.Port)
	err := mail.Send(addr, smtp.PlainAuth("", c.EmailAddress, c.Password, c.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
