package followup

import (
	"errors"
	"fmt"
	"log"

	"naarad-gateway/internal/mailer"
	"naarad-gateway/internal/models"
)

// Outcome is the normalized result of one delivery attempt.
type Outcome struct {
	Status string // email_sent or email_failed
	Body   string // message body, annotated with the failure on failed sends
	Err    error  // transport error behind a failed status
}

// DeliveryAttempter wraps the mail transport. Transport failures fold into a
// failed status so a follow-up is always recorded; only missing credentials
// come back as an error.
type DeliveryAttempter struct {
	Sender mailer.Sender
}

func NewDeliveryAttempter(sender mailer.Sender) *DeliveryAttempter {
	return &DeliveryAttempter{Sender: sender}
}

func (d *DeliveryAttempter) Attempt(toEmail, subject, body string) (Outcome, error) {
	err := d.Sender.Send(toEmail, subject, body)
	if err == nil {
		return Outcome{Status: models.StatusEmailSent, Body: body}, nil
	}
	if errors.Is(err, mailer.ErrMissingCredentials) {
		return Outcome{}, err
	}

	log.Printf("Email delivery to %s failed: %v", toEmail, err)
	return Outcome{
		Status: models.StatusEmailFailed,
		Body:   body + fmt.Sprintf("\n(Email sending failed: %v)", err),
		Err:    err,
	}, nil
}
