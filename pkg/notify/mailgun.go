package notify

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send delivers a rendered notification email via Mailgun.
func (m *Mailgun) Send(ctx context.Context, to, subject, text string) error {
	client := mg.NewMailgun(m.Domain, m.APIKey)
	msg := client.NewMessage(m.Sender, subject, text, to)
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, msg)
	return err
}

// RenderText builds the plain-text body for a queued notification job.
func RenderText(j Job) string {
	d := j.Data
	str := func(k string) string { return fmt.Sprintf("%v", d[k]) }
	switch j.Event {
	case EventWorkerHired:
		return fmt.Sprintf("%s te ha contratado para el trabajo \"%s\".", str("employer_name"), str("job_title"))
	case EventOfferRejected:
		return fmt.Sprintf("%s ha rechazado tu propuesta para el trabajo \"%s\".", str("employer_name"), str("job_title"))
	case EventJobCompleted:
		return fmt.Sprintf("El trabajo \"%s\" fue marcado como completado.", str("job_title"))
	case EventWorkerRated:
		return fmt.Sprintf("%s te ha calificado con %v estrellas por el trabajo \"%s\".", str("rater_name"), d["score"], str("job_title"))
	case EventNewMessage:
		return fmt.Sprintf("%s te ha escrito sobre \"%s\": %s", str("sender_name"), str("job_title"), str("preview"))
	default:
		return "Tienes una notificación nueva en ChambaNica."
	}
}
