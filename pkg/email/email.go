// Package email sends notification emails through Mailgun. The Mailgun
// domain and key come from MG_DOMAIN and MG_API_KEY, the sender from
// MG_FROM.
package email

import (
	"bytes"
	"context"
	"html/template"
	"os"

	"github.com/fabianMendez/duffel"
	"github.com/mailgun/mailgun-go/v4"
)

const TplOrderEvent = `<p>Duffel sent a <strong>{{.event.Type}}</strong> event.</p>
<ul>
	<li>Event: {{.event.ID}}</li>
	<li>Order: {{.order}}</li>
	<li>Received: {{.event.CreatedAt}}</li>
	{{if .event.LiveMode}}<li>Live mode</li>{{else}}<li>Test mode</li>{{end}}
</ul>`

func BuildMessage(body string, data interface{}) (string, error) {
	if data == nil {
		return body, nil
	}

	buf := new(bytes.Buffer)
	tpl, err := template.New("email body").Parse(body)
	if err != nil {
		return "", err
	}

	err = tpl.Execute(buf, data)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}

func SendMessage(ctx context.Context, subject, body string, data interface{}, to ...string) error {
	mg, err := mailgun.NewMailgunFromEnv()
	if err != nil {
		return err
	}

	html, err := BuildMessage(body, data)
	if err != nil {
		return err
	}

	msg := mg.NewMessage(os.Getenv("MG_FROM"), subject, "", to...)
	msg.SetHtml(html)

	_, _, err = mg.Send(ctx, msg)
	return err
}

// OrderEventSubject is the subject line of the email sent for event.
func OrderEventSubject(event duffel.WebhookEvent) string {
	if id := event.ObjectID(); id != "" {
		return "Duffel " + event.Type + ": " + id
	}
	return "Duffel " + event.Type
}

func orderEventData(event duffel.WebhookEvent) map[string]interface{} {
	return map[string]interface{}{
		"event": event,
		"order": event.ObjectID(),
	}
}

// OrderEventMessage renders the body of the email sent for event.
func OrderEventMessage(event duffel.WebhookEvent) (string, error) {
	return BuildMessage(TplOrderEvent, orderEventData(event))
}

func SendOrderEvent(ctx context.Context, event duffel.WebhookEvent, to ...string) error {
	return SendMessage(ctx, OrderEventSubject(event), TplOrderEvent, orderEventData(event), to...)
}
