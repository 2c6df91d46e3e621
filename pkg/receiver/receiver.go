// Package receiver accepts Duffel webhook deliveries: it checks their
// signature, decodes the event and hands it to a Handler.
package receiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/email"
	"github.com/fabianMendez/duffel/pkg/whatsapp"
	"github.com/go-chi/chi/v5"
)

var ErrInvalidEvent = errors.New("invalid webhook event")

const maxPayloadSize = 1 << 20

type Handler func(ctx context.Context, event duffel.WebhookEvent) error

type Receiver struct {
	// Secret verifies the X-Duffel-Signature header. Deliveries are not
	// verified when it is empty.
	Secret string
	Handle Handler
	Log    *log.Logger
}

func (r Receiver) logger() *log.Logger {
	if r.Log == nil {
		return log.Default()
	}
	return r.Log
}

// Receive verifies and decodes a single delivery, then passes it to Handle.
func (r Receiver) Receive(ctx context.Context, payload []byte, signature string) (duffel.WebhookEvent, error) {
	if r.Secret != "" {
		if err := duffel.VerifySignature(r.Secret, payload, signature); err != nil {
			return duffel.WebhookEvent{}, err
		}
	}

	event, err := duffel.ParseWebhookEvent(payload)
	if err != nil {
		return duffel.WebhookEvent{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	r.logger().Println("received", event.Type, event.ID)

	if r.Handle != nil {
		if err := r.Handle(ctx, event); err != nil {
			return event, fmt.Errorf("could not handle event %s: %w", event.ID, err)
		}
	}
	return event, nil
}

// StatusCode is the HTTP status to answer a delivery that failed with err.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, duffel.ErrInvalidSignature), errors.Is(err, duffel.ErrMalformedSignature):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Router serves deliveries on POST path.
func (r Receiver) Router(path string) http.Handler {
	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Post(path, func(w http.ResponseWriter, req *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(req.Body, maxPayloadSize))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		_, err = r.Receive(req.Context(), payload, req.Header.Get(duffel.SignatureHeader))
		if err != nil {
			r.logger().Println(err)
			http.Error(w, err.Error(), StatusCode(err))
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return router
}

// IsOrderEvent reports whether the event is about an order, e.g.
// order.created or order.airline_initiated_change_detected.
func IsOrderEvent(event duffel.WebhookEvent) bool {
	return strings.HasPrefix(event.Type, "order.")
}

// NotifyOrders emails order events to the given addresses and ignores
// every other event.
func NotifyOrders(to ...string) Handler {
	return func(ctx context.Context, event duffel.WebhookEvent) error {
		if !IsOrderEvent(event) || len(to) == 0 {
			return nil
		}
		if err := email.SendOrderEvent(ctx, event, to...); err != nil {
			return fmt.Errorf("could not send email message: %w", err)
		}
		log.Println("Email message sent")
		return nil
	}
}

// ForwardOrders sends a WhatsApp message about order events to each phone
// number.
func ForwardOrders(phones ...string) Handler {
	return func(ctx context.Context, event duffel.WebhookEvent) error {
		if !IsOrderEvent(event) {
			return nil
		}
		message := fmt.Sprintf("Event %s at %s", event.ID, event.CreatedAt.Format("2006-01-02 15:04 MST"))
		for _, phone := range phones {
			if err := whatsapp.SendMessage(ctx, phone, email.OrderEventSubject(event), message); err != nil {
				return fmt.Errorf("could not send whatsapp message: %w", err)
			}
		}
		return nil
	}
}

// Chain runs the handlers in order and stops at the first error.
func Chain(handlers ...Handler) Handler {
	return func(ctx context.Context, event duffel.WebhookEvent) error {
		for _, h := range handlers {
			if err := h(ctx, event); err != nil {
				return err
			}
		}
		return nil
	}
}

// Notifications builds the handler for comma separated lists of email
// addresses and phone numbers. Either may be empty.
func Notifications(emails, phones string) Handler {
	return Chain(NotifyOrders(split(emails)...), ForwardOrders(split(phones)...))
}

func split(list string) []string {
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
