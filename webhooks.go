package duffel

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

// SignatureHeader carries the signature of every webhook delivery.
const SignatureHeader = "X-Duffel-Signature"

var (
	ErrInvalidSignature   = errors.New("webhook signature does not match")
	ErrMalformedSignature = errors.New("malformed webhook signature header")
)

type Webhook struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Active    bool       `json:"active"`
	Events    []string   `json:"events"`
	LiveMode  bool       `json:"live_mode"`
	Secret    *string    `json:"secret,omitempty"`
	CreatedAt date.Micro `json:"created_at"`
	UpdatedAt date.Micro `json:"updated_at"`
}

func decodeWebhook(o *decode.Object) Webhook {
	return Webhook{
		ID:        o.String("id"),
		URL:       o.String("url"),
		Active:    o.Bool("active"),
		Events:    o.Strings("events"),
		LiveMode:  o.Bool("live_mode"),
		Secret:    o.OptString("secret"),
		CreatedAt: decode.Value(o, "created_at", date.ParseMicro),
		UpdatedAt: decode.Value(o, "updated_at", date.ParseMicro),
	}
}

type WebhookClient struct {
	c *Client
}

func (wc *WebhookClient) Create() WebhookCreate {
	return WebhookCreate{client: wc}
}

func (wc *WebhookClient) Update(id string) WebhookUpdate {
	return WebhookUpdate{client: wc, id: id}
}

// Ping asks Duffel to deliver a test event to the webhook.
func (wc *WebhookClient) Ping(ctx context.Context, id string) error {
	path := pathFor("/air/webhooks", id, "actions", "ping")
	_, err := wc.c.call(ctx, http.MethodPost, path, Params{}, nil)
	return err
}

type WebhookCreate struct {
	client *WebhookClient
	url    string
	events []string
	err    error
}

// validateURL accepts absolute http and https URLs only.
func validateURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid(field, raw, ErrInvalidURL)
	}
	return nil
}

func (b WebhookCreate) URL(u string) WebhookCreate {
	if err := validateURL("url", u); err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.url = u
	return b
}

func (b WebhookCreate) Events(events ...string) WebhookCreate {
	if len(events) == 0 || slices.Contains(events, "") {
		if b.err == nil {
			b.err = invalid("events", events, ErrInvalidEvents)
		}
		return b
	}
	b.events = slices.Clone(events)
	return b
}

func (b WebhookCreate) Err() error { return b.err }

func (b WebhookCreate) Execute(ctx context.Context) (Webhook, error) {
	if b.err != nil {
		return Webhook{}, b.err
	}
	if b.url == "" {
		return Webhook{}, invalid("url", nil, ErrMissingField)
	}
	if len(b.events) == 0 {
		return Webhook{}, invalid("events", nil, ErrInvalidEvents)
	}

	payload := struct {
		URL    string   `json:"url"`
		Events []string `json:"events"`
	}{b.url, b.events}

	return do(ctx, b.client.c, http.MethodPost, "/air/webhooks", Params{}, payload, decodeWebhook)
}

type WebhookUpdate struct {
	client *WebhookClient
	id     string
	active *bool
}

func (b WebhookUpdate) Active(active bool) WebhookUpdate {
	b.active = &active
	return b
}

func (b WebhookUpdate) Execute(ctx context.Context) (Webhook, error) {
	if b.active == nil {
		return Webhook{}, invalid("active", nil, ErrMissingField)
	}

	payload := struct {
		Active bool `json:"active"`
	}{*b.active}

	return do(ctx, b.client.c, http.MethodPatch, pathFor("/air/webhooks", b.id), Params{}, payload, decodeWebhook)
}

// WebhookEvent is the body of a webhook delivery. Data holds the object the
// event is about, undecoded.
type WebhookEvent struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	LiveMode       bool            `json:"live_mode"`
	CreatedAt      date.Micro      `json:"created_at"`
	IdempotencyKey *string         `json:"idempotency_key,omitempty"`
	Data           json.RawMessage `json:"data"`
}

// ObjectID returns the id of the object carried by the event, if any.
func (e WebhookEvent) ObjectID() string {
	var data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	}
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return ""
	}
	return data.Object.ID
}

func ParseWebhookEvent(payload []byte) (WebhookEvent, error) {
	o, err := decode.Parse(payload, "")
	if err != nil {
		return WebhookEvent{}, err
	}
	e := WebhookEvent{
		ID:             o.String("id"),
		Type:           o.String("type"),
		LiveMode:       o.Bool("live_mode"),
		CreatedAt:      decode.Value(o, "created_at", date.ParseMicro),
		IdempotencyKey: o.OptString("idempotency_key"),
		Data:           o.Raw("data"),
	}
	if err := o.Err(); err != nil {
		return WebhookEvent{}, err
	}
	return e, nil
}

// Signature computes the hex HMAC-SHA256 Duffel sends for a payload
// delivered at timestamp.
func Signature(secret string, payload []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a "t=<timestamp>,v1=<signature>" header against
// the payload.
func VerifySignature(secret string, payload []byte, header string) error {
	var timestamp, signature string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return ErrMalformedSignature
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signature = value
		}
	}
	if timestamp == "" || signature == "" {
		return ErrMalformedSignature
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return ErrMalformedSignature
	}
	want, _ := hex.DecodeString(Signature(secret, payload, timestamp))
	if !hmac.Equal(got, want) {
		return ErrInvalidSignature
	}
	return nil
}
