package duffel

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/air/webhooks/sev_1/actions/ping", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.Webhooks.Ping(context.Background(), "sev_1"))
}

func TestPingNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusNotFound, `{"meta":{"status":404,"request_id":"FZW0H3HdJwKk5HMAAKxB"},"errors":[{"type":"invalid_request_error","title":"Not found","message":"The resource you are trying to access does not exist.","code":"not_found"}]}`)
	})

	err := c.Webhooks.Ping(context.Background(), "sev_1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "FZW0H3HdJwKk5HMAAKxB", apiErr.RequestID())
}

const webhookJSON = `{"data":{"id":"sev_0000A3tQSmKyqOrcySrGbo","url":"https://www.example.com:4000/webhooks","active":true,"events":["order.created","order.updated"],"live_mode":false,"secret":"dGhpcyBpcyBhIHNlY3JldA==","created_at":"2022-01-08T18:44:56.129339Z","updated_at":"2022-01-08T18:44:56.129339Z"}}`

func TestCreateWebhook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air/webhooks", r.URL.Path)
		assert.Equal(t, map[string]interface{}{
			"url":    "https://www.example.com:4000/webhooks",
			"events": []interface{}{"order.created", "order.updated"},
		}, readBody(t, r))
		jsonResponse(w, http.StatusCreated, webhookJSON)
	})

	webhook, err := c.Webhooks.Create().
		URL("https://www.example.com:4000/webhooks").
		Events("order.created", "order.updated").
		Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, webhook.Active)
	require.NotNil(t, webhook.Secret)
	assert.Equal(t, "dGhpcyBpcyBhIHNlY3JldA==", *webhook.Secret)
}

func TestUpdateWebhook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, map[string]interface{}{"active": false}, readBody(t, r))
		jsonResponse(w, http.StatusOK, webhookJSON)
	})

	_, err := c.Webhooks.Update("sev_1").Active(false).Execute(context.Background())
	assert.NoError(t, err)
}

func TestVerifySignature(t *testing.T) {
	secret := "a_secret"
	payload := []byte(`{"id":"wev_1","type":"order.created"}`)
	signature := Signature(secret, payload, "1616202842")

	tests := []struct {
		name   string
		secret string
		header string
		err    error
	}{
		{name: "valid", secret: secret, header: "t=1616202842,v1=" + signature},
		{name: "valid with spaces", secret: secret, header: "t=1616202842, v1=" + signature},
		{name: "wrong secret", secret: "other", header: "t=1616202842,v1=" + signature, err: ErrInvalidSignature},
		{name: "wrong timestamp", secret: secret, header: "t=1616202843,v1=" + signature, err: ErrInvalidSignature},
		{name: "missing timestamp", secret: secret, header: "v1=" + signature, err: ErrMalformedSignature},
		{name: "not hex", secret: secret, header: "t=1616202842,v1=zz", err: ErrMalformedSignature},
		{name: "empty", secret: secret, header: "", err: ErrMalformedSignature},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifySignature(tt.secret, payload, tt.header)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSignatureIsHexSHA256(t *testing.T) {
	assert.Len(t, Signature("secret", []byte("{}"), "1"), 64)
	assert.NotEqual(t, Signature("secret", []byte("{}"), "1"), Signature("secret", []byte("{}"), "2"))
}

func TestParseWebhookEvent(t *testing.T) {
	event, err := ParseWebhookEvent([]byte(`{
		"id":"wev_0000A4tQSmKyqOrcySrGbo",
		"type":"order.created",
		"live_mode":false,
		"created_at":"2022-01-08T18:44:56.129339Z",
		"idempotency_key":"ord_0000A4tQSmKyqOrcySrGbo",
		"data":{"object":{"id":"ord_0000A4tQSmKyqOrcySrGbo","booking_reference":"RZPNX8"}}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "order.created", event.Type)
	assert.Equal(t, "ord_0000A4tQSmKyqOrcySrGbo", event.ObjectID())
	assert.Equal(t, "2022-01-08T18:44:56.129339Z", event.CreatedAt.String())

	_, err = ParseWebhookEvent([]byte(`{"id":"wev_1"}`))
	assert.Error(t, err)
}
