package main

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/receiver"
	"github.com/stretchr/testify/assert"
)

const payload = `{"id":"wev_1","type":"ping.triggered","live_mode":false,"created_at":"2022-01-08T18:44:56.129339Z","data":{"object":{}}}`

func TestHandle(t *testing.T) {
	r := receiver.Receiver{Secret: "a_secret", Log: log.New(io.Discard, "", 0)}
	valid := "t=1616202842,v1=" + duffel.Signature("a_secret", []byte(payload), "1616202842")

	encoded := base64.StdEncoding.EncodeToString([]byte(payload))

	tests := []struct {
		name    string
		body    string
		base64  bool
		headers map[string]string
		status  int
	}{
		{name: "canonical header", body: payload, headers: map[string]string{"X-Duffel-Signature": valid}, status: http.StatusOK},
		{name: "lowercased header", body: payload, headers: map[string]string{"x-duffel-signature": valid}, status: http.StatusOK},
		{name: "missing header", body: payload, headers: map[string]string{}, status: http.StatusUnauthorized},
		{name: "base64 body", body: encoded, base64: true, headers: map[string]string{"X-Duffel-Signature": valid}, status: http.StatusOK},
		{name: "malformed base64 body", body: "not base64!", base64: true, headers: map[string]string{"X-Duffel-Signature": valid}, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := events.APIGatewayProxyRequest{Body: tt.body, IsBase64Encoded: tt.base64, Headers: tt.headers}
			resp := handle(context.Background(), r, request)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestNewReceiverReadsEnvironment(t *testing.T) {
	t.Setenv("DUFFEL_WEBHOOK_SECRET", "from_env")
	t.Setenv("NOTIFY_EMAIL", "")

	r := newReceiver()
	assert.Equal(t, "from_env", r.Secret)
	assert.NotNil(t, r.Handle)
}
