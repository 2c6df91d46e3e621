// Package whatsapp forwards short notifications to a WhatsApp gateway
// configured with WA_URL and WA_TOKEN.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
)

// SendMessage posts the message to the gateway. It does nothing when the
// gateway is not configured.
func SendMessage(ctx context.Context, to, subject, message string) error {
	waurl := os.Getenv("WA_URL")
	watoken := os.Getenv("WA_TOKEN")
	if waurl == "" {
		log.Print("Whatsapp URL not set")
		return nil
	}
	if watoken == "" {
		log.Print("Whatsapp token not set")
		return nil
	}

	request := struct {
		To      string `json:"to"`
		Message string `json:"message"`
	}{
		To:      to,
		Message: fmt.Sprintf("*%s*\n\n%s", subject, message),
	}

	body := new(bytes.Buffer)
	err := json.NewEncoder(body).Encode(request)
	if err != nil {
		return fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, waurl+"/send", body)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Authorization", "token "+watoken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("whatsapp gateway answered %s", resp.Status)
	}
	return nil
}
