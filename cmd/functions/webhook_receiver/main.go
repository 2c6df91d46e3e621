package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/receiver"
)

var headers = map[string]string{
	"Content-Type": "text/plain; charset=utf-8",
}

func newReceiver() receiver.Receiver {
	return receiver.Receiver{
		Secret: os.Getenv("DUFFEL_WEBHOOK_SECRET"),
		Handle: receiver.Notifications(os.Getenv("NOTIFY_EMAIL"), os.Getenv("NOTIFY_PHONE")),
	}
}

// signature looks the header up ignoring case, API Gateway may lowercase it.
func signature(h map[string]string) string {
	for key, value := range h {
		if strings.EqualFold(key, duffel.SignatureHeader) {
			return value
		}
	}
	return ""
}

// body returns the raw payload, which API Gateway base64 encodes for
// binary media types. The signature is computed over the decoded bytes.
func body(request events.APIGatewayProxyRequest) ([]byte, error) {
	if !request.IsBase64Encoded {
		return []byte(request.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(request.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", receiver.ErrInvalidEvent, err)
	}
	return b, nil
}

func handle(ctx context.Context, r receiver.Receiver, request events.APIGatewayProxyRequest) *events.APIGatewayProxyResponse {
	data, err := body(request)
	if err != nil {
		log.Println(err)
		return &events.APIGatewayProxyResponse{
			StatusCode: receiver.StatusCode(err),
			Headers:    headers,
			Body:       err.Error(),
		}
	}

	event, err := r.Receive(ctx, data, signature(request.Headers))
	if err != nil {
		log.Println(err)
		return &events.APIGatewayProxyResponse{
			StatusCode: receiver.StatusCode(err),
			Headers:    headers,
			Body:       err.Error(),
		}
	}

	log.Println("event successfully handled", event.ID)

	return &events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
	}
}

func main() {
	r := newReceiver()
	lambda.Start(func(ctx context.Context, request events.APIGatewayProxyRequest) (*events.APIGatewayProxyResponse, error) {
		return handle(ctx, r, request), nil
	})
}
