package duffel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/decode"
)

var (
	ErrMissingAccessToken = errors.New("must set DUFFEL_ACCESS_TOKEN")

	ErrLimitExceeded                 = errors.New("limit exceeds 200")
	ErrInvalidLimit                  = errors.New("limit must be positive")
	ErrInvalidNumberOfPassengers     = errors.New("invalid number of passengers")
	ErrInvalidNumberOfSlices         = errors.New("invalid number of slices")
	ErrInvalidNumberOfSelectedOffers = errors.New("invalid number of selected offers")
	ErrInvalidNumberOfPayments       = errors.New("invalid number of payments")
	ErrInvalidPassenger              = errors.New("invalid passenger")
	ErrInvalidSlice                  = errors.New("invalid slice")
	ErrInvalidService                = errors.New("invalid service")
	ErrInvalidPayment                = errors.New("invalid payment")
	ErrInvalidPaymentType            = errors.New("invalid payment type")
	ErrInvalidCabinClass             = errors.New("invalid cabin class")
	ErrInvalidMaxConnections         = errors.New("invalid max connections")
	ErrInvalidMetadata               = errors.New("invalid metadata")
	ErrInvalidSort                   = errors.New("invalid sort")
	ErrInvalidURL                    = errors.New("invalid url")
	ErrInvalidEvents                 = errors.New("invalid events")
	ErrInvalidMarkup                 = errors.New("invalid markup")
	ErrInvalidLoyaltyProgramme       = errors.New("invalid loyalty programme account")
	ErrMissingField                  = errors.New("required field is missing")
)

// DecodeError is returned when a successful response does not have the
// shape of the expected resource.
type DecodeError = decode.Error

// ValidationError is returned before any request is sent.
type ValidationError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, value interface{}, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}

// ResponseError is returned when a response body is not valid JSON, or is
// not a well formed error envelope.
type ResponseError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected response (%d): %v: %s", e.StatusCode, e.Err, e.Body)
}

func (e *ResponseError) Unwrap() error { return e.Err }

type ErrorItem struct {
	Type             string          `json:"type"`
	Title            string          `json:"title"`
	Message          string          `json:"message"`
	Code             string          `json:"code"`
	DocumentationURL string          `json:"documentation_url"`
	Source           json.RawMessage `json:"source,omitempty"`
}

// APIError is the error envelope returned by the API for any status other
// than 200, 201 and 204. The API may report several errors at once; Error
// only formats the first.
type APIError struct {
	StatusCode int
	Header     http.Header
	Meta       map[string]interface{}
	Errors     []ErrorItem
}

func (e *APIError) Error() string {
	first := e.Errors[0]
	return fmt.Sprintf("%s: %s: %s", first.Type, first.Title, first.Message)
}

func (e *APIError) Message() string { return e.Errors[0].Message }

func (e *APIError) RequestID() string {
	id, _ := e.Meta["request_id"].(string)
	return id
}

// Status returns meta.status, falling back to the HTTP status code.
func (e *APIError) Status() int {
	if status, ok := e.Meta["status"].(float64); ok {
		return int(status)
	}
	return e.StatusCode
}

func parseAPIError(statusCode int, header http.Header, body []byte) error {
	if !json.Valid(body) {
		return &ResponseError{StatusCode: statusCode, Body: string(body), Err: errors.New("invalid json")}
	}

	o, err := decode.Parse(body, "")
	if err != nil {
		return &ResponseError{StatusCode: statusCode, Body: string(body), Err: err}
	}

	apiErr := &APIError{StatusCode: statusCode, Header: header}
	meta := o.Object("meta")
	apiErr.Errors = decode.List(o, "errors", func(item *decode.Object) ErrorItem {
		return ErrorItem{
			Type:             deref(item.OptString("type")),
			Title:            deref(item.OptString("title")),
			Message:          item.String("message"),
			Code:             deref(item.OptString("code")),
			DocumentationURL: deref(item.OptString("documentation_url")),
			Source:           item.Raw("source"),
		}
	})
	if err := o.Err(); err != nil {
		return &ResponseError{StatusCode: statusCode, Body: string(body), Err: err}
	}
	if len(apiErr.Errors) == 0 {
		return &ResponseError{StatusCode: statusCode, Body: string(body), Err: errors.New("error envelope has no errors")}
	}
	if err := json.Unmarshal(meta.Bytes(), &apiErr.Meta); err != nil {
		return &ResponseError{StatusCode: statusCode, Body: string(body), Err: err}
	}

	return apiErr
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
