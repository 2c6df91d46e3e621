package duffel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fabianMendez/duffel/pkg/decode"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.duffel.com"
	DefaultVersion = "v2"

	// Version of this library, sent in the User-Agent header.
	Version = "0.3.0"

	defaultTimeout       = 60 * time.Second
	defaultRetryInterval = 500 * time.Millisecond
)

type Client struct {
	httpClient *http.Client
	log        *log.Logger

	token         string
	baseURL       string
	version       string
	maxRetries    int
	retryInterval time.Duration
	limiter       *rate.Limiter

	requestCount      int
	requestCountMutex *sync.Mutex

	Aircraft             *AircraftClient
	Airlines             *AirlineClient
	Airports             *AirportClient
	OfferRequests        *OfferRequestClient
	PartialOfferRequests *PartialOfferRequestClient
	Offers               *OfferClient
	Orders               *OrderClient
	OrderCancellations   *OrderCancellationClient
	OrderChangeRequests  *OrderChangeRequestClient
	OrderChangeOffers    *OrderChangeOfferClient
	OrderChanges         *OrderChangeClient
	Payments             *PaymentClient
	PaymentIntents       *PaymentIntentClient
	SeatMaps             *SeatMapClient
	Webhooks             *WebhookClient
	LinksSessions        *SessionClient
}

// NewClient reads the access token from DUFFEL_ACCESS_TOKEN unless
// WithAccessToken is given.
func NewClient(opts ...Option) (*Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = proxy.Dial
	transport.TLSHandshakeTimeout = 10 * time.Second
	transport.ResponseHeaderTimeout = 30 * time.Second

	c := &Client{
		httpClient:        &http.Client{Transport: transport, Timeout: defaultTimeout},
		log:               log.New(io.Discard, "", 0),
		baseURL:           DefaultBaseURL,
		version:           DefaultVersion,
		retryInterval:     defaultRetryInterval,
		requestCountMutex: new(sync.Mutex),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.token == "" {
		c.token = os.Getenv("DUFFEL_ACCESS_TOKEN")
	}
	if c.token == "" {
		return nil, ErrMissingAccessToken
	}

	c.Aircraft = &AircraftClient{c}
	c.Airlines = &AirlineClient{c}
	c.Airports = &AirportClient{c}
	c.OfferRequests = &OfferRequestClient{c}
	c.PartialOfferRequests = &PartialOfferRequestClient{c}
	c.Offers = &OfferClient{c}
	c.Orders = &OrderClient{c}
	c.OrderCancellations = &OrderCancellationClient{c}
	c.OrderChangeRequests = &OrderChangeRequestClient{c}
	c.OrderChangeOffers = &OrderChangeOfferClient{c}
	c.OrderChanges = &OrderChangeClient{c}
	c.Payments = &PaymentClient{c}
	c.PaymentIntents = &PaymentIntentClient{c}
	c.SeatMaps = &SeatMapClient{c}
	c.Webhooks = &WebhookClient{c}
	c.LinksSessions = &SessionClient{c}

	return c, nil
}

// RequestCount is the number of HTTP requests sent so far, retries included.
func (c *Client) RequestCount() int {
	c.requestCountMutex.Lock()
	defer c.requestCountMutex.Unlock()
	return c.requestCount
}

func (c *Client) userAgent() string {
	return fmt.Sprintf("Duffel/%s duffel_api_go/%s", c.version, Version)
}

// pathFor appends escaped segments to base.
func pathFor(base string, segments ...string) string {
	for _, s := range segments {
		base += "/" + url.PathEscape(s)
	}
	return base
}

type request struct {
	method string
	path   string
	params Params
	body   []byte
}

func (r request) url(base string) string {
	u := base + r.path
	if r.params.Len() > 0 {
		u += "?" + r.params.Encode()
	}
	return u
}

type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (c *Client) newRequest(method, path string, params Params, payload interface{}) (request, error) {
	r := request{method: method, path: path, params: params.clone()}
	if payload == nil {
		return r, nil
	}

	body, err := json.Marshal(struct {
		Data interface{} `json:"data"`
	}{payload})
	if err != nil {
		return request{}, fmt.Errorf("could not encode json: %w", err)
	}
	r.body = body

	return r, nil
}

// call sends a request and applies the status policy: 200 and 201 must
// carry JSON, 204 carries nothing and anything else is an APIError.
func (c *Client) call(ctx context.Context, method, path string, params Params, payload interface{}) (*response, error) {
	r, err := c.newRequest(method, path, params, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.request(ctx, r)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		if !json.Valid(resp.Body) {
			return nil, &ResponseError{StatusCode: resp.StatusCode, Body: string(resp.Body), Err: errors.New("invalid json")}
		}
		return resp, nil
	case http.StatusNoContent:
		resp.Body = nil
		return resp, nil
	default:
		return nil, parseAPIError(resp.StatusCode, resp.Header, resp.Body)
	}
}

func (c *Client) request(ctx context.Context, r request) (*response, error) {
	u := r.url(c.baseURL)
	c.log.Println(r.method, u)

	maxAttempts := 1
	if r.method == http.MethodGet {
		maxAttempts += c.maxRetries
	}

	boff := backoff.NewExponentialBackOff()
	boff.InitialInterval = c.retryInterval
	boff.Reset()

	for i := 1; ; i++ {
		if i > 1 {
			boffDuration := boff.NextBackOff()
			if boffDuration == backoff.Stop {
				return nil, fmt.Errorf("could not send request: %s %s: retries exhausted", r.method, u)
			}
			c.log.Println("*** Backoff retry", i, ":", boffDuration)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(boffDuration):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := c.send(ctx, r, u)
		if i < maxAttempts && retryable(ctx, resp, err) {
			continue
		}
		return resp, err
	}
}

func (c *Client) send(ctx context.Context, r request, u string) (*response, error) {
	c.requestCountMutex.Lock()
	c.requestCount++
	c.requestCountMutex.Unlock()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Duffel-Version", c.version)
	req.Header.Set("User-Agent", c.userAgent())
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response: %w", err)
	}

	return &response{StatusCode: resp.StatusCode, Header: resp.Header, Body: b}, nil
}

func retryable(ctx context.Context, resp *response, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		return true
	}
	return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
}

// decodeData decodes the "data" object of a response with fn.
func decodeData[T any](resp *response, fn func(*decode.Object) T) (T, error) {
	var zero T
	if resp.Body == nil {
		return zero, &ResponseError{StatusCode: resp.StatusCode, Err: errors.New("empty response")}
	}

	envelope, err := decode.Parse(resp.Body, "")
	if err != nil {
		return zero, err
	}
	data := envelope.Object("data")
	v := fn(data)
	if err := envelope.Err(); err != nil {
		return zero, err
	}

	return v, nil
}

// decodeDataList is decodeData for responses whose "data" is an array.
func decodeDataList[T any](resp *response, fn func(*decode.Object) T) ([]T, error) {
	if resp.Body == nil {
		return nil, &ResponseError{StatusCode: resp.StatusCode, Err: errors.New("empty response")}
	}

	envelope, err := decode.Parse(resp.Body, "")
	if err != nil {
		return nil, err
	}
	items := decode.List(envelope, "data", fn)
	if err := envelope.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func do[T any](ctx context.Context, c *Client, method, path string, params Params, payload interface{}, fn func(*decode.Object) T) (T, error) {
	resp, err := c.call(ctx, method, path, params, payload)
	if err != nil {
		var zero T
		return zero, err
	}
	return decodeData(resp, fn)
}

func get[T any](ctx context.Context, c *Client, path string, params Params, fn func(*decode.Object) T) (T, error) {
	return do(ctx, c, http.MethodGet, path, params, nil, fn)
}
