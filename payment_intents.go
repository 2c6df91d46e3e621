package duffel

import (
	"context"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

// PaymentIntent collects a card payment from a customer. The client token
// is handed to the card form, and the intent is confirmed once the card
// details have been collected.
type PaymentIntent struct {
	ID                 string         `json:"id"`
	LiveMode           bool           `json:"live_mode"`
	Amount             string         `json:"amount"`
	Currency           string         `json:"currency"`
	NetAmount          *string        `json:"net_amount,omitempty"`
	NetCurrency        *string        `json:"net_currency,omitempty"`
	FeesAmount         *string        `json:"fees_amount,omitempty"`
	FeesCurrency       *string        `json:"fees_currency,omitempty"`
	ClientToken        string         `json:"client_token"`
	CardCountryCode    *string        `json:"card_country_code,omitempty"`
	CardLastFourDigits *string        `json:"card_last_four_digits,omitempty"`
	CardNetwork        *string        `json:"card_network,omitempty"`
	Status             *string        `json:"status,omitempty"`
	Refunds            []Refund       `json:"refunds"`
	ConfirmedAt        *date.Flexible `json:"confirmed_at,omitempty"`
	CreatedAt          date.Micro     `json:"created_at"`
	UpdatedAt          date.Micro     `json:"updated_at"`
}

// Refund returns money collected through a payment intent. A payment
// intent can be refunded partially, several times.
type Refund struct {
	ID              string     `json:"id"`
	LiveMode        bool       `json:"live_mode"`
	PaymentIntentID string     `json:"payment_intent_id"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	NetAmount       *string    `json:"net_amount,omitempty"`
	NetCurrency     *string    `json:"net_currency,omitempty"`
	Status          string     `json:"status"`
	Destination     string     `json:"destination"`
	Arrival         string     `json:"arrival"`
	CreatedAt       date.Micro `json:"created_at"`
	UpdatedAt       date.Micro `json:"updated_at"`
}

func decodePaymentIntent(o *decode.Object) PaymentIntent {
	return PaymentIntent{
		ID:                 o.String("id"),
		LiveMode:           o.Bool("live_mode"),
		Amount:             o.String("amount"),
		Currency:           o.String("currency"),
		NetAmount:          o.OptString("net_amount"),
		NetCurrency:        o.OptString("net_currency"),
		FeesAmount:         o.OptString("fees_amount"),
		FeesCurrency:       o.OptString("fees_currency"),
		ClientToken:        o.String("client_token"),
		CardCountryCode:    o.OptString("card_country_code"),
		CardLastFourDigits: o.OptString("card_last_four_digits"),
		CardNetwork:        o.OptString("card_network"),
		Status:             o.OptString("status"),
		Refunds:            decode.List(o, "refunds", decodeRefund),
		ConfirmedAt:        decode.OptValue(o, "confirmed_at", date.ParseFlexible),
		CreatedAt:          decode.Value(o, "created_at", date.ParseMicro),
		UpdatedAt:          decode.Value(o, "updated_at", date.ParseMicro),
	}
}

func decodeRefund(o *decode.Object) Refund {
	return Refund{
		ID:              o.String("id"),
		LiveMode:        o.Bool("live_mode"),
		PaymentIntentID: o.String("payment_intent_id"),
		Amount:          o.String("amount"),
		Currency:        o.String("currency"),
		NetAmount:       o.OptString("net_amount"),
		NetCurrency:     o.OptString("net_currency"),
		Status:          o.String("status"),
		Destination:     o.String("destination"),
		Arrival:         o.String("arrival"),
		CreatedAt:       decode.Value(o, "created_at", date.ParseMicro),
		UpdatedAt:       decode.Value(o, "updated_at", date.ParseMicro),
	}
}

type PaymentIntentClient struct {
	c *Client
}

func (pc *PaymentIntentClient) Get(ctx context.Context, id string) (PaymentIntent, error) {
	return get(ctx, pc.c, pathFor("/payments/payment_intents", id), Params{}, decodePaymentIntent)
}

func (pc *PaymentIntentClient) Create() PaymentIntentCreate {
	return PaymentIntentCreate{client: pc}
}

// Confirm charges the collected card. The amount, minus fees, is added to
// the balance.
func (pc *PaymentIntentClient) Confirm(ctx context.Context, id string) (PaymentIntent, error) {
	path := pathFor("/payments/payment_intents", id, "actions", "confirm")
	return do(ctx, pc.c, http.MethodPost, path, Params{}, nil, decodePaymentIntent)
}

type PaymentIntentCreate struct {
	client   *PaymentIntentClient
	amount   string
	currency string
	err      error
}

func (b PaymentIntentCreate) Payment(amount, currency string) PaymentIntentCreate {
	if amount == "" || currency == "" {
		if b.err == nil {
			b.err = invalid("payment", amount+" "+currency, ErrInvalidPayment)
		}
		return b
	}
	b.amount = amount
	b.currency = currency
	return b
}

func (b PaymentIntentCreate) Err() error { return b.err }

func (b PaymentIntentCreate) Execute(ctx context.Context) (PaymentIntent, error) {
	if b.err != nil {
		return PaymentIntent{}, b.err
	}
	if b.amount == "" || b.currency == "" {
		return PaymentIntent{}, invalid("payment", nil, ErrInvalidPayment)
	}

	payload := struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{b.amount, b.currency}

	return do(ctx, b.client.c, http.MethodPost, "/payments/payment_intents", Params{}, payload, decodePaymentIntent)
}
