package duffel

import (
	"context"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

// Payment pays for a hold order.
type Payment struct {
	ID        string      `json:"id"`
	Amount    string      `json:"amount"`
	Currency  string      `json:"currency"`
	Type      PaymentType `json:"type"`
	CreatedAt date.Micro  `json:"created_at"`
}

func decodePayment(o *decode.Object) Payment {
	return Payment{
		ID:        o.String("id"),
		Amount:    o.String("amount"),
		Currency:  o.String("currency"),
		Type:      decode.Value(o, "type", parsePaymentType),
		CreatedAt: decode.Value(o, "created_at", date.ParseMicro),
	}
}

type PaymentClient struct {
	c *Client
}

func (pc *PaymentClient) Create() PaymentCreate {
	return PaymentCreate{client: pc}
}

type PaymentCreate struct {
	client  *PaymentClient
	orderID string
	payment *PaymentInput
	err     error
}

func (b PaymentCreate) Order(id string) PaymentCreate {
	if id == "" && b.err == nil {
		b.err = invalid("order_id", id, ErrMissingField)
	}
	b.orderID = id
	return b
}

func (b PaymentCreate) Payment(payment PaymentInput) PaymentCreate {
	if err := validatePayment("payment", payment, PaymentTypes...); err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.payment = &payment
	return b
}

func (b PaymentCreate) Err() error { return b.err }

func (b PaymentCreate) Execute(ctx context.Context) (Payment, error) {
	if b.err != nil {
		return Payment{}, b.err
	}
	if b.orderID == "" {
		return Payment{}, invalid("order_id", nil, ErrMissingField)
	}
	if b.payment == nil {
		return Payment{}, invalid("payment", nil, ErrInvalidPayment)
	}

	payload := struct {
		OrderID string       `json:"order_id"`
		Payment PaymentInput `json:"payment"`
	}{b.orderID, *b.payment}

	return do(ctx, b.client.c, http.MethodPost, "/air/payments", Params{}, payload, decodePayment)
}
