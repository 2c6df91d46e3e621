package duffel

import (
	"context"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

// OrderCancellation is a quote for cancelling an order. The order is only
// cancelled once the cancellation is confirmed.
type OrderCancellation struct {
	ID             string             `json:"id"`
	OrderID        string             `json:"order_id"`
	LiveMode       bool               `json:"live_mode"`
	CreatedAt      date.Micro         `json:"created_at"`
	ConfirmedAt    *date.Flexible     `json:"confirmed_at,omitempty"`
	ExpiresAt      *date.Flexible     `json:"expires_at,omitempty"`
	RefundAmount   *string            `json:"refund_amount,omitempty"`
	RefundCurrency *string            `json:"refund_currency,omitempty"`
	RefundTo       *RefundDestination `json:"refund_to,omitempty"`
}

func decodeOrderCancellation(o *decode.Object) OrderCancellation {
	return OrderCancellation{
		ID:             o.String("id"),
		OrderID:        o.String("order_id"),
		LiveMode:       o.Bool("live_mode"),
		CreatedAt:      decode.Value(o, "created_at", date.ParseMicro),
		ConfirmedAt:    decode.OptValue(o, "confirmed_at", date.ParseFlexible),
		ExpiresAt:      decode.OptValue(o, "expires_at", date.ParseFlexible),
		RefundAmount:   o.OptString("refund_amount"),
		RefundCurrency: o.OptString("refund_currency"),
		RefundTo:       decode.OptValue(o, "refund_to", parseRefundDestination),
	}
}

type OrderCancellationClient struct {
	c *Client
}

func (oc *OrderCancellationClient) Get(ctx context.Context, id string) (OrderCancellation, error) {
	return get(ctx, oc.c, pathFor("/air/order_cancellations", id), Params{}, decodeOrderCancellation)
}

// List returns the cancellations of orderID, or of every order when it is
// empty.
func (oc *OrderCancellationClient) List(ctx context.Context, orderID string, params ListParams) (*Iter[OrderCancellation], error) {
	q := Params{}
	if orderID != "" {
		q.Add("order_id", orderID)
	}
	return newIter(ctx, oc.c, "/air/order_cancellations", params, q, decodeOrderCancellation)
}

func (oc *OrderCancellationClient) Create(ctx context.Context, orderID string) (OrderCancellation, error) {
	if orderID == "" {
		return OrderCancellation{}, invalid("order_id", nil, ErrMissingField)
	}
	payload := struct {
		OrderID string `json:"order_id"`
	}{orderID}
	return do(ctx, oc.c, http.MethodPost, "/air/order_cancellations", Params{}, payload, decodeOrderCancellation)
}

func (oc *OrderCancellationClient) Confirm(ctx context.Context, id string) (OrderCancellation, error) {
	path := pathFor("/air/order_cancellations", id, "actions", "confirm")
	return do(ctx, oc.c, http.MethodPost, path, Params{}, nil, decodeOrderCancellation)
}
