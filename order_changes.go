package duffel

import (
	"context"
	"net/http"
	"slices"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

// ChangeSlices are the slices an order change adds to and removes from
// an order.
type ChangeSlices struct {
	Add    []Slice `json:"add"`
	Remove []Slice `json:"remove"`
}

func decodeChangeSlices(o *decode.Object) ChangeSlices {
	return ChangeSlices{
		Add:    decode.List(o, "add", decodeSlice),
		Remove: decode.List(o, "remove", decodeSlice),
	}
}

type OrderChangeRequest struct {
	ID                string             `json:"id"`
	OrderID           string             `json:"order_id"`
	LiveMode          bool               `json:"live_mode"`
	CreatedAt         date.Micro         `json:"created_at"`
	UpdatedAt         date.Micro         `json:"updated_at"`
	Slices            *ChangeSlices      `json:"slices,omitempty"`
	OrderChangeOffers []OrderChangeOffer `json:"order_change_offers"`
}

type OrderChangeOffer struct {
	ID                   string             `json:"id"`
	OrderChangeID        *string            `json:"order_change_id,omitempty"`
	LiveMode             bool               `json:"live_mode"`
	CreatedAt            date.Micro         `json:"created_at"`
	UpdatedAt            date.Micro         `json:"updated_at"`
	ExpiresAt            date.Flexible      `json:"expires_at"`
	ChangeTotalAmount    string             `json:"change_total_amount"`
	ChangeTotalCurrency  string             `json:"change_total_currency"`
	NewTotalAmount       string             `json:"new_total_amount"`
	NewTotalCurrency     string             `json:"new_total_currency"`
	PenaltyTotalAmount   *string            `json:"penalty_total_amount,omitempty"`
	PenaltyTotalCurrency *string            `json:"penalty_total_currency,omitempty"`
	RefundTo             *RefundDestination `json:"refund_to,omitempty"`
	Slices               ChangeSlices       `json:"slices"`
}

type OrderChange struct {
	ID                   string             `json:"id"`
	OrderID              string             `json:"order_id"`
	LiveMode             bool               `json:"live_mode"`
	CreatedAt            date.Micro         `json:"created_at"`
	ExpiresAt            date.Flexible      `json:"expires_at"`
	ConfirmedAt          *date.Flexible     `json:"confirmed_at,omitempty"`
	ChangeTotalAmount    string             `json:"change_total_amount"`
	ChangeTotalCurrency  string             `json:"change_total_currency"`
	NewTotalAmount       string             `json:"new_total_amount"`
	NewTotalCurrency     string             `json:"new_total_currency"`
	PenaltyTotalAmount   *string            `json:"penalty_total_amount,omitempty"`
	PenaltyTotalCurrency *string            `json:"penalty_total_currency,omitempty"`
	RefundTo             *RefundDestination `json:"refund_to,omitempty"`
	Slices               ChangeSlices       `json:"slices"`
}

func decodeOrderChangeRequest(o *decode.Object) OrderChangeRequest {
	r := OrderChangeRequest{
		ID:                o.String("id"),
		OrderID:           o.String("order_id"),
		LiveMode:          o.Bool("live_mode"),
		CreatedAt:         decode.Value(o, "created_at", date.ParseMicro),
		UpdatedAt:         decode.Value(o, "updated_at", date.ParseMicro),
		OrderChangeOffers: decode.List(o, "order_change_offers", decodeOrderChangeOffer),
	}
	if s := o.OptObject("slices"); s != nil {
		cs := decodeChangeSlices(s)
		r.Slices = &cs
	}
	return r
}

func decodeOrderChangeOffer(o *decode.Object) OrderChangeOffer {
	return OrderChangeOffer{
		ID:                   o.String("id"),
		OrderChangeID:        o.OptString("order_change_id"),
		LiveMode:             o.Bool("live_mode"),
		CreatedAt:            decode.Value(o, "created_at", date.ParseMicro),
		UpdatedAt:            decode.Value(o, "updated_at", date.ParseMicro),
		ExpiresAt:            decode.Value(o, "expires_at", date.ParseFlexible),
		ChangeTotalAmount:    o.String("change_total_amount"),
		ChangeTotalCurrency:  o.String("change_total_currency"),
		NewTotalAmount:       o.String("new_total_amount"),
		NewTotalCurrency:     o.String("new_total_currency"),
		PenaltyTotalAmount:   o.OptString("penalty_total_amount"),
		PenaltyTotalCurrency: o.OptString("penalty_total_currency"),
		RefundTo:             decode.OptValue(o, "refund_to", parseRefundDestination),
		Slices:               decodeChangeSlices(o.Object("slices")),
	}
}

func decodeOrderChange(o *decode.Object) OrderChange {
	return OrderChange{
		ID:                   o.String("id"),
		OrderID:              o.String("order_id"),
		LiveMode:             o.Bool("live_mode"),
		CreatedAt:            decode.Value(o, "created_at", date.ParseMicro),
		ExpiresAt:            decode.Value(o, "expires_at", date.ParseFlexible),
		ConfirmedAt:          decode.OptValue(o, "confirmed_at", date.ParseFlexible),
		ChangeTotalAmount:    o.String("change_total_amount"),
		ChangeTotalCurrency:  o.String("change_total_currency"),
		NewTotalAmount:       o.String("new_total_amount"),
		NewTotalCurrency:     o.String("new_total_currency"),
		PenaltyTotalAmount:   o.OptString("penalty_total_amount"),
		PenaltyTotalCurrency: o.OptString("penalty_total_currency"),
		RefundTo:             decode.OptValue(o, "refund_to", parseRefundDestination),
		Slices:               decodeChangeSlices(o.Object("slices")),
	}
}

// OrderChangeSliceAdd is a new leg to search for.
type OrderChangeSliceAdd struct {
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	DepartureDate date.Date  `json:"departure_date"`
	CabinClass    CabinClass `json:"cabin_class"`
}

// OrderChangeSliceRemove names a slice of the order to give up.
type OrderChangeSliceRemove struct {
	SliceID string `json:"slice_id"`
}

type OrderChangeSlices struct {
	Add    []OrderChangeSliceAdd    `json:"add"`
	Remove []OrderChangeSliceRemove `json:"remove"`
}

func (s OrderChangeSlices) validate() error {
	if len(s.Add) == 0 && len(s.Remove) == 0 {
		return invalid("slices", 0, ErrInvalidNumberOfSlices)
	}
	for _, add := range s.Add {
		if add.Origin == "" || add.Destination == "" || add.DepartureDate.IsZero() {
			return invalid("slices.add", add, ErrInvalidSlice)
		}
		if !slices.Contains(CabinClasses, add.CabinClass) {
			return invalid("slices.add.cabin_class", add.CabinClass, ErrInvalidCabinClass)
		}
	}
	for _, remove := range s.Remove {
		if remove.SliceID == "" {
			return invalid("slices.remove", remove, ErrInvalidSlice)
		}
	}
	return nil
}

type OrderChangeRequestClient struct {
	c *Client
}

func (oc *OrderChangeRequestClient) Get(ctx context.Context, id string) (OrderChangeRequest, error) {
	return get(ctx, oc.c, pathFor("/air/order_change_requests", id), Params{}, decodeOrderChangeRequest)
}

func (oc *OrderChangeRequestClient) Create(orderID string) OrderChangeRequestCreate {
	return OrderChangeRequestCreate{client: oc, orderID: orderID}
}

type OrderChangeRequestCreate struct {
	client  *OrderChangeRequestClient
	orderID string
	slices  OrderChangeSlices
	set     bool
	err     error
}

func (b OrderChangeRequestCreate) Slices(s OrderChangeSlices) OrderChangeRequestCreate {
	if err := s.validate(); err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.slices = OrderChangeSlices{Add: slices.Clone(s.Add), Remove: slices.Clone(s.Remove)}
	if b.slices.Add == nil {
		b.slices.Add = []OrderChangeSliceAdd{}
	}
	if b.slices.Remove == nil {
		b.slices.Remove = []OrderChangeSliceRemove{}
	}
	b.set = true
	return b
}

func (b OrderChangeRequestCreate) Err() error { return b.err }

func (b OrderChangeRequestCreate) Execute(ctx context.Context) (OrderChangeRequest, error) {
	if b.err != nil {
		return OrderChangeRequest{}, b.err
	}
	if b.orderID == "" {
		return OrderChangeRequest{}, invalid("order_id", nil, ErrMissingField)
	}
	if !b.set {
		return OrderChangeRequest{}, invalid("slices", 0, ErrInvalidNumberOfSlices)
	}

	payload := struct {
		OrderID string            `json:"order_id"`
		Slices  OrderChangeSlices `json:"slices"`
	}{b.orderID, b.slices}

	return do(ctx, b.client.c, http.MethodPost, "/air/order_change_requests", Params{}, payload, decodeOrderChangeRequest)
}

type OrderChangeOfferClient struct {
	c *Client
}

func (oc *OrderChangeOfferClient) Get(ctx context.Context, id string) (OrderChangeOffer, error) {
	return get(ctx, oc.c, pathFor("/air/order_change_offers", id), Params{}, decodeOrderChangeOffer)
}

type OrderChangeOfferListParams struct {
	ListParams
	OrderChangeRequestID string
	Sort                 OfferSort
	MaxConnections       *int
}

func (oc *OrderChangeOfferClient) List(ctx context.Context, params OrderChangeOfferListParams) (*Iter[OrderChangeOffer], error) {
	if params.OrderChangeRequestID == "" {
		return nil, invalid("order_change_request_id", nil, ErrMissingField)
	}

	q := Params{}
	q.Add("order_change_request_id", params.OrderChangeRequestID)
	if params.Sort != "" {
		if !slices.Contains(OfferSorts, params.Sort) {
			return nil, invalid("sort", params.Sort, ErrInvalidSort)
		}
		q.Add("sort", string(params.Sort))
	}
	if params.MaxConnections != nil {
		if *params.MaxConnections < 0 {
			return nil, invalid("max_connections", *params.MaxConnections, ErrInvalidMaxConnections)
		}
		q.AddInt("max_connections", *params.MaxConnections)
	}

	return newIter(ctx, oc.c, "/air/order_change_offers", params.ListParams, q, decodeOrderChangeOffer)
}

type OrderChangeClient struct {
	c *Client
}

func (oc *OrderChangeClient) Get(ctx context.Context, id string) (OrderChange, error) {
	return get(ctx, oc.c, pathFor("/air/order_changes", id), Params{}, decodeOrderChange)
}

// Create starts an order change from the chosen order change offer.
func (oc *OrderChangeClient) Create(ctx context.Context, selectedOrderChangeOffer string) (OrderChange, error) {
	if selectedOrderChangeOffer == "" {
		return OrderChange{}, invalid("selected_order_change_offer", nil, ErrMissingField)
	}
	payload := struct {
		SelectedOrderChangeOffer string `json:"selected_order_change_offer"`
	}{selectedOrderChangeOffer}
	return do(ctx, oc.c, http.MethodPost, "/air/order_changes", Params{}, payload, decodeOrderChange)
}

// Confirm pays for an order change and applies it to the order.
func (oc *OrderChangeClient) Confirm(ctx context.Context, id string, payment PaymentInput) (OrderChange, error) {
	if err := validatePayment("payment", payment, PaymentTypeArcBspCash, PaymentTypeBalance, PaymentTypePayments); err != nil {
		return OrderChange{}, err
	}
	payload := struct {
		Payment PaymentInput `json:"payment"`
	}{payment}
	path := pathFor("/air/order_changes", id, "actions", "confirm")
	return do(ctx, oc.c, http.MethodPost, path, Params{}, payload, decodeOrderChange)
}
