package duffel

import (
	"context"
	"maps"
	"net/http"
	"slices"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

type Order struct {
	ID               string            `json:"id"`
	LiveMode         bool              `json:"live_mode"`
	CreatedAt        date.Micro        `json:"created_at"`
	BookingReference string            `json:"booking_reference"`
	Type             *OrderType        `json:"type,omitempty"`
	TotalAmount      string            `json:"total_amount"`
	TotalCurrency    string            `json:"total_currency"`
	BaseAmount       string            `json:"base_amount"`
	BaseCurrency     string            `json:"base_currency"`
	TaxAmount        *string           `json:"tax_amount,omitempty"`
	TaxCurrency      *string           `json:"tax_currency,omitempty"`
	Owner            Airline           `json:"owner"`
	Conditions       Conditions        `json:"conditions"`
	PaymentStatus    PaymentStatus     `json:"payment_status"`
	CancelledAt      *date.Micro       `json:"cancelled_at,omitempty"`
	SyncedAt         *date.Second      `json:"synced_at,omitempty"`
	Metadata         map[string]string `json:"metadata"`
	Passengers       []OrderPassenger  `json:"passengers"`
	Slices           []Slice           `json:"slices"`
	Services         []OrderService    `json:"services"`
	Documents        []OrderDocument   `json:"documents"`
}

type OrderPassenger struct {
	ID                string          `json:"id"`
	Type              *PassengerType  `json:"type,omitempty"`
	Title             *PassengerTitle `json:"title,omitempty"`
	Gender            *Gender         `json:"gender,omitempty"`
	GivenName         string          `json:"given_name"`
	FamilyName        string          `json:"family_name"`
	BornOn            *date.Date      `json:"born_on,omitempty"`
	InfantPassengerID *string         `json:"infant_passenger_id,omitempty"`
}

type OrderDocument struct {
	Type             DocumentType `json:"type"`
	UniqueIdentifier string       `json:"unique_identifier"`
	PassengerIDs     []string     `json:"passenger_ids"`
}

type PaymentStatus struct {
	AwaitingPayment         bool         `json:"awaiting_payment"`
	PaymentRequiredBy       *date.Second `json:"payment_required_by,omitempty"`
	PriceGuaranteeExpiresAt *date.Second `json:"price_guarantee_expires_at,omitempty"`
}

func decodeOrder(o *decode.Object) Order {
	return Order{
		ID:               o.String("id"),
		LiveMode:         o.Bool("live_mode"),
		CreatedAt:        decode.Value(o, "created_at", date.ParseMicro),
		BookingReference: o.String("booking_reference"),
		Type:             decode.OptValue(o, "type", parseOrderType),
		TotalAmount:      o.String("total_amount"),
		TotalCurrency:    o.String("total_currency"),
		BaseAmount:       o.String("base_amount"),
		BaseCurrency:     o.String("base_currency"),
		TaxAmount:        o.OptString("tax_amount"),
		TaxCurrency:      o.OptString("tax_currency"),
		Owner:            decodeAirline(o.Object("owner")),
		Conditions:       decodeConditions(o.Object("conditions")),
		PaymentStatus:    decodePaymentStatus(o.Object("payment_status")),
		CancelledAt:      decode.OptValue(o, "cancelled_at", date.ParseMicro),
		SyncedAt:         decode.OptValue(o, "synced_at", date.ParseSecond),
		Metadata:         o.StringMap("metadata"),
		Passengers:       decode.List(o, "passengers", decodeOrderPassenger),
		Slices:           decode.List(o, "slices", decodeSlice),
		Services:         decode.List(o, "services", decodeOrderService),
		Documents:        decode.List(o, "documents", decodeOrderDocument),
	}
}

func decodeOrderPassenger(o *decode.Object) OrderPassenger {
	return OrderPassenger{
		ID:                o.String("id"),
		Type:              decode.OptValue(o, "type", parsePassengerType),
		Title:             decode.OptValue(o, "title", parsePassengerTitle),
		Gender:            decode.OptValue(o, "gender", parseGender),
		GivenName:         o.String("given_name"),
		FamilyName:        o.String("family_name"),
		BornOn:            decode.OptValue(o, "born_on", date.ParseDate),
		InfantPassengerID: o.OptString("infant_passenger_id"),
	}
}

func decodeOrderDocument(o *decode.Object) OrderDocument {
	return OrderDocument{
		Type:             decode.Value(o, "type", parseDocumentType),
		UniqueIdentifier: o.String("unique_identifier"),
		PassengerIDs:     o.Strings("passenger_ids"),
	}
}

func decodePaymentStatus(o *decode.Object) PaymentStatus {
	return PaymentStatus{
		AwaitingPayment:         o.Bool("awaiting_payment"),
		PaymentRequiredBy:       decode.OptValue(o, "payment_required_by", date.ParseSecond),
		PriceGuaranteeExpiresAt: decode.OptValue(o, "price_guarantee_expires_at", date.ParseSecond),
	}
}

type OrderClient struct {
	c *Client
}

func (oc *OrderClient) Get(ctx context.Context, id string) (Order, error) {
	return get(ctx, oc.c, pathFor("/air/orders", id), Params{}, decodeOrder)
}

type OrderListParams struct {
	ListParams
	AwaitingPayment *bool
	Sort            OrderSort
}

func (oc *OrderClient) List(ctx context.Context, params OrderListParams) (*Iter[Order], error) {
	q := Params{}
	if params.AwaitingPayment != nil {
		q.AddBool("awaiting_payment", *params.AwaitingPayment)
	}
	if params.Sort != "" {
		if !slices.Contains(OrderSorts, params.Sort) {
			return nil, invalid("sort", params.Sort, ErrInvalidSort)
		}
		q.Add("sort", string(params.Sort))
	}
	return newIter(ctx, oc.c, "/air/orders", params.ListParams, q, decodeOrder)
}

// OrderPassengerInput identifies a passenger of the selected offer and the
// details the airline needs to book them.
type OrderPassengerInput struct {
	ID                string                  `json:"id,omitempty"`
	Title             PassengerTitle          `json:"title,omitempty"`
	Gender            Gender                  `json:"gender,omitempty"`
	GivenName         string                  `json:"given_name,omitempty"`
	FamilyName        string                  `json:"family_name,omitempty"`
	BornOn            date.Date               `json:"born_on,omitzero"`
	Email             string                  `json:"email,omitempty"`
	PhoneNumber       string                  `json:"phone_number,omitempty"`
	InfantPassengerID string                  `json:"infant_passenger_id,omitempty"`
	IdentityDocuments []IdentityDocumentInput `json:"identity_documents,omitempty"`
}

type IdentityDocumentInput struct {
	Type               IdentityDocumentType `json:"type"`
	UniqueIdentifier   string               `json:"unique_identifier"`
	IssuingCountryCode string               `json:"issuing_country_code"`
	ExpiresOn          date.Date            `json:"expires_on,omitzero"`
}

func (p OrderPassengerInput) empty() bool {
	return p.ID == "" && p.Title == "" && p.Gender == "" && p.GivenName == "" &&
		p.FamilyName == "" && p.BornOn.IsZero() && p.Email == "" && p.PhoneNumber == ""
}

type ServiceInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type PaymentInput struct {
	Amount   string      `json:"amount"`
	Currency string      `json:"currency"`
	Type     PaymentType `json:"type"`
}

// validatePayment checks a payment has every field set and one of the
// allowed types.
func validatePayment(field string, p PaymentInput, allowed ...PaymentType) error {
	if p.Amount == "" || p.Currency == "" || p.Type == "" {
		return invalid(field, p, ErrInvalidPayment)
	}
	if !slices.Contains(allowed, p.Type) {
		return invalid(field+".type", p.Type, ErrInvalidPaymentType)
	}
	return nil
}

// Create starts an instant order; call Hold to pay later.
func (oc *OrderClient) Create() OrderCreate {
	return OrderCreate{client: oc, orderType: OrderTypeInstant}
}

type OrderCreate struct {
	client         *OrderClient
	orderType      OrderType
	passengers     []OrderPassengerInput
	selectedOffers []string
	services       []ServiceInput
	payments       []PaymentInput
	metadata       map[string]string
	err            error
}

func (b *OrderCreate) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Hold books the order without paying for it: no payments are sent.
func (b OrderCreate) Hold() OrderCreate {
	b.orderType = OrderTypeHold
	return b
}

func (b OrderCreate) Instant() OrderCreate {
	b.orderType = OrderTypeInstant
	return b
}

func (b OrderCreate) Passengers(passengers ...OrderPassengerInput) OrderCreate {
	if len(passengers) == 0 {
		b.fail(invalid("passengers", 0, ErrInvalidNumberOfPassengers))
		return b
	}
	for _, p := range passengers {
		if p.empty() {
			b.fail(invalid("passengers", p, ErrInvalidPassenger))
			return b
		}
		if p.Title != "" && !slices.Contains(PassengerTitles, p.Title) {
			b.fail(invalid("passengers.title", p.Title, ErrInvalidPassenger))
			return b
		}
		if p.Gender != "" && !slices.Contains(Genders, p.Gender) {
			b.fail(invalid("passengers.gender", p.Gender, ErrInvalidPassenger))
			return b
		}
	}
	b.passengers = slices.Clone(passengers)
	return b
}

func (b OrderCreate) SelectedOffers(offerIDs ...string) OrderCreate {
	if len(offerIDs) != 1 {
		b.fail(invalid("selected_offers", len(offerIDs), ErrInvalidNumberOfSelectedOffers))
		return b
	}
	b.selectedOffers = slices.Clone(offerIDs)
	return b
}

func (b OrderCreate) Services(services ...ServiceInput) OrderCreate {
	for _, s := range services {
		if s.ID == "" || s.Quantity <= 0 {
			b.fail(invalid("services", s, ErrInvalidService))
			return b
		}
	}
	b.services = slices.Clone(services)
	return b
}

func (b OrderCreate) Payments(payments ...PaymentInput) OrderCreate {
	if len(payments) == 0 {
		b.fail(invalid("payments", 0, ErrInvalidNumberOfPayments))
		return b
	}
	for _, p := range payments {
		if err := validatePayment("payments", p, PaymentTypeArcBspCash, PaymentTypeBalance); err != nil {
			b.fail(err)
			return b
		}
	}
	b.payments = slices.Clone(payments)
	return b
}

func (b OrderCreate) Metadata(metadata map[string]string) OrderCreate {
	if err := validateMetadata(metadata); err != nil {
		b.fail(err)
		return b
	}
	b.metadata = maps.Clone(metadata)
	return b
}

func (b OrderCreate) Err() error { return b.err }

type orderPayload struct {
	Type           OrderType             `json:"type"`
	SelectedOffers []string              `json:"selected_offers"`
	Passengers     []OrderPassengerInput `json:"passengers"`
	Services       []ServiceInput        `json:"services,omitempty"`
	Payments       []PaymentInput        `json:"payments,omitempty"`
	Metadata       map[string]string     `json:"metadata,omitempty"`
}

func (b OrderCreate) payload() (orderPayload, error) {
	if b.err != nil {
		return orderPayload{}, b.err
	}
	if len(b.passengers) == 0 {
		return orderPayload{}, invalid("passengers", 0, ErrInvalidNumberOfPassengers)
	}
	if len(b.selectedOffers) != 1 {
		return orderPayload{}, invalid("selected_offers", len(b.selectedOffers), ErrInvalidNumberOfSelectedOffers)
	}

	p := orderPayload{
		Type:           b.orderType,
		SelectedOffers: b.selectedOffers,
		Passengers:     b.passengers,
		Services:       b.services,
		Metadata:       b.metadata,
	}
	if b.orderType == OrderTypeInstant {
		if len(b.payments) == 0 {
			return orderPayload{}, invalid("payments", 0, ErrInvalidNumberOfPayments)
		}
		p.Payments = b.payments
	}

	return p, nil
}

func (b OrderCreate) Execute(ctx context.Context) (Order, error) {
	payload, err := b.payload()
	if err != nil {
		return Order{}, err
	}
	return do(ctx, b.client.c, http.MethodPost, "/air/orders", Params{}, payload, decodeOrder)
}

const (
	maxMetadataKeys        = 50
	maxMetadataKeyLength   = 40
	maxMetadataValueLength = 500
)

func validateMetadata(metadata map[string]string) error {
	if len(metadata) > maxMetadataKeys {
		return invalid("metadata", len(metadata), ErrInvalidMetadata)
	}
	for k, v := range metadata {
		if k == "" || len(k) > maxMetadataKeyLength {
			return invalid("metadata", k, ErrInvalidMetadata)
		}
		if len(v) > maxMetadataValueLength {
			return invalid("metadata."+k, v, ErrInvalidMetadata)
		}
	}
	return nil
}

func (oc *OrderClient) Update(id string) OrderUpdate {
	return OrderUpdate{client: oc, id: id}
}

type OrderUpdate struct {
	client   *OrderClient
	id       string
	metadata map[string]string
	err      error
}

func (b OrderUpdate) Metadata(metadata map[string]string) OrderUpdate {
	if err := validateMetadata(metadata); err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.metadata = maps.Clone(metadata)
	return b
}

func (b OrderUpdate) Err() error { return b.err }

func (b OrderUpdate) Execute(ctx context.Context) (Order, error) {
	if b.err != nil {
		return Order{}, b.err
	}
	if b.id == "" {
		return Order{}, invalid("id", nil, ErrMissingField)
	}
	if b.metadata == nil {
		return Order{}, invalid("metadata", nil, ErrMissingField)
	}

	payload := struct {
		Metadata map[string]string `json:"metadata"`
	}{b.metadata}

	return do(ctx, b.client.c, http.MethodPatch, pathFor("/air/orders", b.id), Params{}, payload, decodeOrder)
}
