package duffel

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

type Offer struct {
	ID                                    string                 `json:"id"`
	LiveMode                              bool                   `json:"live_mode"`
	CreatedAt                             date.Micro             `json:"created_at"`
	UpdatedAt                             date.Micro             `json:"updated_at"`
	ExpiresAt                             date.Flexible          `json:"expires_at"`
	TotalAmount                           string                 `json:"total_amount"`
	TotalCurrency                         string                 `json:"total_currency"`
	BaseAmount                            *string                `json:"base_amount,omitempty"`
	BaseCurrency                          *string                `json:"base_currency,omitempty"`
	TaxAmount                             *string                `json:"tax_amount,omitempty"`
	TaxCurrency                           *string                `json:"tax_currency,omitempty"`
	TotalEmissionsKg                      *string                `json:"total_emissions_kg,omitempty"`
	Partial                               *bool                  `json:"partial,omitempty"`
	Owner                                 Airline                `json:"owner"`
	PassengerIdentityDocumentsRequired    bool                   `json:"passenger_identity_documents_required"`
	AllowedPassengerIdentityDocumentTypes []IdentityDocumentType `json:"allowed_passenger_identity_document_types"`
	Conditions                            Conditions             `json:"conditions"`
	PaymentRequirements                   PaymentRequirements    `json:"payment_requirements"`
	Passengers                            []Passenger            `json:"passengers"`
	Slices                                []Slice                `json:"slices"`
	AvailableServices                     []OfferService         `json:"available_services"`
}

// Condition tells whether a change or refund is allowed and what it costs.
type Condition struct {
	Allowed         bool    `json:"allowed"`
	PenaltyAmount   *string `json:"penalty_amount,omitempty"`
	PenaltyCurrency *string `json:"penalty_currency,omitempty"`
}

type Conditions struct {
	ChangeBeforeDeparture *Condition `json:"change_before_departure,omitempty"`
	RefundBeforeDeparture *Condition `json:"refund_before_departure,omitempty"`
}

type PaymentRequirements struct {
	RequiresInstantPayment  bool         `json:"requires_instant_payment"`
	PriceGuaranteeExpiresAt *date.Second `json:"price_guarantee_expires_at,omitempty"`
	PaymentRequiredBy       *date.Second `json:"payment_required_by,omitempty"`
}

// Passenger as listed in offer requests and offers. Either Type or Age is
// set.
type Passenger struct {
	ID                       string                    `json:"id"`
	Type                     *PassengerType            `json:"type,omitempty"`
	Age                      *int                      `json:"age,omitempty"`
	GivenName                *string                   `json:"given_name,omitempty"`
	FamilyName               *string                   `json:"family_name,omitempty"`
	LoyaltyProgrammeAccounts []LoyaltyProgrammeAccount `json:"loyalty_programme_accounts"`
}

type LoyaltyProgrammeAccount struct {
	AirlineIATACode string `json:"airline_iata_code"`
	AccountNumber   string `json:"account_number"`
}

func decodeOffer(o *decode.Object) Offer {
	return Offer{
		ID:                                    o.String("id"),
		LiveMode:                              o.Bool("live_mode"),
		CreatedAt:                             decode.Value(o, "created_at", date.ParseMicro),
		UpdatedAt:                             decode.Value(o, "updated_at", date.ParseMicro),
		ExpiresAt:                             decode.Value(o, "expires_at", date.ParseFlexible),
		TotalAmount:                           o.String("total_amount"),
		TotalCurrency:                         o.String("total_currency"),
		BaseAmount:                            o.OptString("base_amount"),
		BaseCurrency:                          o.OptString("base_currency"),
		TaxAmount:                             o.OptString("tax_amount"),
		TaxCurrency:                           o.OptString("tax_currency"),
		TotalEmissionsKg:                      o.OptString("total_emissions_kg"),
		Partial:                               o.OptBool("partial"),
		Owner:                                 decodeAirline(o.Object("owner")),
		PassengerIdentityDocumentsRequired:    o.Bool("passenger_identity_documents_required"),
		AllowedPassengerIdentityDocumentTypes: decode.Values(o, "allowed_passenger_identity_document_types", parseIdentityDocumentType),
		Conditions:                            decodeConditions(o.Object("conditions")),
		PaymentRequirements:                   decodePaymentRequirements(o.Object("payment_requirements")),
		Passengers:                            decode.List(o, "passengers", decodePassenger),
		Slices:                                decode.List(o, "slices", decodeSlice),
		AvailableServices:                     decode.List(o, "available_services", decodeOfferService),
	}
}

func decodeCondition(o *decode.Object, key string) *Condition {
	obj := o.OptObject(key)
	if obj == nil {
		return nil
	}
	return &Condition{
		Allowed:         obj.Bool("allowed"),
		PenaltyAmount:   obj.OptString("penalty_amount"),
		PenaltyCurrency: obj.OptString("penalty_currency"),
	}
}

func decodeConditions(o *decode.Object) Conditions {
	return Conditions{
		ChangeBeforeDeparture: decodeCondition(o, "change_before_departure"),
		RefundBeforeDeparture: decodeCondition(o, "refund_before_departure"),
	}
}

func decodePaymentRequirements(o *decode.Object) PaymentRequirements {
	return PaymentRequirements{
		RequiresInstantPayment:  o.Bool("requires_instant_payment"),
		PriceGuaranteeExpiresAt: decode.OptValue(o, "price_guarantee_expires_at", date.ParseSecond),
		PaymentRequiredBy:       decode.OptValue(o, "payment_required_by", date.ParseSecond),
	}
}

func decodePassenger(o *decode.Object) Passenger {
	return Passenger{
		ID:                       o.String("id"),
		Type:                     decode.OptValue(o, "type", parsePassengerType),
		Age:                      o.OptInt("age"),
		GivenName:                o.OptString("given_name"),
		FamilyName:               o.OptString("family_name"),
		LoyaltyProgrammeAccounts: decode.List(o, "loyalty_programme_accounts", decodeLoyaltyProgrammeAccount),
	}
}

func decodeLoyaltyProgrammeAccount(o *decode.Object) LoyaltyProgrammeAccount {
	return LoyaltyProgrammeAccount{
		AirlineIATACode: o.String("airline_iata_code"),
		AccountNumber:   o.String("account_number"),
	}
}

type OfferClient struct {
	c *Client
}

type GetOfferParams struct {
	ReturnAvailableServices bool
}

func (oc *OfferClient) Get(ctx context.Context, id string, params GetOfferParams) (Offer, error) {
	q := Params{}
	if params.ReturnAvailableServices {
		q.AddBool("return_available_services", true)
	}
	return get(ctx, oc.c, pathFor("/air/offers", id), q, decodeOffer)
}

type OfferListParams struct {
	ListParams
	OfferRequestID string
	Sort           OfferSort
	MaxConnections *int
}

func (oc *OfferClient) List(ctx context.Context, params OfferListParams) (*Iter[Offer], error) {
	if params.OfferRequestID == "" {
		return nil, invalid("offer_request_id", nil, ErrMissingField)
	}

	q := Params{}
	q.Add("offer_request_id", params.OfferRequestID)
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

	return newIter(ctx, oc.c, "/air/offers", params.ListParams, q, decodeOffer)
}

type OfferPassengerUpdate struct {
	GivenName                string                    `json:"given_name"`
	FamilyName               string                    `json:"family_name"`
	LoyaltyProgrammeAccounts []LoyaltyProgrammeAccount `json:"loyalty_programme_accounts,omitempty"`
}

func (u OfferPassengerUpdate) validate() error {
	if strings.TrimSpace(u.GivenName) == "" {
		return invalid("given_name", u.GivenName, ErrMissingField)
	}
	if strings.TrimSpace(u.FamilyName) == "" {
		return invalid("family_name", u.FamilyName, ErrMissingField)
	}
	for _, account := range u.LoyaltyProgrammeAccounts {
		if err := validateLoyaltyProgrammeAccount(account); err != nil {
			return err
		}
	}
	return nil
}

func validateLoyaltyProgrammeAccount(account LoyaltyProgrammeAccount) error {
	if strings.TrimSpace(account.AirlineIATACode) == "" || strings.TrimSpace(account.AccountNumber) == "" {
		return invalid("loyalty_programme_accounts", account, ErrInvalidLoyaltyProgramme)
	}
	return nil
}

// UpdatePassenger sets the name and loyalty programme accounts of an offer
// passenger, which some airlines need to price the offer.
func (oc *OfferClient) UpdatePassenger(ctx context.Context, offerID, passengerID string, update OfferPassengerUpdate) (Passenger, error) {
	if err := update.validate(); err != nil {
		return Passenger{}, err
	}
	path := pathFor("/air/offers", offerID, "passengers", passengerID)
	return do(ctx, oc.c, http.MethodPatch, path, Params{}, update, decodePassenger)
}
