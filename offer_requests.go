package duffel

import (
	"context"
	"net/http"
	"slices"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

type OfferRequest struct {
	ID         string              `json:"id"`
	LiveMode   bool                `json:"live_mode"`
	CreatedAt  date.Micro          `json:"created_at"`
	CabinClass *CabinClass         `json:"cabin_class,omitempty"`
	Slices     []OfferRequestSlice `json:"slices"`
	Passengers []Passenger         `json:"passengers"`
	Offers     []Offer             `json:"offers"`
}

type OfferRequestSlice struct {
	OriginType      PlaceType `json:"origin_type"`
	Origin          Place     `json:"origin"`
	DestinationType PlaceType `json:"destination_type"`
	Destination     Place     `json:"destination"`
	DepartureDate   date.Date `json:"departure_date"`
}

func decodeOfferRequest(o *decode.Object) OfferRequest {
	return OfferRequest{
		ID:         o.String("id"),
		LiveMode:   o.Bool("live_mode"),
		CreatedAt:  decode.Value(o, "created_at", date.ParseMicro),
		CabinClass: decode.OptValue(o, "cabin_class", parseCabinClass),
		Slices:     decode.List(o, "slices", decodeOfferRequestSlice),
		Passengers: decode.List(o, "passengers", decodePassenger),
		Offers:     decode.List(o, "offers", decodeOffer),
	}
}

func decodeOfferRequestSlice(o *decode.Object) OfferRequestSlice {
	return OfferRequestSlice{
		OriginType:      decode.Value(o, "origin_type", parsePlaceType),
		Origin:          decodePlace(o, "origin", "origin_type"),
		DestinationType: decode.Value(o, "destination_type", parsePlaceType),
		Destination:     decodePlace(o, "destination", "destination_type"),
		DepartureDate:   decode.Value(o, "departure_date", date.ParseDate),
	}
}

// PassengerInput describes a passenger of a search. Set either Type or Age.
type PassengerInput struct {
	Type                     PassengerType             `json:"type,omitempty"`
	Age                      *int                      `json:"age,omitempty"`
	GivenName                string                    `json:"given_name,omitempty"`
	FamilyName               string                    `json:"family_name,omitempty"`
	LoyaltyProgrammeAccounts []LoyaltyProgrammeAccount `json:"loyalty_programme_accounts,omitempty"`
}

// SliceInput is a journey leg to search for. Origin and Destination are
// IATA airport or city codes.
type SliceInput struct {
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate date.Date `json:"departure_date"`
}

// search holds the fields shared by offer requests and partial offer
// requests.
type search struct {
	cabinClass     CabinClass
	passengers     []PassengerInput
	slices         []SliceInput
	maxConnections int
	err            error
}

func newSearch() search {
	return search{cabinClass: CabinClassEconomy, maxConnections: 1}
}

func (s *search) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s search) setCabinClass(cabinClass CabinClass) search {
	if !slices.Contains(CabinClasses, cabinClass) {
		s.fail(invalid("cabin_class", cabinClass, ErrInvalidCabinClass))
		return s
	}
	s.cabinClass = cabinClass
	return s
}

func (s search) setPassengers(passengers []PassengerInput) search {
	if len(passengers) == 0 {
		s.fail(invalid("passengers", 0, ErrInvalidNumberOfPassengers))
		return s
	}
	for _, p := range passengers {
		if err := validatePassengerInput(p); err != nil {
			s.fail(err)
			return s
		}
	}
	s.passengers = slices.Clone(passengers)
	return s
}

func validatePassengerInput(p PassengerInput) error {
	if p.Type == "" && p.Age == nil {
		return invalid("passengers", p, ErrInvalidPassenger)
	}
	if p.Type != "" && !slices.Contains(PassengerTypes, p.Type) {
		return invalid("passengers.type", p.Type, ErrInvalidPassenger)
	}
	if p.Age != nil && *p.Age < 0 {
		return invalid("passengers.age", *p.Age, ErrInvalidPassenger)
	}
	for _, account := range p.LoyaltyProgrammeAccounts {
		if err := validateLoyaltyProgrammeAccount(account); err != nil {
			return err
		}
	}
	return nil
}

func (s search) setSlices(sl []SliceInput) search {
	if len(sl) == 0 {
		s.fail(invalid("slices", 0, ErrInvalidNumberOfSlices))
		return s
	}
	for _, slice := range sl {
		if slice.Origin == "" || slice.Destination == "" || slice.DepartureDate.IsZero() {
			s.fail(invalid("slices", slice, ErrInvalidSlice))
			return s
		}
	}
	s.slices = slices.Clone(sl)
	return s
}

func (s search) setMaxConnections(n int) search {
	if n < 0 {
		s.fail(invalid("max_connections", n, ErrInvalidMaxConnections))
		return s
	}
	s.maxConnections = n
	return s
}

type searchPayload struct {
	CabinClass     CabinClass       `json:"cabin_class"`
	MaxConnections int              `json:"max_connections"`
	Passengers     []PassengerInput `json:"passengers"`
	Slices         []SliceInput     `json:"slices"`
}

func (s search) payload() (searchPayload, error) {
	if s.err != nil {
		return searchPayload{}, s.err
	}
	if len(s.passengers) == 0 {
		return searchPayload{}, invalid("passengers", 0, ErrInvalidNumberOfPassengers)
	}
	if len(s.slices) == 0 {
		return searchPayload{}, invalid("slices", 0, ErrInvalidNumberOfSlices)
	}
	return searchPayload{
		CabinClass:     s.cabinClass,
		MaxConnections: s.maxConnections,
		Passengers:     s.passengers,
		Slices:         s.slices,
	}, nil
}

type OfferRequestClient struct {
	c *Client
}

func (oc *OfferRequestClient) Get(ctx context.Context, id string) (OfferRequest, error) {
	return get(ctx, oc.c, pathFor("/air/offer_requests", id), Params{}, decodeOfferRequest)
}

func (oc *OfferRequestClient) List(ctx context.Context, params ListParams) (*Iter[OfferRequest], error) {
	return newIter(ctx, oc.c, "/air/offer_requests", params, Params{}, decodeOfferRequest)
}

// Create starts an offer request searching economy with at most one
// connection. Offers are left out of the response unless ReturnOffers(true)
// is set; list them with Offers.List.
func (oc *OfferRequestClient) Create() OfferRequestCreate {
	return OfferRequestCreate{client: oc, search: newSearch()}
}

// OfferRequestCreate builds an offer request. Every setter returns an
// updated copy; the first invalid value is reported by Err and Execute.
type OfferRequestCreate struct {
	client       *OfferRequestClient
	search       search
	returnOffers bool
}

func (b OfferRequestCreate) ReturnOffers(returnOffers bool) OfferRequestCreate {
	b.returnOffers = returnOffers
	return b
}

func (b OfferRequestCreate) CabinClass(cabinClass CabinClass) OfferRequestCreate {
	b.search = b.search.setCabinClass(cabinClass)
	return b
}

func (b OfferRequestCreate) Passengers(passengers ...PassengerInput) OfferRequestCreate {
	b.search = b.search.setPassengers(passengers)
	return b
}

func (b OfferRequestCreate) Slices(slices ...SliceInput) OfferRequestCreate {
	b.search = b.search.setSlices(slices)
	return b
}

func (b OfferRequestCreate) MaxConnections(n int) OfferRequestCreate {
	b.search = b.search.setMaxConnections(n)
	return b
}

func (b OfferRequestCreate) Err() error { return b.search.err }

func (b OfferRequestCreate) Execute(ctx context.Context) (OfferRequest, error) {
	payload, err := b.search.payload()
	if err != nil {
		return OfferRequest{}, err
	}

	q := Params{}
	q.AddBool("return_offers", b.returnOffers)

	return do(ctx, b.client.c, http.MethodPost, "/air/offer_requests", q, payload, decodeOfferRequest)
}
