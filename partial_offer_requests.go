package duffel

import (
	"context"
	"net/http"
)

// PartialOfferRequestClient searches one slice at a time: the offers of a
// partial offer request only cover the first slice, and the following ones
// are found by selecting partial offers.
type PartialOfferRequestClient struct {
	c *Client
}

func selectedPartialOffers(ids []string) Params {
	q := Params{}
	q.AddList("selected_partial_offer", ids...)
	return q
}

// Get returns the partial offer request with the offers for the next
// slice, given the partial offers selected so far.
func (pc *PartialOfferRequestClient) Get(ctx context.Context, id string, selected ...string) (OfferRequest, error) {
	return get(ctx, pc.c, pathFor("/air/partial_offer_requests", id), selectedPartialOffers(selected), decodeOfferRequest)
}

// Fares returns the full offers built from one partial offer per slice.
func (pc *PartialOfferRequestClient) Fares(ctx context.Context, id string, selected ...string) (OfferRequest, error) {
	path := pathFor("/air/partial_offer_requests", id, "fares")
	return get(ctx, pc.c, path, selectedPartialOffers(selected), decodeOfferRequest)
}

func (pc *PartialOfferRequestClient) Create() PartialOfferRequestCreate {
	return PartialOfferRequestCreate{client: pc, search: newSearch()}
}

type PartialOfferRequestCreate struct {
	client *PartialOfferRequestClient
	search search
}

func (b PartialOfferRequestCreate) CabinClass(cabinClass CabinClass) PartialOfferRequestCreate {
	b.search = b.search.setCabinClass(cabinClass)
	return b
}

func (b PartialOfferRequestCreate) Passengers(passengers ...PassengerInput) PartialOfferRequestCreate {
	b.search = b.search.setPassengers(passengers)
	return b
}

func (b PartialOfferRequestCreate) Slices(slices ...SliceInput) PartialOfferRequestCreate {
	b.search = b.search.setSlices(slices)
	return b
}

func (b PartialOfferRequestCreate) MaxConnections(n int) PartialOfferRequestCreate {
	b.search = b.search.setMaxConnections(n)
	return b
}

func (b PartialOfferRequestCreate) Err() error { return b.search.err }

func (b PartialOfferRequestCreate) Execute(ctx context.Context) (OfferRequest, error) {
	payload, err := b.search.payload()
	if err != nil {
		return OfferRequest{}, err
	}
	return do(ctx, b.client.c, http.MethodPost, "/air/partial_offer_requests", Params{}, payload, decodeOfferRequest)
}
