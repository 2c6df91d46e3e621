package duffel

import (
	"context"

	"github.com/fabianMendez/duffel/pkg/decode"
)

type Airline struct {
	ID                      string  `json:"id"`
	Name                    string  `json:"name"`
	IATACode                *string `json:"iata_code,omitempty"`
	LogoSymbolURL           *string `json:"logo_symbol_url,omitempty"`
	LogoLockupURL           *string `json:"logo_lockup_url,omitempty"`
	ConditionsOfCarriageURL *string `json:"conditions_of_carriage_url,omitempty"`
}

func decodeAirline(o *decode.Object) Airline {
	return Airline{
		ID:                      o.String("id"),
		Name:                    o.String("name"),
		IATACode:                o.OptString("iata_code"),
		LogoSymbolURL:           o.OptString("logo_symbol_url"),
		LogoLockupURL:           o.OptString("logo_lockup_url"),
		ConditionsOfCarriageURL: o.OptString("conditions_of_carriage_url"),
	}
}

type AirlineClient struct {
	c *Client
}

func (a *AirlineClient) Get(ctx context.Context, id string) (Airline, error) {
	return get(ctx, a.c, pathFor("/air/airlines", id), Params{}, decodeAirline)
}

func (a *AirlineClient) List(ctx context.Context, params ListParams) (*Iter[Airline], error) {
	return newIter(ctx, a.c, "/air/airlines", params, Params{}, decodeAirline)
}
