package duffel

import (
	"context"

	"github.com/fabianMendez/duffel/pkg/decode"
)

type Aircraft struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IATACode string `json:"iata_code"`
}

func decodeAircraft(o *decode.Object) Aircraft {
	return Aircraft{
		ID:       o.String("id"),
		Name:     o.String("name"),
		IATACode: o.String("iata_code"),
	}
}

type AircraftClient struct {
	c *Client
}

func (a *AircraftClient) Get(ctx context.Context, id string) (Aircraft, error) {
	return get(ctx, a.c, pathFor("/air/aircraft", id), Params{}, decodeAircraft)
}

func (a *AircraftClient) List(ctx context.Context, params ListParams) (*Iter[Aircraft], error) {
	return newIter(ctx, a.c, "/air/aircraft", params, Params{}, decodeAircraft)
}
