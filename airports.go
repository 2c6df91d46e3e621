package duffel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fabianMendez/duffel/pkg/decode"
)

type Airport struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	IATACode        string   `json:"iata_code"`
	ICAOCode        *string  `json:"icao_code,omitempty"`
	IATACountryCode string   `json:"iata_country_code"`
	IATACityCode    *string  `json:"iata_city_code,omitempty"`
	CityName        *string  `json:"city_name,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	TimeZone        *string  `json:"time_zone,omitempty"`
	City            *City    `json:"city,omitempty"`
}

type City struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	IATACode        string    `json:"iata_code"`
	IATACountryCode string    `json:"iata_country_code"`
	Airports        []Airport `json:"airports"`
}

// Place is the origin or destination of a slice: an airport, or a city
// covering several airports. Type tells which one is set.
type Place struct {
	Type    PlaceType
	Airport *Airport
	City    *City
}

func (p Place) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PlaceTypeAirport:
		return json.Marshal(p.Airport)
	case PlaceTypeCity:
		return json.Marshal(p.City)
	}
	return nil, fmt.Errorf("unknown place type %q", p.Type)
}

// IATACode of the airport or city.
func (p Place) IATACode() string {
	switch {
	case p.Airport != nil:
		return p.Airport.IATACode
	case p.City != nil:
		return p.City.IATACode
	}
	return ""
}

func (p Place) Name() string {
	switch {
	case p.Airport != nil:
		return p.Airport.Name
	case p.City != nil:
		return p.City.Name
	}
	return ""
}

func decodeAirport(o *decode.Object) Airport {
	a := Airport{
		ID:              o.String("id"),
		Name:            o.String("name"),
		IATACode:        o.String("iata_code"),
		ICAOCode:        o.OptString("icao_code"),
		IATACountryCode: o.String("iata_country_code"),
		IATACityCode:    o.OptString("iata_city_code"),
		CityName:        o.OptString("city_name"),
		Latitude:        o.OptFloat("latitude"),
		Longitude:       o.OptFloat("longitude"),
		TimeZone:        o.OptString("time_zone"),
	}
	if city := o.OptObject("city"); city != nil {
		c := decodeCity(city)
		a.City = &c
	}
	return a
}

func decodeCity(o *decode.Object) City {
	return City{
		ID:              o.String("id"),
		Name:            o.String("name"),
		IATACode:        o.String("iata_code"),
		IATACountryCode: o.String("iata_country_code"),
		Airports:        decode.List(o, "airports", decodeAirport),
	}
}

// decodePlace reads the place at key, using typeKey to pick its shape.
func decodePlace(o *decode.Object, key, typeKey string) Place {
	placeType := decode.Value(o, typeKey, parsePlaceType)
	obj := o.Object(key)

	switch placeType {
	case PlaceTypeAirport:
		a := decodeAirport(obj)
		return Place{Type: placeType, Airport: &a}
	case PlaceTypeCity:
		c := decodeCity(obj)
		return Place{Type: placeType, City: &c}
	}
	return Place{}
}

type AirportClient struct {
	c *Client
}

func (a *AirportClient) Get(ctx context.Context, id string) (Airport, error) {
	return get(ctx, a.c, pathFor("/air/airports", id), Params{}, decodeAirport)
}

func (a *AirportClient) List(ctx context.Context, params ListParams) (*Iter[Airport], error) {
	return newIter(ctx, a.c, "/air/airports", params, Params{}, decodeAirport)
}
