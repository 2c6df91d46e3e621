package duffel

import (
	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/fabianMendez/duffel/pkg/decode"
)

// Slice is one leg of a journey, as found in offers, orders and order
// changes.
type Slice struct {
	ID              string      `json:"id"`
	OriginType      PlaceType   `json:"origin_type"`
	Origin          Place       `json:"origin"`
	DestinationType PlaceType   `json:"destination_type"`
	Destination     Place       `json:"destination"`
	Duration        *string     `json:"duration,omitempty"`
	FareBrandName   *string     `json:"fare_brand_name,omitempty"`
	Conditions      *Conditions `json:"conditions,omitempty"`
	Segments        []Segment   `json:"segments"`
}

type Segment struct {
	ID                           string             `json:"id"`
	Origin                       Airport            `json:"origin"`
	Destination                  Airport            `json:"destination"`
	OriginTerminal               *string            `json:"origin_terminal,omitempty"`
	DestinationTerminal          *string            `json:"destination_terminal,omitempty"`
	DepartingAt                  date.Local         `json:"departing_at"`
	ArrivingAt                   date.Local         `json:"arriving_at"`
	Duration                     *string            `json:"duration,omitempty"`
	Distance                     *string            `json:"distance,omitempty"`
	MarketingCarrier             Airline            `json:"marketing_carrier"`
	MarketingCarrierFlightNumber string             `json:"marketing_carrier_flight_number"`
	OperatingCarrier             Airline            `json:"operating_carrier"`
	OperatingCarrierFlightNumber *string            `json:"operating_carrier_flight_number,omitempty"`
	Aircraft                     *Aircraft          `json:"aircraft,omitempty"`
	Passengers                   []SegmentPassenger `json:"passengers"`
}

type SegmentPassenger struct {
	PassengerID             string     `json:"passenger_id"`
	CabinClass              CabinClass `json:"cabin_class"`
	CabinClassMarketingName *string    `json:"cabin_class_marketing_name,omitempty"`
	FareBasisCode           *string    `json:"fare_basis_code,omitempty"`
	Baggages                []Baggage  `json:"baggages"`
	// Seat is only known once an order has been booked.
	Seat *Seat `json:"seat,omitempty"`
}

type Baggage struct {
	Type     BaggageType `json:"type"`
	Quantity int         `json:"quantity"`
}

type Seat struct {
	Designator  string   `json:"designator"`
	Name        *string  `json:"name,omitempty"`
	Disclosures []string `json:"disclosures"`
}

func decodeSlice(o *decode.Object) Slice {
	s := Slice{
		ID:              o.String("id"),
		OriginType:      decode.Value(o, "origin_type", parsePlaceType),
		Origin:          decodePlace(o, "origin", "origin_type"),
		DestinationType: decode.Value(o, "destination_type", parsePlaceType),
		Destination:     decodePlace(o, "destination", "destination_type"),
		Duration:        o.OptString("duration"),
		FareBrandName:   o.OptString("fare_brand_name"),
		Segments:        decode.List(o, "segments", decodeSegment),
	}
	if conditions := o.OptObject("conditions"); conditions != nil {
		c := decodeConditions(conditions)
		s.Conditions = &c
	}
	return s
}

func decodeSegment(o *decode.Object) Segment {
	s := Segment{
		ID:                           o.String("id"),
		Origin:                       decodeAirport(o.Object("origin")),
		Destination:                  decodeAirport(o.Object("destination")),
		OriginTerminal:               o.OptString("origin_terminal"),
		DestinationTerminal:          o.OptString("destination_terminal"),
		DepartingAt:                  decode.Value(o, "departing_at", date.ParseLocal),
		ArrivingAt:                   decode.Value(o, "arriving_at", date.ParseLocal),
		Duration:                     o.OptString("duration"),
		Distance:                     o.OptString("distance"),
		MarketingCarrier:             decodeAirline(o.Object("marketing_carrier")),
		MarketingCarrierFlightNumber: o.String("marketing_carrier_flight_number"),
		OperatingCarrier:             decodeAirline(o.Object("operating_carrier")),
		OperatingCarrierFlightNumber: o.OptString("operating_carrier_flight_number"),
		Passengers:                   decode.List(o, "passengers", decodeSegmentPassenger),
	}
	if aircraft := o.OptObject("aircraft"); aircraft != nil {
		a := decodeAircraft(aircraft)
		s.Aircraft = &a
	}
	return s
}

func decodeSegmentPassenger(o *decode.Object) SegmentPassenger {
	p := SegmentPassenger{
		PassengerID:             o.String("passenger_id"),
		CabinClass:              decode.Value(o, "cabin_class", parseCabinClass),
		CabinClassMarketingName: o.OptString("cabin_class_marketing_name"),
		FareBasisCode:           o.OptString("fare_basis_code"),
		Baggages:                decode.List(o, "baggages", decodeBaggage),
	}
	if seat := o.OptObject("seat"); seat != nil {
		s := decodeSeat(seat)
		p.Seat = &s
	}
	return p
}

func decodeBaggage(o *decode.Object) Baggage {
	return Baggage{
		Type:     decode.Value(o, "type", parseBaggageType),
		Quantity: o.Int("quantity"),
	}
}

func decodeSeat(o *decode.Object) Seat {
	return Seat{
		Designator:  o.String("designator"),
		Name:        o.OptString("name"),
		Disclosures: o.Strings("disclosures"),
	}
}
