package duffel

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/decode"
)

// SeatMap describes the cabins of one segment of an offer, with the seats
// that can be booked on it.
type SeatMap struct {
	ID        string  `json:"id"`
	SegmentID string  `json:"segment_id"`
	SliceID   string  `json:"slice_id"`
	Cabins    []Cabin `json:"cabins"`
}

// Cabin is ordered by deck, lowest first, then front to back.
type Cabin struct {
	CabinClass CabinClass `json:"cabin_class"`
	Deck       int        `json:"deck"`
	Aisles     int        `json:"aisles"`
	Wings      *Wings     `json:"wings"`
	Rows       []Row      `json:"rows"`
}

// Wings holds the 0-based indices of the first and last overwing rows.
type Wings struct {
	FirstRowIndex int `json:"first_row_index"`
	LastRowIndex  int `json:"last_row_index"`
}

type Row struct {
	Sections []Section `json:"sections"`
}

// Section is the part of a row between two aisles.
type Section struct {
	Elements []Element `json:"elements"`
}

// Element is a seat or an amenity. Only seats carry a designator and
// services.
type Element struct {
	Type              ElementType
	Designator        string
	Name              *string
	Disclosures       []string
	AvailableServices []SeatService
}

// Available reports whether the seat can be booked by any passenger.
func (e Element) Available() bool {
	return e.Type == ElementSeat && len(e.AvailableServices) > 0
}

func (e Element) MarshalJSON() ([]byte, error) {
	if e.Type != ElementSeat {
		return json.Marshal(struct {
			Type ElementType `json:"type"`
		}{e.Type})
	}
	return json.Marshal(struct {
		Type              ElementType   `json:"type"`
		Designator        string        `json:"designator"`
		Name              *string       `json:"name,omitempty"`
		Disclosures       []string      `json:"disclosures"`
		AvailableServices []SeatService `json:"available_services"`
	}{e.Type, e.Designator, e.Name, e.Disclosures, e.AvailableServices})
}

// SeatService is the price of a seat for one passenger.
type SeatService struct {
	ID            string `json:"id"`
	PassengerID   string `json:"passenger_id"`
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
}

func decodeSeatMap(o *decode.Object) SeatMap {
	return SeatMap{
		ID:        o.String("id"),
		SegmentID: o.String("segment_id"),
		SliceID:   o.String("slice_id"),
		Cabins:    decode.List(o, "cabins", decodeCabin),
	}
}

func decodeCabin(o *decode.Object) Cabin {
	c := Cabin{
		CabinClass: decode.Value(o, "cabin_class", parseCabinClass),
		Deck:       o.Int("deck"),
		Aisles:     o.Int("aisles"),
		Rows:       decode.List(o, "rows", decodeRow),
	}
	if w := o.OptObject("wings"); w != nil {
		c.Wings = &Wings{
			FirstRowIndex: w.Int("first_row_index"),
			LastRowIndex:  w.Int("last_row_index"),
		}
	}
	return c
}

func decodeRow(o *decode.Object) Row {
	return Row{Sections: decode.List(o, "sections", decodeSection)}
}

func decodeSection(o *decode.Object) Section {
	return Section{Elements: decode.List(o, "elements", decodeElement)}
}

func decodeElement(o *decode.Object) Element {
	e := Element{Type: decode.Value(o, "type", parseElementType)}
	if e.Type != ElementSeat {
		return e
	}
	e.Designator = o.String("designator")
	e.Name = o.OptString("name")
	e.Disclosures = o.Strings("disclosures")
	e.AvailableServices = decode.List(o, "available_services", decodeSeatService)
	return e
}

func decodeSeatService(o *decode.Object) SeatService {
	return SeatService{
		ID:            o.String("id"),
		PassengerID:   o.String("passenger_id"),
		TotalAmount:   o.String("total_amount"),
		TotalCurrency: o.String("total_currency"),
	}
}

type SeatMapClient struct {
	c *Client
}

// Get returns the seat maps of every segment of an offer.
func (sc *SeatMapClient) Get(ctx context.Context, offerID string) ([]SeatMap, error) {
	if offerID == "" {
		return nil, invalid("offer_id", nil, ErrMissingField)
	}

	q := Params{}
	q.Add("offer_id", offerID)

	resp, err := sc.c.call(ctx, http.MethodGet, "/air/seat_maps", q, nil)
	if err != nil {
		return nil, err
	}
	return decodeDataList(resp, decodeSeatMap)
}
