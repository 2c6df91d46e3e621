package duffel

import (
	"encoding/json"

	"github.com/fabianMendez/duffel/pkg/decode"
)

// ServiceMetadata holds the details of an ancillary service. Which field is
// set depends on the type of the service.
type ServiceMetadata struct {
	Baggage *BaggageMetadata
	Seat    *Seat
}

func (m ServiceMetadata) MarshalJSON() ([]byte, error) {
	switch {
	case m.Baggage != nil:
		return json.Marshal(m.Baggage)
	case m.Seat != nil:
		return json.Marshal(m.Seat)
	}
	return []byte("null"), nil
}

type BaggageMetadata struct {
	Type            BaggageType `json:"type"`
	MaximumWeightKg *float64    `json:"maximum_weight_kg,omitempty"`
	MaximumLengthCm *int        `json:"maximum_length_cm,omitempty"`
	MaximumHeightCm *int        `json:"maximum_height_cm,omitempty"`
	MaximumDepthCm  *int        `json:"maximum_depth_cm,omitempty"`
}

// OfferService is a service that can be added to an offer when booking it.
type OfferService struct {
	ID              string          `json:"id"`
	Type            ServiceType     `json:"type"`
	TotalAmount     string          `json:"total_amount"`
	TotalCurrency   string          `json:"total_currency"`
	MaximumQuantity int             `json:"maximum_quantity"`
	PassengerIDs    []string        `json:"passenger_ids"`
	SegmentIDs      []string        `json:"segment_ids"`
	Metadata        ServiceMetadata `json:"metadata"`
}

// OrderService is a service booked as part of an order.
type OrderService struct {
	ID            string          `json:"id"`
	Type          ServiceType     `json:"type"`
	TotalAmount   string          `json:"total_amount"`
	TotalCurrency string          `json:"total_currency"`
	Quantity      int             `json:"quantity"`
	PassengerIDs  []string        `json:"passenger_ids"`
	SegmentIDs    []string        `json:"segment_ids"`
	Metadata      ServiceMetadata `json:"metadata"`
}

func decodeOfferService(o *decode.Object) OfferService {
	s := OfferService{
		ID:              o.String("id"),
		Type:            decode.Value(o, "type", parseServiceType),
		TotalAmount:     o.String("total_amount"),
		TotalCurrency:   o.String("total_currency"),
		MaximumQuantity: o.Int("maximum_quantity"),
		PassengerIDs:    o.Strings("passenger_ids"),
		SegmentIDs:      o.Strings("segment_ids"),
	}
	s.Metadata = decodeServiceMetadata(o, s.Type)
	return s
}

func decodeOrderService(o *decode.Object) OrderService {
	s := OrderService{
		ID:            o.String("id"),
		Type:          decode.Value(o, "type", parseServiceType),
		TotalAmount:   o.String("total_amount"),
		TotalCurrency: o.String("total_currency"),
		Quantity:      o.Int("quantity"),
		PassengerIDs:  o.Strings("passenger_ids"),
		SegmentIDs:    o.Strings("segment_ids"),
	}
	s.Metadata = decodeServiceMetadata(o, s.Type)
	return s
}

func decodeServiceMetadata(o *decode.Object, serviceType ServiceType) ServiceMetadata {
	metadata := o.OptObject("metadata")
	if metadata == nil {
		return ServiceMetadata{}
	}

	switch serviceType {
	case ServiceTypeBaggage:
		b := BaggageMetadata{
			Type:            decode.Value(metadata, "type", parseBaggageType),
			MaximumWeightKg: metadata.OptFloat("maximum_weight_kg"),
			MaximumLengthCm: metadata.OptInt("maximum_length_cm"),
			MaximumHeightCm: metadata.OptInt("maximum_height_cm"),
			MaximumDepthCm:  metadata.OptInt("maximum_depth_cm"),
		}
		return ServiceMetadata{Baggage: &b}
	case ServiceTypeSeat:
		s := decodeSeat(metadata)
		return ServiceMetadata{Seat: &s}
	}
	return ServiceMetadata{}
}
