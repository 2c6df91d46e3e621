package duffel

import (
	"fmt"
	"slices"
	"strings"
)

type CabinClass string

const (
	CabinClassFirst          CabinClass = "first"
	CabinClassBusiness       CabinClass = "business"
	CabinClassPremiumEconomy CabinClass = "premium_economy"
	CabinClassEconomy        CabinClass = "economy"
)

var CabinClasses = []CabinClass{CabinClassFirst, CabinClassBusiness, CabinClassPremiumEconomy, CabinClassEconomy}

type PlaceType string

const (
	PlaceTypeAirport PlaceType = "airport"
	PlaceTypeCity    PlaceType = "city"
)

var PlaceTypes = []PlaceType{PlaceTypeAirport, PlaceTypeCity}

type PassengerType string

const (
	PassengerTypeAdult             PassengerType = "adult"
	PassengerTypeChild             PassengerType = "child"
	PassengerTypeInfantWithoutSeat PassengerType = "infant_without_seat"
)

var PassengerTypes = []PassengerType{PassengerTypeAdult, PassengerTypeChild, PassengerTypeInfantWithoutSeat}

type PassengerTitle string

const (
	TitleMr   PassengerTitle = "mr"
	TitleMrs  PassengerTitle = "mrs"
	TitleMs   PassengerTitle = "ms"
	TitleMiss PassengerTitle = "miss"
)

var PassengerTitles = []PassengerTitle{TitleMr, TitleMrs, TitleMs, TitleMiss}

type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

var Genders = []Gender{GenderMale, GenderFemale}

type BaggageType string

const (
	BaggageTypeChecked BaggageType = "checked"
	BaggageTypeCarryOn BaggageType = "carry_on"
)

var BaggageTypes = []BaggageType{BaggageTypeChecked, BaggageTypeCarryOn}

type ServiceType string

const (
	ServiceTypeBaggage ServiceType = "baggage"
	ServiceTypeSeat    ServiceType = "seat"
)

var ServiceTypes = []ServiceType{ServiceTypeBaggage, ServiceTypeSeat}

type DocumentType string

const (
	DocumentTypeElectronicTicket DocumentType = "electronic_ticket"
	DocumentTypeEMDAssociated    DocumentType = "electronic_miscellaneous_document_associated"
	DocumentTypeEMDStandalone    DocumentType = "electronic_miscellaneous_document_standalone"
)

var DocumentTypes = []DocumentType{DocumentTypeElectronicTicket, DocumentTypeEMDAssociated, DocumentTypeEMDStandalone}

type IdentityDocumentType string

const (
	IdentityDocumentPassport               IdentityDocumentType = "passport"
	IdentityDocumentTaxID                  IdentityDocumentType = "tax_id"
	IdentityDocumentKnownTravelerNumber    IdentityDocumentType = "known_traveler_number"
	IdentityDocumentPassengerRedressNumber IdentityDocumentType = "passenger_redress_number"
)

var IdentityDocumentTypes = []IdentityDocumentType{
	IdentityDocumentPassport,
	IdentityDocumentTaxID,
	IdentityDocumentKnownTravelerNumber,
	IdentityDocumentPassengerRedressNumber,
}

type RefundDestination string

const (
	RefundToArcBspCash      RefundDestination = "arc_bsp_cash"
	RefundToBalance         RefundDestination = "balance"
	RefundToCard            RefundDestination = "card"
	RefundToVoucher         RefundDestination = "voucher"
	RefundToAwaitingPayment RefundDestination = "awaiting_payment"
)

var RefundDestinations = []RefundDestination{RefundToArcBspCash, RefundToBalance, RefundToCard, RefundToVoucher, RefundToAwaitingPayment}

type PaymentType string

const (
	PaymentTypeArcBspCash PaymentType = "arc_bsp_cash"
	PaymentTypeBalance    PaymentType = "balance"
	PaymentTypePayments   PaymentType = "payments"
)

var PaymentTypes = []PaymentType{PaymentTypeArcBspCash, PaymentTypeBalance, PaymentTypePayments}

type OrderType string

const (
	OrderTypeInstant OrderType = "instant"
	OrderTypeHold    OrderType = "hold"
)

var OrderTypes = []OrderType{OrderTypeInstant, OrderTypeHold}

type ElementType string

const (
	ElementSeat     ElementType = "seat"
	ElementBassinet ElementType = "bassinet"
	ElementEmpty    ElementType = "empty"
	ElementExitRow  ElementType = "exit_row"
	ElementLavatory ElementType = "lavatory"
	ElementGalley   ElementType = "galley"
	ElementCloset   ElementType = "closet"
	ElementStairs   ElementType = "stairs"
)

var ElementTypes = []ElementType{
	ElementSeat, ElementBassinet, ElementEmpty, ElementExitRow,
	ElementLavatory, ElementGalley, ElementCloset, ElementStairs,
}

type OfferSort string

const (
	OfferSortTotalAmount   OfferSort = "total_amount"
	OfferSortTotalDuration OfferSort = "total_duration"
)

var OfferSorts = []OfferSort{OfferSortTotalAmount, OfferSortTotalDuration}

type OrderSort string

const (
	OrderSortPayBy     OrderSort = "pay_by"
	OrderSortPayByDesc OrderSort = "-pay_by"
)

var OrderSorts = []OrderSort{OrderSortPayBy, OrderSortPayByDesc}

// oneOf builds a parser accepting only the listed values.
func oneOf[T ~string](allowed []T) func(string) (T, error) {
	return func(s string) (T, error) {
		if slices.Contains(allowed, T(s)) {
			return T(s), nil
		}
		return "", fmt.Errorf("must be one of %s", join(allowed))
	}
}

func join[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, ", ")
}

var (
	parseCabinClass           = oneOf(CabinClasses)
	parsePlaceType            = oneOf(PlaceTypes)
	parsePassengerType        = oneOf(PassengerTypes)
	parsePassengerTitle       = oneOf(PassengerTitles)
	parseGender               = oneOf(Genders)
	parseBaggageType          = oneOf(BaggageTypes)
	parseServiceType          = oneOf(ServiceTypes)
	parseDocumentType         = oneOf(DocumentTypes)
	parseIdentityDocumentType = oneOf(IdentityDocumentTypes)
	parseRefundDestination    = oneOf(RefundDestinations)
	parsePaymentType          = oneOf(PaymentTypes)
	parseOrderType            = oneOf(OrderTypes)
	parseElementType          = oneOf(ElementTypes)
)
