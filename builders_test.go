package duffel

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noRequests fails the test if the client sends anything.
func noRequests(t *testing.T, calls *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		t.Errorf("unexpected request %s %s", r.Method, r.URL)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	b, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &body))
	return body.Data
}

const offerRequestJSON = `{"data":{"id":"orq_00009hjdomFOCJyxHG7k7k","live_mode":false,"created_at":"2020-02-12T15:21:01.927Z","cabin_class":"economy","slices":[],"passengers":[],"offers":[]}}`

const orderJSON = `{"data":{"id":"ord_1","live_mode":false,"created_at":"2020-04-11T15:48:11.642Z","booking_reference":"RZPNX8","total_amount":"90.80","total_currency":"GBP","base_amount":"30.20","base_currency":"GBP","owner":{"id":"arl_1","name":"British Airways"},"conditions":{},"payment_status":{"awaiting_payment":false},"metadata":null,"passengers":[],"slices":[],"services":[],"documents":[]}}`

func adult() PassengerInput { return PassengerInput{Type: PassengerTypeAdult} }

func lhrToJFK() SliceInput {
	return SliceInput{Origin: "LHR", Destination: "JFK", DepartureDate: date.NewDate(2026, 11, 24)}
}

func TestOfferRequestWithoutPassengers(t *testing.T) {
	var calls int32
	c := newTestClient(t, noRequests(t, &calls))

	b := c.OfferRequests.Create().Passengers().Slices(lhrToJFK())

	var validationErr *ValidationError
	require.True(t, errors.As(b.Err(), &validationErr))
	assert.Equal(t, "passengers", validationErr.Field)
	assert.ErrorIs(t, b.Err(), ErrInvalidNumberOfPassengers)

	_, err := b.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInvalidNumberOfPassengers)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestOfferRequestNeverGivenPassengers(t *testing.T) {
	var calls int32
	c := newTestClient(t, noRequests(t, &calls))

	b := c.OfferRequests.Create().Slices(lhrToJFK())
	assert.NoError(t, b.Err())

	_, err := b.Execute(context.Background())
	assert.ErrorIs(t, err, ErrInvalidNumberOfPassengers)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestOfferRequestValidation(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))
	negativeAge := -1

	tests := []struct {
		name    string
		builder OfferRequestCreate
		err     error
	}{
		{name: "cabin class", builder: c.OfferRequests.Create().CabinClass("luxury"), err: ErrInvalidCabinClass},
		{name: "passenger without type or age", builder: c.OfferRequests.Create().Passengers(PassengerInput{GivenName: "Amelia"}), err: ErrInvalidPassenger},
		{name: "passenger type", builder: c.OfferRequests.Create().Passengers(PassengerInput{Type: "senior"}), err: ErrInvalidPassenger},
		{name: "negative age", builder: c.OfferRequests.Create().Passengers(PassengerInput{Age: &negativeAge}), err: ErrInvalidPassenger},
		{name: "no slices", builder: c.OfferRequests.Create().Slices(), err: ErrInvalidNumberOfSlices},
		{name: "slice without date", builder: c.OfferRequests.Create().Slices(SliceInput{Origin: "LHR", Destination: "JFK"}), err: ErrInvalidSlice},
		{name: "max connections", builder: c.OfferRequests.Create().MaxConnections(-1), err: ErrInvalidMaxConnections},
		{
			name:    "loyalty programme",
			builder: c.OfferRequests.Create().Passengers(PassengerInput{Type: PassengerTypeAdult, LoyaltyProgrammeAccounts: []LoyaltyProgrammeAccount{{AirlineIATACode: "BA"}}}),
			err:     ErrInvalidLoyaltyProgramme,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.builder.Err(), tt.err)
			_, err := tt.builder.Execute(context.Background())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestFirstValidationErrorWins(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))

	b := c.OfferRequests.Create().CabinClass("luxury").Passengers().MaxConnections(-1)
	assert.ErrorIs(t, b.Err(), ErrInvalidCabinClass)
}

func TestBuildersAreImmutable(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))

	base := c.OfferRequests.Create().Passengers(adult())
	broken := base.CabinClass("luxury")

	assert.NoError(t, base.Err())
	assert.Error(t, broken.Err())

	passengers := []PassengerInput{adult()}
	b := c.OfferRequests.Create().Passengers(passengers...)
	passengers[0].Type = "senior"
	assert.Equal(t, PassengerTypeAdult, b.search.passengers[0].Type)
}

func TestCreateOfferRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air/offer_requests", r.URL.Path)
		assert.Equal(t, "return_offers=false", r.URL.RawQuery)

		body := readBody(t, r)
		assert.Equal(t, "business", body["cabin_class"])
		assert.EqualValues(t, 0, body["max_connections"])
		assert.Equal(t, []interface{}{map[string]interface{}{"type": "adult"}}, body["passengers"])
		assert.Equal(t, []interface{}{map[string]interface{}{"origin": "LHR", "destination": "JFK", "departure_date": "2026-11-24"}}, body["slices"])

		jsonResponse(w, http.StatusCreated, offerRequestJSON)
	})

	offerRequest, err := c.OfferRequests.Create().
		ReturnOffers(false).
		CabinClass(CabinClassBusiness).
		MaxConnections(0).
		Passengers(adult()).
		Slices(lhrToJFK()).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "orq_00009hjdomFOCJyxHG7k7k", offerRequest.ID)
}

func TestCreateOfferRequestDefaults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return_offers=false", r.URL.RawQuery)

		body := readBody(t, r)
		assert.Equal(t, "economy", body["cabin_class"])
		assert.EqualValues(t, 1, body["max_connections"])

		jsonResponse(w, http.StatusCreated, offerRequestJSON)
	})

	_, err := c.OfferRequests.Create().Passengers(adult()).Slices(lhrToJFK()).Execute(context.Background())
	assert.NoError(t, err)
}

func TestCreateOfferRequestReturningOffers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "return_offers=true", r.URL.RawQuery)
		jsonResponse(w, http.StatusCreated, offerRequestJSON)
	})

	_, err := c.OfferRequests.Create().ReturnOffers(true).Passengers(adult()).Slices(lhrToJFK()).Execute(context.Background())
	assert.NoError(t, err)
}

func TestPartialOfferRequestSelection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air/partial_offer_requests/prq_1/fares", r.URL.Path)
		assert.Equal(t, []string{"off_1", "off_2"}, r.URL.Query()["selected_partial_offer[]"])
		jsonResponse(w, http.StatusOK, offerRequestJSON)
	})

	_, err := c.PartialOfferRequests.Fares(context.Background(), "prq_1", "off_1", "off_2")
	assert.NoError(t, err)
}

func validOrder(c *Client) OrderCreate {
	return c.Orders.Create().
		SelectedOffers("off_1").
		Passengers(OrderPassengerInput{
			ID:          "pas_1",
			Title:       TitleMrs,
			Gender:      GenderFemale,
			GivenName:   "Amelia",
			FamilyName:  "Earhart",
			BornOn:      date.NewDate(1987, 7, 24),
			Email:       "amelia@duffel.com",
			PhoneNumber: "+442080160509",
		})
}

func TestHoldOrderWithoutPayments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/air/orders", r.URL.Path)

		body := readBody(t, r)
		assert.Equal(t, "hold", body["type"])
		assert.NotContains(t, body, "payments")

		jsonResponse(w, http.StatusCreated, orderJSON)
	})

	order, err := validOrder(c).Hold().Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ord_1", order.ID)
	assert.Equal(t, 1, c.RequestCount())
}

func TestHoldOrderDropsPayments(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := readBody(t, r)
		assert.Equal(t, "hold", body["type"])
		assert.NotContains(t, body, "payments")
		assert.NotContains(t, body, "services")
		assert.Equal(t, []interface{}{"off_1"}, body["selected_offers"])

		passenger := body["passengers"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "1987-07-24", passenger["born_on"])
		assert.NotContains(t, passenger, "identity_documents")

		jsonResponse(w, http.StatusCreated, orderJSON)
	})

	order, err := validOrder(c).
		Payments(PaymentInput{Amount: "90.80", Currency: "GBP", Type: PaymentTypeBalance}).
		Hold().
		Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, order.Metadata)
}

func TestInstantOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body := readBody(t, r)
		assert.Equal(t, "instant", body["type"])
		assert.Equal(t, []interface{}{map[string]interface{}{"amount": "90.80", "currency": "GBP", "type": "balance"}}, body["payments"])
		assert.Equal(t, map[string]interface{}{"seat": "window"}, body["metadata"])
		jsonResponse(w, http.StatusCreated, orderJSON)
	})

	_, err := validOrder(c).
		Payments(PaymentInput{Amount: "90.80", Currency: "GBP", Type: PaymentTypeBalance}).
		Metadata(map[string]string{"seat": "window"}).
		Execute(context.Background())
	assert.NoError(t, err)
}

func TestOrderValidation(t *testing.T) {
	var calls int32
	c := newTestClient(t, noRequests(t, &calls))
	ctx := context.Background()

	_, err := validOrder(c).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidNumberOfPayments, "instant orders need a payment")

	_, err = c.Orders.Create().SelectedOffers("off_1", "off_2").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidNumberOfSelectedOffers)

	_, err = validOrder(c).Payments(PaymentInput{Amount: "1", Currency: "GBP", Type: PaymentTypePayments}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidPaymentType)

	_, err = validOrder(c).Services(ServiceInput{ID: "ase_1"}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidService)

	_, err = c.Orders.Create().Passengers(OrderPassengerInput{}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidPassenger)

	_, err = validOrder(c).Metadata(map[string]string{strings.Repeat("k", 41): "v"}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = c.Orders.Update("ord_1").Metadata(map[string]string{"k": strings.Repeat("v", 501)}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = c.Orders.Update("ord_1").Execute(ctx)
	assert.ErrorIs(t, err, ErrMissingField)

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestUpdateOrderMetadata(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/air/orders/ord_1", r.URL.Path)
		assert.Equal(t, map[string]interface{}{"metadata": map[string]interface{}{"ref": "123"}}, readBody(t, r))
		jsonResponse(w, http.StatusOK, orderJSON)
	})

	_, err := c.Orders.Update("ord_1").Metadata(map[string]string{"ref": "123"}).Execute(context.Background())
	assert.NoError(t, err)
}

func TestOrderChangeRequestValidation(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))
	ctx := context.Background()

	_, err := c.OrderChangeRequests.Create("ord_1").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidNumberOfSlices)

	_, err = c.OrderChangeRequests.Create("ord_1").Slices(OrderChangeSlices{}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidNumberOfSlices)

	_, err = c.OrderChangeRequests.Create("ord_1").Slices(OrderChangeSlices{
		Add: []OrderChangeSliceAdd{{Origin: "LHR", Destination: "JFK", DepartureDate: date.NewDate(2026, 11, 24), CabinClass: "luxury"}},
	}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidCabinClass)

	_, err = c.OrderChangeRequests.Create("ord_1").Slices(OrderChangeSlices{
		Remove: []OrderChangeSliceRemove{{}},
	}).Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidSlice)
}

func TestCreateOrderChangeRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air/order_change_requests", r.URL.Path)
		assert.Equal(t, map[string]interface{}{
			"order_id": "ord_1",
			"slices": map[string]interface{}{
				"add":    []interface{}{},
				"remove": []interface{}{map[string]interface{}{"slice_id": "sli_1"}},
			},
		}, readBody(t, r))
		jsonResponse(w, http.StatusCreated, `{"data":{"id":"ocr_1","order_id":"ord_1","live_mode":false,"created_at":"2020-04-11T15:48:11.642Z","updated_at":"2020-04-11T15:48:11.642Z","slices":null,"order_change_offers":[]}}`)
	})

	request, err := c.OrderChangeRequests.Create("ord_1").
		Slices(OrderChangeSlices{Remove: []OrderChangeSliceRemove{{SliceID: "sli_1"}}}).
		Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, request.Slices)
	assert.Empty(t, request.OrderChangeOffers)
}

func TestConfirmOrderChange(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/air/order_changes/oce_1/actions/confirm", r.URL.Path)
		assert.Equal(t, map[string]interface{}{
			"payment": map[string]interface{}{"amount": "30.50", "currency": "GBP", "type": "payments"},
		}, readBody(t, r))
		jsonResponse(w, http.StatusOK, `{"data":{"id":"oce_1","order_id":"ord_1","live_mode":false,"created_at":"2020-04-11T15:48:11.642Z","expires_at":"2020-01-17T10:42:14Z","confirmed_at":"2020-01-17T10:12:14.545Z","change_total_amount":"30.50","change_total_currency":"GBP","new_total_amount":"121.30","new_total_currency":"GBP","slices":{"add":[],"remove":[]}}}`)
	})

	change, err := c.OrderChanges.Confirm(context.Background(), "oce_1", PaymentInput{Amount: "30.50", Currency: "GBP", Type: PaymentTypePayments})
	require.NoError(t, err)
	require.NotNil(t, change.ConfirmedAt)
	assert.Nil(t, change.RefundTo)
}

func TestPaymentValidation(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))
	ctx := context.Background()

	_, err := c.Payments.Create().Payment(PaymentInput{Amount: "30.20", Currency: "GBP", Type: "cash"}).Order("ord_1").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidPaymentType)

	_, err = c.Payments.Create().Payment(PaymentInput{Amount: "30.20", Currency: "GBP", Type: PaymentTypeBalance}).Execute(ctx)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = c.PaymentIntents.Create().Payment("30.20", "").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidPayment)

	_, err = c.PaymentIntents.Create().Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestCreatePaymentIntent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/payment_intents", r.URL.Path)
		assert.Equal(t, map[string]interface{}{"amount": "30.20", "currency": "GBP"}, readBody(t, r))
		jsonResponse(w, http.StatusCreated, `{"data":{"id":"pit_1","live_mode":false,"amount":"30.20","currency":"GBP","client_token":"tok","refunds":[],"created_at":"2020-04-11T15:48:11.642Z","updated_at":"2020-04-11T15:48:11.642Z"}}`)
	})

	intent, err := c.PaymentIntents.Create().Payment("30.20", "GBP").Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", intent.ClientToken)
	assert.Empty(t, intent.Refunds)
}

func TestWebhookValidation(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))
	ctx := context.Background()

	for _, u := range []string{"", "example.com/hook", "ftp://example.com/hook", "/hook"} {
		_, err := c.Webhooks.Create().URL(u).Events("order.created").Execute(ctx)
		assert.ErrorIs(t, err, ErrInvalidURL, u)
	}

	_, err := c.Webhooks.Create().URL("https://example.com/hook").Events().Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidEvents)

	_, err = c.Webhooks.Create().URL("https://example.com/hook").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidEvents)

	_, err = c.Webhooks.Update("sev_1").Execute(ctx)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestLinksSessionValidation(t *testing.T) {
	c := newTestClient(t, noRequests(t, new(int32)))
	ctx := context.Background()

	complete := c.LinksSessions.Create().
		Reference("user_123").
		SuccessURL("https://example.com/success").
		FailureURL("https://example.com/failure").
		AbandonmentURL("https://example.com/abandonment")

	_, err := complete.Markup("1.00", "").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidMarkup)

	_, err = complete.Reference("").Execute(ctx)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "reference", validationErr.Field)

	_, err = complete.SuccessURL("not a url").Execute(ctx)
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestCreateLinksSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/links/sessions", r.URL.Path)
		assert.Equal(t, map[string]interface{}{
			"reference":       "user_123",
			"success_url":     "https://example.com/success",
			"failure_url":     "https://example.com/failure",
			"abandonment_url": "https://example.com/abandonment",
			"primary_color":   "#000000",
			"markup_amount":   "1.00",
			"markup_currency": "GBP",
		}, readBody(t, r))
		jsonResponse(w, http.StatusCreated, `{"data":{"url":"https://links.duffel.com?token=abc"}}`)
	})

	session, err := c.LinksSessions.Create().
		Reference("user_123").
		SuccessURL("https://example.com/success").
		FailureURL("https://example.com/failure").
		AbandonmentURL("https://example.com/abandonment").
		PrimaryColor("#000000").
		Markup("1.00", "GBP").
		Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://links.duffel.com?token=abc", session.URL)
}

func TestUpdateOfferPassenger(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/air/offers/off_1/passengers/pas_1", r.URL.Path)
		jsonResponse(w, http.StatusOK, `{"data":{"id":"pas_1","given_name":"Amelia","family_name":"Earhart","loyalty_programme_accounts":[]}}`)
	})

	_, err := c.Offers.UpdatePassenger(context.Background(), "off_1", "pas_1", OfferPassengerUpdate{GivenName: " "})
	assert.ErrorIs(t, err, ErrMissingField)

	passenger, err := c.Offers.UpdatePassenger(context.Background(), "off_1", "pas_1", OfferPassengerUpdate{GivenName: "Amelia", FamilyName: "Earhart"})
	require.NoError(t, err)
	assert.Equal(t, "Amelia", *passenger.GivenName)
	assert.Nil(t, passenger.Type)
}
