package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *duffel.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := duffel.NewClient(
		duffel.WithAccessToken("duffel_test_token"),
		duffel.WithBaseURL(srv.URL),
		duffel.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// offerData is the offer of the shared fixture, without its envelope.
func offerData(t *testing.T) string {
	t.Helper()
	body, err := os.ReadFile("../../testdata/offer.json")
	require.NoError(t, err)

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return string(envelope.Data)
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount, currency string
		expected         string
	}{
		{amount: "45.00", currency: "GBP", expected: "45.00 GBP"},
		{amount: "1234.5", currency: "USD", expected: "1,234.50 USD"},
		{amount: "1000000", currency: "EUR", expected: "1,000,000.00 EUR"},
		{amount: "n/a", currency: "GBP", expected: "n/a GBP"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatMoney(tt.amount, tt.currency))
		})
	}

	assert.Equal(t, "-", formatOptMoney(nil, nil))
}

func TestSeatRow(t *testing.T) {
	row := duffel.Row{Sections: []duffel.Section{
		{Elements: []duffel.Element{
			{Type: duffel.ElementSeat, Designator: "1A", AvailableServices: []duffel.SeatService{{ID: "ase_1"}}},
			{Type: duffel.ElementSeat, Designator: "1B"},
		}},
		{Elements: []duffel.Element{
			{Type: duffel.ElementLavatory},
			{Type: duffel.ElementSeat, Designator: "1C", AvailableServices: []duffel.SeatService{{ID: "ase_2"}}},
		}},
	}}

	assert.Equal(t, "1A  xx |     1C", seatRow(row))
}

func TestSearchOptions(t *testing.T) {
	opts := searchOptions{origin: "LHR", destination: "JFK", departure: "2020-04-24", ret: "2020-5-1", adults: 2, childAges: []int{7}}

	slices, err := opts.slices()
	require.NoError(t, err)
	assert.Equal(t, []duffel.SliceInput{
		{Origin: "LHR", Destination: "JFK", DepartureDate: date.NewDate(2020, 4, 24)},
		{Origin: "JFK", Destination: "LHR", DepartureDate: date.NewDate(2020, 5, 1)},
	}, slices)

	passengers := opts.passengers()
	require.Len(t, passengers, 3)
	assert.Equal(t, duffel.PassengerTypeAdult, passengers[1].Type)
	require.NotNil(t, passengers[2].Age)
	assert.Equal(t, 7, *passengers[2].Age)

	opts.ret = "01/05/2020"
	_, err = opts.slices()
	assert.ErrorContains(t, err, "invalid return date")
}

func TestRunOffersSearch(t *testing.T) {
	offer := offerData(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/air/offer_requests":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "false", r.URL.Query().Get("return_offers"))
			writeJSON(w, http.StatusCreated, `{"data":{"id":"orq_1","live_mode":false,"created_at":"2020-02-12T15:21:01.927Z","cabin_class":"economy","slices":[],"passengers":[],"offers":[]}}`)
		case "/air/offers":
			assert.Equal(t, "orq_1", r.URL.Query().Get("offer_request_id"))
			assert.Equal(t, "total_amount", r.URL.Query().Get("sort"))
			assert.Equal(t, "1", r.URL.Query().Get("max_connections"))
			writeJSON(w, http.StatusOK, `{"data":[`+offer+`],"meta":{"after":null}}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
	})

	var out bytes.Buffer
	err := runOffersSearch(context.Background(), client, searchOptions{
		origin:         "LHR",
		destination:    "JFK",
		departure:      "2020-06-13",
		adults:         1,
		cabin:          "economy",
		maxConnections: 1,
		sort:           "total_amount",
		maxItems:       10,
	}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "off_00009htYpSCXrwaB9DnUm0")
	assert.Contains(t, out.String(), "45.00 GBP")
	assert.Contains(t, out.String(), "LHR-JFK")
	assert.Contains(t, out.String(), "BA1234")
	assert.Contains(t, out.String(), "1 items")
}

func TestRunOffersSearchRejectsBadInputBeforeRequests(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	err := runOffersSearch(context.Background(), client, searchOptions{
		origin: "LHR", destination: "JFK", departure: "2020-06-13", adults: 1, cabin: "coach", maxConnections: 1,
	}, &bytes.Buffer{})
	assert.ErrorIs(t, err, duffel.ErrInvalidCabinClass)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestRunOffersShowWithSeatMaps(t *testing.T) {
	offer := offerData(t)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/air/offers/off_00009htYpSCXrwaB9DnUm0":
			assert.Equal(t, "true", r.URL.Query().Get("return_available_services"))
			writeJSON(w, http.StatusOK, `{"data":`+offer+`}`)
		case "/air/seat_maps":
			assert.Equal(t, "off_00009htYpSCXrwaB9DnUm0", r.URL.Query().Get("offer_id"))
			writeJSON(w, http.StatusOK, `{"data":[{"id":"sea_1","segment_id":"seg_1","slice_id":"sli_1","cabins":[{"cabin_class":"economy","deck":0,"aisles":1,"rows":[{"sections":[{"elements":[{"type":"seat","designator":"1A","disclosures":[],"available_services":[{"id":"ase_1","passenger_id":"pas_1","total_amount":"30.00","total_currency":"GBP"}]}]},{"elements":[{"type":"lavatory"}]}]}]}]}]}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
	})

	var out bytes.Buffer
	require.NoError(t, runOffersShow(context.Background(), client, "off_00009htYpSCXrwaB9DnUm0", true, true, &out))

	assert.Contains(t, out.String(), "British Airways")
	assert.Contains(t, out.String(), "ase_00009UhD4ongolulWAAA2")
	assert.Contains(t, out.String(), "seat map sea_1 (segment seg_1)")
	assert.Contains(t, out.String(), "  1A | ")
	assert.Equal(t, 2, client.RequestCount())
}

func TestRunOrdersCancel(t *testing.T) {
	const cancellation = `{"data":{"id":"ore_1","order_id":"ord_1","live_mode":false,"created_at":"2020-01-17T10:12:14.545Z","confirmed_at":%s,"expires_at":"2020-01-17T10:42:14.545Z","refund_amount":"90.80","refund_currency":"GBP","refund_to":"arc_bsp_cash"}}`

	var confirmed int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/air/order_cancellations":
			writeJSON(w, http.StatusCreated, strings.Replace(cancellation, "%s", "null", 1))
		case "/air/order_cancellations/ore_1/actions/confirm":
			atomic.AddInt32(&confirmed, 1)
			writeJSON(w, http.StatusOK, strings.Replace(cancellation, "%s", `"2020-01-17T10:15:00.000Z"`, 1))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL)
		}
	})

	var out bytes.Buffer
	require.NoError(t, runOrdersCancel(context.Background(), client, "ord_1", false, &out))
	assert.Contains(t, out.String(), "ore_1: refund 90.80 GBP to arc_bsp_cash")
	assert.Contains(t, out.String(), "--confirm")
	assert.Zero(t, atomic.LoadInt32(&confirmed))

	out.Reset()
	require.NoError(t, runOrdersCancel(context.Background(), client, "ord_1", true, &out))
	assert.Contains(t, out.String(), "cancelled 2020-01-17 10:15")
	assert.Equal(t, int32(1), atomic.LoadInt32(&confirmed))
}

func TestSessionOptionsReportMissingURLs(t *testing.T) {
	client, err := duffel.NewClient(duffel.WithAccessToken("duffel_test_token"))
	require.NoError(t, err)

	b := sessionOptions{successURL: "https://example.com/ok"}.builder(client.LinksSessions.Create())
	require.NoError(t, b.Err())

	_, err = b.Execute(context.Background())
	assert.ErrorIs(t, err, duffel.ErrMissingField)
	assert.ErrorContains(t, err, "failure_url")

	b = sessionOptions{markupAmount: "1.00"}.builder(client.LinksSessions.Create())
	assert.ErrorIs(t, b.Err(), duffel.ErrInvalidMarkup)
}
