package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fabianMendez/duffel"
)

func formatMoney(amount, currency string) string {
	n, err := strconv.ParseFloat(amount, 64)
	if err != nil {
		return strings.TrimSpace(amount + " " + currency)
	}
	return humanize.FormatFloat("#,###.##", n) + " " + currency
}

func formatOptMoney(amount, currency *string) string {
	if amount == nil || currency == nil {
		return "-"
	}
	return formatMoney(*amount, *currency)
}

// formatWhen prints t along with how far it is from now.
func formatWhen(t time.Time) string {
	return t.Format("2006-01-02 15:04") + " (" + humanize.Time(t) + ")"
}

func optString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// route prints the airports a slice goes through, e.g. LHR-JFK-LAX.
func route(slice duffel.Slice) string {
	if len(slice.Segments) == 0 {
		return slice.Origin.IATACode() + "-" + slice.Destination.IATACode()
	}
	codes := []string{slice.Segments[0].Origin.IATACode}
	for _, segment := range slice.Segments {
		codes = append(codes, segment.Destination.IATACode)
	}
	return strings.Join(codes, "-")
}

func flights(slice duffel.Slice) string {
	numbers := make([]string, len(slice.Segments))
	for i, segment := range slice.Segments {
		numbers[i] = optString(segment.MarketingCarrier.IATACode) + segment.MarketingCarrierFlightNumber
	}
	return strings.Join(numbers, ",")
}

type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	t.row(headers...)
	return t
}

func (t *table) row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

func (t *table) flush() error { return t.tw.Flush() }
