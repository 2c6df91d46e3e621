package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newOffersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Search and inspect offers",
	}

	cmd.AddCommand(newOffersSearchCmd())
	cmd.AddCommand(newOffersShowCmd())

	return cmd
}

type searchOptions struct {
	origin, destination string
	departure, ret      string
	adults              int
	childAges           []int
	cabin               string
	maxConnections      int
	sort                string
	maxItems            int
}

func newOffersSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Create an offer request and list its offers, cheapest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return runOffersSearch(cmd.Context(), client, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.origin, "from", "", "origin airport or city IATA code")
	cmd.Flags().StringVar(&opts.destination, "to", "", "destination airport or city IATA code")
	cmd.Flags().StringVar(&opts.departure, "date", "", "departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.ret, "return", "", "return date (YYYY-MM-DD) for a round trip")
	cmd.Flags().IntVar(&opts.adults, "adults", 1, "number of adult passengers")
	cmd.Flags().IntSliceVar(&opts.childAges, "child-age", nil, "age of a child passenger, repeatable")
	cmd.Flags().StringVar(&opts.cabin, "cabin", string(duffel.CabinClassEconomy), "cabin class")
	cmd.Flags().IntVar(&opts.maxConnections, "max-connections", 1, "maximum connections per slice")
	cmd.Flags().StringVar(&opts.sort, "sort", string(duffel.OfferSortTotalAmount), "total_amount or total_duration")
	cmd.Flags().IntVar(&opts.maxItems, "max", 10, "maximum number of offers to print, 0 for all")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func (o searchOptions) slices() ([]duffel.SliceInput, error) {
	departure, err := date.ParseLenientDate(o.departure)
	if err != nil {
		return nil, fmt.Errorf("invalid departure date: %w", err)
	}
	slices := []duffel.SliceInput{{Origin: o.origin, Destination: o.destination, DepartureDate: departure}}

	if o.ret != "" {
		ret, err := date.ParseLenientDate(o.ret)
		if err != nil {
			return nil, fmt.Errorf("invalid return date: %w", err)
		}
		slices = append(slices, duffel.SliceInput{Origin: o.destination, Destination: o.origin, DepartureDate: ret})
	}
	return slices, nil
}

func (o searchOptions) passengers() []duffel.PassengerInput {
	var passengers []duffel.PassengerInput
	for i := 0; i < o.adults; i++ {
		passengers = append(passengers, duffel.PassengerInput{Type: duffel.PassengerTypeAdult})
	}
	for _, age := range o.childAges {
		passengers = append(passengers, duffel.PassengerInput{Age: &age})
	}
	return passengers
}

func runOffersSearch(ctx context.Context, client *duffel.Client, opts searchOptions, w io.Writer) error {
	slices, err := opts.slices()
	if err != nil {
		return err
	}

	offerRequest, err := client.OfferRequests.Create().
		ReturnOffers(false).
		CabinClass(duffel.CabinClass(opts.cabin)).
		Passengers(opts.passengers()...).
		Slices(slices...).
		MaxConnections(opts.maxConnections).
		Execute(ctx)
	if err != nil {
		return fmt.Errorf("could not create offer request: %w", err)
	}
	logger.Println("offer request", offerRequest.ID)

	it, err := client.Offers.List(ctx, duffel.OfferListParams{
		OfferRequestID: offerRequest.ID,
		Sort:           duffel.OfferSort(opts.sort),
		MaxConnections: &opts.maxConnections,
	})
	if err != nil {
		return err
	}

	return printList(it, w, opts.maxItems, []string{"OFFER", "PRICE", "AIRLINE", "ROUTE", "FLIGHTS", "DEPARTS"}, func(offer duffel.Offer) []string {
		routes := make([]string, len(offer.Slices))
		numbers := make([]string, len(offer.Slices))
		for i, slice := range offer.Slices {
			routes[i] = route(slice)
			numbers[i] = flights(slice)
		}
		departs := "-"
		if len(offer.Slices) > 0 && len(offer.Slices[0].Segments) > 0 {
			departs = offer.Slices[0].Segments[0].DepartingAt.String()
		}
		return []string{
			offer.ID,
			formatMoney(offer.TotalAmount, offer.TotalCurrency),
			offer.Owner.Name,
			strings.Join(routes, " / "),
			strings.Join(numbers, " / "),
			departs,
		}
	})
}

func newOffersShowCmd() *cobra.Command {
	var seatMaps, services bool

	cmd := &cobra.Command{
		Use:   "show <offer-id>",
		Short: "Show an offer, optionally with its seat maps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return runOffersShow(cmd.Context(), client, args[0], services, seatMaps, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&seatMaps, "seat-maps", false, "also fetch the seat maps of the offer")
	cmd.Flags().BoolVar(&services, "services", false, "include the services available for purchase")

	return cmd
}

func runOffersShow(ctx context.Context, client *duffel.Client, id string, services, withSeatMaps bool, w io.Writer) error {
	var (
		offer    duffel.Offer
		seatMaps []duffel.SeatMap
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		offer, err = client.Offers.Get(gctx, id, duffel.GetOfferParams{ReturnAvailableServices: services})
		return err
	})
	if withSeatMaps {
		g.Go(func() error {
			var err error
			seatMaps, err = client.SeatMaps.Get(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printOffer(w, offer)
	for _, seatMap := range seatMaps {
		printSeatMap(w, seatMap)
	}
	return nil
}

func printOffer(w io.Writer, offer duffel.Offer) {
	fmt.Fprintf(w, "%s  %s  %s\n", offer.ID, offer.Owner.Name, formatMoney(offer.TotalAmount, offer.TotalCurrency))
	fmt.Fprintf(w, "expires %s\n", formatWhen(offer.ExpiresAt.Time))
	if by := offer.PaymentRequirements.PaymentRequiredBy; by != nil {
		fmt.Fprintf(w, "pay by  %s\n", formatWhen(by.Time))
	}

	for _, slice := range offer.Slices {
		fmt.Fprintf(w, "\n%s  %s\n", route(slice), optString(slice.Duration))
		for _, segment := range slice.Segments {
			fmt.Fprintf(w, "  %s%s  %s %s -> %s %s\n",
				optString(segment.MarketingCarrier.IATACode), segment.MarketingCarrierFlightNumber,
				segment.Origin.IATACode, segment.DepartingAt.Format("Jan 2 15:04"),
				segment.Destination.IATACode, segment.ArrivingAt.Format("Jan 2 15:04"))
		}
	}

	if len(offer.AvailableServices) > 0 {
		fmt.Fprintln(w)
		t := newTable(w, "SERVICE", "TYPE", "PRICE", "MAX")
		for _, service := range offer.AvailableServices {
			t.row(service.ID, string(service.Type), formatMoney(service.TotalAmount, service.TotalCurrency), fmt.Sprint(service.MaximumQuantity))
		}
		_ = t.flush()
	}
}

func printSeatMap(w io.Writer, seatMap duffel.SeatMap) {
	fmt.Fprintf(w, "\nseat map %s (segment %s)\n", seatMap.ID, seatMap.SegmentID)
	for _, cabin := range seatMap.Cabins {
		fmt.Fprintf(w, "%s, deck %d\n", cabin.CabinClass, cabin.Deck)
		for _, row := range cabin.Rows {
			fmt.Fprintln(w, "  "+seatRow(row))
		}
	}
}

// seatRow draws one row of a cabin: available seats by designator, taken
// seats as "xx" and anything else as blanks, sections split by an aisle.
func seatRow(row duffel.Row) string {
	sections := make([]string, len(row.Sections))
	for i, section := range row.Sections {
		var b strings.Builder
		for _, element := range section.Elements {
			switch {
			case element.Type != duffel.ElementSeat:
				b.WriteString("    ")
			case element.Available():
				fmt.Fprintf(&b, "%-4s", element.Designator)
			default:
				b.WriteString("xx  ")
			}
		}
		sections[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(sections, " | ")
}
