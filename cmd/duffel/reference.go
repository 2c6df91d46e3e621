package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fabianMendez/duffel"
	"github.com/spf13/cobra"
)

// lister prints up to maxItems items of a listing, all of them when
// maxItems is zero.
type lister func(ctx context.Context, params duffel.ListParams, w io.Writer, maxItems int) error

func newReferenceCmd(use, short string, newLister func(*duffel.Client) lister) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	var (
		limit    int
		after    string
		maxItems int
	)

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return newLister(client)(cmd.Context(), duffel.ListParams{Limit: limit, After: after}, cmd.OutOrStdout(), maxItems)
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "page size (1-200, default 50)")
	list.Flags().StringVar(&after, "after", "", "resume from a cursor")
	list.Flags().IntVar(&maxItems, "max", 50, "maximum number of items to print, 0 for all")

	cmd.AddCommand(list)
	return cmd
}

// printList walks it, printing one row per item, and stops after maxItems
// items.
func printList[T any](it *duffel.Iter[T], w io.Writer, maxItems int, headers []string, row func(T) []string) error {
	t := newTable(w, headers...)
	count := 0
	for item, err := range it.All() {
		if err != nil {
			return err
		}
		t.row(row(item)...)
		count++
		if maxItems > 0 && count >= maxItems {
			break
		}
	}
	if err := t.flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%s items", humanize.Comma(int64(count)))
	if after := it.After(); after != "" {
		fmt.Fprintf(w, ", next page after %s", after)
	}
	fmt.Fprintln(w)
	return nil
}

func listAirports(c *duffel.Client) lister {
	return func(ctx context.Context, params duffel.ListParams, w io.Writer, maxItems int) error {
		it, err := c.Airports.List(ctx, params)
		if err != nil {
			return err
		}
		return printList(it, w, maxItems, []string{"IATA", "NAME", "CITY", "COUNTRY", "TIME ZONE"}, func(a duffel.Airport) []string {
			return []string{a.IATACode, a.Name, optString(a.CityName), a.IATACountryCode, optString(a.TimeZone)}
		})
	}
}

func listAirlines(c *duffel.Client) lister {
	return func(ctx context.Context, params duffel.ListParams, w io.Writer, maxItems int) error {
		it, err := c.Airlines.List(ctx, params)
		if err != nil {
			return err
		}
		return printList(it, w, maxItems, []string{"IATA", "NAME", "ID"}, func(a duffel.Airline) []string {
			return []string{optString(a.IATACode), a.Name, a.ID}
		})
	}
}

func listAircraft(c *duffel.Client) lister {
	return func(ctx context.Context, params duffel.ListParams, w io.Writer, maxItems int) error {
		it, err := c.Aircraft.List(ctx, params)
		if err != nil {
			return err
		}
		return printList(it, w, maxItems, []string{"IATA", "NAME", "ID"}, func(a duffel.Aircraft) []string {
			return []string{a.IATACode, a.Name, a.ID}
		})
	}
}
