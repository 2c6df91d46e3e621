package main

import (
	"context"
	"fmt"
	"io"

	"github.com/fabianMendez/duffel"
	"github.com/fabianMendez/duffel/pkg/date"
	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, inspect and cancel orders",
	}

	cmd.AddCommand(newOrdersListCmd())
	cmd.AddCommand(newOrdersShowCmd())
	cmd.AddCommand(newOrdersCancelCmd())

	return cmd
}

func newOrdersListCmd() *cobra.Command {
	var (
		awaitingPayment bool
		sort            string
		maxItems        int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List orders",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			params := duffel.OrderListParams{Sort: duffel.OrderSort(sort)}
			if cmd.Flags().Changed("awaiting-payment") {
				params.AwaitingPayment = &awaitingPayment
			}

			it, err := client.Orders.List(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printList(it, cmd.OutOrStdout(), maxItems, []string{"ORDER", "REFERENCE", "TOTAL", "AIRLINE", "PAY BY", "CREATED"}, func(order duffel.Order) []string {
				payBy := "-"
				if order.PaymentStatus.PaymentRequiredBy != nil {
					payBy = order.PaymentStatus.PaymentRequiredBy.Format("2006-01-02 15:04")
				}
				return []string{
					order.ID,
					order.BookingReference,
					formatMoney(order.TotalAmount, order.TotalCurrency),
					order.Owner.Name,
					payBy,
					date.Format(order.CreatedAt.Time),
				}
			})
		},
	}

	cmd.Flags().BoolVar(&awaitingPayment, "awaiting-payment", false, "only orders on hold that still need paying")
	cmd.Flags().StringVar(&sort, "sort", "", "pay_by or -pay_by")
	cmd.Flags().IntVar(&maxItems, "max", 50, "maximum number of orders to print, 0 for all")

	return cmd
}

func newOrdersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			order, err := client.Orders.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printOrder(cmd.OutOrStdout(), order)
			return nil
		},
	}
}

func printOrder(w io.Writer, order duffel.Order) {
	fmt.Fprintf(w, "%s  %s  %s  %s\n", order.ID, order.BookingReference, order.Owner.Name, formatMoney(order.TotalAmount, order.TotalCurrency))
	fmt.Fprintf(w, "created %s\n", formatWhen(order.CreatedAt.Time))
	if order.CancelledAt != nil {
		fmt.Fprintf(w, "cancelled %s\n", formatWhen(order.CancelledAt.Time))
	}
	if by := order.PaymentStatus.PaymentRequiredBy; order.PaymentStatus.AwaitingPayment && by != nil {
		fmt.Fprintf(w, "awaiting payment, due %s\n", formatWhen(by.Time))
	}

	fmt.Fprintln(w)
	t := newTable(w, "PASSENGER", "NAME", "TYPE")
	for _, passenger := range order.Passengers {
		kind := "-"
		if passenger.Type != nil {
			kind = string(*passenger.Type)
		}
		t.row(passenger.ID, passenger.GivenName+" "+passenger.FamilyName, kind)
	}
	_ = t.flush()

	for _, slice := range order.Slices {
		fmt.Fprintf(w, "\n%s  %s\n", route(slice), flights(slice))
	}
}

func newOrdersCancelCmd() *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Quote the refund for cancelling an order, and confirm it with --confirm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			return runOrdersCancel(cmd.Context(), client, args[0], confirm, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&confirm, "confirm", false, "confirm the cancellation instead of only quoting it")

	return cmd
}

func runOrdersCancel(ctx context.Context, client *duffel.Client, orderID string, confirm bool, w io.Writer) error {
	cancellation, err := client.OrderCancellations.Create(ctx, orderID)
	if err != nil {
		return fmt.Errorf("could not create order cancellation: %w", err)
	}

	refundTo := "-"
	if cancellation.RefundTo != nil {
		refundTo = string(*cancellation.RefundTo)
	}
	fmt.Fprintf(w, "%s: refund %s to %s\n", cancellation.ID, formatOptMoney(cancellation.RefundAmount, cancellation.RefundCurrency), refundTo)
	if cancellation.ExpiresAt != nil {
		fmt.Fprintf(w, "quote expires %s\n", formatWhen(cancellation.ExpiresAt.Time))
	}

	if !confirm {
		fmt.Fprintln(w, "run again with --confirm to cancel the order")
		return nil
	}

	cancellation, err = client.OrderCancellations.Confirm(ctx, cancellation.ID)
	if err != nil {
		return fmt.Errorf("could not confirm order cancellation: %w", err)
	}
	if cancellation.ConfirmedAt != nil {
		fmt.Fprintf(w, "cancelled %s\n", formatWhen(cancellation.ConfirmedAt.Time))
	}
	return nil
}
