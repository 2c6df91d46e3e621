package main

import (
	"fmt"

	"github.com/fabianMendez/duffel"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type sessionOptions struct {
	reference                             string
	successURL, failureURL, abandonURL    string
	logoURL, primaryColor, secondaryColor string
	checkoutText, travellerCurrency       string
	markupAmount, markupCurrency          string
	markupRate                            string
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Create Duffel Links checkout sessions",
	}

	cmd.AddCommand(newSessionsCreateCmd())

	return cmd
}

func newSessionsCreateCmd() *cobra.Command {
	var opts sessionOptions

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Links session and print its URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			session, err := opts.builder(client.LinksSessions.Create()).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.URL)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.reference, "reference", "", "your reference for the traveller (default is a random UUID)")
	cmd.Flags().StringVar(&opts.successURL, "success-url", "", "where to send the traveller after booking")
	cmd.Flags().StringVar(&opts.failureURL, "failure-url", "", "where to send the traveller when booking fails")
	cmd.Flags().StringVar(&opts.abandonURL, "abandonment-url", "", "where to send a traveller who leaves the session")
	cmd.Flags().StringVar(&opts.logoURL, "logo-url", "", "logo shown in the session")
	cmd.Flags().StringVar(&opts.primaryColor, "primary-color", "", "primary color, e.g. #000000")
	cmd.Flags().StringVar(&opts.secondaryColor, "secondary-color", "", "secondary color")
	cmd.Flags().StringVar(&opts.checkoutText, "checkout-text", "", "text shown on the checkout page")
	cmd.Flags().StringVar(&opts.travellerCurrency, "currency", "", "currency prices are shown in")
	cmd.Flags().StringVar(&opts.markupAmount, "markup-amount", "", "fixed markup added to every order")
	cmd.Flags().StringVar(&opts.markupCurrency, "markup-currency", "", "currency of the fixed markup")
	cmd.Flags().StringVar(&opts.markupRate, "markup-rate", "", "markup as a fraction of the order total, e.g. 0.01")

	return cmd
}

func (o sessionOptions) builder(b duffel.LinksSessionCreate) duffel.LinksSessionCreate {
	reference := o.reference
	if reference == "" {
		reference = uuid.NewString()
	}
	b = b.Reference(reference)

	// unset URLs are left for Execute to report as missing
	if o.successURL != "" {
		b = b.SuccessURL(o.successURL)
	}
	if o.failureURL != "" {
		b = b.FailureURL(o.failureURL)
	}
	if o.abandonURL != "" {
		b = b.AbandonmentURL(o.abandonURL)
	}
	if o.logoURL != "" {
		b = b.LogoURL(o.logoURL)
	}
	if o.primaryColor != "" {
		b = b.PrimaryColor(o.primaryColor)
	}
	if o.secondaryColor != "" {
		b = b.SecondaryColor(o.secondaryColor)
	}
	if o.checkoutText != "" {
		b = b.CheckoutDisplayText(o.checkoutText)
	}
	if o.travellerCurrency != "" {
		b = b.TravellerCurrency(o.travellerCurrency)
	}
	if o.markupAmount != "" || o.markupCurrency != "" {
		b = b.Markup(o.markupAmount, o.markupCurrency)
	}
	if o.markupRate != "" {
		b = b.MarkupRate(o.markupRate)
	}
	return b
}
