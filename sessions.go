package duffel

import (
	"context"
	"net/http"

	"github.com/fabianMendez/duffel/pkg/decode"
)

// Session is a traveller's search and book flow hosted by Duffel Links.
// Redirect the traveller to URL.
type Session struct {
	URL string `json:"url"`
}

func decodeSession(o *decode.Object) Session {
	return Session{URL: o.String("url")}
}

type SessionClient struct {
	c *Client
}

func (sc *SessionClient) Create() LinksSessionCreate {
	return LinksSessionCreate{client: sc}
}

type sessionPayload struct {
	Reference           string `json:"reference"`
	SuccessURL          string `json:"success_url"`
	FailureURL          string `json:"failure_url"`
	AbandonmentURL      string `json:"abandonment_url"`
	LogoURL             string `json:"logo_url,omitempty"`
	PrimaryColor        string `json:"primary_color,omitempty"`
	SecondaryColor      string `json:"secondary_color,omitempty"`
	CheckoutDisplayText string `json:"checkout_display_text,omitempty"`
	TravellerCurrency   string `json:"traveller_currency,omitempty"`
	MarkupAmount        string `json:"markup_amount,omitempty"`
	MarkupCurrency      string `json:"markup_currency,omitempty"`
	MarkupRate          string `json:"markup_rate,omitempty"`
}

// LinksSessionCreate builds a session. Reference and the three redirect
// URLs are required.
type LinksSessionCreate struct {
	client  *SessionClient
	payload sessionPayload
	err     error
}

func (b LinksSessionCreate) fail(err error) LinksSessionCreate {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Reference identifies the session in your own systems, e.g. a user id.
func (b LinksSessionCreate) Reference(reference string) LinksSessionCreate {
	b.payload.Reference = reference
	return b
}

func (b LinksSessionCreate) SuccessURL(u string) LinksSessionCreate {
	if err := validateURL("success_url", u); err != nil {
		return b.fail(err)
	}
	b.payload.SuccessURL = u
	return b
}

func (b LinksSessionCreate) FailureURL(u string) LinksSessionCreate {
	if err := validateURL("failure_url", u); err != nil {
		return b.fail(err)
	}
	b.payload.FailureURL = u
	return b
}

func (b LinksSessionCreate) AbandonmentURL(u string) LinksSessionCreate {
	if err := validateURL("abandonment_url", u); err != nil {
		return b.fail(err)
	}
	b.payload.AbandonmentURL = u
	return b
}

func (b LinksSessionCreate) LogoURL(u string) LinksSessionCreate {
	b.payload.LogoURL = u
	return b
}

func (b LinksSessionCreate) PrimaryColor(color string) LinksSessionCreate {
	b.payload.PrimaryColor = color
	return b
}

func (b LinksSessionCreate) SecondaryColor(color string) LinksSessionCreate {
	b.payload.SecondaryColor = color
	return b
}

func (b LinksSessionCreate) CheckoutDisplayText(text string) LinksSessionCreate {
	b.payload.CheckoutDisplayText = text
	return b
}

func (b LinksSessionCreate) TravellerCurrency(currency string) LinksSessionCreate {
	b.payload.TravellerCurrency = currency
	return b
}

// Markup adds a fixed amount to the price paid by the traveller. Amount
// and currency go together.
func (b LinksSessionCreate) Markup(amount, currency string) LinksSessionCreate {
	if (amount == "") != (currency == "") {
		return b.fail(invalid("markup", amount+" "+currency, ErrInvalidMarkup))
	}
	b.payload.MarkupAmount = amount
	b.payload.MarkupCurrency = currency
	return b
}

// MarkupRate is applied to the total, "0.01" for 1%.
func (b LinksSessionCreate) MarkupRate(rate string) LinksSessionCreate {
	b.payload.MarkupRate = rate
	return b
}

func (b LinksSessionCreate) Err() error { return b.err }

func (b LinksSessionCreate) Execute(ctx context.Context) (Session, error) {
	if b.err != nil {
		return Session{}, b.err
	}

	required := []struct{ field, value string }{
		{"reference", b.payload.Reference},
		{"success_url", b.payload.SuccessURL},
		{"failure_url", b.payload.FailureURL},
		{"abandonment_url", b.payload.AbandonmentURL},
	}
	for _, r := range required {
		if r.value == "" {
			return Session{}, invalid(r.field, nil, ErrMissingField)
		}
	}

	return do(ctx, b.client.c, http.MethodPost, "/links/sessions", Params{}, b.payload, decodeSession)
}
