// Package handoff formats the manual order-confirmation message handed to
// an external messaging channel. It is a pure formatting concern; nothing
// here is transactional.
package handoff

import (
	"fmt"
	"net/url"
	"strings"

	"storefront/internal/domain"
)

// Confirmation is the prepared hand-off for one order.
type Confirmation struct {
	Text string `json:"confirmationText"`
	URL  string `json:"confirmationUrl,omitempty"`
}

// Build renders the itemized confirmation message for an order and, when a
// destination number is configured, the wa.me deep link carrying it.
func Build(order domain.Order, number string) Confirmation {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello, I would like to confirm Order #%d\n\n", order.ID)
	for _, item := range order.Items {
		name := item.Name
		if name == "" {
			name = fmt.Sprintf("product %d", item.ProductID)
		}
		fmt.Fprintf(&b, "- %s (%d) - $%s\n", name, item.Quantity, dollars(item.PriceCents*int64(item.Quantity)))
	}
	fmt.Fprintf(&b, "\nTotal: $%s", dollars(order.TotalCents))

	out := Confirmation{Text: b.String()}
	number = strings.TrimSpace(number)
	if number != "" {
		out.URL = fmt.Sprintf("https://wa.me/%s?text=%s", strings.TrimPrefix(number, "+"), url.QueryEscape(out.Text))
	}
	return out
}

func dollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
