package payment

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"

	"github.com/shopspring/decimal"
)

const MinimumAmountInCents = 50

var supportedCurrencies = map[string]struct{}{
	"usd": {},
	"eur": {},
	"gbp": {},
	"cad": {},
	"aud": {},
}

// Request is the body of POST /payment-sheet. TotalInCents stays raw so a
// quoted amount can be told apart from a JSON number.
type Request struct {
	TotalInCents json.RawMessage `json:"totalInCents"`
	Currency     string          `json:"currency"`
}

// Sheet holds what a client needs to present a payment sheet.
type Sheet struct {
	PaymentIntentSecret string `json:"paymentIntentSecret"`
	EphemeralKeySecret  string `json:"ephemeralKeySecret"`
	CustomerID          string `json:"customerId"`
	PublishableKey      string `json:"publishableKey"`
}

// Validate returns the amount and the currency of a well formed request.
// Currency codes are matched exactly, lower case only.
func (r Request) Validate() (int64, string, error) {
	raw := bytes.TrimSpace(r.TotalInCents)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, "", ierr.Invalid("totalInCents", "is required")
	}
	if raw[0] == '"' {
		return 0, "", ierr.Invalid("totalInCents", "must be a JSON number")
	}
	amount, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, "", ierr.Invalid("totalInCents", "must be an integer")
	}
	if amount < MinimumAmountInCents {
		return 0, "", ierr.Invalid("totalInCents", "must be at least 50")
	}

	currency := strings.TrimSpace(r.Currency)
	if _, ok := supportedCurrencies[currency]; !ok {
		return 0, "", ierr.Invalid("currency", "must be one of usd, eur, gbp, cad, aud")
	}
	return amount, currency, nil
}

// FormatAmount renders cents as a decimal amount, e.g. 1999 -> "19.99".
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
