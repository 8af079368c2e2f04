package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeProvider struct {
	err      error
	amount   int64
	currency string
	calls    int
}

func (f *fakeProvider) CreateSheet(ctx context.Context, amountInCents int64, currency string) (Sheet, error) {
	f.calls++
	f.amount, f.currency = amountInCents, currency
	if f.err != nil {
		return Sheet{}, f.err
	}
	return Sheet{
		PaymentIntentSecret: "pi_secret",
		EphemeralKeySecret:  "ek_secret",
		CustomerID:          "cus_1",
		PublishableKey:      "pk_test",
	}, nil
}

func serve(t *testing.T, provider Provider, body string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(provider).Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payment-sheet", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	out := map[string]string{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("response is not a JSON object: %s", w.Body.String())
	}
	return w, out
}

func TestCreatePaymentSheet(t *testing.T) {
	provider := &fakeProvider{}
	w, body := serve(t, provider, `{"totalInCents": 1999, "currency": " usd "}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %v", w.Code, body)
	}
	if provider.amount != 1999 || provider.currency != "usd" {
		t.Fatalf("provider got %d %q", provider.amount, provider.currency)
	}
	want := map[string]string{
		"paymentIntentSecret": "pi_secret",
		"ephemeralKeySecret":  "ek_secret",
		"customerId":          "cus_1",
		"publishableKey":      "pk_test",
	}
	for k, v := range want {
		if body[k] != v {
			t.Fatalf("%s = %q, want %q", k, body[k], v)
		}
	}
}

func TestCreatePaymentSheetRejectsMalformedBody(t *testing.T) {
	cases := map[string]string{
		"below minimum":    `{"totalInCents": 49, "currency": "usd"}`,
		"fractional":       `{"totalInCents": 50.5, "currency": "usd"}`,
		"not a number":     `{"totalInCents": "lots", "currency": "usd"}`,
		"quoted amount":    `{"totalInCents": "5000", "currency": "usd"}`,
		"null amount":      `{"totalInCents": null, "currency": "usd"}`,
		"upper-case code":  `{"totalInCents": 500, "currency": "USD"}`,
		"missing amount":   `{"currency": "usd"}`,
		"bad currency":     `{"totalInCents": 500, "currency": "jpy"}`,
		"missing currency": `{"totalInCents": 500}`,
		"not json":         `totalInCents=500`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			provider := &fakeProvider{}
			w, out := serve(t, provider, body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			if out["error"] == "" {
				t.Fatalf("expected an error message")
			}
			if provider.calls != 0 {
				t.Fatalf("provider must not be called")
			}
		})
	}
}

func TestCreatePaymentSheetProviderFailures(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("create customer: %w: dial tcp: timeout", ErrProviderUnavailable), http.StatusServiceUnavailable},
		{errors.New("card declined"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w, out := serve(t, &fakeProvider{err: tc.err}, `{"totalInCents": 5000, "currency": "eur"}`)
		if w.Code != tc.want {
			t.Fatalf("status = %d, want %d", w.Code, tc.want)
		}
		if out["error"] == "" {
			t.Fatalf("expected an error message")
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{50: "0.50", 1999: "19.99", 100000: "1000.00"}
	for cents, want := range cases {
		if got := FormatAmount(cents); got != want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", cents, got, want)
		}
	}
}
