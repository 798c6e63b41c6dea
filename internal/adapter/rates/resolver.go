package rates

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/alturabank/ledger/internal/domain"
)

type pair struct {
	from string
	to   string
}

// StaticResolver implements usecase.RateResolver from a fixed quote table.
// Quotes are held against USD; missing pairs fall back to the inverse
// quote and then to a cross through USD.
type StaticResolver struct {
	quotes map[pair]decimal.Decimal
}

// NewStaticResolver creates a resolver with the built-in quote table.
func NewStaticResolver() *StaticResolver {
	quotes := map[pair]decimal.Decimal{
		{"USD", "EUR"}: decimal.RequireFromString("0.85"),
		{"USD", "GBP"}: decimal.RequireFromString("0.73"),
		{"USD", "JPY"}: decimal.RequireFromString("110.5"),
		{"USD", "CAD"}: decimal.RequireFromString("1.25"),
		{"USD", "AUD"}: decimal.RequireFromString("1.35"),
		{"USD", "ARS"}: decimal.RequireFromString("350.75"),
		{"EUR", "USD"}: decimal.RequireFromString("1.18"),
		{"GBP", "USD"}: decimal.RequireFromString("1.37"),
		{"JPY", "USD"}: decimal.RequireFromString("0.009"),
		{"CAD", "USD"}: decimal.RequireFromString("0.80"),
		{"AUD", "USD"}: decimal.RequireFromString("0.74"),
		{"ARS", "USD"}: decimal.RequireFromString("0.00285"),
	}

	return &StaticResolver{quotes: quotes}
}

// Rate returns the conversion factor from one currency to another.
func (r *StaticResolver) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if err := domain.ValidateCurrency(from); err != nil {
		return decimal.Zero, err
	}
	if err := domain.ValidateCurrency(to); err != nil {
		return decimal.Zero, err
	}

	if from == to {
		return decimal.NewFromInt(1), nil
	}

	if rate, ok := r.quotes[pair{from, to}]; ok {
		return rate, nil
	}

	if inverse, ok := r.quotes[pair{to, from}]; ok && !inverse.IsZero() {
		return decimal.NewFromInt(1).Div(inverse), nil
	}

	// Cross through USD for pairs with no direct or inverse quote.
	toUSD, err := r.Rate(ctx, from, "USD")
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrRateUnavailable, from, to)
	}

	fromUSD, err := r.Rate(ctx, "USD", to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s/%s", domain.ErrRateUnavailable, from, to)
	}

	return toUSD.Mul(fromUSD), nil
}
