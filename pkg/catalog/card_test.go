package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrendPrice(t *testing.T) {
	tests := []struct {
		name      string
		pricing   *Pricing
		wantPrice float64
		wantOK    bool
	}{
		{
			name:    "no pricing block",
			pricing: nil,
		},
		{
			name: "euro trend preferred",
			pricing: &Pricing{
				EuroMarket: &EuroMarketPrices{Trend: 2.25},
				TCGMarket:  &TCGMarketPrices{Market: 9.99},
			},
			wantPrice: 2.25,
			wantOK:    true,
		},
		{
			name: "dollar market fallback",
			pricing: &Pricing{
				TCGMarket: &TCGMarketPrices{Market: 1.5},
			},
			wantPrice: 1.5,
			wantOK:    true,
		},
		{
			name: "blocks present but zero-valued",
			pricing: &Pricing{
				EuroMarket: &EuroMarketPrices{},
				TCGMarket:  &TCGMarketPrices{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := Card{ID: "swsh3-136", Pricing: tt.pricing}
			price, ok := card.TrendPrice()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPrice, price)
		})
	}
}

func TestDeriveSetID(t *testing.T) {
	assert.Equal(t, "swsh3", DeriveSetID("swsh3-136"))
	assert.Equal(t, "base1", DeriveSetID("base1-4"))
	assert.Equal(t, "xy", DeriveSetID("xy-1-extra")) // first separator wins
	assert.Equal(t, "promo", DeriveSetID("promo"))   // no separator
	assert.Equal(t, "", DeriveSetID(""))
}
