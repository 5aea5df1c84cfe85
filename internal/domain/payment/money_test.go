package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		pct      int
		expected string
	}{
		{"ten percent", "200.00", 10, "180.00"},
		{"no discount", "100.00", 0, "100.00"},
		{"half cent rounds up", "33.33", 15, "28.33"},
		{"half cent 0.045 rounds up", "0.05", 10, "0.05"},
		{"half cent 6.175 rounds up", "12.35", 50, "6.18"},
		{"full discount", "99.99", 100, "0.00"},
		{"integer input", "150", 5, "142.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(decimal.RequireFromString(tt.amount), tt.pct)
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestTenPercent(t *testing.T) {
	tests := []struct {
		amount   string
		expected string
	}{
		{"100.00", "10.00"},
		{"0.05", "0.01"},
		{"12.34", "1.23"},
		{"12.35", "1.24"},
		{"250.00", "25.00"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got := TenPercent(decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.expected, got.StringFixed(2))
		})
	}
}

func TestMethod_Covers(t *testing.T) {
	m := &Method{ID: "CARD", Limit: decimal.RequireFromString("50.00")}

	assert.True(t, m.Covers(decimal.RequireFromString("50")))
	assert.True(t, m.Covers(decimal.RequireFromString("49.99")))
	assert.False(t, m.Covers(decimal.RequireFromString("50.01")))
	assert.False(t, m.IsPoints())
	assert.True(t, (&Method{ID: PointsID}).IsPoints())
}

func TestDecision_Found(t *testing.T) {
	assert.False(t, Decision{}.Found())
	assert.True(t, Decision{Choice: PointsPartial, Discount: 10}.Found())
	assert.True(t, Decision{Choice: "CARD"}.Found())
}
