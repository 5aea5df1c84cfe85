package input

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/payopt/internal/domain/payment"
)

// LoadOrders reads and validates orders from a JSON file.
func LoadOrders(path string) ([]payment.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeOrders(f)
}

// LoadMethods reads and validates payment methods from a JSON file.
func LoadMethods(path string) ([]payment.Method, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open payment methods file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeMethods(f)
}

// DecodeOrders parses a JSON array of orders.
func DecodeOrders(r io.Reader) ([]payment.Order, error) {
	var records []OrderRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}
	return ConvertOrders(records)
}

// DecodeMethods parses a JSON array of payment methods.
func DecodeMethods(r io.Reader) ([]payment.Method, error) {
	var records []MethodRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode payment methods: %w", err)
	}
	return ConvertMethods(records)
}

// ConvertOrders validates records and converts them to domain orders.
// The first invalid record fails the whole batch.
func ConvertOrders(records []OrderRecord) ([]payment.Order, error) {
	orders := make([]payment.Order, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		if rec.ID == "" {
			return nil, invalid("order", i, "id is required")
		}
		if seen[rec.ID] {
			return nil, invalid("order", i, fmt.Sprintf("duplicate id %q", rec.ID))
		}
		seen[rec.ID] = true

		if rec.Value == nil {
			return nil, invalid("order", i, "value is required")
		}
		if !rec.Value.IsPositive() {
			return nil, invalid("order", i, fmt.Sprintf("value must be positive, got %s", rec.Value))
		}
		if !isCents(*rec.Value) {
			return nil, invalid("order", i, fmt.Sprintf("value %s has more than two decimal places", rec.Value))
		}

		var promotions []string
		if len(rec.Promotions) > 0 {
			promotions = make([]string, len(rec.Promotions))
			copy(promotions, rec.Promotions)
		}

		orders = append(orders, payment.Order{
			ID:         rec.ID,
			Value:      *rec.Value,
			Promotions: promotions,
		})
	}

	return orders, nil
}

// ConvertMethods validates records and converts them to domain methods.
// The first invalid record fails the whole batch.
func ConvertMethods(records []MethodRecord) ([]payment.Method, error) {
	methods := make([]payment.Method, 0, len(records))
	seen := make(map[string]bool, len(records))

	for i, rec := range records {
		if rec.ID == "" {
			return nil, invalid("payment method", i, "id is required")
		}
		if seen[rec.ID] {
			return nil, invalid("payment method", i, fmt.Sprintf("duplicate id %q", rec.ID))
		}
		seen[rec.ID] = true

		if rec.Discount == nil {
			return nil, invalid("payment method", i, "discount is required")
		}
		if !rec.Discount.IsInteger() {
			return nil, invalid("payment method", i, fmt.Sprintf("discount %s is not an integer", rec.Discount))
		}
		if rec.Discount.IsNegative() || rec.Discount.GreaterThan(maxDiscount) {
			return nil, invalid("payment method", i, fmt.Sprintf("discount %s outside 0-100", rec.Discount))
		}
		discount := int(rec.Discount.IntPart())

		if rec.Limit == nil {
			return nil, invalid("payment method", i, "limit is required")
		}
		if rec.Limit.IsNegative() {
			return nil, invalid("payment method", i, fmt.Sprintf("limit must not be negative, got %s", rec.Limit))
		}
		if !isCents(*rec.Limit) {
			return nil, invalid("payment method", i, fmt.Sprintf("limit %s has more than two decimal places", rec.Limit))
		}

		methods = append(methods, payment.Method{
			ID:       rec.ID,
			Discount: discount,
			Limit:    *rec.Limit,
		})
	}

	return methods, nil
}

var maxDiscount = decimal.NewFromInt(100)

func isCents(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}

func invalid(kind string, index int, reason string) error {
	return fmt.Errorf("%w: %s %d: %s", ErrInvalidRecord, kind, index, reason)
}
