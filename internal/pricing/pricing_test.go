package pricing

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lukouhub/lukouhub-backend/pkg/enums"
)

func amt(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("bad amount %q: %v", value, err)
	}
	return d
}

func twoGlazedDonuts(t *testing.T) []LineItem {
	t.Helper()
	return []LineItem{{
		ProductID: 1,
		Name:      "Classic Glazed",
		UnitPrice: amt(t, "8.90"),
		Quantity:  2,
	}}
}

func assertSummary(t *testing.T, got Summary, subtotal, fee, discount, total string) {
	t.Helper()
	if !got.Subtotal.Equal(amt(t, subtotal)) {
		t.Errorf("Subtotal = %s, want %s", got.Subtotal, subtotal)
	}
	if !got.DeliveryFee.Equal(amt(t, fee)) {
		t.Errorf("DeliveryFee = %s, want %s", got.DeliveryFee, fee)
	}
	if !got.Discount.Equal(amt(t, discount)) {
		t.Errorf("Discount = %s, want %s", got.Discount, discount)
	}
	if !got.Total.Equal(amt(t, total)) {
		t.Errorf("Total = %s, want %s", got.Total, total)
	}
}

func TestSummarizePickup(t *testing.T) {
	got := Summarize(twoGlazedDonuts(t), enums.DeliveryOptionPickup, decimal.Zero)
	assertSummary(t, got, "17.80", "0", "0", "17.80")
}

func TestSummarizeDeliveryAddsFlatFee(t *testing.T) {
	got := Summarize(twoGlazedDonuts(t), enums.DeliveryOptionDelivery, decimal.Zero)
	assertSummary(t, got, "17.80", "5.00", "0", "22.80")
}

func TestSummarizeEmptyCartHasNoDeliveryFee(t *testing.T) {
	got := Summarize(nil, enums.DeliveryOptionDelivery, decimal.Zero)
	assertSummary(t, got, "0", "0", "0", "0")
}

func TestSummarizeAppliesDiscount(t *testing.T) {
	got := Summarize(twoGlazedDonuts(t), enums.DeliveryOptionDelivery, amt(t, "20.00"))
	assertSummary(t, got, "17.80", "5.00", "20.00", "2.80")
}

func TestSummarizeTotalNeverNegative(t *testing.T) {
	got := Summarize(twoGlazedDonuts(t), enums.DeliveryOptionPickup, amt(t, "50.00"))
	assertSummary(t, got, "17.80", "0", "50.00", "0.00")
}

func TestSummarizeNegativeDiscountIsIgnored(t *testing.T) {
	got := Summarize(twoGlazedDonuts(t), enums.DeliveryOptionPickup, amt(t, "-3.00"))
	assertSummary(t, got, "17.80", "0", "0", "17.80")
}

func TestSummarizeIsIdempotent(t *testing.T) {
	items := twoGlazedDonuts(t)
	first := Summarize(items, enums.DeliveryOptionDelivery, amt(t, "10.00"))
	second := Summarize(items, enums.DeliveryOptionDelivery, amt(t, "10.00"))
	if !first.Total.Equal(second.Total) {
		t.Fatalf("summaries differ: %s vs %s", first.Total, second.Total)
	}
}

func TestSummarizeMultipleLines(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Name: "Classic Glazed", UnitPrice: amt(t, "8.90"), Quantity: 2},
		{ProductID: 2, Name: "Matcha Ring", UnitPrice: amt(t, "12.50"), Quantity: 1},
	}
	got := Summarize(items, enums.DeliveryOptionPickup, decimal.Zero)
	assertSummary(t, got, "30.30", "0", "0", "30.30")
}

func TestLookupPromo(t *testing.T) {
	cases := []struct {
		code     string
		discount string
		ok       bool
	}{
		{"LUKOU10", "10.00", true},
		{"lukou10", "10.00", true},
		{"  SAVE20  ", "20.00", true},
		{"WELCOME", "5.00", true},
		{"FIRSTORDER", "15.00", true},
		{"NEWUSER", "8.00", true},
		{"BOGUS", "0", false},
		{"", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			discount, ok := LookupPromo(tc.code)
			if ok != tc.ok {
				t.Fatalf("LookupPromo(%q) ok = %v, want %v", tc.code, ok, tc.ok)
			}
			if ok && !discount.Equal(amt(t, tc.discount)) {
				t.Fatalf("LookupPromo(%q) = %s, want %s", tc.code, discount, tc.discount)
			}
		})
	}
}

func TestClampQuantity(t *testing.T) {
	cases := []struct {
		requested int
		clamped   int
		adjusted  bool
		belowMin  bool
	}{
		{0, 1, true, true},
		{-5, 1, true, true},
		{1, 1, false, false},
		{50, 50, false, false},
		{99, 99, false, false},
		{100, 99, true, false},
		{1000, 99, true, false},
	}
	for _, tc := range cases {
		clamped, adjusted, belowMin := ClampQuantity(tc.requested)
		if clamped != tc.clamped || adjusted != tc.adjusted || belowMin != tc.belowMin {
			t.Errorf("ClampQuantity(%d) = (%d, %v, %v), want (%d, %v, %v)",
				tc.requested, clamped, adjusted, belowMin, tc.clamped, tc.adjusted, tc.belowMin)
		}
	}
}

func TestLineTotalRounds(t *testing.T) {
	item := LineItem{UnitPrice: amt(t, "3.33"), Quantity: 3}
	if got := item.LineTotal(); !got.Equal(amt(t, "9.99")) {
		t.Fatalf("LineTotal = %s, want 9.99", got)
	}
}
