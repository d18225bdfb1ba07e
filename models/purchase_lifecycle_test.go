package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatPurchaseNumber(t *testing.T) {
	cases := []struct {
		seq      int64
		expected string
	}{
		{1, "PO-000001"},
		{42, "PO-000042"},
		{999999, "PO-999999"},
		{1000000, "PO-1000000"},
	}
	for _, tc := range cases {
		if got := FormatPurchaseNumber(tc.seq); got != tc.expected {
			t.Fatalf("FormatPurchaseNumber(%d) expected %s, got %s", tc.seq, tc.expected, got)
		}
	}
}

func TestComputePurchaseTotals_RecomputesLineTotals(t *testing.T) {
	items := []*PurchaseItem{
		{Quantity: 3, UnitCost: decimal.NewFromFloat(10.50), TotalCost: decimal.NewFromInt(999)},
		{Quantity: 2, UnitCost: decimal.NewFromInt(5)},
	}
	subtotal, total := computePurchaseTotals(items, decimal.NewFromFloat(2.25), decimal.NewFromInt(7))

	if items[0].TotalCost.String() != "31.5" {
		t.Fatalf("line 0 total expected 31.5, got %s", items[0].TotalCost.String())
	}
	if items[1].TotalCost.String() != "10" {
		t.Fatalf("line 1 total expected 10, got %s", items[1].TotalCost.String())
	}
	if subtotal.String() != "41.5" {
		t.Fatalf("subtotal expected 41.5, got %s", subtotal.String())
	}
	if total.String() != "50.75" {
		t.Fatalf("total expected 50.75, got %s", total.String())
	}
}

func TestUnitCostOrFallback(t *testing.T) {
	fallback := decimal.NewFromInt(50)
	zero := decimal.Zero
	explicit := decimal.NewFromFloat(12.5)

	cases := []struct {
		name     string
		price    *decimal.Decimal
		expected string
	}{
		{"absent falls back to item cost", nil, "50"},
		{"explicit zero stays zero", &zero, "0"},
		{"explicit price kept", &explicit, "12.5"},
	}
	for _, tc := range cases {
		if got := unitCostOrFallback(tc.price, fallback); got.String() != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got.String())
		}
	}
}

func TestComputePurchaseTotals_FreeGoodsLine(t *testing.T) {
	zero := decimal.Zero
	items := []*PurchaseItem{
		{Quantity: 2, UnitCost: unitCostOrFallback(&zero, decimal.NewFromInt(50))},
	}
	subtotal, total := computePurchaseTotals(items, decimal.Zero, decimal.Zero)
	if !subtotal.IsZero() || !total.IsZero() {
		t.Fatalf("free goods line must not inherit the item cost; got subtotal=%s total=%s", subtotal, total)
	}
}

func TestComputePurchaseTotals_TwoLineOrder(t *testing.T) {
	items := []*PurchaseItem{
		{Quantity: 5, UnitCost: decimal.NewFromInt(10)},
		{Quantity: 2, UnitCost: decimal.NewFromInt(50)},
	}
	subtotal, total := computePurchaseTotals(items, decimal.NewFromInt(5), decimal.NewFromInt(10))
	if subtotal.String() != "150" {
		t.Fatalf("subtotal expected 150, got %s", subtotal.String())
	}
	if total.String() != "165" {
		t.Fatalf("total expected 165, got %s", total.String())
	}
}

func TestComputePurchaseTotals_Empty(t *testing.T) {
	subtotal, total := computePurchaseTotals(nil, decimal.Zero, decimal.Zero)
	if !subtotal.IsZero() || !total.IsZero() {
		t.Fatalf("expected zero totals, got subtotal=%s total=%s", subtotal, total)
	}
}

func TestPurchaseStatusTransitions(t *testing.T) {
	cases := []struct {
		from    PurchaseStatus
		to      PurchaseStatus
		allowed bool
	}{
		{PurchaseStatusPending, PurchaseStatusOrdered, true},
		{PurchaseStatusPending, PurchaseStatusReceived, true},
		{PurchaseStatusPending, PurchaseStatusCancelled, true},
		{PurchaseStatusOrdered, PurchaseStatusReceived, true},
		{PurchaseStatusOrdered, PurchaseStatusCancelled, true},
		{PurchaseStatusOrdered, PurchaseStatusPending, false},
		{PurchaseStatusReceived, PurchaseStatusCancelled, false},
		{PurchaseStatusReceived, PurchaseStatusPending, false},
		{PurchaseStatusCancelled, PurchaseStatusOrdered, false},
		{PurchaseStatusCancelled, PurchaseStatusReceived, false},
		{PurchaseStatusPending, PurchaseStatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestPurchaseStatusIsValid(t *testing.T) {
	for _, s := range []PurchaseStatus{PurchaseStatusPending, PurchaseStatusOrdered, PurchaseStatusReceived, PurchaseStatusCancelled} {
		if !s.IsValid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	if PurchaseStatus("shipped").IsValid() {
		t.Fatal("shipped should not be valid")
	}
}
