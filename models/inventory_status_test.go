package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeSku(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"abc-123", "ABC-123"},
		{"  wdg-001  ", "WDG-001"},
		{"ALREADY", "ALREADY"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSku(tc.in); got != tc.expected {
			t.Fatalf("NormalizeSku(%q) expected %q, got %q", tc.in, tc.expected, got)
		}
	}
}

func TestStockStatus(t *testing.T) {
	cases := []struct {
		name     string
		item     Inventory
		expected StockStatus
	}{
		{"out of stock", Inventory{CurrentStock: 0, MinStock: 10, ReorderPoint: 20}, StockStatusOutOfStock},
		{"critical at min", Inventory{CurrentStock: 10, MinStock: 10, ReorderPoint: 20}, StockStatusCritical},
		{"critical below min", Inventory{CurrentStock: 3, MinStock: 10, ReorderPoint: 20}, StockStatusCritical},
		{"low at reorder point", Inventory{CurrentStock: 20, MinStock: 10, ReorderPoint: 20}, StockStatusLowStock},
		{"low between", Inventory{CurrentStock: 15, MinStock: 10, ReorderPoint: 20}, StockStatusLowStock},
		{"in stock", Inventory{CurrentStock: 21, MinStock: 10, ReorderPoint: 20}, StockStatusInStock},
	}
	for _, tc := range cases {
		if got := tc.item.StockStatus(); got != tc.expected {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.expected, got)
		}
	}
}

func TestStockItemStatusIsValid(t *testing.T) {
	cases := []struct {
		status StockItemStatus
		valid  bool
	}{
		{StockItemStatusActive, true},
		{StockItemStatusInactive, true},
		{StockItemStatusDiscontinued, true},
		{StockItemStatus("archived"), false},
		{StockItemStatus(""), false},
	}
	for _, tc := range cases {
		if got := tc.status.IsValid(); got != tc.valid {
			t.Fatalf("IsValid(%q) expected %v, got %v", tc.status, tc.valid, got)
		}
	}
}

func TestNeedsReorder(t *testing.T) {
	if !(&Inventory{CurrentStock: 20, ReorderPoint: 20}).NeedsReorder() {
		t.Fatal("at reorder point should need reorder")
	}
	if (&Inventory{CurrentStock: 21, ReorderPoint: 20}).NeedsReorder() {
		t.Fatal("above reorder point should not need reorder")
	}
}

func TestProfitMargin(t *testing.T) {
	item := &Inventory{
		CostPrice:    decimal.NewFromInt(60),
		SellingPrice: decimal.NewFromInt(100),
	}
	if got := item.ProfitMargin().String(); got != "40" {
		t.Fatalf("margin expected 40, got %s", got)
	}

	free := &Inventory{CostPrice: decimal.NewFromInt(5)}
	if !free.ProfitMargin().IsZero() {
		t.Fatal("zero selling price should yield zero margin")
	}
}
