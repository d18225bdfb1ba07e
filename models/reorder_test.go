package models

import "testing"

func TestSuggestedQuantity(t *testing.T) {
	cases := []struct {
		name         string
		item         Inventory
		minimumOrder int
		expected     int
	}{
		{"reorder gap plus buffer", Inventory{ReorderPoint: 20, CurrentStock: 5}, 0, 25},
		{"floors at minimum order", Inventory{ReorderPoint: 20, CurrentStock: 18}, 50, 50},
		{"floors at one without minimum", Inventory{ReorderPoint: 5, CurrentStock: 20}, 0, 1},
		{"exactly at reorder point", Inventory{ReorderPoint: 20, CurrentStock: 20}, 0, 10},
		{"minimum order below computed", Inventory{ReorderPoint: 20, CurrentStock: 0}, 5, 30},
	}
	for _, tc := range cases {
		if got := suggestedQuantity(&tc.item, tc.minimumOrder); got != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}

func TestSuggestionUrgency(t *testing.T) {
	critical := &Inventory{CurrentStock: 3, MinStock: 10}
	if got := suggestionUrgency(critical); got != SuggestionUrgencyCritical {
		t.Fatalf("expected critical, got %s", got)
	}
	low := &Inventory{CurrentStock: 15, MinStock: 10}
	if got := suggestionUrgency(low); got != SuggestionUrgencyLow {
		t.Fatalf("expected low, got %s", got)
	}
}

func TestAlertUrgency(t *testing.T) {
	cases := []struct {
		item     Inventory
		expected AlertUrgency
	}{
		{Inventory{CurrentStock: 0, MinStock: 10}, AlertUrgencyCritical},
		{Inventory{CurrentStock: 10, MinStock: 10}, AlertUrgencyCritical},
		{Inventory{CurrentStock: 15, MinStock: 10}, AlertUrgencyWarning},
	}
	for _, tc := range cases {
		if got := alertUrgency(&tc.item); got != tc.expected {
			t.Fatalf("stock=%d min=%d expected %s, got %s", tc.item.CurrentStock, tc.item.MinStock, tc.expected, got)
		}
	}
}

func TestDaysUntilOutOfStock(t *testing.T) {
	cases := []struct {
		name         string
		currentStock int
		totalSold    int
		expected     int
	}{
		{"no sales history", 50, 0, 0},
		{"already out", 0, 90, 0},
		{"one per day", 10, 30, 10},
		{"rounds up", 10, 90, 4},
		{"slow mover", 100, 1, 3000},
	}
	for _, tc := range cases {
		if got := daysUntilOutOfStock(tc.currentStock, tc.totalSold); got != tc.expected {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.expected, got)
		}
	}
}
