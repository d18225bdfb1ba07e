package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestApplyReceiptToInventory(t *testing.T) {
	receivedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	item := &Inventory{CurrentStock: 5, TotalPurchased: 40}
	line := &PurchaseItem{Quantity: 25}

	applyReceiptToInventory(item, line, receivedAt)

	if item.CurrentStock != 30 {
		t.Fatalf("current stock expected 30, got %d", item.CurrentStock)
	}
	if item.TotalPurchased != 65 {
		t.Fatalf("total purchased expected 65, got %d", item.TotalPurchased)
	}
	if item.LastRestocked == nil || !item.LastRestocked.Equal(receivedAt) {
		t.Fatalf("last restocked expected %v, got %v", receivedAt, item.LastRestocked)
	}
}

func TestBuildPurchaseTransaction(t *testing.T) {
	purchase := &Purchase{ID: 7, PurchaseNumber: "PO-000007"}
	line := &PurchaseItem{InventoryId: 12, Quantity: 4, UnitCost: decimal.NewFromFloat(2.5)}

	txn := buildPurchaseTransaction(purchase, line, 3, "Back Room")

	if txn.Type != TransactionTypePurchase {
		t.Fatalf("type expected purchase, got %s", txn.Type)
	}
	if txn.InventoryId != 12 {
		t.Fatalf("inventory id expected 12, got %d", txn.InventoryId)
	}
	if txn.Quantity != 4 {
		t.Fatalf("quantity expected 4, got %d", txn.Quantity)
	}
	if txn.TotalPrice.String() != "10" {
		t.Fatalf("total price expected 10, got %s", txn.TotalPrice.String())
	}
	if txn.Reference != "PO-000007" || txn.ReferenceId != 7 {
		t.Fatalf("reference expected PO-000007/7, got %s/%d", txn.Reference, txn.ReferenceId)
	}
	if txn.CreatedBy != 3 {
		t.Fatalf("created by expected 3, got %d", txn.CreatedBy)
	}
	if txn.Location != "Back Room" {
		t.Fatalf("location expected Back Room, got %s", txn.Location)
	}
}
