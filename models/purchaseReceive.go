package models

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// applyReceiptToInventory mutates the in-memory item for one received line.
// The caller persists it.
func applyReceiptToInventory(item *Inventory, line *PurchaseItem, receivedAt time.Time) {
	item.CurrentStock += line.Quantity
	item.TotalPurchased += line.Quantity
	item.LastRestocked = &receivedAt
}

// buildPurchaseTransaction derives the ledger row for one received line.
func buildPurchaseTransaction(purchase *Purchase, line *PurchaseItem, actor int, location string) Transaction {
	return Transaction{
		InventoryId: line.InventoryId,
		Type:        TransactionTypePurchase,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitCost,
		TotalPrice:  line.UnitCost.Mul(decimal.NewFromInt(int64(line.Quantity))),
		Reference:   purchase.PurchaseNumber,
		ReferenceId: purchase.ID,
		CreatedBy:   actor,
		Location:    location,
	}
}

// receivePurchaseItems reconciles stock for every line of a received order
// inside the caller's transaction. Lines whose inventory row has been
// deleted since ordering are logged and skipped so the rest of the order
// still lands.
func receivePurchaseItems(ctx context.Context, tx *gorm.DB, purchase *Purchase, receivedAt time.Time) error {
	actor := actorId(ctx)

	for _, line := range purchase.Items {
		var item Inventory
		err := tx.First(&item, line.InventoryId).Error
		if err == gorm.ErrRecordNotFound {
			config.GetLogger().WithFields(map[string]interface{}{
				"module":          "models",
				"function":        "receivePurchaseItems",
				"purchase_number": purchase.PurchaseNumber,
				"inventory_id":    line.InventoryId,
			}).Warn("inventory row missing, line skipped")
			continue
		}
		if err != nil {
			return err
		}

		applyReceiptToInventory(&item, line, receivedAt)
		if err := tx.Model(&Inventory{}).Where("id = ?", item.ID).
			Updates(map[string]interface{}{
				"current_stock":   item.CurrentStock,
				"total_purchased": item.TotalPurchased,
				"last_restocked":  receivedAt,
			}).Error; err != nil {
			return err
		}

		txn := buildPurchaseTransaction(purchase, line, actor, item.Location)
		if err := appendTransaction(tx, &txn); err != nil {
			return err
		}
		_ = utils.RemoveRedisItem[Inventory](item.ID)
	}

	return refreshSupplierOrderStats(tx, purchase, receivedAt)
}

// publishReceivedEvents emits one stock event per received line when the
// flag is on. Failures only log; the receipt has already committed.
func publishReceivedEvents(ctx context.Context, purchase *Purchase) {
	if !config.PublishStockEvents() {
		return
	}
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	occurredAt := Now()
	if purchase.ReceivedDate != nil {
		occurredAt = *purchase.ReceivedDate
	}

	for _, line := range purchase.Items {
		sku := ""
		if line.Inventory != nil {
			sku = line.Inventory.Sku
		}
		msg := config.StockEventMessage{
			EventType:     "purchase.received",
			ReferenceId:   purchase.ID,
			ReferenceType: "purchase",
			InventoryId:   line.InventoryId,
			Sku:           sku,
			Quantity:      line.Quantity,
			OccurredAt:    occurredAt,
			CorrelationId: correlationId,
		}
		if err := config.PublishStockEvent(msg); err != nil {
			config.LogError(config.GetLogger(), "models", "publishReceivedEvents", purchase.PurchaseNumber, msg, err)
		}
	}
}
