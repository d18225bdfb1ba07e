package models

import (
	"context"
	"math"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"github.com/shopspring/decimal"
)

type SuggestionUrgency string

const (
	SuggestionUrgencyCritical SuggestionUrgency = "critical"
	SuggestionUrgencyLow      SuggestionUrgency = "low"
)

type AlertUrgency string

const (
	AlertUrgencyCritical AlertUrgency = "critical"
	AlertUrgencyWarning  AlertUrgency = "warning"
)

// ReorderBuffer pads suggested quantities so one delivery clears the
// reorder point with headroom.
const ReorderBuffer = 10

type ReorderSuggestion struct {
	Inventory         *Inventory        `json:"inventory"`
	SuggestedQuantity int               `json:"suggested_quantity"`
	Urgency           SuggestionUrgency `json:"urgency"`
	Supplier          *Supplier         `json:"supplier,omitempty"`
	EstimatedCost     string            `json:"estimated_cost"`
}

type StockAlert struct {
	Inventory           *Inventory   `json:"inventory"`
	Urgency             AlertUrgency `json:"urgency"`
	DaysUntilOutOfStock int          `json:"days_until_out_of_stock"`
}

// suggestedQuantity is floored at the supplier minimum order, or 1 when no
// minimum is known.
func suggestedQuantity(item *Inventory, minimumOrder int) int {
	quantity := item.ReorderPoint - item.CurrentStock + ReorderBuffer
	floor := minimumOrder
	if floor <= 0 {
		floor = 1
	}
	if quantity < floor {
		return floor
	}
	return quantity
}

func suggestionUrgency(item *Inventory) SuggestionUrgency {
	if item.CurrentStock <= item.MinStock {
		return SuggestionUrgencyCritical
	}
	return SuggestionUrgencyLow
}

func alertUrgency(item *Inventory) AlertUrgency {
	if item.CurrentStock == 0 || item.CurrentStock <= item.MinStock {
		return AlertUrgencyCritical
	}
	return AlertUrgencyWarning
}

// daysUntilOutOfStock projects runway from the trailing 30-day sales rate.
// Zero means no sales history or already out, not imminent stockout.
func daysUntilOutOfStock(currentStock int, totalSold int) int {
	if totalSold == 0 || currentStock == 0 {
		return 0
	}
	dailyRate := float64(totalSold) / 30.0
	return int(math.Ceil(float64(currentStock) / dailyRate))
}

func GetReorderSuggestions(ctx context.Context) ([]*ReorderSuggestion, error) {
	items, err := GetLowStockItems(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]*ReorderSuggestion, 0, len(items))
	for _, item := range items {
		minimumOrder := 0
		if item.Supplier != nil {
			minimumOrder = item.Supplier.MinimumOrder
		}
		quantity := suggestedQuantity(item, minimumOrder)
		cost := item.CostPrice.Mul(decimal.NewFromInt(int64(quantity)))

		suggestions = append(suggestions, &ReorderSuggestion{
			Inventory:         item,
			SuggestedQuantity: quantity,
			Urgency:           suggestionUrgency(item),
			Supplier:          item.Supplier,
			EstimatedCost:     cost.StringFixed(2),
		})
	}
	return suggestions, nil
}

func GetStockAlerts(ctx context.Context) ([]*StockAlert, error) {
	db := config.GetDB()
	var items []*Inventory
	err := db.WithContext(ctx).
		Where("status = ? AND current_stock <= reorder_point", StockItemStatusActive).
		Order("current_stock ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	alerts := make([]*StockAlert, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, &StockAlert{
			Inventory:           item,
			Urgency:             alertUrgency(item),
			DaysUntilOutOfStock: daysUntilOutOfStock(item.CurrentStock, item.TotalSold),
		})
	}
	return alerts, nil
}
