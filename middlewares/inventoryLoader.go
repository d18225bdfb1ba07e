package middlewares

import (
	"context"

	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type inventoryReader struct {
	db *gorm.DB
}

func (r *inventoryReader) getInventories(ctx context.Context, ids []int) []*dataloader.Result[*models.Inventory] {
	var results []*models.Inventory
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Inventory](len(ids), err)
	}

	return generateLoaderResults(results, ids, func(i *models.Inventory) int { return i.ID })
}

func GetInventoryItem(ctx context.Context, id int) (*models.Inventory, error) {
	loaders := For(ctx)
	return loaders.InventoryLoader.Load(ctx, id)()
}

func GetInventoryItems(ctx context.Context, ids []int) ([]*models.Inventory, []error) {
	loaders := For(ctx)
	return loaders.InventoryLoader.LoadMany(ctx, ids)()
}
