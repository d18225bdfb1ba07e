package middlewares

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/dataloader/v7"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	SupplierLoader  *dataloader.Loader[int, *models.Supplier]
	InventoryLoader *dataloader.Loader[int, *models.Inventory]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	supplierReader := &supplierReader{db: conn}
	inventoryReader := &inventoryReader{db: conn}

	loaders := &Loaders{
		SupplierLoader: dataloader.NewBatchedLoader(
			supplierReader.getSuppliers,
			dataloader.WithWait[int, *models.Supplier](time.Millisecond),
		),
		InventoryLoader: dataloader.NewBatchedLoader(
			inventoryReader.getInventories,
			dataloader.WithWait[int, *models.Inventory](time.Millisecond),
		),
	}
	return loaders
}

func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results, keyed by keyOf.
// ids with no matching row get a nil Data, not an error.
func generateLoaderResults[T any](results []*T, ids []int, keyOf func(*T) int) []*dataloader.Result[*T] {
	resultMap := make(map[int]*T, len(results))
	for _, result := range results {
		resultMap[keyOf(result)] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: resultMap[id]})
	}
	return loaderResults
}
