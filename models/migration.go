package models

import (
	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
)

func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&User{},
		&Supplier{},
		&Inventory{},
		&Purchase{},
		&PurchaseItem{},
		&Transaction{},
	)
	utils.ErrorPanic(err)
}
