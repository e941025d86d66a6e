package postgres

import (
	"workorders/internal/adapters/out/postgres/operatorrepo"
	"workorders/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates the orders, order_stages and operators tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.StageDTO{},
		&operatorrepo.OperatorDTO{},
	)
}

// Truncate empties every table. Meant for tests.
func Truncate(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE order_stages, orders, operators").Error
}
