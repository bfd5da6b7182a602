package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/motorepuestos/shop/internal/models"
	"github.com/motorepuestos/shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection of an in-memory sqlite DB sees its own
	// database; a single connection keeps the schema visible.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return repo.New(db)
}

func seedProduct(t *testing.T, r *repo.GormRepo, mutate func(*models.Product)) *models.Product {
	t.Helper()

	p := &models.Product{
		Name:     "Kit de pistones 150cc",
		SKU:      "MOT-KP-150",
		Price:    decimal.NewFromInt(100),
		Brand:    "Italika",
		Category: models.CategoryMotor,
		Stock:    10,
	}
	if mutate != nil {
		mutate(p)
	}
	require.NoError(t, r.DB.Create(p).Error)
	return p
}
