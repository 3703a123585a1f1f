package repo

import (
	"errors"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStaleState        = errors.New("row changed concurrently")
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return err
	}
	// Category names are unique regardless of case.
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_name_lower ON categories (LOWER(name))").Error
}
